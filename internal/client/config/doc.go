// Package config loads runtime configuration for the console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. CONSOLE_* environment variables. LoadConfig first merges a dotenv
//     file (.env, or the file named by CONSOLE_ENV_FILE) into the
//     environment without overriding variables that are already set.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL
//	-k string   identity provider API key
//	-d string   local database path
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://accountsoft.onrender.com",
//	  "identity_api_key": "...",
//	  "bot_check_token": "...",
//	  "country_code": "+91",
//	  "db_path": "console.db",
//	  "request_timeout": "15s",
//	  "online_check_interval": "10s",
//	  "notice_ttl": "5s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
