package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPrefix = "CONSOLE_"

	// DefaultEnvFile is read by LoadConfig unless CONSOLE_ENV_FILE names
	// another file.
	DefaultEnvFile = ".env"
)

// LoadDotEnv copies the variables of a dotenv file into the process
// environment. Variables that are already set win. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays cfg with CONSOLE_* variables. Durations accept Go
// duration strings ("20s").
func parseEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	get := func(name string) string { return getenv(envPrefix + name) }

	setString(&cfg.APIBaseURL, get("API_BASE_URL"))
	setString(&cfg.IdentityBaseURL, get("IDENTITY_BASE_URL"))
	setString(&cfg.IdentityAPIKey, get("IDENTITY_API_KEY"))
	setString(&cfg.BotCheckToken, get("BOT_CHECK_TOKEN"))
	setString(&cfg.CountryCode, get("COUNTRY_CODE"))
	setString(&cfg.DBPath, get("DB_PATH"))
	setString(&cfg.LogLevel, get("LOG_LEVEL"))
	setString(&cfg.LogFormat, get("LOG_FORMAT"))

	for name, dst := range map[string]*time.Duration{
		"REQUEST_TIMEOUT":       &cfg.RequestTimeout,
		"ONLINE_CHECK_INTERVAL": &cfg.OnlineCheckInterval,
		"NOTICE_TTL":            &cfg.NoticeTTL,
	} {
		v := get(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
	}
	return nil
}
