package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/client"
	"github.com/dmitrijs2005/vendorconsole/internal/client/login"
	"github.com/dmitrijs2005/vendorconsole/internal/client/verify"
	"github.com/dmitrijs2005/vendorconsole/internal/common"
	"github.com/dmitrijs2005/vendorconsole/internal/logging"
)

// Config holds runtime settings for the console.
//
// Durations are time.Duration values; flags take them in whole seconds.
type Config struct {
	APIBaseURL      string
	IdentityBaseURL string
	IdentityAPIKey  string
	BotCheckToken   string
	CountryCode     string

	DBPath string

	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	NoticeTTL           time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = client.DefaultBaseURL
	c.IdentityBaseURL = verify.DefaultIdentityBaseURL
	c.CountryCode = login.DefaultCountryCode
	c.DBPath = "console.db"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.NoticeTTL = login.DefaultNoticeTTL
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports the first setting the console cannot run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	if !strings.HasPrefix(c.CountryCode, "+") || len(c.CountryCode) < 2 ||
		!common.IsDigits(c.CountryCode[1:], len(c.CountryCode)-1) {
		return fmt.Errorf("invalid country code %q", c.CountryCode)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path is empty")
	}
	for name, d := range map[string]time.Duration{
		"request timeout":       c.RequestTimeout,
		"online check interval": c.OnlineCheckInterval,
		"notice ttl":            c.NoticeTTL,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Load builds a Config from defaults, then the JSON file named by -c or
// -config, then CONSOLE_* environment variables, then flags. Later sources
// take precedence over earlier ones.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment, after
// merging the dotenv file into the environment. It panics on invalid
// configuration.
func LoadConfig() *Config {
	envFile := os.Getenv(envPrefix + "ENV_FILE")
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := LoadDotEnv(envFile); err != nil {
		panic(err)
	}

	cfg, err := Load(os.Args[1:], os.Getenv)
	if err != nil {
		panic(err)
	}
	return cfg
}
