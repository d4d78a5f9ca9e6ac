package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vendorconsole/internal/flagx"
	"github.com/dmitrijs2005/vendorconsole/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// use timex.Duration so they can be written as "15s" or as nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	IdentityBaseURL     string         `json:"identity_base_url"`
	IdentityAPIKey      string         `json:"identity_api_key"`
	BotCheckToken       string         `json:"bot_check_token"`
	CountryCode         string         `json:"country_code"`
	DBPath              string         `json:"db_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	NoticeTTL           timex.Duration `json:"notice_ttl"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

// parseJson overlays cfg with the fields present in the JSON file given
// via -c or -config. Without either flag nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.IdentityBaseURL, jc.IdentityBaseURL)
	setString(&cfg.IdentityAPIKey, jc.IdentityAPIKey)
	setString(&cfg.BotCheckToken, jc.BotCheckToken)
	setString(&cfg.CountryCode, jc.CountryCode)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.NoticeTTL.Duration != 0 {
		cfg.NoticeTTL = jc.NoticeTTL.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
