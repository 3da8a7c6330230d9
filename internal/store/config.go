package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode string `yaml:"mode"`

	Catalog struct {
		SeedFile    string `yaml:"seed_file"`
		ProfileFile string `yaml:"profile_file"`
	} `yaml:"catalog"`

	Import struct {
		DefaultBroker string   `yaml:"default_broker"`
		MaxRows       int      `yaml:"max_rows"`
		DateFormats   []string `yaml:"date_formats"`
		MinConfidence float64  `yaml:"min_confidence"`
	} `yaml:"import"`

	API struct {
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RatePerSecond  float64 `yaml:"rate_per_second"`
		Burst          int     `yaml:"burst"`
		Breaker        struct {
			MaxRequests uint32 `yaml:"max_requests"`
			IntervalSec int    `yaml:"interval_seconds"`
			TimeoutSec  int    `yaml:"timeout_seconds"`
		} `yaml:"breaker"`
	} `yaml:"api"`

	OANDA struct {
		APIKeyEnv    string `yaml:"api_key_env"`
		AccountIDEnv string `yaml:"account_id_env"`
		BaseURL      string `yaml:"base_url"`
	} `yaml:"oanda"`

	Binance struct {
		APIKeyEnv    string `yaml:"api_key_env"`
		APISecretEnv string `yaml:"api_secret_env"`
		BaseURL      string `yaml:"base_url"`
	} `yaml:"binance"`

	Kite struct {
		APIKeyEnv      string `yaml:"api_key_env"`
		AccessTokenEnv string `yaml:"access_token_env"`
	} `yaml:"kite"`

	MT5 struct {
		FetchTimeoutSeconds int      `yaml:"fetch_timeout_seconds"`
		AllowedDomains      []string `yaml:"allowed_domains"`
	} `yaml:"mt5"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Import.MinConfidence < 0 || c.Import.MinConfidence > 1 {
		return fmt.Errorf("import.min_confidence must be between 0-1, got %.2f", c.Import.MinConfidence)
	}
	if c.API.RatePerSecond <= 0 {
		return fmt.Errorf("api.rate_per_second must be positive, got %.2f", c.API.RatePerSecond)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// Missing file runs on defaults.
		b = nil
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.Import.DefaultBroker == "" {
		c.Import.DefaultBroker = "generic"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 30
	}
	if c.API.RatePerSecond == 0 {
		c.API.RatePerSecond = 5
	}
	if c.API.Burst == 0 {
		c.API.Burst = 10
	}
	if c.API.Breaker.MaxRequests == 0 {
		c.API.Breaker.MaxRequests = 3
	}
	if c.API.Breaker.IntervalSec == 0 {
		c.API.Breaker.IntervalSec = 60
	}
	if c.API.Breaker.TimeoutSec == 0 {
		c.API.Breaker.TimeoutSec = 30
	}
	if c.OANDA.APIKeyEnv == "" {
		c.OANDA.APIKeyEnv = "OANDA_API_KEY"
	}
	if c.OANDA.AccountIDEnv == "" {
		c.OANDA.AccountIDEnv = "OANDA_ACCOUNT_ID"
	}
	if c.OANDA.BaseURL == "" {
		c.OANDA.BaseURL = "https://api-fxtrade.oanda.com"
	}
	if c.Binance.APIKeyEnv == "" {
		c.Binance.APIKeyEnv = "BINANCE_API_KEY"
	}
	if c.Binance.APISecretEnv == "" {
		c.Binance.APISecretEnv = "BINANCE_API_SECRET"
	}
	if c.Binance.BaseURL == "" {
		c.Binance.BaseURL = "https://api.binance.com"
	}
	if c.Kite.APIKeyEnv == "" {
		c.Kite.APIKeyEnv = "KITE_API_KEY"
	}
	if c.Kite.AccessTokenEnv == "" {
		c.Kite.AccessTokenEnv = "KITE_ACCESS_TOKEN"
	}
	if c.MT5.FetchTimeoutSeconds == 0 {
		c.MT5.FetchTimeoutSeconds = 20
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
