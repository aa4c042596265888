package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Region describes one market namespace: its cache partition and the
// regular trading session used by the market-hours gate.
type Region struct {
	Name        string `yaml:"name"`
	MarketOpen  string `yaml:"market_open"`  // "HH:MM" local time
	MarketClose string `yaml:"market_close"` // "HH:MM" local time
	Timezone    string `yaml:"timezone"`     // IANA name
}

// Config holds all application configuration.
type Config struct {
	DataDir    string `yaml:"data_dir"`
	DataSource struct {
		Provider     string `yaml:"provider"` // yahoo | stooq | mock
		StooqBaseURL string `yaml:"stooq_base_url"`
		StooqSuffix  string `yaml:"stooq_suffix"`
	} `yaml:"data_source"`
	Regions []Region `yaml:"regions"`
	Cache   struct {
		AdjCloseColumn bool `yaml:"adj_close_column"`
		TickerColumn   bool `yaml:"ticker_column"`
	} `yaml:"cache"`
	BackfillYears      int `yaml:"backfill_years"`
	MetadataTTLMinutes int `yaml:"metadata_ttl_minutes"`
	Schedule           struct {
		UpdateCron string `yaml:"update_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"http"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Cache.AdjCloseColumn = true
	cfg.Cache.TickerColumn = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.ListenAddr = v
	}
	if v := os.Getenv("UPDATE_CRON"); v != "" {
		cfg.Schedule.UpdateCron = v
	}
	if v := os.Getenv("BACKFILL_YEARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BackfillYears = n
		}
	}

	// Defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.StooqSuffix == "" {
		cfg.DataSource.StooqSuffix = ".us"
	}
	if len(cfg.Regions) == 0 {
		cfg.Regions = []Region{
			{Name: "US", MarketOpen: "09:30", MarketClose: "16:00", Timezone: "America/New_York"},
			{Name: "Canada", MarketOpen: "09:30", MarketClose: "16:00", Timezone: "America/Toronto"},
		}
	}
	for i := range cfg.Regions {
		if cfg.Regions[i].MarketOpen == "" {
			cfg.Regions[i].MarketOpen = "09:30"
		}
		if cfg.Regions[i].MarketClose == "" {
			cfg.Regions[i].MarketClose = "16:00"
		}
		if cfg.Regions[i].Timezone == "" {
			cfg.Regions[i].Timezone = "America/New_York"
		}
	}
	if cfg.BackfillYears == 0 {
		cfg.BackfillYears = 5
	}
	if cfg.MetadataTTLMinutes == 0 {
		cfg.MetadataTTLMinutes = 10
	}
	if cfg.Schedule.UpdateCron == "" {
		// Weekdays shortly after the US close.
		cfg.Schedule.UpdateCron = "0 30 16 * * 1-5"
	}
	if cfg.HTTP.ListenAddr == "" {
		cfg.HTTP.ListenAddr = ":8080"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch c.DataSource.Provider {
	case "yahoo", "stooq", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo, stooq, or mock, got %q", c.DataSource.Provider)
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one region is required")
	}
	seen := make(map[string]bool)
	for _, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("region name must not be empty")
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate region %q", r.Name)
		}
		seen[r.Name] = true
	}
	if c.BackfillYears < 0 {
		return fmt.Errorf("backfill_years must not be negative")
	}
	return nil
}
