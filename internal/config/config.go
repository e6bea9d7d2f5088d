package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"StockOutlook/internal/calculator"
	"StockOutlook/internal/logger"
	"StockOutlook/internal/model"
	"StockOutlook/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		Enabled  bool   `yaml:"enabled"`
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider     string `yaml:"provider" default:"yahoo"` // yahoo, vstrader, alpaca, mock
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		APISecret    string `yaml:"api_secret"`
		LookbackDays int    `yaml:"lookback_days" default:"365"`
	} `yaml:"data_source"`
	Analysis struct {
		Indicators    calculator.Params `yaml:"indicators"`
		SupportWindow int               `yaml:"support_window" default:"30"`
		// Rules replaces whole decision-table rows per horizon ("short", "medium");
		// every key of a row must be given.
		Rules map[model.Horizon]strategy.Rules `yaml:"rules"`
	} `yaml:"analysis"`
	Watchlist struct {
		Symbols  []string `yaml:"symbols"`
		Horizons []string `yaml:"horizons" default:"[\"short\",\"medium\"]"`
		Cron     string   `yaml:"cron" default:"0 30 16 * * 1-5"`
	} `yaml:"watchlist"`
	Server struct {
		Disabled     bool          `yaml:"disabled"`
		Addr         string        `yaml:"addr" default:":8080"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
	} `yaml:"server"`
	Log   logger.Config `yaml:"log"`
	Proxy string        `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and finally struct-tag defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
		cfg.Telegram.Enabled = true
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.DataSource.APISecret = v
	}
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.LookbackDays = n
		}
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist.Symbols = splitList(v)
	}
	if v := os.Getenv("CRON_WATCHLIST"); v != "" {
		cfg.Watchlist.Cron = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WatchHorizons parses the configured watchlist horizons.
func (c *Config) WatchHorizons() ([]model.Horizon, error) {
	out := make([]model.Horizon, 0, len(c.Watchlist.Horizons))
	for _, s := range c.Watchlist.Horizons {
		h, err := model.ParseHorizon(s)
		if err != nil {
			return nil, fmt.Errorf("watchlist.horizons: %w", err)
		}
		out = append(out, h)
	}
	return out, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required")
		}
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for vstrader")
		}
	case "alpaca":
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return fmt.Errorf("data_source.api_key and api_secret are required for alpaca")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.LookbackDays <= 0 {
		return fmt.Errorf("data_source.lookback_days must be positive")
	}
	if err := c.Analysis.Indicators.Validate(); err != nil {
		return fmt.Errorf("analysis.indicators: %w", err)
	}
	if c.Analysis.SupportWindow <= 0 {
		return fmt.Errorf("analysis.support_window must be positive")
	}
	for h, r := range c.Analysis.Rules {
		if p, err := model.ParseHorizon(string(h)); err != nil || p != h {
			return fmt.Errorf("analysis.rules: key %q must be short or medium", h)
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("analysis.rules.%s: %w", h, err)
		}
	}
	if _, err := c.WatchHorizons(); err != nil {
		return err
	}
	if c.Server.Disabled && !c.Telegram.Enabled {
		return fmt.Errorf("nothing to run: enable server or telegram")
	}
	return nil
}
