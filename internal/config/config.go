package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"WeekdaySentinel/internal/backtest"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider       string `yaml:"provider"`
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Backtest struct {
		Instrument      string   `yaml:"instrument"`
		Days            *int     `yaml:"days"`
		PurchaseDay     string   `yaml:"purchase_day"`
		SellDay         string   `yaml:"sell_day"`
		StartingBalance *float64 `yaml:"starting_balance"`
		TaxRate         *float64 `yaml:"tax_rate"`
		PurchasePrice   string   `yaml:"purchase_price"`
		SellPrice       string   `yaml:"sell_price"`
		RolloverDay     string   `yaml:"rollover_day"`
		GroupBy         string   `yaml:"group_by"`
	} `yaml:"backtest"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Schedule struct {
		Cron       string `yaml:"cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// LoadEnvFile loads a .env file into the process environment if it exists.
// Variables already set are not overridden.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("DATA_PROVIDER", &c.DataSource.Provider)
	setString("DATA_BASE_URL", &c.DataSource.BaseURL)
	setString("CRYPTOCOMPARE_API_KEY", &c.DataSource.APIKey)
	setString("INSTRUMENT", &c.Backtest.Instrument)
	setString("PURCHASE_DAY", &c.Backtest.PurchaseDay)
	setString("SELL_DAY", &c.Backtest.SellDay)
	setString("SQLITE_PATH", &c.Cache.SQLitePath)
	setString("CRON_SCHEDULE", &c.Schedule.Cron)
	setString("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	setString("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	setString("METRICS_ADDR", &c.Metrics.Addr)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("HTTPS_PROXY", &c.Proxy)

	if v := os.Getenv("DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse DAYS: %w", err)
		}
		c.Backtest.Days = &n
	}
	if v := os.Getenv("STARTING_BALANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse STARTING_BALANCE: %w", err)
		}
		c.Backtest.StartingBalance = &f
	}
	if v := os.Getenv("TAX_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse TAX_RATE: %w", err)
		}
		c.Backtest.TaxRate = &f
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		c.Schedule.RunOnStart = strings.EqualFold(v, "true")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "cryptocompare"
	}
	if c.DataSource.TimeoutSeconds == 0 {
		c.DataSource.TimeoutSeconds = 30
	}
	if c.Backtest.Instrument == "" {
		c.Backtest.Instrument = "litecoin"
	}
	if c.Backtest.Days == nil {
		days := 60
		c.Backtest.Days = &days
	}
	if c.Backtest.PurchaseDay == "" {
		c.Backtest.PurchaseDay = "monday"
	}
	if c.Backtest.SellDay == "" {
		c.Backtest.SellDay = "friday"
	}
	if c.Backtest.StartingBalance == nil {
		balance := 100.0
		c.Backtest.StartingBalance = &balance
	}
	if c.Backtest.TaxRate == nil {
		rate := 0.004
		c.Backtest.TaxRate = &rate
	}
	if c.Backtest.PurchasePrice == "" {
		c.Backtest.PurchasePrice = "high"
	}
	if c.Backtest.SellPrice == "" {
		c.Backtest.SellPrice = "low"
	}
	if c.Backtest.RolloverDay == "" {
		c.Backtest.RolloverDay = "sunday"
	}
	if c.Backtest.GroupBy == "" {
		c.Backtest.GroupBy = "trading_week"
	}
	if c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = "data/prices.db"
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// SetDays overrides the fetch window.
func (c *Config) SetDays(days int) {
	c.Backtest.Days = &days
}

// SetStartingBalance overrides the starting balance, including an explicit zero.
func (c *Config) SetStartingBalance(balance float64) {
	c.Backtest.StartingBalance = &balance
}

// SetTaxRate overrides the tax rate, including an explicit zero.
func (c *Config) SetTaxRate(rate float64) {
	c.Backtest.TaxRate = &rate
}

// Timeout returns the HTTP timeout for price sources.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long fetched prices are reused. Negative values disable reuse.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// Params parses the backtest section into run parameters.
func (c *Config) Params() (backtest.Params, error) {
	p := backtest.DefaultParams()
	if c.Backtest.Days != nil {
		p.Days = *c.Backtest.Days
	}
	if c.Backtest.StartingBalance != nil {
		p.StartingBalance = *c.Backtest.StartingBalance
	}
	if c.Backtest.TaxRate != nil {
		p.TaxRate = *c.Backtest.TaxRate
	}
	return backtest.ParamsFromNames(p, backtest.Names{
		Instrument:    c.Backtest.Instrument,
		PurchaseDay:   c.Backtest.PurchaseDay,
		SellDay:       c.Backtest.SellDay,
		PurchasePrice: c.Backtest.PurchasePrice,
		SellPrice:     c.Backtest.SellPrice,
		RolloverDay:   c.Backtest.RolloverDay,
		GroupBy:       c.Backtest.GroupBy,
	})
}

// Validate checks that all fields are usable. Backtest parameter errors are
// reported as backtest.ConfigurationError.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "cryptocompare", "yahoo":
	default:
		return fmt.Errorf("data_source.provider must be cryptocompare or yahoo, got %q", c.DataSource.Provider)
	}
	if c.DataSource.TimeoutSeconds < 0 {
		return fmt.Errorf("data_source.timeout_seconds must not be negative")
	}
	p, err := c.Params()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
