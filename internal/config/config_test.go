package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeekdaySentinel/internal/backtest"
	"WeekdaySentinel/internal/model"
	"WeekdaySentinel/internal/pairing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "cryptocompare", cfg.DataSource.Provider)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "litecoin", cfg.Backtest.Instrument)
	assert.Equal(t, 60, *cfg.Backtest.Days)
	assert.Equal(t, "monday", cfg.Backtest.PurchaseDay)
	assert.Equal(t, "friday", cfg.Backtest.SellDay)
	assert.Equal(t, 100.0, *cfg.Backtest.StartingBalance)
	require.NotNil(t, cfg.Backtest.TaxRate)
	assert.Equal(t, 0.004, *cfg.Backtest.TaxRate)
	assert.Equal(t, "data/prices.db", cfg.Cache.SQLitePath)
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.NoError(t, cfg.Validate())

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, backtest.DefaultParams(), p)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
data_source:
  provider: yahoo
  timeout_seconds: 5
backtest:
  instrument: ETH
  days: 120
  purchase_day: Tuesday
  sell_day: thursday
  starting_balance: 1000
  tax_rate: 0
  purchase_price: close
  sell_price: close
  group_by: calendar_week
cache:
  ttl_minutes: -1
schedule:
  cron: "0 0 9 * * 1"
telegram:
  bot_token: abc
  chat_id: "42"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, "0 0 9 * * 1", cfg.Schedule.Cron)
	assert.Negative(t, cfg.CacheTTL())

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, model.Instrument("ETH"), p.Instrument)
	assert.Equal(t, 120, p.Days)
	assert.Equal(t, model.Tuesday, p.PurchaseDay)
	assert.Equal(t, model.Thursday, p.SellDay)
	assert.Equal(t, 1000.0, p.StartingBalance)
	assert.Equal(t, 0.0, p.TaxRate, "explicit zero tax is kept")
	assert.Equal(t, model.PricePolicy{Purchase: model.PriceClose, Sell: model.PriceClose}, p.Policy)
	assert.Equal(t, pairing.GroupByCalendarWeek, p.GroupBy)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INSTRUMENT", "solana")
	t.Setenv("DAYS", "14")
	t.Setenv("TAX_RATE", "0.01")
	t.Setenv("SELL_DAY", "Saturday")
	t.Setenv("RUN_ON_START", "true")
	t.Setenv("CRYPTOCOMPARE_API_KEY", "k")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "solana", cfg.Backtest.Instrument)
	assert.Equal(t, 14, *cfg.Backtest.Days)
	assert.Equal(t, 0.01, *cfg.Backtest.TaxRate)
	assert.Equal(t, "Saturday", cfg.Backtest.SellDay)
	assert.True(t, cfg.Schedule.RunOnStart)
	assert.Equal(t, "k", cfg.DataSource.APIKey)
}

func TestLoad_ExplicitZeroIsRejected(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		env   map[string]string
		field string
	}{
		{"yaml balance", "backtest:\n  starting_balance: 0\n", nil, "starting_balance"},
		{"yaml days", "backtest:\n  days: 0\n", nil, "days"},
		{"env balance", "", map[string]string{"STARTING_BALANCE": "0"}, "starting_balance"},
		{"env days", "", map[string]string{"DAYS": "0"}, "days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(writeFile(t, "config.yaml", tt.yaml))
			require.NoError(t, err)

			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, backtest.IsConfigurationError(err))
			assert.Contains(t, err.Error(), tt.field)

			p, err := cfg.Params()
			require.NoError(t, err)
			assert.Error(t, p.Validate())
		})
	}
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Setenv("DAYS", "many")
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "backtest: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantConfig bool
	}{
		{"bad provider", func(c *Config) { c.DataSource.Provider = "binance" }, false},
		{"bad weekday", func(c *Config) { c.Backtest.PurchaseDay = "mon" }, true},
		{"negative balance", func(c *Config) { c.SetStartingBalance(-1) }, true},
		{"zero balance", func(c *Config) { c.SetStartingBalance(0) }, true},
		{"zero days", func(c *Config) { c.SetDays(0) }, true},
		{"tax too high", func(c *Config) { c.SetTaxRate(1.5) }, true},
		{"bad price field", func(c *Config) { c.Backtest.SellPrice = "mid" }, true},
		{"telegram half set", func(c *Config) { c.Telegram.BotToken = "x" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.wantConfig, backtest.IsConfigurationError(err))
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, ".env", "WS_TEST_ONLY_VAR=from-dotenv\n")
	t.Setenv("WS_TEST_ONLY_VAR", "")
	os.Unsetenv("WS_TEST_ONLY_VAR")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-dotenv", os.Getenv("WS_TEST_ONLY_VAR"))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, LoadEnvFile(""))
}
