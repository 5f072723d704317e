package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "5d", cfg.DataSource.Period)
	assert.Equal(t, "15m", cfg.DataSource.Interval)
	assert.Equal(t, "XAUUSD", cfg.Account.Pair)
	assert.Equal(t, 1000.0, cfg.Account.Balance)
	assert.Equal(t, 2.0, cfg.Account.RiskPercent)
	assert.Equal(t, []string{"XAUUSD"}, cfg.Schedule.Pairs)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0, cfg.DataSource.MaxRetries)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
account:
  pair: eurusd
  balance: 0
  risk_percent: 0
data_source:
  interval: 1h
schedule:
  pairs: [EURUSD, USDJPY]
`)
	t.Setenv("RISK_PERCENT", "5")
	t.Setenv("HTTP_ADDR", ":9000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eurusd", cfg.Account.Pair)
	assert.Equal(t, 0.0, cfg.Account.Balance, "explicit zero balance is kept")
	assert.Equal(t, 5.0, cfg.Account.RiskPercent)
	assert.Equal(t, "1h", cfg.DataSource.Interval)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Setenv("ACCOUNT_BALANCE", "lots")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown pair", func(c *Config) { c.Account.Pair = "BTCUSD" }},
		{"unknown watched pair", func(c *Config) { c.Schedule.Pairs = []string{"DOGE"} }},
		{"negative balance", func(c *Config) { c.Account.Balance = -1 }},
		{"risk too high", func(c *Config) { c.Account.RiskPercent = 11 }},
		{"negative retries", func(c *Config) { c.DataSource.MaxRetries = -1 }},
		{"bad chat id", func(c *Config) { c.Telegram.BotToken = "t"; c.Telegram.ChatID = "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_NegativeValuesReachValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{"yaml balance", "account:\n  balance: -5\n", nil},
		{"yaml risk", "account:\n  risk_percent: -3\n", nil},
		{"env balance", "", map[string]string{"ACCOUNT_BALANCE": "-1"}},
		{"env risk", "", map[string]string{"RISK_PERCENT": "-3"}},
		{"env balance NaN", "", map[string]string{"ACCOUNT_BALANCE": "NaN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(writeConfig(t, tt.yaml))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}
