package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"FxSignal/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Risk percentage bounds accepted from any input surface.
const (
	MinRiskPercent = 0
	MaxRiskPercent = 10
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	DataSource struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		Period         string `yaml:"period"`
		Interval       string `yaml:"interval"`
		RequestsPerSec int    `yaml:"requests_per_sec"`
		MaxRetries     int    `yaml:"max_retries"`
	} `yaml:"data_source"`
	Account struct {
		Pair        string  `yaml:"pair"`
		Balance     float64 `yaml:"balance"`
		RiskPercent float64 `yaml:"risk_percent"`
		StateFile   string  `yaml:"state_file"`
	} `yaml:"account"`
	Schedule struct {
		Cron  string   `yaml:"cron"`
		Pairs []string `yaml:"pairs"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env (if present) and the YAML file, then applies environment
// variable overrides and defaults. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	// An explicit zero balance or risk is valid, so presence is tracked
	// separately from the value.
	var set struct {
		Account struct {
			Balance     *float64 `yaml:"balance"`
			RiskPercent *float64 `yaml:"risk_percent"`
		} `yaml:"account"`
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if err := yaml.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	balanceSet := set.Account.Balance != nil
	riskSet := set.Account.RiskPercent != nil

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("SIGNAL_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DEFAULT_PAIR"); v != "" {
		cfg.Account.Pair = v
	}
	if v := os.Getenv("ACCOUNT_BALANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("ACCOUNT_BALANCE: %w", err)
		}
		cfg.Account.Balance = f
		balanceSet = true
	}
	if v := os.Getenv("RISK_PERCENT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("RISK_PERCENT: %w", err)
		}
		cfg.Account.RiskPercent = f
		riskSet = true
	}

	// Defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.DataSource.Period == "" {
		cfg.DataSource.Period = "5d"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "15m"
	}
	if cfg.DataSource.RequestsPerSec == 0 {
		cfg.DataSource.RequestsPerSec = 5
	}
	if cfg.Account.Pair == "" {
		cfg.Account.Pair = "XAUUSD"
	}
	if !balanceSet {
		cfg.Account.Balance = 1000
	}
	if !riskSet {
		cfg.Account.RiskPercent = 2
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 */15 * * * *"
	}
	if len(cfg.Schedule.Pairs) == 0 {
		cfg.Schedule.Pairs = []string{cfg.Account.Pair}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if _, err := model.LookupPair(c.Account.Pair); err != nil {
		return fmt.Errorf("account.pair: %w", err)
	}
	for _, p := range c.Schedule.Pairs {
		if _, err := model.LookupPair(p); err != nil {
			return fmt.Errorf("schedule.pairs: %w", err)
		}
	}
	if math.IsNaN(c.Account.Balance) || math.IsInf(c.Account.Balance, 0) || c.Account.Balance < 0 {
		return fmt.Errorf("account.balance must be a finite number >= 0")
	}
	if math.IsNaN(c.Account.RiskPercent) || c.Account.RiskPercent < MinRiskPercent || c.Account.RiskPercent > MaxRiskPercent {
		return fmt.Errorf("account.risk_percent must be within [%d, %d]", MinRiskPercent, MaxRiskPercent)
	}
	if c.DataSource.MaxRetries < 0 {
		return fmt.Errorf("data_source.max_retries must be >= 0")
	}
	if c.DataSource.RequestsPerSec < 0 {
		return fmt.Errorf("data_source.requests_per_sec must be >= 0")
	}
	if c.Telegram.BotToken != "" {
		if _, err := c.ChatID(); err != nil {
			return err
		}
	}
	return nil
}

// ChatID parses the configured Telegram chat id.
func (c *Config) ChatID() (int64, error) {
	id, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram.chat_id must be an integer: %w", err)
	}
	return id, nil
}
