package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"VWAPSentinel/internal/model"
	"VWAPSentinel/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Symbol string `yaml:"symbol"`
	Data   struct {
		Source     string `yaml:"source"` // csv, clickhouse or mock
		CSVPath    string `yaml:"csv_path"`
		ClickHouse struct {
			Addr     string `yaml:"addr"`
			Database string `yaml:"database"`
			Table    string `yaml:"table"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			Interval string `yaml:"interval"`
		} `yaml:"clickhouse"`
	} `yaml:"data"`
	Backtest struct {
		From string `yaml:"from"` // YYYY-MM-DD
		To   string `yaml:"to"`   // YYYY-MM-DD, exclusive
		Days int    `yaml:"days"` // used when from/to are empty
	} `yaml:"backtest"`
	Strategy strategy.Params `yaml:"strategy"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file yields a default config.
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

	// Environment variable overrides
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.Data.Source = v
	}
	if v := os.Getenv("CSV_PATH"); v != "" {
		cfg.Data.CSVPath = v
	}
	if v := os.Getenv("CLICKHOUSE_ADDR"); v != "" {
		cfg.Data.ClickHouse.Addr = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		cfg.Data.ClickHouse.Password = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}

	// Defaults
	if cfg.Symbol == "" {
		cfg.Symbol = "RELIANCE"
	}
	if cfg.Data.Source == "" {
		cfg.Data.Source = "mock"
	}
	if cfg.Data.ClickHouse.Database == "" {
		cfg.Data.ClickHouse.Database = "backtest"
	}
	if cfg.Data.ClickHouse.Table == "" {
		cfg.Data.ClickHouse.Table = "data"
	}
	if cfg.Data.ClickHouse.Interval == "" {
		cfg.Data.ClickHouse.Interval = "5m"
	}
	if cfg.Backtest.Days == 0 {
		cfg.Backtest.Days = 90
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 */5 * * * *"
	}

	return cfg, nil
}

// Validate checks application-level fields and normalizes strategy
// parameters. Strategy violations wrap model.ErrConfig.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "csv":
		if c.Data.CSVPath == "" {
			return fmt.Errorf("%w: data.csv_path is required for the csv source", model.ErrConfig)
		}
	case "clickhouse":
		if c.Data.ClickHouse.Addr == "" {
			return fmt.Errorf("%w: data.clickhouse.addr is required for the clickhouse source", model.ErrConfig)
		}
	case "mock":
	default:
		return fmt.Errorf("%w: data.source must be csv, clickhouse or mock, got %q", model.ErrConfig, c.Data.Source)
	}
	if c.Backtest.Days < 0 {
		return fmt.Errorf("%w: backtest.days must be non-negative", model.ErrConfig)
	}
	return c.Strategy.Normalize()
}

// Window resolves the backtest date range. Explicit from/to win; otherwise
// the last Days days ending now.
func (c *Config) Window(now time.Time) (from, to time.Time, err error) {
	if c.Backtest.From != "" || c.Backtest.To != "" {
		from, err = time.Parse("2006-01-02", c.Backtest.From)
		if err != nil {
			return from, to, fmt.Errorf("%w: parse backtest.from: %v", model.ErrConfig, err)
		}
		to, err = time.Parse("2006-01-02", c.Backtest.To)
		if err != nil {
			return from, to, fmt.Errorf("%w: parse backtest.to: %v", model.ErrConfig, err)
		}
		if !to.After(from) {
			return from, to, fmt.Errorf("%w: backtest.to must be after backtest.from", model.ErrConfig)
		}
		return from, to, nil
	}
	to = now
	from = now.AddDate(0, 0, -c.Backtest.Days)
	return from, to, nil
}
