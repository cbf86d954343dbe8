package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is a complete simulation run description.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Sizing   SizingConfig   `json:"sizing" yaml:"sizing"`
	Exposure ExposureConfig `json:"exposure" yaml:"exposure"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Cash     float64 `json:"cash" yaml:"cash"`
}

// FeedConfig selects and parameterizes the bar source.
type FeedConfig struct {
	// Variant is "historic" (multi-symbol aligned CSV directory) or
	// "single" (one instrument, one file, native sequence).
	Variant   string   `json:"variant" yaml:"variant"`
	Dir       string   `json:"dir,omitempty" yaml:"dir,omitempty"`
	File      string   `json:"file,omitempty" yaml:"file,omitempty"`
	Symbols   []string `json:"symbols" yaml:"symbols"`
	QueueSize int      `json:"queue_size,omitempty" yaml:"queue_size,omitempty"`
}

// SizingConfig parameterizes the naive fixed-quantity sizer.
type SizingConfig struct {
	Quantity int64 `json:"quantity" yaml:"quantity"`
}

// ExposureConfig contains the exposure tracker's targets.
type ExposureConfig struct {
	TargetLeverage float64 `json:"target_leverage" yaml:"target_leverage"`
	TargetLong     float64 `json:"target_long" yaml:"target_long"`
	TargetShort    float64 `json:"target_short" yaml:"target_short"`
}

// StrategyConfig selects the example strategy used to drive the run.
type StrategyConfig struct {
	Name   string  `json:"name" yaml:"name"`
	Symbol string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Level  float64 `json:"level,omitempty" yaml:"level,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file, JSON when the extension says
// so, YAML otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Cash <= 0 {
		return fmt.Errorf("account.cash must be positive")
	}

	switch c.Feed.Variant {
	case "historic":
		if c.Feed.Dir == "" {
			return fmt.Errorf("feed.dir required for historic variant")
		}
		if len(c.Feed.Symbols) == 0 {
			return fmt.Errorf("feed.symbols required for historic variant")
		}
	case "single":
		if c.Feed.File == "" {
			return fmt.Errorf("feed.file required for single variant")
		}
		if len(c.Feed.Symbols) != 1 {
			return fmt.Errorf("single variant takes exactly one symbol")
		}
	default:
		return fmt.Errorf("feed.variant must be 'historic' or 'single'")
	}

	if c.Sizing.Quantity < 0 {
		return fmt.Errorf("sizing.quantity must be non-negative")
	}
	if c.Exposure.TargetLeverage < 0 {
		return fmt.Errorf("exposure.target_leverage must be non-negative")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.EquityFile == "" || c.Journal.FillsFile == "" {
			return fmt.Errorf("journal equity_file and fills_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "USD",
			Cash:     100000,
		},
		Feed: FeedConfig{
			Variant:   "historic",
			Dir:       "./data",
			Symbols:   []string{"SPY"},
			QueueSize: 256,
		},
		Sizing: SizingConfig{
			Quantity: 1,
		},
		Exposure: ExposureConfig{
			TargetLeverage: 1.0,
			TargetLong:     1.0,
			TargetShort:    1.0,
		},
		Strategy: StrategyConfig{
			Name: "noop",
		},
		Journal: JournalConfig{
			Type:       "csv",
			EquityFile: "./equity.csv",
			FillsFile:  "./fills.csv",
		},
	}
}
