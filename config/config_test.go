package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "historic", cfg.Feed.Variant)
	assert.Equal(t, "noop", cfg.Strategy.Name)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing currency",
			mutate:  func(c *Config) { c.Account.Currency = "" },
			wantErr: "currency",
		},
		{
			name:    "non-positive cash",
			mutate:  func(c *Config) { c.Account.Cash = 0 },
			wantErr: "cash",
		},
		{
			name:    "bad feed variant",
			mutate:  func(c *Config) { c.Feed.Variant = "streaming" },
			wantErr: "feed.variant",
		},
		{
			name:    "historic without dir",
			mutate:  func(c *Config) { c.Feed.Dir = "" },
			wantErr: "feed.dir",
		},
		{
			name: "single without file",
			mutate: func(c *Config) {
				c.Feed.Variant = "single"
				c.Feed.File = ""
			},
			wantErr: "feed.file",
		},
		{
			name: "single with two symbols",
			mutate: func(c *Config) {
				c.Feed.Variant = "single"
				c.Feed.File = "es.csv"
				c.Feed.Symbols = []string{"ES", "NQ"}
			},
			wantErr: "one symbol",
		},
		{
			name:    "csv journal without files",
			mutate:  func(c *Config) { c.Journal.EquityFile = "" },
			wantErr: "equity_file",
		},
		{
			name: "sqlite journal without path",
			mutate: func(c *Config) {
				c.Journal.Type = "sqlite"
				c.Journal.DBPath = ""
			},
			wantErr: "db_path",
		},
		{
			name:    "unknown journal type",
			mutate:  func(c *Config) { c.Journal.Type = "parquet" },
			wantErr: "journal.type",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{"yaml", "json"} {
		ext := ext
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config."+ext)

			cfg := Default()
			cfg.Account.ID = "ACCT-42"
			cfg.Feed.Symbols = []string{"SPY", "QQQ"}
			cfg.Strategy = StrategyConfig{Name: "close-cross", Symbol: "SPY", Level: 450.5}

			require.NoError(t, cfg.SaveToFile(path))

			got, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	cfg := Default()
	cfg.Account.Cash = -1
	require.NoError(t, cfg.SaveToFile(path))

	_, err = LoadFromFile(path)
	assert.Error(t, err)
}
