package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/funds/fund"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 40, cfg.Defaults.DepositSplit.Active)
	assert.Equal(t, 60, cfg.Defaults.DepositSplit.Reserve)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"bad driver", func(c *Config) { c.Store.Driver = "mysql" }, "store.driver"},
		{"missing dsn", func(c *Config) { c.Store.DSN = "" }, "store.dsn is required"},
		{"zero attempts", func(c *Config) { c.Ledger.MaxAttempts = 0 }, "ledger.max_attempts"},
		{"bad backoff", func(c *Config) { c.Ledger.RetryBackoff = "soon" }, "ledger.retry_backoff"},
		{"zero timeout", func(c *Config) { c.Ledger.OpTimeout = "0s" }, "ledger.op_timeout"},
		{"zero take profit", func(c *Config) { c.Ledger.BaseTakeProfit = 0 }, "ledger.base_take_profit must be positive"},
		{"negative take profit", func(c *Config) { c.Ledger.BaseTakeProfit = -5 }, "ledger.base_take_profit"},
		{"profit split 90", func(c *Config) { c.Defaults.ProfitSplit = fund.ProfitSplit{Active: 50, Reserve: 20, Profit: 20} }, "profit split"},
		{"deposit split 110", func(c *Config) { c.Defaults.DepositSplit = fund.DepositSplit{Active: 50, Reserve: 60} }, "deposit split"},
		{"kafka without topic", func(c *Config) { c.Notify.KafkaBrokers = []string{"localhost:9092"} }, "notify.kafka_topic"},
		{"unknown currency", func(c *Config) { c.Display.Currency = "XYZ" }, "unknown display currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateWrapsPolicyError(t *testing.T) {
	cfg := Default()
	cfg.Defaults.ProfitSplit.Profit = 0
	assert.True(t, errors.Is(cfg.Validate(), fund.ErrInvalidPolicy))
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Defaults.RiskPercent = 1.5
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Store, loaded.Store)
			assert.Equal(t, cfg.Defaults, loaded.Defaults)
			assert.Equal(t, cfg.Ledger, loaded.Ledger)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: sqlite\n  dsn: ./other.sqlite\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "./other.sqlite", cfg.Store.DSN)
	assert.Equal(t, 5, cfg.Ledger.MaxAttempts)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDriver, "postgres")
	t.Setenv(EnvDSN, "postgres://localhost/funds?sslmode=disable")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/funds?sslmode=disable", cfg.Store.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLedgerDurations(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"20ms", 20 * time.Millisecond, false},
		{"1s", time.Second, false},
		{"", 0, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := LedgerConfig{RetryBackoff: tt.in}.Backoff()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}
