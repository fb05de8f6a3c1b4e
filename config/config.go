package config

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rustyeddy/funds/allocation"
	"github.com/rustyeddy/funds/fund"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvDriver   = "FUNDS_DRIVER"
	EnvDSN      = "FUNDS_DSN"
	EnvLogLevel = "FUNDS_LOG_LEVEL"
)

// Config represents the complete ledger configuration
type Config struct {
	Store    StoreConfig  `json:"store" yaml:"store"`
	Ledger   LedgerConfig `json:"ledger" yaml:"ledger"`
	Defaults PolicyConfig `json:"defaults" yaml:"defaults"`
	Log      LogConfig    `json:"log" yaml:"log"`
	Notify   NotifyConfig `json:"notify" yaml:"notify"`
	Display  Display      `json:"display" yaml:"display"`
}

// StoreConfig selects the backing database
type StoreConfig struct {
	Driver string `json:"driver" yaml:"driver"` // "sqlite" or "postgres"
	DSN    string `json:"dsn" yaml:"dsn"`
}

// LedgerConfig tunes retries and timeouts of ledger operations
type LedgerConfig struct {
	MaxAttempts    int     `json:"max_attempts" yaml:"max_attempts"`
	RetryBackoff   string  `json:"retry_backoff" yaml:"retry_backoff"` // e.g. "20ms"
	OpTimeout      string  `json:"op_timeout" yaml:"op_timeout"`       // e.g. "5s"
	BaseTakeProfit float64 `json:"base_take_profit" yaml:"base_take_profit"`
}

// PolicyConfig is the allocation policy given to newly initialized accounts
type PolicyConfig struct {
	ProfitSplit    fund.ProfitSplit  `json:"profit_split" yaml:"profit_split"`
	DepositSplit   fund.DepositSplit `json:"deposit_split" yaml:"deposit_split"`
	LotBaseCapital float64           `json:"lot_base_capital" yaml:"lot_base_capital"`
	LotBaseLot     float64           `json:"lot_base_lot" yaml:"lot_base_lot"`
	RiskPercent    float64           `json:"risk_percent" yaml:"risk_percent"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// NotifyConfig configures alert sinks. Alerts are always logged; Kafka is
// enabled when brokers are listed.
type NotifyConfig struct {
	KafkaBrokers []string `json:"kafka_brokers,omitempty" yaml:"kafka_brokers,omitempty"`
	KafkaTopic   string   `json:"kafka_topic,omitempty" yaml:"kafka_topic,omitempty"`
}

// Display controls how amounts are printed by the CLI. It never affects
// stored values.
type Display struct {
	Currency string `json:"currency" yaml:"currency"`
}

// Policy converts the defaults into an account policy. The configured risk
// becomes the account's baseline risk as well.
func (p PolicyConfig) Policy() fund.Policy {
	risk := decimal.NewFromFloat(p.RiskPercent)
	return fund.Policy{
		ProfitSplit:     p.ProfitSplit,
		DepositSplit:    p.DepositSplit,
		LotBaseCapital:  decimal.NewFromFloat(p.LotBaseCapital),
		LotBaseLot:      decimal.NewFromFloat(p.LotBaseLot),
		RiskPercent:     risk,
		BaseRiskPercent: risk,
	}
}

// Backoff parses RetryBackoff
func (l LedgerConfig) Backoff() (time.Duration, error) {
	if l.RetryBackoff == "" {
		return 0, nil
	}
	return time.ParseDuration(l.RetryBackoff)
}

// Timeout parses OpTimeout
func (l LedgerConfig) Timeout() (time.Duration, error) {
	if l.OpTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(l.OpTimeout)
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
// and applies environment overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides store and log settings from the environment.
func (c *Config) ApplyEnv() {
	c.Store.Driver = cmp.Or(os.Getenv(EnvDriver), c.Store.Driver)
	c.Store.DSN = cmp.Or(os.Getenv(EnvDSN), c.Store.DSN)
	c.Log.Level = cmp.Or(os.Getenv(EnvLogLevel), c.Log.Level)
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		return fmt.Errorf("store.driver must be 'sqlite' or 'postgres'")
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required")
	}
	if c.Ledger.MaxAttempts < 1 {
		return fmt.Errorf("ledger.max_attempts must be at least 1")
	}
	if d, err := c.Ledger.Backoff(); err != nil || d < 0 {
		return fmt.Errorf("ledger.retry_backoff must be a non-negative duration")
	}
	if d, err := c.Ledger.Timeout(); err != nil || d <= 0 {
		return fmt.Errorf("ledger.op_timeout must be a positive duration")
	}
	if c.Ledger.BaseTakeProfit <= 0 {
		return fmt.Errorf("ledger.base_take_profit must be positive")
	}
	if err := allocation.ValidatePolicy(c.Defaults.Policy()); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if len(c.Notify.KafkaBrokers) > 0 && c.Notify.KafkaTopic == "" {
		return fmt.Errorf("notify.kafka_topic required when kafka_brokers are set")
	}
	if money.GetCurrency(c.Display.Currency) == nil {
		return fmt.Errorf("unknown display currency: %s", c.Display.Currency)
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "./funds.sqlite",
		},
		Ledger: LedgerConfig{
			MaxAttempts:    5,
			RetryBackoff:   "20ms",
			OpTimeout:      "5s",
			BaseTakeProfit: 100,
		},
		Defaults: PolicyConfig{
			ProfitSplit:    fund.ProfitSplit{Active: 50, Reserve: 25, Profit: 25},
			DepositSplit:   fund.DepositSplit{Active: 40, Reserve: 60},
			LotBaseCapital: 10000,
			LotBaseLot:     0.1,
			RiskPercent:    2,
		},
		Log: LogConfig{
			Level: "info",
		},
		Display: Display{
			Currency: "USD",
		},
	}
}
