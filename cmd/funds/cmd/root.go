package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/funds/config"
	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/ledger"
	"github.com/rustyeddy/funds/logger"
	"github.com/rustyeddy/funds/notify"
	"github.com/rustyeddy/funds/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "funds",
	Short: "Fund ledger and capital allocation for traders",
	Long: `Funds keeps a trader's capital in three funds per trading mode and
sub-account:

  - active   capital available for trading, drives lot sizing
  - reserve  buffer that absorbs losses first
  - profit   realized profit set aside

Deposits, trade results and rebalances are split across the funds by a
per-account policy, and every balance change is written to an audit ledger.

Accounts are selected with --owner, --mode and --sub.

Examples:
  funds init 10000 --owner alice --mode live
  funds trade 250 "EURUSD breakout" --owner alice --mode live
  funds show --owner alice --mode live`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

var (
	cfgFile string
	keyFlag fund.Key
)

// app holds what setup opened for the running command.
var app struct {
	cfg    *config.Config
	log    logger.Logger
	sync   func()
	store  *store.SQL
	kafka  *notify.Kafka
	ledger *ledger.Service
	ctx    context.Context
	cancel context.CancelFunc
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults apply when empty")
	pf.StringVar(&keyFlag.Owner, "owner", "", "account owner id")
	pf.StringVar(&keyFlag.Mode, "mode", "live", "trading mode")
	pf.StringVar(&keyFlag.SubAccount, "sub", "", "sub-account name (empty for the main account)")
}

// needsLedger reports whether cmd talks to the store. Commands opt out with
// the annotation ledger=no, which also covers their subcommands.
func needsLedger(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["ledger"] == "no" || c.Name() == "help" || c.Name() == "completion" {
			return false
		}
	}
	return true
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	cfg := config.Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: can't load .env", err)
	}
	if !needsLedger(cmd) {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	zl, sync, err := logger.NewZapLogger(level)
	if err != nil {
		return err
	}
	app.cfg, app.log, app.sync = cfg, zl, sync
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	st, err := store.Open(app.ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	app.store = st

	sinks := notify.Multi{notify.NewLog(zl)}
	if len(cfg.Notify.KafkaBrokers) > 0 {
		app.kafka = notify.NewKafka(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic, zl)
		sinks = append(sinks, app.kafka)
	}

	opts, err := ledger.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts.Logger = zl
	opts.Notifier = sinks
	app.ledger = ledger.New(st, opts)
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if app.kafka != nil {
		if err := app.kafka.Close(); err != nil {
			app.log.Warnf("%s: can't close kafka writer", err)
		}
	}
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.log.Warnf("%s: can't close store", err)
		}
	}
	if app.cancel != nil {
		app.cancel()
	}
	if app.sync != nil {
		app.sync()
	}
}

// current resolves the account selected by the key flags.
func current() (fund.Account, error) {
	a, err := app.ledger.Lookup(app.ctx, keyFlag)
	if err != nil {
		return fund.Account{}, fmt.Errorf("account %s: %w", keyFlag, err)
	}
	return a, nil
}
