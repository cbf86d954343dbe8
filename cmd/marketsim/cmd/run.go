package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/marketsim/backtest"
	"github.com/rustyeddy/marketsim/config"
	"github.com/rustyeddy/marketsim/event"
	"github.com/rustyeddy/marketsim/exposure"
	"github.com/rustyeddy/marketsim/feed"
	"github.com/rustyeddy/marketsim/journal"
	"github.com/rustyeddy/marketsim/portfolio"
	"github.com/rustyeddy/marketsim/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a configuration file",
	Long: `Run replays the configured bar source through the event loop and prints
a summary of the completed run.

Example:
  marketsim run -f simulation.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return err
	}

	queue := event.NewQueue(cfg.Feed.QueueSize)

	var f feed.Feed
	switch cfg.Feed.Variant {
	case "historic":
		f, err = feed.NewHistoricCSV(queue, cfg.Feed.Dir, cfg.Feed.Symbols)
	case "single":
		f, err = feed.NewSingleInstrument(queue, cfg.Feed.File, cfg.Feed.Symbols[0])
	default:
		err = fmt.Errorf("unknown feed variant %q", cfg.Feed.Variant)
	}
	if err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	j, err := buildJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer j.Close()

	port := portfolio.NewBasic(f, queue, decimal.NewFromFloat(cfg.Account.Cash))
	port.SetSizer(portfolio.NaiveSizer{Quantity: cfg.Sizing.Quantity})
	port.AttachExposure(exposure.New(exposure.Config{
		TargetLeverage:      decimal.NewFromFloat(cfg.Exposure.TargetLeverage),
		TargetLongExposure:  decimal.NewFromFloat(cfg.Exposure.TargetLong),
		TargetShortExposure: decimal.NewFromFloat(cfg.Exposure.TargetShort),
	}, nil))

	symbol := cfg.Strategy.Symbol
	if symbol == "" && len(cfg.Feed.Symbols) > 0 {
		symbol = cfg.Feed.Symbols[0]
	}
	strat, err := strategies.ByName(cfg.Strategy.Name, symbol, decimal.NewFromFloat(cfg.Strategy.Level))
	if err != nil {
		return err
	}

	runner := &backtest.Runner{
		Feed:      f,
		Queue:     queue,
		Portfolio: port,
		Strategy:  strat,
		Executor:  backtest.NewSimExecutor(f, queue),
		Journal:   j,
	}

	fmt.Printf("Running simulation: %s (%s)\n\n", cfg.Account.ID, strat.Name())

	res, err := runner.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	backtest.PrintResult(os.Stdout, res)
	return nil
}

func buildJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(cfg.EquityFile, cfg.FillsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
}
