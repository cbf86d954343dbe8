package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marketsim",
	Short: "An event-driven market simulator for strategy research",
	Long: `Marketsim replays historical price bars through the same event loop a
live trading system would use, so backtested and live strategies share
identical control flow.

It provides tools for:
  - Replaying multi-symbol or single-instrument bar CSVs
  - Driving a strategy/portfolio feedback loop with strict causality
  - Tracking exposure, leverage, and buying power per tick
  - Journaling equity curves and fills to CSV or SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
