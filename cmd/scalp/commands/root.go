package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scalp",
	Short: "NSE intraday scalping signal desk",
	Long: `Scalp Desk Unified CLI

Evaluates the day's watchlist every five minutes during the NSE session,
scores each instrument and journals the prediction.

Usage:
  go run ./cmd/scalp [command]

Examples:
  go run ./cmd/scalp api
  go run ./cmd/scalp scheduler start
  go run ./cmd/scalp evaluate --at 2025-01-02T10:20
  go run ./cmd/scalp journal --latest
  go run ./cmd/scalp session
  go run ./cmd/scalp strategy validate config/strategy/nse_scalp_v1.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default: STRATEGY_FILE or built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
