// Package commands wires the battcast CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "battcast",
	Short: "Battery material price forecaster and chemistry cost engine",
	Long: `battcast - battery raw material cost forecasting

Forecasts battery raw-material prices from monthly history and derives
chemistry cost trajectories under user-defined economic scenarios.

Usage:
  go run ./cmd/battcast [command]

Examples:
  go run ./cmd/battcast build --prices data/prices_monthly.csv --intensity data/intensity_baseline.csv
  go run ./cmd/battcast scenario --preset presets.yaml --name tariff_war
  go run ./cmd/battcast sensitivity --chemistry nmc811 --month 2026-12
  go run ./cmd/battcast api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
