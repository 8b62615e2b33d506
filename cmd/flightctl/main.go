// Command flightctl drives the flight results flow from a terminal.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/flight-search/flight-booking-system/internal/config"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
)

var (
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "flightctl",
	Short: "Search, filter and select flights from the command line",
	Long: `flightctl runs the same results flow the HTTP service exposes:
search, filter, sort, pick a departure and a return, and print the handoff.

Configuration is read from the environment (and .env) like the server;
flags override the search source.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logCfg := cfg.Logging
		logCfg.Format = "console"
		if !verbose {
			logCfg.Level = "warn"
		}
		logger.SetGlobal(logger.NewWithOutput(logCfg, os.Stderr))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at the configured level instead of warn")
	rootCmd.AddCommand(searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
