package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"infakttools/internal/infakt"
	"infakttools/internal/logger"
)

var version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "infakt",
	Short: "infakt - create, send and manage inFakt invoices from the command line",
	Long: `infakt drives the inFakt invoicing API from the command line.

Credentials and invoice defaults (client id, client email, service name,
tax-category id) come from a TOML configuration file; anything not set on
the command line falls back to those defaults. Invoice dates default to the
last day of the billing month: before the 15th the previous month is billed,
from the 15th on the current one.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml",
		"Path to the TOML configuration file")
}

// newClient builds the API client for the configured settings file.
func newClient() *infakt.Client {
	return infakt.NewClient(configPath)
}
