package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"infakttools/internal/logger"
)

var getCmd = &cobra.Command{
	Use:   "get [invoice-id]",
	Short: "Retrieve an invoice and print it as JSON",
	Example: `  # Fetch invoice 12345678
  infakt get 12345678

  # Use an alternate configuration file
  infakt -c clients/acme.toml get 12345678`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("get")

	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid invoice id %q: %w", args[0], err)
	}

	invoice, err := newClient().GetInvoice(number)
	if err != nil {
		log.Error().Err(err).Int("invoice", number).Msg("Retrieval failed")
		return err
	}

	out, err := json.MarshalIndent(invoice, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
