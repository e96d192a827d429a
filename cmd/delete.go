package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"infakttools/internal/logger"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [invoice-id]",
	Short:   "Delete an invoice",
	Example: `  infakt delete 12345678`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("delete")

	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid invoice id %q: %w", args[0], err)
	}

	if !newClient().DeleteInvoice(number) {
		log.Error().Int("invoice", number).Msg("Deletion failed")
		return fmt.Errorf("invoice %d was not deleted", number)
	}

	fmt.Printf("Invoice %d deleted\n", number)
	return nil
}
