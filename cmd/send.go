package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"infakttools/internal/logger"
)

var sendCmd = &cobra.Command{
	Use:   "send [invoice-id]",
	Short: "Email an existing invoice to a recipient",
	Long: `Email an invoice through the API's delivery endpoint. The recipient
defaults to the invoice.client_email configuration default; a copy goes to
the account owner unless --no-copy is set.`,
	Example: `  # Send to the configured client email, with a copy to yourself
  infakt send 12345678

  # Send to an explicit address, no copy
  infakt send 12345678 --email billing@example.com --no-copy`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().String("email", "", "Recipient address (default: invoice.client_email)")
	sendCmd.Flags().Bool("no-copy", false, "Do not send a copy to the account owner")
}

func runSend(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("send")

	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid invoice id %q: %w", args[0], err)
	}
	email, _ := cmd.Flags().GetString("email")
	noCopy, _ := cmd.Flags().GetBool("no-copy")

	if !newClient().SendInvoice(number, email, !noCopy) {
		log.Error().Int("invoice", number).Msg("Delivery failed")
		return fmt.Errorf("invoice %d was not sent", number)
	}

	fmt.Printf("Invoice %d sent\n", number)
	return nil
}
