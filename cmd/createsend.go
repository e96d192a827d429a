package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"infakttools/internal/logger"
)

var createSendCmd = &cobra.Command{
	Use:   "create-and-send",
	Short: "Create an invoice and immediately email it",
	Long: `Create an invoice and email it to the client in one step. Creation
failures abort the run before any email is attempted; a delivery failure
after a successful creation leaves the invoice in place.`,
	Example: `  # Bill the default client for 286.15 and send it
  infakt create-and-send --amount 286.15

  # Explicit recipient and payment terms
  infakt create-and-send --amount 286.15 --email billing@example.com --payment-days 30`,
	RunE: runCreateSend,
}

func init() {
	rootCmd.AddCommand(createSendCmd)
	addCreateFlags(createSendCmd)
	createSendCmd.MarkFlagRequired("amount")
	createSendCmd.Flags().String("email", "", "Recipient address (default: invoice.client_email)")
	createSendCmd.Flags().Bool("no-copy", false, "Do not send a copy to the account owner")
}

func runCreateSend(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("create-and-send")

	amount, opts, err := createArgs(cmd)
	if err != nil {
		return err
	}
	email, _ := cmd.Flags().GetString("email")
	noCopy, _ := cmd.Flags().GetBool("no-copy")

	sent, err := newClient().CreateAndSendInvoice(amount, email, !noCopy, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creation failed")
		return err
	}
	if !sent {
		log.Error().Msg("Invoice created but delivery failed")
		return fmt.Errorf("invoice created but not sent")
	}

	fmt.Println("Invoice created and sent")
	return nil
}
