package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"infakttools/internal/infakt"
	"infakttools/internal/logger"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice for a gross amount",
	Long: `Create an invoice for a gross amount given in major currency units
(e.g. 286.15). Service name, client id and tax-category id default to the
configuration's defaults tree; sale, invoice and payment dates default to
the previous-month billing policy with 14 payment days.`,
	Example: `  # Create with all defaults from config.toml
  infakt create --amount 286.15

  # Override the service line and payment terms
  infakt create --amount 1200 --service-name "Consulting" --payment-days 30

  # Pin the dates explicitly
  infakt create --amount 286.15 --invoice-date 2024-03-31 --sale-date 2024-03-31`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	addCreateFlags(createCmd)
	createCmd.MarkFlagRequired("amount")
}

// addCreateFlags registers the invoice-creation flags, shared with the
// create-and-send command.
func addCreateFlags(cmd *cobra.Command) {
	cmd.Flags().String("amount", "", "Gross amount in major currency units, e.g. 286.15")
	cmd.Flags().String("service-name", "", "Service line name (default: invoice.service.name)")
	cmd.Flags().Int("client-id", 0, "Client id (default: invoice.client_id)")
	cmd.Flags().Int("gtu-id", 0, "Tax-category id (default: invoice.service.gtu_id)")
	cmd.Flags().String("sale-date", "", "Sale date YYYY-MM-DD (default: computed invoice date)")
	cmd.Flags().String("invoice-date", "", "Invoice date YYYY-MM-DD (default: computed)")
	cmd.Flags().String("payment-date", "", "Payment date YYYY-MM-DD (default: invoice date + payment days)")
	cmd.Flags().Int("payment-days", 14, "Payment terms in days")
}

// createArgs reads the shared creation flags back out of a command.
func createArgs(cmd *cobra.Command) (decimal.Decimal, infakt.CreateInvoiceOptions, error) {
	amountStr, _ := cmd.Flags().GetString("amount")
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Decimal{}, infakt.CreateInvoiceOptions{},
			fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}

	opts := infakt.CreateInvoiceOptions{}
	opts.ServiceName, _ = cmd.Flags().GetString("service-name")
	opts.ClientID, _ = cmd.Flags().GetInt("client-id")
	opts.GTUID, _ = cmd.Flags().GetInt("gtu-id")
	opts.SaleDate, _ = cmd.Flags().GetString("sale-date")
	opts.InvoiceDate, _ = cmd.Flags().GetString("invoice-date")
	opts.PaymentDate, _ = cmd.Flags().GetString("payment-date")
	opts.PaymentDays, _ = cmd.Flags().GetInt("payment-days")
	return amount, opts, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("create")

	amount, opts, err := createArgs(cmd)
	if err != nil {
		return err
	}

	invoice, err := newClient().CreateInvoice(amount, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creation failed")
		return err
	}

	out, err := json.MarshalIndent(invoice, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
