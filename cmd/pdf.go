package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"infakttools/internal/logger"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf [invoice-id]",
	Short: "Download the original-print PDF of an invoice",
	Example: `  # Saves to 12345678.pdf
  infakt pdf 12345678

  # Choose the output path
  infakt pdf 12345678 -o march.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().StringP("output", "o", "", "Output file path (default: <invoice-id>.pdf)")
}

func runPDF(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("pdf")

	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid invoice id %q: %w", args[0], err)
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = args[0] + ".pdf"
	}

	if err := newClient().DownloadPDF(number, output); err != nil {
		log.Error().Err(err).Int("invoice", number).Msg("Download failed")
		return err
	}

	fmt.Printf("Saved invoice %d as %s\n", number, output)
	return nil
}
