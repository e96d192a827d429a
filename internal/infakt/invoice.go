package infakt

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Invoice is a single invoice as returned by the remote API. It is built
// from a retrieve or create response and never mutated afterwards; deleting
// an invoice is a remote-only operation and leaves existing values intact.
type Invoice struct {
	ID     int    `json:"id"`
	Number string `json:"number"` // human-readable invoice number

	// Dates, YYYY-MM-DD
	InvoiceDate string `json:"invoice_date"`
	SaleDate    string `json:"sale_date"`

	// Amounts in major currency units. The API transmits integer minor
	// units (grosz); they are divided by 100 on ingestion.
	NetPrice   decimal.Decimal `json:"net_price"`
	TaxPrice   decimal.Decimal `json:"tax_price"`
	GrossPrice decimal.Decimal `json:"gross_price"`

	ClientID int `json:"client_id"`
}

func (inv *Invoice) String() string {
	return fmt.Sprintf("invoice %s (id %d): gross %s, invoice date %s, client %d",
		inv.Number, inv.ID, inv.GrossPrice, inv.InvoiceDate, inv.ClientID)
}

// invoiceResponse mirrors the wire representation, prices in minor units.
type invoiceResponse struct {
	ID          int    `json:"id"`
	Number      string `json:"number"`
	InvoiceDate string `json:"invoice_date"`
	SaleDate    string `json:"sale_date"`
	NetPrice    int64  `json:"net_price"`
	TaxPrice    int64  `json:"tax_price"`
	GrossPrice  int64  `json:"gross_price"`
	ClientID    int    `json:"client_id"`
}

func decodeInvoice(body []byte) (*Invoice, error) {
	var resp invoiceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &Invoice{
		ID:          resp.ID,
		Number:      resp.Number,
		InvoiceDate: resp.InvoiceDate,
		SaleDate:    resp.SaleDate,
		NetPrice:    minorToMajor(resp.NetPrice),
		TaxPrice:    minorToMajor(resp.TaxPrice),
		GrossPrice:  minorToMajor(resp.GrossPrice),
		ClientID:    resp.ClientID,
	}, nil
}

var hundred = decimal.NewFromInt(100)

func minorToMajor(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Div(hundred)
}

func majorToMinor(v decimal.Decimal) int64 {
	return v.Mul(hundred).Round(0).IntPart()
}
