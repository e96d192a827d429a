package infakt

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceOptions are the optional fields of CreateInvoice. Zero values
// mean "unset": strings fall back to configuration defaults or computed
// dates, PaymentDays falls back to 14.
type CreateInvoiceOptions struct {
	ServiceName string // defaults to invoice.service.name
	ClientID    int    // defaults to invoice.client_id
	GTUID       int    // tax-category id, defaults to invoice.service.gtu_id
	SaleDate    string // defaults to the computed invoice date
	InvoiceDate string // defaults to DefaultInvoiceDate(today)
	PaymentDate string // defaults to invoice date + PaymentDays
	PaymentDays int
}

// invoicePayload is the creation request body.
type invoicePayload struct {
	Invoice invoiceFields `json:"invoice"`
}

type invoiceFields struct {
	ClientID      string           `json:"client_id"`
	PaymentMethod string           `json:"payment_method"`
	SaleDate      string           `json:"sale_date"`
	InvoiceDate   string           `json:"invoice_date"`
	PaymentDate   string           `json:"payment_date"`
	Services      []servicePayload `json:"services"`
}

type servicePayload struct {
	Name       string `json:"name"`
	GrossPrice int64  `json:"gross_price"` // minor units
	TaxSymbol  int    `json:"tax_symbol"`
	GTUID      int    `json:"gtu_id"`
}

// GetInvoice retrieves a single invoice by its numeric identifier.
func (c *Client) GetInvoice(number int) (*Invoice, error) {
	c.log.Info().Int("invoice", number).Msg("Retrieving invoice")

	req, err := c.newRequest()
	if err != nil {
		return nil, err
	}
	resp, err := req.Get(fmt.Sprintf("/invoices/%d.json", number))
	if err != nil {
		return nil, &APIError{Op: "GetInvoice", Err: err}
	}
	if !resp.IsSuccess() {
		return nil, newStatusError("GetInvoice", resp.StatusCode(), resp.String())
	}

	invoice, err := decodeInvoice(resp.Body())
	if err != nil {
		return nil, err
	}

	c.log.Info().Int("invoice", number).Str("number", invoice.Number).Msg("Retrieved invoice")
	return invoice, nil
}

// CreateInvoice creates an invoice for a gross amount in major currency
// units (e.g. 286.15). Unset option fields are resolved from the
// configuration defaults; unset dates follow the previous-month billing
// policy. The single service line is transmitted with the amount converted
// to minor units, tax symbol 23 and payment method "transfer".
func (c *Client) CreateInvoice(gross decimal.Decimal, opts CreateInvoiceOptions) (*Invoice, error) {
	payload, err := c.buildCreatePayload(gross, opts, time.Now())
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("gross", gross.String()).
		Str("invoice_date", payload.Invoice.InvoiceDate).
		Msg("Creating invoice")

	req, err := c.newRequest()
	if err != nil {
		return nil, err
	}
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/invoices.json")
	if err != nil {
		return nil, &APIError{Op: "CreateInvoice", Err: err}
	}
	if !resp.IsSuccess() {
		return nil, newStatusError("CreateInvoice", resp.StatusCode(), resp.String())
	}

	invoice, err := decodeInvoice(resp.Body())
	if err != nil {
		return nil, err
	}

	c.log.Info().Int("invoice", invoice.ID).Str("number", invoice.Number).Msg("Created invoice")
	return invoice, nil
}

func (c *Client) buildCreatePayload(gross decimal.Decimal, opts CreateInvoiceOptions, today time.Time) (*invoicePayload, error) {
	serviceName := opts.ServiceName
	if serviceName == "" {
		v, err := c.defaultString("invoice.service.name")
		if err != nil {
			return nil, err
		}
		serviceName = v
	}

	clientID := opts.ClientID
	if clientID == 0 {
		v, err := c.defaultInt("invoice.client_id")
		if err != nil {
			return nil, err
		}
		clientID = v
	}

	gtuID := opts.GTUID
	if gtuID == 0 {
		v, err := c.defaultInt("invoice.service.gtu_id")
		if err != nil {
			return nil, err
		}
		gtuID = v
	}

	paymentDays := opts.PaymentDays
	if paymentDays == 0 {
		paymentDays = 14
	}

	defaultInvoiceDate := DefaultInvoiceDate(today)
	defaultPaymentDate, err := PaymentDate(defaultInvoiceDate, paymentDays)
	if err != nil {
		return nil, err
	}

	saleDate := opts.SaleDate
	if saleDate == "" {
		saleDate = defaultInvoiceDate
	}
	invoiceDate := opts.InvoiceDate
	if invoiceDate == "" {
		invoiceDate = defaultInvoiceDate
	}
	paymentDate := opts.PaymentDate
	if paymentDate == "" {
		paymentDate = defaultPaymentDate
	}

	return &invoicePayload{
		Invoice: invoiceFields{
			ClientID:      strconv.Itoa(clientID),
			PaymentMethod: "transfer",
			SaleDate:      saleDate,
			InvoiceDate:   invoiceDate,
			PaymentDate:   paymentDate,
			Services: []servicePayload{
				{
					Name:       serviceName,
					GrossPrice: majorToMinor(gross),
					TaxSymbol:  23,
					GTUID:      gtuID,
				},
			},
		},
	}, nil
}

// DeleteInvoice deletes an invoice remotely and reports whether the server
// accepted the request. It never fails with an error: a non-success status
// is a false return.
func (c *Client) DeleteInvoice(number int) bool {
	req, err := c.newRequest()
	if err != nil {
		c.log.Error().Err(err).Int("invoice", number).Msg("Delete aborted")
		return false
	}
	resp, err := req.Delete(fmt.Sprintf("/invoices/%d.json", number))
	if err != nil {
		c.log.Error().Err(err).Int("invoice", number).Msg("Delete request failed")
		return false
	}
	if !resp.IsSuccess() {
		c.log.Warn().Int("invoice", number).Int("status", resp.StatusCode()).Msg("Delete rejected")
		return false
	}
	return true
}

// SendInvoice emails an invoice to the recipient. An empty email falls back
// to the invoice.client_email default. Like DeleteInvoice it reports failure
// as a boolean rather than an error.
func (c *Client) SendInvoice(number int, email string, sendCopy bool) bool {
	if email == "" {
		v, err := c.defaultString("invoice.client_email")
		if err != nil {
			c.log.Error().Err(err).Int("invoice", number).Msg("Send aborted")
			return false
		}
		email = v
	}

	c.log.Info().Int("invoice", number).Str("recipient", email).Msg("Sending invoice")

	req, err := c.newRequest()
	if err != nil {
		c.log.Error().Err(err).Int("invoice", number).Msg("Send aborted")
		return false
	}
	resp, err := req.
		SetFormData(map[string]string{
			"print_type": "original",
			"locale":     "pe",
			"recipient":  email,
			"send_copy":  strconv.FormatBool(sendCopy),
		}).
		Post(fmt.Sprintf("/invoices/%d/deliver_via_email.json", number))
	if err != nil {
		c.log.Error().Err(err).Int("invoice", number).Msg("Send request failed")
		return false
	}
	if !resp.IsSuccess() {
		c.log.Warn().Int("invoice", number).Int("status", resp.StatusCode()).Msg("Send rejected")
		return false
	}
	return true
}

// CreateAndSendInvoice creates an invoice and emails it in one go. Creation
// failures propagate and no send is attempted; the boolean is the send
// result for the freshly created invoice.
func (c *Client) CreateAndSendInvoice(gross decimal.Decimal, email string, sendCopy bool, opts CreateInvoiceOptions) (bool, error) {
	invoice, err := c.CreateInvoice(gross, opts)
	if err != nil {
		return false, err
	}
	return c.SendInvoice(invoice.ID, email, sendCopy), nil
}

// DownloadPDF fetches the original-print PDF of an invoice and writes it to
// path. Unlike the email and delete operations this fails loudly: a partial
// or error-page download would otherwise masquerade as a valid document.
func (c *Client) DownloadPDF(number int, path string) error {
	req, err := c.newRequest()
	if err != nil {
		return err
	}
	resp, err := req.
		SetQueryParams(map[string]string{
			"document_type": "original",
			"locale":        "pe",
		}).
		Get(fmt.Sprintf("/invoices/%d/pdf.json", number))
	if err != nil {
		return &APIError{Op: "DownloadPDF", Err: err}
	}
	if !resp.IsSuccess() {
		return newStatusError("DownloadPDF", resp.StatusCode(), resp.String())
	}

	if err := os.WriteFile(path, resp.Body(), 0644); err != nil {
		return fmt.Errorf("save pdf: %w", err)
	}

	c.log.Info().Int("invoice", number).Str("path", path).Msg("Saved invoice PDF")
	return nil
}
