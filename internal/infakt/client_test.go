package infakt_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infakttools/internal/config"
	"infakttools/internal/infakt"
)

const testAPIKey = "0123456789012345678901234567890123456789"

const invoiceJSON = `{
	"id": 42,
	"number": "3/2024",
	"invoice_date": "2024-03-31",
	"sale_date": "2024-03-31",
	"net_price": 23264,
	"tax_price": 5351,
	"gross_price": 28615,
	"client_id": 4321
}`

func writeClientConfig(t *testing.T, apiKey string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	writeClientConfigTo(t, path, apiKey)
	return path
}

func writeClientConfigTo(t *testing.T, path, apiKey string) {
	t.Helper()
	content := `
title = "test"

[credentials]
api_key = "` + apiKey + `"

[defaults.invoice]
client_id = 4321
client_email = "client@example.com"

[defaults.invoice.service]
name = "Software development"
gtu_id = 12
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestClient(t *testing.T, handler http.Handler) *infakt.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return infakt.NewClient(writeClientConfig(t, testAPIKey), infakt.WithAPIURL(server.URL))
}

func TestGetInvoice(t *testing.T) {
	var gotPath, gotKey string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-inFakt-ApiKey")
		w.Write([]byte(invoiceJSON))
	}))

	invoice, err := client.GetInvoice(42)
	require.NoError(t, err)

	assert.Equal(t, "/invoices/42.json", gotPath)
	assert.Equal(t, testAPIKey, gotKey)

	assert.Equal(t, 42, invoice.ID)
	assert.Equal(t, "3/2024", invoice.Number)
	assert.Equal(t, "2024-03-31", invoice.InvoiceDate)
	assert.Equal(t, "2024-03-31", invoice.SaleDate)
	assert.Equal(t, 4321, invoice.ClientID)

	// Minor units from the wire become major-unit decimals.
	assert.True(t, invoice.GrossPrice.Equal(decimal.RequireFromString("286.15")),
		"GrossPrice = %s", invoice.GrossPrice)
	assert.True(t, invoice.NetPrice.Equal(decimal.RequireFromString("232.64")),
		"NetPrice = %s", invoice.NetPrice)
	assert.True(t, invoice.TaxPrice.Equal(decimal.RequireFromString("53.51")),
		"TaxPrice = %s", invoice.TaxPrice)
}

func TestGetInvoiceRemoteFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))

	_, err := client.GetInvoice(42)
	require.Error(t, err)
	require.ErrorIs(t, err, infakt.ErrUnexpectedStatus)

	var apiErr *infakt.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "GetInvoice", apiErr.Op)
}

// capturedPayload mirrors the creation request body.
type capturedPayload struct {
	Invoice struct {
		ClientID      string `json:"client_id"`
		PaymentMethod string `json:"payment_method"`
		SaleDate      string `json:"sale_date"`
		InvoiceDate   string `json:"invoice_date"`
		PaymentDate   string `json:"payment_date"`
		Services      []struct {
			Name       string `json:"name"`
			GrossPrice int64  `json:"gross_price"`
			TaxSymbol  int    `json:"tax_symbol"`
			GTUID      int    `json:"gtu_id"`
		} `json:"services"`
	} `json:"invoice"`
}

func captureCreate(t *testing.T, payload *capturedPayload) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/invoices.json", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(payload))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(invoiceJSON))
	})
}

func TestCreateInvoiceDefaults(t *testing.T) {
	var payload capturedPayload
	client := newTestClient(t, captureCreate(t, &payload))

	invoice, err := client.CreateInvoice(decimal.RequireFromString("286.15"), infakt.CreateInvoiceOptions{})
	require.NoError(t, err)

	// Amount travels in minor units.
	require.Len(t, payload.Invoice.Services, 1)
	service := payload.Invoice.Services[0]
	assert.Equal(t, int64(28615), service.GrossPrice)
	assert.Equal(t, 23, service.TaxSymbol)

	// Unset fields resolved from the configuration defaults.
	assert.Equal(t, "4321", payload.Invoice.ClientID)
	assert.Equal(t, "Software development", service.Name)
	assert.Equal(t, 12, service.GTUID)
	assert.Equal(t, "transfer", payload.Invoice.PaymentMethod)

	// Dates follow the previous-month billing policy with 14 payment days.
	wantInvoiceDate := infakt.DefaultInvoiceDate(time.Now())
	wantPaymentDate, err := infakt.PaymentDate(wantInvoiceDate, 14)
	require.NoError(t, err)
	assert.Equal(t, wantInvoiceDate, payload.Invoice.InvoiceDate)
	assert.Equal(t, wantInvoiceDate, payload.Invoice.SaleDate)
	assert.Equal(t, wantPaymentDate, payload.Invoice.PaymentDate)

	// The response's minor units come back as major-unit decimals.
	assert.True(t, invoice.GrossPrice.Equal(decimal.RequireFromString("286.15")),
		"GrossPrice = %s", invoice.GrossPrice)
}

func TestCreateInvoiceOverrides(t *testing.T) {
	var payload capturedPayload
	client := newTestClient(t, captureCreate(t, &payload))

	_, err := client.CreateInvoice(decimal.NewFromInt(1200), infakt.CreateInvoiceOptions{
		ServiceName: "Consulting",
		ClientID:    9876,
		GTUID:       3,
		SaleDate:    "2024-02-29",
		InvoiceDate: "2024-03-01",
		PaymentDate: "2024-04-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "9876", payload.Invoice.ClientID)
	assert.Equal(t, "2024-02-29", payload.Invoice.SaleDate)
	assert.Equal(t, "2024-03-01", payload.Invoice.InvoiceDate)
	assert.Equal(t, "2024-04-01", payload.Invoice.PaymentDate)

	require.Len(t, payload.Invoice.Services, 1)
	assert.Equal(t, "Consulting", payload.Invoice.Services[0].Name)
	assert.Equal(t, int64(120000), payload.Invoice.Services[0].GrossPrice)
	assert.Equal(t, 3, payload.Invoice.Services[0].GTUID)
}

func TestCreateInvoicePaymentDays(t *testing.T) {
	var payload capturedPayload
	client := newTestClient(t, captureCreate(t, &payload))

	_, err := client.CreateInvoice(decimal.NewFromInt(100), infakt.CreateInvoiceOptions{
		InvoiceDate: "2024-01-15", // overriding the invoice date does not move the payment date
		PaymentDays: 30,
	})
	require.NoError(t, err)

	wantPaymentDate, err := infakt.PaymentDate(infakt.DefaultInvoiceDate(time.Now()), 30)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", payload.Invoice.InvoiceDate)
	assert.Equal(t, wantPaymentDate, payload.Invoice.PaymentDate)
}

func TestCreateInvoiceRemoteFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"validation failed"}`, http.StatusUnprocessableEntity)
	}))

	_, err := client.CreateInvoice(decimal.NewFromInt(100), infakt.CreateInvoiceOptions{})
	require.Error(t, err)

	var apiErr *infakt.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "validation failed")
}

func TestDeleteInvoice(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"accepted", http.StatusOK, true},
		{"no content", http.StatusNoContent, true},
		{"rejected", http.StatusInternalServerError, false},
		{"unknown invoice", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
			}))

			assert.Equal(t, tt.want, client.DeleteInvoice(42))
			assert.Equal(t, http.MethodDelete, gotMethod)
			assert.Equal(t, "/invoices/42.json", gotPath)
		})
	}
}

func TestSendInvoiceDefaultsRecipient(t *testing.T) {
	var form map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/invoices/42/deliver_via_email.json", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
	}))

	assert.True(t, client.SendInvoice(42, "", true))
	assert.Equal(t, "original", form["print_type"])
	assert.Equal(t, "pe", form["locale"])
	assert.Equal(t, "client@example.com", form["recipient"])
	assert.Equal(t, "true", form["send_copy"])
}

func TestSendInvoiceExplicitRecipient(t *testing.T) {
	var form map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"recipient": r.PostForm.Get("recipient"),
			"send_copy": r.PostForm.Get("send_copy"),
		}
	}))

	assert.True(t, client.SendInvoice(42, "someone@else.example", false))
	assert.Equal(t, "someone@else.example", form["recipient"])
	assert.Equal(t, "false", form["send_copy"])
}

func TestSendInvoiceRemoteFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mailer down", http.StatusBadGateway)
	}))

	assert.False(t, client.SendInvoice(42, "", true))
}

func TestCreateAndSendInvoice(t *testing.T) {
	var calls []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/invoices.json" {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(invoiceJSON))
			return
		}
	}))

	sent, err := client.CreateAndSendInvoice(decimal.RequireFromString("286.15"), "", true,
		infakt.CreateInvoiceOptions{})
	require.NoError(t, err)
	assert.True(t, sent)

	// Creation strictly precedes delivery, addressed by the new invoice's id.
	require.Equal(t, []string{
		"POST /invoices.json",
		"POST /invoices/42/deliver_via_email.json",
	}, calls)
}

func TestCreateAndSendInvoiceSkipsSendOnFailedCreate(t *testing.T) {
	var calls []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	}))

	sent, err := client.CreateAndSendInvoice(decimal.NewFromInt(100), "", true,
		infakt.CreateInvoiceOptions{})
	require.Error(t, err)
	assert.False(t, sent)
	assert.Equal(t, []string{"/invoices.json"}, calls)
}

func TestConfigReloadedPerRequest(t *testing.T) {
	secondKey := strings.Repeat("b", 40)

	var keys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("X-inFakt-ApiKey"))
		w.Write([]byte(invoiceJSON))
	}))
	t.Cleanup(server.Close)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeClientConfigTo(t, configPath, testAPIKey)
	client := infakt.NewClient(configPath, infakt.WithAPIURL(server.URL))

	_, err := client.GetInvoice(42)
	require.NoError(t, err)

	// Rotating the key on disk takes effect on the very next call.
	writeClientConfigTo(t, configPath, secondKey)
	_, err = client.GetInvoice(42)
	require.NoError(t, err)

	require.Equal(t, []string{testAPIKey, secondKey}, keys)
}

func TestClientSurfacesConfigErrors(t *testing.T) {
	client := infakt.NewClient(filepath.Join(t.TempDir(), "missing.toml"))

	_, err := client.GetInvoice(42)
	require.Error(t, err)

	badKey := infakt.NewClient(writeClientConfig(t, "short"))
	_, err = badKey.GetInvoice(42)
	require.ErrorIs(t, err, config.ErrInvalidAPIKey)
}

func TestDownloadPDF(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 fake")
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/invoices/42/pdf.json", r.URL.Path)
		require.Equal(t, "original", r.URL.Query().Get("document_type"))
		require.Equal(t, "pe", r.URL.Query().Get("locale"))
		w.Write(pdfBytes)
	}))

	path := filepath.Join(t.TempDir(), "42.pdf")
	require.NoError(t, client.DownloadPDF(42, path))

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, saved)
}

func TestDownloadPDFRemoteFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))

	path := filepath.Join(t.TempDir(), "42.pdf")
	err := client.DownloadPDF(42, path)
	require.ErrorIs(t, err, infakt.ErrUnexpectedStatus)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be written on failure")
}
