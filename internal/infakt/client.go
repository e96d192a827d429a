// Package infakt is a client for the inFakt invoicing API (v3). It covers
// retrieving, creating, deleting and emailing invoices, filling unspecified
// invoice fields from the configuration's defaults tree and from a
// bill-for-the-previous-month date policy.
//
// Error policy, kept for compatibility with the service's existing callers:
// retrieval and creation fail with an *APIError on a non-success status,
// while DeleteInvoice and SendInvoice report failure as a plain boolean.
// Check the return value of the latter two.
package infakt

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"infakttools/internal/config"
	"infakttools/internal/logger"
)

// DefaultAPIURL is the production API endpoint.
const DefaultAPIURL = "https://api.infakt.pl:443/api/v3"

// apiKeyHeader carries the 40-character API key on every request.
const apiKeyHeader = "X-inFakt-ApiKey"

// Client talks to the invoicing API. It holds no mutable state: the
// configuration file is re-read for every request, so credential or default
// changes take effect without restarting. All calls are synchronous and
// single-shot; there are no retries.
type Client struct {
	configPath string
	rest       *resty.Client
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIURL points the client at a different API endpoint. Used by tests
// and sandbox setups.
func WithAPIURL(url string) Option {
	return func(c *Client) {
		c.rest.SetBaseURL(url)
	}
}

// WithTimeout bounds every request. The client itself imposes no deadline
// without it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.rest.SetTimeout(d)
	}
}

// NewClient builds a client reading credentials and defaults from the TOML
// file at configPath. The file is not touched until the first request.
func NewClient(configPath string, opts ...Option) *Client {
	c := &Client{
		configPath: configPath,
		rest:       resty.New().SetBaseURL(DefaultAPIURL),
		log:        logger.WithComponent("infakt"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// settings loads the configuration file fresh. Every headers or defaults
// access goes through here so there is nothing to invalidate.
func (c *Client) settings() (*config.Settings, error) {
	return config.Load(c.configPath)
}

// newRequest starts a request carrying the API key header.
func (c *Client) newRequest() (*resty.Request, error) {
	settings, err := c.settings()
	if err != nil {
		return nil, err
	}
	return c.rest.R().SetHeader(apiKeyHeader, settings.APIKey()), nil
}

func (c *Client) defaultString(path string) (string, error) {
	settings, err := c.settings()
	if err != nil {
		return "", err
	}
	return settings.LookupString(path, ""), nil
}

func (c *Client) defaultInt(path string) (int, error) {
	settings, err := c.settings()
	if err != nil {
		return 0, err
	}
	return settings.LookupInt(path, 0), nil
}
