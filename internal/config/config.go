// Package config loads the TOML settings file that drives the invoicing
// client: API credentials plus a tree of default values for invoice fields.
//
// Example config.toml:
//
//	title = "freelance"
//
//	[credentials]
//	api_key = "0123456789012345678901234567890123456789"
//
//	[defaults.invoice]
//	client_id = 4321
//	client_email = "billing@example.com"
//
//	[defaults.invoice.service]
//	name = "Software development"
//	gtu_id = 12
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// apiKeyLength is the exact length the remote service issues keys in.
const apiKeyLength = 40

// ErrInvalidAPIKey is returned when credentials.api_key is missing or does
// not have the expected length.
var ErrInvalidAPIKey = errors.New("please provide a valid API key")

// Settings is the parsed configuration file. It is never mutated after Load;
// callers wanting fresh values reload the file.
type Settings struct {
	Title       string            `toml:"title"`
	Credentials map[string]string `toml:"credentials"`
	Defaults    map[string]any    `toml:"defaults"`
}

// Load reads and parses a TOML settings file. It fails when the file cannot
// be read, is not valid TOML, or carries an API key of the wrong length.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	settings := &Settings{}
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return settings, nil
}

func (s *Settings) validate() error {
	if len(s.Credentials["api_key"]) != apiKeyLength {
		return ErrInvalidAPIKey
	}
	return nil
}

// APIKey returns the credential used to authenticate against the remote API.
func (s *Settings) APIKey() string {
	return s.Credentials["api_key"]
}

// Lookup walks the Defaults tree along a dotted path ("invoice.client_id")
// and returns the stored value. It returns def when any segment is absent or
// an intermediate node is not a table; absence is never an error.
func (s *Settings) Lookup(path string, def any) any {
	var node any = s.Defaults
	for _, key := range strings.Split(path, ".") {
		table, ok := node.(map[string]any)
		if !ok {
			return def
		}
		node, ok = table[key]
		if !ok {
			return def
		}
	}
	return node
}

// LookupString is Lookup for string-valued defaults.
func (s *Settings) LookupString(path, def string) string {
	if v, ok := s.Lookup(path, nil).(string); ok {
		return v
	}
	return def
}

// LookupInt is Lookup for integer-valued defaults. TOML integers decode as
// int64, but values arriving through other decoders are accepted too.
func (s *Settings) LookupInt(path string, def int) int {
	switch v := s.Lookup(path, nil).(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}
