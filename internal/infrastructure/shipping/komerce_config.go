package shipping

import (
	"errors"
	"time"
)

// KomerceConfig contains configuration for the Komerce rate API client
type KomerceConfig struct {
	// BaseURL is the API base URL, e.g. https://api-sandbox.collaborator.komerce.id
	BaseURL string
	// APIKey is sent as the x-api-key header on every request. May be empty
	// at construction time; the adapter then refuses rate lookups with
	// shipping.ErrAPIKeyNotConfigured instead of sending doomed requests.
	APIKey string
	// Timeout is the per-request timeout for rate lookups
	Timeout time.Duration
}

// ErrKomerceMissingBaseURL indicates a missing API base URL
var ErrKomerceMissingBaseURL = errors.New("komerce: missing base URL")

// Validate validates the configuration
func (c *KomerceConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrKomerceMissingBaseURL
	}
	return nil
}
