package payment

import (
	"errors"
	"time"

	"github.com/shopfront/backend/internal/infrastructure/config"
)

var (
	// ErrMidtransMissingBaseURL is returned when the gateway base URL is empty
	ErrMidtransMissingBaseURL = errors.New("midtrans: base URL is required")
)

// MidtransConfig holds the settings for the Midtrans Snap client.
// BaseURL serves the hosted payment page API, APIBaseURL serves the
// transaction status API. APIBaseURL falls back to BaseURL when empty.
type MidtransConfig struct {
	BaseURL    string
	APIBaseURL string
	ServerKey  string
	NotifyURL  string
	Timeout    time.Duration
}

// NewMidtransConfig builds a MidtransConfig from the application config
func NewMidtransConfig(cfg *config.PaymentConfig) *MidtransConfig {
	return &MidtransConfig{
		BaseURL:   cfg.BaseURL,
		ServerKey: cfg.ServerKey,
		NotifyURL: cfg.NotifyURL,
		Timeout:   cfg.HTTPTimeout,
	}
}

// Validate checks the config for required fields. An empty ServerKey is
// allowed here on purpose: the adapter reports it per call as
// finance.ErrGatewayNotConfigured so a misconfigured deployment fails with
// a recognizable error instead of an authentication failure from upstream.
func (c *MidtransConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrMidtransMissingBaseURL
	}
	return nil
}

func (c *MidtransConfig) apiBaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return c.BaseURL
}
