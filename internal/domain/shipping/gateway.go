package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// Rate lookup errors, grouped by fault:
//   - validation errors are the caller's fault and map to 400
//   - ErrAPIKeyNotConfigured is the operator's fault and maps to 500
//   - UpstreamError is transient and safe to retry manually
//   - ErrNoOptionsAvailable is a well-formed empty response, not a failure
var (
	ErrRateMissingOrigin      = errors.New("shipping: shipper destination ID is required")
	ErrRateMissingDestination = errors.New("shipping: receiver destination ID is required")
	ErrRateInvalidWeight      = errors.New("shipping: weight must be positive")
	ErrRateInvalidItemValue   = errors.New("shipping: item value must be positive")
	ErrAPIKeyNotConfigured    = errors.New("shipping: rate API key is not configured")
	ErrNoOptionsAvailable     = errors.New("shipping: no shipping options available for this route")
)

// UpstreamError reports a non-success response from the external rate
// service. It carries the upstream status code and body so operators can
// diagnose failures without replaying the call.
type UpstreamError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("shipping: rate service returned status %d: %s", e.StatusCode, e.Body)
}

// IsUpstreamError reports whether err is (or wraps) an UpstreamError
func IsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// RateRequest carries the parameters for one rate lookup. The two pin
// points are optional; everything else is required and validated before any
// network call is made.
type RateRequest struct {
	ShipperDestinationID  int
	ReceiverDestinationID int
	Weight                decimal.Decimal // kilograms
	ItemValue             decimal.Decimal // declared value, IDR
	OriginPinPoint        valueobject.PinPoint
	DestinationPinPoint   valueobject.PinPoint
}

// Validate fails fast on missing required fields
func (r *RateRequest) Validate() error {
	if r.ShipperDestinationID <= 0 {
		return ErrRateMissingOrigin
	}
	if r.ReceiverDestinationID <= 0 {
		return ErrRateMissingDestination
	}
	if r.Weight.LessThanOrEqual(decimal.Zero) {
		return ErrRateInvalidWeight
	}
	if r.ItemValue.LessThanOrEqual(decimal.Zero) {
		return ErrRateInvalidItemValue
	}
	return nil
}

// RateGateway is the port interface for the external rate-calculation
// service. Implementations live in the infrastructure layer. A single call
// is one synchronous lookup: no retries, no partial results - either the
// full tariff list comes back or an error does.
type RateGateway interface {
	CalculateRates(ctx context.Context, req *RateRequest) ([]RawTariff, error)
}
