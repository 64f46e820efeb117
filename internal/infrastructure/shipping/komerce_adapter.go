package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	domain "github.com/shopfront/backend/internal/domain/shipping"
)

// maxResponseSize is the maximum allowed response size from the rate API (1MB)
const maxResponseSize = 1 * 1024 * 1024

// KomerceAdapter implements the domain RateGateway against the Komerce
// tariff API. One request per lookup, no retries: a failed lookup surfaces
// in the checkout as a retryable error state and the customer decides.
type KomerceAdapter struct {
	config     *KomerceConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewKomerceAdapter creates a new Komerce rate adapter
func NewKomerceAdapter(config *KomerceConfig, logger *zap.Logger) (*KomerceAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Zero means no client-side deadline; the upstream timeout is an open
	// configuration gap and is not guessed here.
	return &KomerceAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.Named("komerce"),
	}, nil
}

// CalculateRates fetches available couriers and tariffs for a shipment.
// The returned slice preserves the upstream order of the regular service
// class, untouched; normalization into display options happens in the
// domain layer.
func (a *KomerceAdapter) CalculateRates(ctx context.Context, req *domain.RateRequest) ([]domain.RawTariff, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if a.config.APIKey == "" {
		return nil, domain.ErrAPIKeyNotConfigured
	}

	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("komerce: rate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("komerce: failed to read response: %w", err)
	}

	a.logger.Debug("Rate lookup completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Int("shipper_destination_id", req.ShipperDestinationID),
		zap.Int("receiver_destination_id", req.ReceiverDestinationID))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var envelope komerceCalculateResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("komerce: failed to decode response: %w", err)
	}

	if len(envelope.Data.CalculateReguler) == 0 {
		return nil, domain.ErrNoOptionsAvailable
	}

	return envelope.Data.CalculateReguler, nil
}

// buildRequest assembles the GET request for the calculate endpoint
func (a *KomerceAdapter) buildRequest(ctx context.Context, req *domain.RateRequest) (*http.Request, error) {
	endpoint, err := url.JoinPath(a.config.BaseURL, calculateEndpoint)
	if err != nil {
		return nil, fmt.Errorf("komerce: invalid base URL: %w", err)
	}

	query := url.Values{}
	query.Set("shipper_destination_id", strconv.Itoa(req.ShipperDestinationID))
	query.Set("receiver_destination_id", strconv.Itoa(req.ReceiverDestinationID))
	query.Set("weight", req.Weight.String())
	query.Set("item_value", req.ItemValue.String())
	if !req.OriginPinPoint.IsZero() {
		query.Set("origin_pin_point", req.OriginPinPoint.String())
	}
	if !req.DestinationPinPoint.IsZero() {
		query.Set("destination_pin_point", req.DestinationPinPoint.String())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("komerce: failed to build request: %w", err)
	}

	httpReq.Header.Set("x-api-key", a.config.APIKey)
	httpReq.Header.Set("Accept", "application/json")

	return httpReq, nil
}

// Ensure KomerceAdapter implements the domain gateway port
var _ domain.RateGateway = (*KomerceAdapter)(nil)
