package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/finance"
)

const maxResponseSize = 1 << 20 // 1 MiB

// MidtransAdapter implements the finance.PaymentGateway port against the
// Midtrans Snap and transaction status APIs
type MidtransAdapter struct {
	config     *MidtransConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewMidtransAdapter creates a Midtrans adapter from the given config
func NewMidtransAdapter(config *MidtransConfig, logger *zap.Logger) (*MidtransAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &MidtransAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("midtrans"),
	}, nil
}

// CreateCharge opens a hosted payment session for the order
func (a *MidtransAdapter) CreateCharge(ctx context.Context, req *finance.CreateChargeRequest) (*finance.CreateChargeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if a.config.ServerKey == "" {
		return nil, finance.ErrGatewayNotConfigured
	}

	body := snapCreateRequest{
		TransactionDetails: snapTransactionDetails{
			OrderID:     req.OrderNumber,
			GrossAmount: req.GrossAmount.IntPart(),
		},
		CustomerDetails: snapCustomerDetails{
			FirstName: req.CustomerName,
			Email:     req.CustomerEmail,
			Phone:     req.CustomerPhone,
		},
	}

	expiry := req.ExpiryDuration
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	body.Expiry = &snapExpiry{
		Unit:     "minutes",
		Duration: int(expiry.Minutes()),
	}
	if a.config.NotifyURL != "" {
		body.Callbacks = &snapCallbacks{Finish: a.config.NotifyURL}
	}

	respBody, status, err := a.doRequest(ctx, http.MethodPost, a.config.BaseURL, snapTransactionsPath, body)
	if err != nil {
		return nil, err
	}

	var resp snapCreateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("midtrans: failed to decode response: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		a.logger.Warn("Charge creation rejected",
			zap.Int("status", status),
			zap.String("order_number", req.OrderNumber),
			zap.Strings("errors", resp.ErrorMessages))
		return nil, fmt.Errorf("%w: status %d: %s",
			finance.ErrGatewayRequestFailed, status, strings.Join(resp.ErrorMessages, "; "))
	}
	if resp.Token == "" || resp.RedirectURL == "" {
		return nil, finance.ErrGatewayInvalidResponse
	}

	a.logger.Info("Charge created",
		zap.String("order_number", req.OrderNumber),
		zap.String("gross_amount", req.GrossAmount.String()))

	return &finance.CreateChargeResponse{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		ExpiresAt:   time.Now().Add(expiry),
	}, nil
}

// GetTransactionStatus queries the gateway for the charge status by our
// order number
func (a *MidtransAdapter) GetTransactionStatus(ctx context.Context, orderNumber string) (*finance.TransactionStatusResponse, error) {
	if orderNumber == "" {
		return nil, finance.ErrChargeInvalidOrderNumber
	}
	if a.config.ServerKey == "" {
		return nil, finance.ErrGatewayNotConfigured
	}

	path := fmt.Sprintf(transactionStatusPath, url.PathEscape(orderNumber))
	respBody, status, err := a.doRequest(ctx, http.MethodGet, a.config.apiBaseURL(), path, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, finance.ErrTransactionNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", finance.ErrGatewayRequestFailed, status)
	}

	var resp midtransTransactionStatus
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("midtrans: failed to decode response: %w", err)
	}
	// The status API signals a missing transaction through status_code 404
	// while still answering HTTP 200
	if resp.StatusCode == "404" {
		return nil, finance.ErrTransactionNotFound
	}

	grossAmount, err := decimal.NewFromString(resp.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("midtrans: invalid gross_amount %q: %w", resp.GrossAmount, finance.ErrGatewayInvalidResponse)
	}

	return &finance.TransactionStatusResponse{
		OrderNumber:          resp.OrderID,
		GatewayTransactionID: resp.TransactionID,
		Status:               mapTransactionStatus(resp.TransactionStatus, resp.FraudStatus),
		GrossAmount:          grossAmount,
		PaymentType:          resp.PaymentType,
		SettledAt:            parseSettlementTime(resp.SettlementTime),
	}, nil
}

// VerifyNotification checks the SHA-512 signature of a status notification
// and parses it into a domain notification
func (a *MidtransAdapter) VerifyNotification(ctx context.Context, payload []byte) (*finance.PaymentNotification, error) {
	if a.config.ServerKey == "" {
		return nil, finance.ErrGatewayNotConfigured
	}

	var n midtransTransactionStatus
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("midtrans: failed to decode notification: %w", err)
	}

	expected := signNotification(n.OrderID, n.StatusCode, n.GrossAmount, a.config.ServerKey)
	if n.SignatureKey == "" || !strings.EqualFold(n.SignatureKey, expected) {
		a.logger.Warn("Notification signature mismatch",
			zap.String("order_number", n.OrderID),
			zap.String("transaction_id", n.TransactionID))
		return nil, finance.ErrNotificationBadSignature
	}

	grossAmount, err := decimal.NewFromString(n.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("midtrans: invalid gross_amount %q: %w", n.GrossAmount, finance.ErrGatewayInvalidResponse)
	}

	return &finance.PaymentNotification{
		OrderNumber:          n.OrderID,
		GatewayTransactionID: n.TransactionID,
		Status:               mapTransactionStatus(n.TransactionStatus, n.FraudStatus),
		GrossAmount:          grossAmount,
		PaymentType:          n.PaymentType,
		SettledAt:            parseSettlementTime(n.SettlementTime),
		RawPayload:           string(payload),
	}, nil
}

// signNotification computes the notification signature:
// sha512(order_id + status_code + gross_amount + server_key)
func signNotification(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func (a *MidtransAdapter) doRequest(ctx context.Context, method, baseURL, path string, body interface{}) ([]byte, int, error) {
	endpoint, err := url.JoinPath(baseURL, path)
	if err != nil {
		return nil, 0, fmt.Errorf("midtrans: failed to build URL: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("midtrans: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("midtrans: failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", basicAuth(a.config.ServerKey))
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", finance.ErrGatewayRequestFailed, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("midtrans: failed to read response: %w", err)
	}

	a.logger.Debug("Gateway request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	return respBody, httpResp.StatusCode, nil
}

// basicAuth encodes the server key for the Authorization header. The key
// is used as the username with an empty password.
func basicAuth(serverKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(serverKey+":"))
}

var _ finance.PaymentGateway = (*MidtransAdapter)(nil)
