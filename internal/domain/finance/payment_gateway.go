package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payment Gateway Errors
// ---------------------------------------------------------------------------

var (
	// Charge creation errors
	ErrChargeInvalidOrderID     = errors.New("payment: invalid order ID")
	ErrChargeInvalidOrderNumber = errors.New("payment: invalid order number")
	ErrChargeInvalidAmount      = errors.New("payment: invalid charge amount")
	ErrChargeInvalidCustomer    = errors.New("payment: invalid customer details")

	// Query errors
	ErrTransactionNotFound = errors.New("payment: transaction not found")

	// Gateway errors
	ErrGatewayNotConfigured     = errors.New("payment: gateway server key not configured")
	ErrGatewayRequestFailed     = errors.New("payment: gateway request failed")
	ErrGatewayInvalidResponse   = errors.New("payment: invalid gateway response")
	ErrNotificationBadSignature = errors.New("payment: notification signature mismatch")
)

// TransactionStatus is the status of a charge in the gateway
type TransactionStatus string

const (
	// TransactionStatusPending indicates the customer has not paid yet
	TransactionStatusPending TransactionStatus = "PENDING"
	// TransactionStatusSettled indicates funds were received
	TransactionStatusSettled TransactionStatus = "SETTLED"
	// TransactionStatusDenied indicates the gateway rejected the payment
	TransactionStatusDenied TransactionStatus = "DENIED"
	// TransactionStatusCancelled indicates the charge was cancelled
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
	// TransactionStatusExpired indicates the charge expired unpaid
	TransactionStatusExpired TransactionStatus = "EXPIRED"
)

// IsValid returns true if the status is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSettled, TransactionStatusDenied,
		TransactionStatusCancelled, TransactionStatusExpired:
		return true
	default:
		return false
	}
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// IsFinal returns true if the status is a terminal state
func (s TransactionStatus) IsFinal() bool {
	return s != TransactionStatusPending && s.IsValid()
}

// IsSuccess returns true if the payment completed
func (s TransactionStatus) IsSuccess() bool {
	return s == TransactionStatusSettled
}

// ---------------------------------------------------------------------------
// Charge Request/Response DTOs
// ---------------------------------------------------------------------------

// CreateChargeRequest represents a request to open a hosted payment page
// for an order
type CreateChargeRequest struct {
	// OrderID is our internal order ID
	OrderID uuid.UUID
	// OrderNumber is our internal order number, used as the gateway reference
	OrderNumber string
	// GrossAmount is the full amount to collect, items plus shipping
	GrossAmount decimal.Decimal
	// Currency is the charge currency (default: IDR)
	Currency string
	// CustomerName is shown on the payment page
	CustomerName string
	// CustomerEmail receives the gateway's payment receipt
	CustomerEmail string
	// CustomerPhone is optional
	CustomerPhone string
	// ExpiryDuration is how long the charge stays payable
	ExpiryDuration time.Duration
}

// Validate validates the create charge request
func (r *CreateChargeRequest) Validate() error {
	if r.OrderID == uuid.Nil {
		return ErrChargeInvalidOrderID
	}
	if r.OrderNumber == "" {
		return ErrChargeInvalidOrderNumber
	}
	if r.GrossAmount.LessThanOrEqual(decimal.Zero) {
		return ErrChargeInvalidAmount
	}
	if r.CustomerName == "" || r.CustomerEmail == "" {
		return ErrChargeInvalidCustomer
	}
	return nil
}

// CreateChargeResponse represents the gateway's hosted payment session
type CreateChargeResponse struct {
	// Token identifies the payment session in the gateway
	Token string
	// RedirectURL is where the customer completes payment
	RedirectURL string
	// ExpiresAt is when the session stops accepting payment
	ExpiresAt time.Time
}

// TransactionStatusResponse represents the result of a status query
type TransactionStatusResponse struct {
	// OrderNumber is our internal order number
	OrderNumber string
	// GatewayTransactionID is the transaction ID assigned by the gateway
	GatewayTransactionID string
	// Status is the current transaction status
	Status TransactionStatus
	// GrossAmount is the charged amount
	GrossAmount decimal.Decimal
	// PaymentType is the channel the customer used (bank_transfer, qris, ...)
	PaymentType string
	// SettledAt is when the funds were received
	SettledAt *time.Time
}

// PaymentNotification is a server-to-server status notification from the
// gateway, already signature-verified by the adapter
type PaymentNotification struct {
	// OrderNumber is our internal order number
	OrderNumber string
	// GatewayTransactionID is the transaction ID assigned by the gateway
	GatewayTransactionID string
	// Status is the notified transaction status
	Status TransactionStatus
	// GrossAmount is the charged amount
	GrossAmount decimal.Decimal
	// PaymentType is the channel the customer used
	PaymentType string
	// SettledAt is when the funds were received
	SettledAt *time.Time
	// RawPayload is the original notification body
	RawPayload string
}

// ---------------------------------------------------------------------------
// PaymentGateway Port Interface
// ---------------------------------------------------------------------------

// PaymentGateway is the port interface for the external payment provider.
// It is defined here in the domain layer; the concrete HTTP adapter lives
// in the infrastructure layer.
type PaymentGateway interface {
	// CreateCharge opens a hosted payment session for an order and returns
	// the token and redirect URL for the customer
	CreateCharge(ctx context.Context, req *CreateChargeRequest) (*CreateChargeResponse, error)

	// GetTransactionStatus queries the current status of a charge by our
	// order number
	GetTransactionStatus(ctx context.Context, orderNumber string) (*TransactionStatusResponse, error)

	// VerifyNotification verifies the signature of a status notification
	// payload and parses it. Returns ErrNotificationBadSignature when the
	// signature does not match.
	VerifyNotification(ctx context.Context, payload []byte) (*PaymentNotification, error)
}

// PaymentNotificationHandler is implemented by the application layer to
// apply verified notifications to orders
type PaymentNotificationHandler interface {
	HandlePaymentNotification(ctx context.Context, notification *PaymentNotification) error
}
