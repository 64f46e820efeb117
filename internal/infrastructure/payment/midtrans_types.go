package payment

import (
	"time"

	"github.com/shopfront/backend/internal/domain/finance"
)

const (
	snapTransactionsPath  = "/snap/v1/transactions"
	transactionStatusPath = "/v2/%s/status"
)

// snapTransactionDetails carries the order reference and amount.
// GrossAmount is sent as an integer because IDR has no minor unit.
type snapTransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type snapCustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type snapExpiry struct {
	Unit     string `json:"unit"`
	Duration int    `json:"duration"`
}

type snapCallbacks struct {
	Finish string `json:"finish,omitempty"`
}

// snapCreateRequest is the request body for opening a hosted payment page
type snapCreateRequest struct {
	TransactionDetails snapTransactionDetails `json:"transaction_details"`
	CustomerDetails    snapCustomerDetails    `json:"customer_details"`
	Expiry             *snapExpiry            `json:"expiry,omitempty"`
	Callbacks          *snapCallbacks         `json:"callbacks,omitempty"`
}

type snapCreateResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

// midtransTransactionStatus is the shape shared by the status API response
// and the HTTP notification payload
type midtransTransactionStatus struct {
	StatusCode        string `json:"status_code"`
	StatusMessage     string `json:"status_message,omitempty"`
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	PaymentType       string `json:"payment_type"`
	GrossAmount       string `json:"gross_amount"`
	TransactionTime   string `json:"transaction_time,omitempty"`
	SettlementTime    string `json:"settlement_time,omitempty"`
	SignatureKey      string `json:"signature_key,omitempty"`
}

// mapTransactionStatus maps the gateway's transaction_status strings to
// the domain status enum. A capture is only a success when the fraud
// check accepted it.
func mapTransactionStatus(status, fraudStatus string) finance.TransactionStatus {
	switch status {
	case "settlement":
		return finance.TransactionStatusSettled
	case "capture":
		if fraudStatus == "" || fraudStatus == "accept" {
			return finance.TransactionStatusSettled
		}
		return finance.TransactionStatusDenied
	case "pending":
		return finance.TransactionStatusPending
	case "deny":
		return finance.TransactionStatusDenied
	case "cancel":
		return finance.TransactionStatusCancelled
	case "expire":
		return finance.TransactionStatusExpired
	default:
		return finance.TransactionStatusPending
	}
}

// parseSettlementTime parses the settlement_time field, which the gateway
// sends in local WIB time without a zone designator
func parseSettlementTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return nil
	}
	return &t
}
