package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/finance"
)

// PaymentStatusResponse is the API projection of a gateway status query
type PaymentStatusResponse struct {
	OrderNumber          string          `json:"order_number"`
	GatewayTransactionID string          `json:"gateway_transaction_id,omitempty"`
	Status               string          `json:"status"`
	GrossAmount          decimal.Decimal `json:"gross_amount"`
	PaymentType          string          `json:"payment_type,omitempty"`
	SettledAt            *time.Time      `json:"settled_at,omitempty"`
}

// ToPaymentStatusResponse converts a gateway status result to its API form
func ToPaymentStatusResponse(status *finance.TransactionStatusResponse) *PaymentStatusResponse {
	return &PaymentStatusResponse{
		OrderNumber:          status.OrderNumber,
		GatewayTransactionID: status.GatewayTransactionID,
		Status:               status.Status.String(),
		GrossAmount:          status.GrossAmount,
		PaymentType:          status.PaymentType,
		SettledAt:            status.SettledAt,
	}
}
