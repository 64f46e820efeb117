package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/trade"
)

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	WeightGrams int             `json:"weight_grams"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// DeliveryAddressResponse is the address snapshot on an order
type DeliveryAddressResponse struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Province      string `json:"province"`
	City          string `json:"city"`
	District      string `json:"district"`
	Detail        string `json:"detail"`
	PostalCode    string `json:"postal_code"`
	DestinationID int    `json:"destination_id"`
}

// ShippingSelectionResponse is the shipping snapshot on an order
type ShippingSelectionResponse struct {
	CourierName    string          `json:"courier_name"`
	CourierService string          `json:"courier_service"`
	Description    string          `json:"description"`
	ETD            string          `json:"etd"`
	IsCOD          bool            `json:"is_cod"`
	Cost           decimal.Decimal `json:"cost"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	OrderNumber        string                    `json:"order_number"`
	CustomerID         uuid.UUID                 `json:"customer_id"`
	Items              []OrderItemResponse       `json:"items"`
	Address            DeliveryAddressResponse   `json:"address"`
	Shipping           ShippingSelectionResponse `json:"shipping"`
	Subtotal           decimal.Decimal           `json:"subtotal"`
	TotalAmount        decimal.Decimal           `json:"total_amount"`
	Status             string                    `json:"status"`
	PaymentToken       string                    `json:"payment_token,omitempty"`
	PaymentRedirectURL string                    `json:"payment_redirect_url,omitempty"`
	TrackingNumber     string                    `json:"tracking_number,omitempty"`
	CancelReason       string                    `json:"cancel_reason,omitempty"`
	PaidAt             *time.Time                `json:"paid_at,omitempty"`
	ShippedAt          *time.Time                `json:"shipped_at,omitempty"`
	CompletedAt        *time.Time                `json:"completed_at,omitempty"`
	CancelledAt        *time.Time                `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			WeightGrams: item.WeightGrams,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}

	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Items:       items,
		Address: DeliveryAddressResponse{
			RecipientName: o.Address.RecipientName,
			Phone:         o.Address.Phone,
			Province:      o.Address.Location.Province(),
			City:          o.Address.Location.City(),
			District:      o.Address.Location.District(),
			Detail:        o.Address.Location.Detail(),
			PostalCode:    o.Address.Location.PostalCode(),
			DestinationID: o.Address.DestinationID,
		},
		Shipping: ShippingSelectionResponse{
			CourierName:    o.Shipping.CourierName,
			CourierService: o.Shipping.CourierService,
			Description:    o.Shipping.Description,
			ETD:            o.Shipping.ETD,
			IsCOD:          o.Shipping.IsCOD,
			Cost:           o.Shipping.Cost,
		},
		Subtotal:           o.Subtotal,
		TotalAmount:        o.TotalAmount,
		Status:             string(o.Status),
		PaymentToken:       o.PaymentToken,
		PaymentRedirectURL: o.PaymentRedirectURL,
		TrackingNumber:     o.TrackingNumber,
		CancelReason:       o.CancelReason,
		PaidAt:             o.PaidAt,
		ShippedAt:          o.ShippedAt,
		CompletedAt:        o.CompletedAt,
		CancelledAt:        o.CancelledAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// OrderListFilter holds order list query parameters
type OrderListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// ShipOrderRequest marks a paid order as shipped
type ShipOrderRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required,min=1,max=50"`
}

// CancelOrderRequest cancels an unpaid order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}
