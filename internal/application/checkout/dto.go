package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/shipping"
)

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest changes a cart line's quantity; zero removes the line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// SetAddressRequest selects the destination address for the session
type SetAddressRequest struct {
	AddressID uuid.UUID `json:"address_id" binding:"required"`
}

// SelectOptionRequest picks one of the quoted shipping options
type SelectOptionRequest struct {
	OptionID int `json:"option_id" binding:"min=0"`
}

// CartItemResponse is the API representation of a cart line
type CartItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	WeightGrams int             `json:"weight_grams"`
	Amount      decimal.Decimal `json:"amount"`
}

// ShippingOptionResponse is the API representation of a normalized option
type ShippingOptionResponse struct {
	ID                 int             `json:"id"`
	CourierName        string          `json:"courier_name"`
	CourierServiceName string          `json:"courier_service_name"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	ETD                string          `json:"etd"`
	IsCOD              bool            `json:"is_cod"`
}

// SessionResponse is the full checkout session projection: cart lines,
// destination, the rate-selection step and the running totals
type SessionResponse struct {
	CustomerID     uuid.UUID                `json:"customer_id"`
	Items          []CartItemResponse       `json:"items"`
	AddressID      *uuid.UUID               `json:"address_id,omitempty"`
	RateState      string                   `json:"rate_state"`
	Options        []ShippingOptionResponse `json:"options,omitempty"`
	SelectedOption *ShippingOptionResponse  `json:"selected_option,omitempty"`
	RateError      string                   `json:"rate_error,omitempty"`
	Subtotal       decimal.Decimal          `json:"subtotal"`
	ShippingCost   decimal.Decimal          `json:"shipping_cost"`
	Total          decimal.Decimal          `json:"total"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// QuoteResult is the uniform outcome of a rate lookup. Success carries the
// normalized options; failure carries a message and nothing else. Callers
// never see partial results.
type QuoteResult struct {
	Success bool                     `json:"success"`
	Options []ShippingOptionResponse `json:"tariffs,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// ToShippingOptionResponse converts a domain option to its API form
func ToShippingOptionResponse(opt shipping.ShippingOption) ShippingOptionResponse {
	return ShippingOptionResponse{
		ID:                 opt.ID,
		CourierName:        opt.CourierName,
		CourierServiceName: opt.CourierServiceName,
		Description:        opt.Description,
		Price:              opt.Price,
		ETD:                opt.ETD,
		IsCOD:              opt.IsCOD,
	}
}

func toShippingOptionResponses(opts []shipping.ShippingOption) []ShippingOptionResponse {
	responses := make([]ShippingOptionResponse, len(opts))
	for i, opt := range opts {
		responses[i] = ToShippingOptionResponse(opt)
	}
	return responses
}

// ToSessionResponse converts a checkout session to its API form
func ToSessionResponse(session *checkout.Session) *SessionResponse {
	items := make([]CartItemResponse, len(session.Items))
	for i, item := range session.Items {
		items[i] = CartItemResponse{
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			WeightGrams: item.WeightGrams,
			Amount:      item.Amount(),
		}
	}

	resp := &SessionResponse{
		CustomerID:   session.CustomerID,
		Items:        items,
		AddressID:    session.AddressID,
		RateState:    string(session.RateState),
		RateError:    session.RateError,
		Subtotal:     session.Subtotal(),
		ShippingCost: session.ShippingCost(),
		Total:        session.Total(),
		UpdatedAt:    session.UpdatedAt,
	}
	if len(session.Options) > 0 {
		resp.Options = toShippingOptionResponses(session.Options)
	}
	if session.SelectedOption != nil {
		selected := ToShippingOptionResponse(*session.SelectedOption)
		resp.SelectedOption = &selected
	}
	return resp
}
