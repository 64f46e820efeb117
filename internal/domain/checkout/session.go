package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shipping"
)

// CartItem is a product snapshot inside the checkout session
type CartItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	WeightGrams int             `json:"weight_grams"`
}

// Amount returns the line amount (unit price * quantity)
func (i CartItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Session is the in-progress checkout state for one customer: the cart,
// the chosen destination address and the shipping rate-selection step. It
// is owned exclusively by that customer's session - no cross-user sharing,
// so no locking is needed. Sessions are serialized to the session store
// between requests.
type Session struct {
	CustomerID uuid.UUID  `json:"customer_id"`
	Items      []CartItem `json:"items"`
	AddressID  *uuid.UUID `json:"address_id,omitempty"`

	// Rate-selection step; RateState is the single source of truth for the
	// step's status (never a pair of loading/error booleans).
	RateState      shipping.QuoteState       `json:"rate_state"`
	Options        []shipping.ShippingOption `json:"options,omitempty"`
	SelectedOption *shipping.ShippingOption  `json:"selected_option,omitempty"`
	RateError      string                    `json:"rate_error,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty checkout session for a customer
func NewSession(customerID uuid.UUID) *Session {
	return &Session{
		CustomerID: customerID,
		Items:      make([]CartItem, 0),
		RateState:  shipping.QuoteStateIdle,
		UpdatedAt:  time.Now(),
	}
}

// AddItem adds a product to the cart, merging quantities for repeats
func (s *Session) AddItem(item CartItem) error {
	if item.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if item.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for i := range s.Items {
		if s.Items[i].ProductID == item.ProductID {
			s.Items[i].Quantity += item.Quantity
			s.invalidateQuote()
			return nil
		}
	}
	s.Items = append(s.Items, item)
	s.invalidateQuote()
	return nil
}

// UpdateItemQuantity sets the quantity for a cart line (0 removes it)
func (s *Session) UpdateItemQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			if quantity == 0 {
				s.Items = append(s.Items[:i], s.Items[i+1:]...)
			} else {
				s.Items[i].Quantity = quantity
			}
			s.invalidateQuote()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetAddress selects the destination address. Changing the destination
// invalidates any previously quoted options.
func (s *Session) SetAddress(addressID uuid.UUID) error {
	if addressID == uuid.Nil {
		return shared.NewDomainError("INVALID_ADDRESS", "Address ID cannot be empty")
	}

	s.AddressID = &addressID
	s.invalidateQuote()
	return nil
}

// BeginQuote moves the rate step into Loading. It rejects the transition
// when a lookup is already in flight (no concurrent duplicate requests) or
// when no destination address is set.
func (s *Session) BeginQuote() error {
	if s.AddressID == nil {
		return shared.NewDomainError("NO_ADDRESS", "A destination address is required before requesting rates")
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("EMPTY_CART", "Cannot quote shipping for an empty cart")
	}
	if s.RateState == shipping.QuoteStateLoading {
		return shared.NewDomainError("QUOTE_IN_FLIGHT", "A rate lookup is already in progress")
	}
	if !s.RateState.CanTransitionTo(shipping.QuoteStateLoading) {
		return shared.ErrInvalidState
	}

	s.RateState = shipping.QuoteStateLoading
	s.Options = nil
	s.SelectedOption = nil
	s.RateError = ""
	s.UpdatedAt = time.Now()
	return nil
}

// CompleteQuote records a successful non-empty rate lookup
func (s *Session) CompleteQuote(options []shipping.ShippingOption) error {
	if !s.RateState.CanTransitionTo(shipping.QuoteStateLoaded) {
		return shared.ErrInvalidState
	}
	if len(options) == 0 {
		return shared.NewDomainError("NO_OPTIONS", "Cannot complete a quote with zero options")
	}

	s.RateState = shipping.QuoteStateLoaded
	s.Options = options
	s.RateError = ""
	s.UpdatedAt = time.Now()
	return nil
}

// FailQuote records a failed or empty rate lookup. The customer can retry
// explicitly via BeginQuote.
func (s *Session) FailQuote(message string) error {
	if !s.RateState.CanTransitionTo(shipping.QuoteStateError) {
		return shared.ErrInvalidState
	}

	s.RateState = shipping.QuoteStateError
	s.Options = nil
	s.SelectedOption = nil
	s.RateError = message
	s.UpdatedAt = time.Now()
	return nil
}

// SelectOption picks one of the loaded options by its ID. This is a
// Loaded -> Loaded sub-state change: no re-fetch happens and the running
// total changes to subtotal + option price.
func (s *Session) SelectOption(optionID int) error {
	if s.RateState != shipping.QuoteStateLoaded {
		return shared.NewDomainError("INVALID_STATE", "Shipping options are not loaded")
	}

	for i := range s.Options {
		if s.Options[i].ID == optionID {
			opt := s.Options[i]
			s.SelectedOption = &opt
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Subtotal sums the cart line amounts
func (s *Session) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.Amount())
	}
	return subtotal
}

// ShippingCost returns the selected option's price, zero when none is
// selected
func (s *Session) ShippingCost() decimal.Decimal {
	if s.SelectedOption == nil {
		return decimal.Zero
	}
	return s.SelectedOption.Price
}

// Total returns subtotal + selected shipping cost
func (s *Session) Total() decimal.Decimal {
	return s.Subtotal().Add(s.ShippingCost())
}

// TotalWeightGrams sums the packaged weight of the cart
func (s *Session) TotalWeightGrams() int {
	total := 0
	for _, item := range s.Items {
		total += item.WeightGrams * item.Quantity
	}
	return total
}

// IsReadyToPlace returns true when the session can become an order
func (s *Session) IsReadyToPlace() bool {
	return len(s.Items) > 0 && s.AddressID != nil &&
		s.RateState == shipping.QuoteStateLoaded && s.SelectedOption != nil
}

// invalidateQuote resets the rate step after cart or address changes, since
// quoted prices depend on weight, value and destination
func (s *Session) invalidateQuote() {
	s.RateState = shipping.QuoteStateIdle
	s.Options = nil
	s.SelectedOption = nil
	s.RateError = ""
	s.UpdatedAt = time.Now()
}
