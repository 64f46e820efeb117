package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/domain/shipping"
)

// OrderStatus represents the status of a customer order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPendingPayment:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusCompleted
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem is a line item snapshot: product details are copied at order
// time so later catalog edits do not rewrite history
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	WeightGrams int             `gorm:"not null;default:0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, productCode, productName string, quantity, weightGrams int, unitPrice valueobject.Money) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		WeightGrams: weightGrams,
		UnitPrice:   unitPrice.Amount(),
		Amount:      unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ShippingSelection is the immutable snapshot of the shipping option the
// customer picked at checkout
type ShippingSelection struct {
	CourierName    string          `gorm:"type:varchar(100)" json:"courier_name"`
	CourierService string          `gorm:"type:varchar(100)" json:"courier_service"`
	Description    string          `gorm:"type:varchar(255)" json:"description"`
	ETD            string          `gorm:"type:varchar(20)" json:"etd"`
	IsCOD          bool            `json:"is_cod"`
	Cost           decimal.Decimal `gorm:"type:decimal(18,2)" json:"cost"`
}

// NewShippingSelection snapshots a normalized shipping option
func NewShippingSelection(opt shipping.ShippingOption) ShippingSelection {
	return ShippingSelection{
		CourierName:    opt.CourierName,
		CourierService: opt.CourierServiceName,
		Description:    opt.Description,
		ETD:            opt.ETD,
		IsCOD:          opt.IsCOD,
		Cost:           opt.Price,
	}
}

// DeliveryAddress is the shipping destination snapshot stored on the order
type DeliveryAddress struct {
	RecipientName string              `gorm:"type:varchar(100)" json:"recipient_name"`
	Phone         string              `gorm:"type:varchar(30)" json:"phone"`
	Location      valueobject.Address `gorm:"type:jsonb" json:"location"`
	DestinationID int                 `json:"destination_id"`
	PinPoint      string              `gorm:"type:varchar(50)" json:"pin_point"`
}

// Order is the aggregate root for a customer order, from placement through
// payment, shipment and completion
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string            `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID"`
	Address     DeliveryAddress   `gorm:"embedded;embeddedPrefix:addr_"`
	Shipping    ShippingSelection `gorm:"embedded;embeddedPrefix:ship_"`
	Subtotal    decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Status      OrderStatus       `gorm:"type:varchar(20);not null;index"`

	// Payment gateway references (token + redirect URL returned on initiation)
	PaymentToken       string `gorm:"type:varchar(100)"`
	PaymentRedirectURL string `gorm:"type:varchar(500)"`

	TrackingNumber string `gorm:"type:varchar(50)"`
	CancelReason   string `gorm:"type:varchar(255)"`
	PaidAt         *time.Time
	ShippedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in PENDING_PAYMENT with the given line
// items, delivery address and shipping selection. The total is
// subtotal + shipping cost.
func NewOrder(orderNumber string, customerID uuid.UUID, address DeliveryAddress, selection ShippingSelection) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if address.RecipientName == "" || address.Location.IsZero() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Delivery address is incomplete")
	}
	if selection.Cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		Items:             make([]OrderItem, 0),
		Address:           address,
		Shipping:          selection,
		Subtotal:          decimal.Zero,
		TotalAmount:       selection.Cost,
		Status:            OrderStatusPendingPayment,
	}, nil
}

// AddItem appends a line item and recalculates totals. Items can only be
// added before payment.
func (o *Order) AddItem(productID uuid.UUID, productCode, productName string, quantity, weightGrams int, unitPrice valueobject.Money) (*OrderItem, error) {
	if o.Status != OrderStatusPendingPayment {
		return nil, shared.ErrInvalidState
	}

	item, err := NewOrderItem(o.ID, productID, productCode, productName, quantity, weightGrams, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	return item, nil
}

// AttachPayment records the gateway token and redirect URL returned when
// payment was initiated
func (o *Order) AttachPayment(token, redirectURL string) error {
	if o.Status != OrderStatusPendingPayment {
		return shared.ErrInvalidState
	}

	o.PaymentToken = token
	o.PaymentRedirectURL = redirectURL
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// MarkPaid transitions the order to PAID (driven by the gateway callback)
func (o *Order) MarkPaid() error {
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", "Only pending orders can be marked paid")
	}

	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Ship transitions the order to SHIPPED with the carrier tracking number
func (o *Order) Ship(trackingNumber string) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", "Only paid orders can be shipped")
	}
	if strings.TrimSpace(trackingNumber) == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.TrackingNumber = strings.TrimSpace(trackingNumber)
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Complete transitions the order to COMPLETED (delivery confirmed)
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", "Only shipped orders can be completed")
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Cancel transitions the order to CANCELLED. Shipped orders cannot be
// cancelled.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled in its current state")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// recalculateTotals recomputes subtotal and total from line items plus the
// shipping cost
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal.Add(o.Shipping.Cost)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// TotalWeightGrams sums the packaged weight of all line items
func (o *Order) TotalWeightGrams() int {
	total := 0
	for _, item := range o.Items {
		total += item.WeightGrams * item.Quantity
	}
	return total
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsTerminal returns true for completed or cancelled orders
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// GetTotalAmountMoney returns the order total as Money
func (o *Order) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(o.TotalAmount)
}
