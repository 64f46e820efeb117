package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// Address is an entry in a customer's address book. DestinationID is the
// logistics aggregator's location identifier for the area; it is what the
// rate lookup uses as receiver_destination_id. PinPoint optionally refines
// the drop point for instant couriers.
type Address struct {
	shared.BaseAggregateRoot
	CustomerID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Label         string              `gorm:"type:varchar(50);not null"`
	RecipientName string              `gorm:"type:varchar(100);not null"`
	Phone         string              `gorm:"type:varchar(30);not null"`
	Location      valueobject.Address `gorm:"type:jsonb;not null"`
	DestinationID int                 `gorm:"not null"`
	PinPoint      string              `gorm:"type:varchar(50)"`
	IsDefault     bool                `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "customer_addresses"
}

// NewAddress creates a new address book entry
func NewAddress(customerID uuid.UUID, label, recipientName, phone string, location valueobject.Address, destinationID int) (*Address, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(label) == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Address label cannot be empty")
	}
	if strings.TrimSpace(recipientName) == "" {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient name cannot be empty")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Recipient phone cannot be empty")
	}
	if location.IsZero() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address location cannot be empty")
	}
	if destinationID <= 0 {
		return nil, shared.NewDomainError("INVALID_DESTINATION", "Destination ID must be positive")
	}

	return &Address{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Label:             strings.TrimSpace(label),
		RecipientName:     strings.TrimSpace(recipientName),
		Phone:             strings.TrimSpace(phone),
		Location:          location,
		DestinationID:     destinationID,
	}, nil
}

// Update replaces the address contents
func (a *Address) Update(label, recipientName, phone string, location valueobject.Address, destinationID int) error {
	if strings.TrimSpace(label) == "" {
		return shared.NewDomainError("INVALID_LABEL", "Address label cannot be empty")
	}
	if strings.TrimSpace(recipientName) == "" {
		return shared.NewDomainError("INVALID_RECIPIENT", "Recipient name cannot be empty")
	}
	if strings.TrimSpace(phone) == "" {
		return shared.NewDomainError("INVALID_PHONE", "Recipient phone cannot be empty")
	}
	if location.IsZero() {
		return shared.NewDomainError("INVALID_ADDRESS", "Address location cannot be empty")
	}
	if destinationID <= 0 {
		return shared.NewDomainError("INVALID_DESTINATION", "Destination ID must be positive")
	}

	a.Label = strings.TrimSpace(label)
	a.RecipientName = strings.TrimSpace(recipientName)
	a.Phone = strings.TrimSpace(phone)
	a.Location = location
	a.DestinationID = destinationID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// SetPinPoint records the geographic drop point as "lat,lon"
func (a *Address) SetPinPoint(pin valueobject.PinPoint) {
	a.PinPoint = pin.String()
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// GetPinPoint parses the stored pin point, returning the zero value when
// none is recorded
func (a *Address) GetPinPoint() (valueobject.PinPoint, error) {
	return valueobject.ParsePinPoint(a.PinPoint)
}

// MarkDefault flags this address as the customer's default
func (a *Address) MarkDefault() {
	a.IsDefault = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// UnmarkDefault clears the default flag
func (a *Address) UnmarkDefault() {
	a.IsDefault = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
