package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopfront/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer profile
type CustomerStatus string

const (
	CustomerStatusActive  CustomerStatus = "active"
	CustomerStatusBlocked CustomerStatus = "blocked"
)

// Customer is the storefront profile of a registered user. Authentication
// lives on the identity.User; the customer record carries contact details
// and owns the address book.
type Customer struct {
	shared.BaseAggregateRoot
	UserID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	FullName string         `gorm:"type:varchar(100);not null"`
	Phone    string         `gorm:"type:varchar(30)"`
	Status   CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer profile for a user account
func NewCustomer(userID uuid.UUID, fullName string) (*Customer, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		FullName:          fullName,
		Status:            CustomerStatusActive,
	}, nil
}

// UpdateProfile updates the customer's contact details
func (c *Customer) UpdateProfile(fullName, phone string) error {
	if err := validateFullName(fullName); err != nil {
		return err
	}

	c.FullName = fullName
	c.Phone = strings.TrimSpace(phone)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Block prevents the customer from placing orders
func (c *Customer) Block() {
	c.Status = CustomerStatusBlocked
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Unblock restores the customer
func (c *Customer) Unblock() {
	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsBlocked returns true if the customer cannot place orders
func (c *Customer) IsBlocked() bool {
	return c.Status == CustomerStatusBlocked
}

func validateFullName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 100 characters")
	}
	return nil
}
