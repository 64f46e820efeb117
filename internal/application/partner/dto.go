package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopfront/backend/internal/domain/partner"
)

// UpdateProfileRequest represents a customer profile update
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required,min=1,max=100"`
	Phone    string `json:"phone" binding:"max=30"`
}

// CustomerResponse represents a customer profile in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		FullName:  c.FullName,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// AddressRequest represents a create or update of an address book entry
type AddressRequest struct {
	Label         string `json:"label" binding:"required,min=1,max=50"`
	RecipientName string `json:"recipient_name" binding:"required,min=1,max=100"`
	Phone         string `json:"phone" binding:"required,min=5,max=30"`
	Province      string `json:"province" binding:"required,max=100"`
	City          string `json:"city" binding:"required,max=100"`
	District      string `json:"district" binding:"required,max=100"`
	Detail        string `json:"detail" binding:"required,max=500"`
	PostalCode    string `json:"postal_code" binding:"max=10"`
	DestinationID int    `json:"destination_id" binding:"required,min=1"`
	PinPoint      string `json:"pin_point" binding:"max=50"`
	IsDefault     bool   `json:"is_default"`
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID            uuid.UUID `json:"id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	Label         string    `json:"label"`
	RecipientName string    `json:"recipient_name"`
	Phone         string    `json:"phone"`
	Province      string    `json:"province"`
	City          string    `json:"city"`
	District      string    `json:"district"`
	Detail        string    `json:"detail"`
	PostalCode    string    `json:"postal_code"`
	DestinationID int       `json:"destination_id"`
	PinPoint      string    `json:"pin_point"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToAddressResponse converts a domain address to a response DTO
func ToAddressResponse(a *partner.Address) AddressResponse {
	return AddressResponse{
		ID:            a.ID,
		CustomerID:    a.CustomerID,
		Label:         a.Label,
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Province:      a.Location.Province(),
		City:          a.Location.City(),
		District:      a.Location.District(),
		Detail:        a.Location.Detail(),
		PostalCode:    a.Location.PostalCode(),
		DestinationID: a.DestinationID,
		PinPoint:      a.PinPoint,
		IsDefault:     a.IsDefault,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
