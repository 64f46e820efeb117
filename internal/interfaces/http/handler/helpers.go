package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/shopfront/backend/internal/application/partner"
)

// resolveCustomerID maps the authenticated user to their customer profile
// ID. Customer-scoped endpoints operate on this ID, never on a
// client-supplied one.
func resolveCustomerID(c *gin.Context, customers *partnerapp.CustomerService) (uuid.UUID, error) {
	userID, err := getUserID(c)
	if err != nil {
		return uuid.Nil, err
	}
	customer, err := customers.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		return uuid.Nil, err
	}
	return customer.ID, nil
}

// pageOf normalizes a page number for response metadata
func pageOf(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// pageSizeOf normalizes a page size for response metadata
func pageSizeOf(size int) int {
	if size < 1 {
		return 20
	}
	return size
}
