package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/shopfront/backend/internal/application/partner"
)

// CustomerHandler handles customer profile and address book endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	addressService  *partnerapp.AddressService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService, addressService *partnerapp.AddressService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		addressService:  addressService,
	}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	me := rg.Group("/customers/me")
	me.GET("", h.GetProfile)
	me.PUT("", h.UpdateProfile)

	addresses := me.Group("/addresses")
	addresses.POST("", h.CreateAddress)
	addresses.GET("", h.ListAddresses)
	addresses.GET("/:id", h.GetAddress)
	addresses.PUT("/:id", h.UpdateAddress)
	addresses.DELETE("/:id", h.DeleteAddress)
	addresses.POST("/:id/default", h.SetDefaultAddress)
}

// GetProfile godoc
// @Summary      Get the authenticated customer's profile
// @Tags         customers
// @Produce      json
// @Success      200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Security     BearerAuth
// @Router       /customers/me [get]
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid authentication")
		return
	}

	customer, err := h.customerService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// UpdateProfile godoc
// @Summary      Update the authenticated customer's profile
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.UpdateProfileRequest true "Profile update request"
// @Success      200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Security     BearerAuth
// @Router       /customers/me [put]
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req partnerapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.UpdateProfile(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// CreateAddress godoc
// @Summary      Add an address to the customer's address book
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.AddressRequest true "Address creation request"
// @Success      201 {object} dto.Response{data=partnerapp.AddressResponse}
// @Security     BearerAuth
// @Router       /customers/me/addresses [post]
func (h *CustomerHandler) CreateAddress(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req partnerapp.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, address)
}

// ListAddresses lists the customer's addresses, default first
func (h *CustomerHandler) ListAddresses(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	addresses, err := h.addressService.List(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, addresses)
}

// GetAddress gets a single address owned by the customer
func (h *CustomerHandler) GetAddress(c *gin.Context) {
	h.withOwnedAddress(c, func(customerID, addressID uuid.UUID) {
		address, err := h.addressService.Get(c.Request.Context(), customerID, addressID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, address)
	})
}

// UpdateAddress updates an address owned by the customer
func (h *CustomerHandler) UpdateAddress(c *gin.Context) {
	var req partnerapp.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	h.withOwnedAddress(c, func(customerID, addressID uuid.UUID) {
		address, err := h.addressService.Update(c.Request.Context(), customerID, addressID, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, address)
	})
}

// DeleteAddress removes an address from the customer's address book
func (h *CustomerHandler) DeleteAddress(c *gin.Context) {
	h.withOwnedAddress(c, func(customerID, addressID uuid.UUID) {
		if err := h.addressService.Delete(c.Request.Context(), customerID, addressID); err != nil {
			h.HandleError(c, err)
			return
		}
		h.NoContent(c)
	})
}

// SetDefaultAddress marks an address as the customer's default
func (h *CustomerHandler) SetDefaultAddress(c *gin.Context) {
	h.withOwnedAddress(c, func(customerID, addressID uuid.UUID) {
		if err := h.addressService.SetDefault(c.Request.Context(), customerID, addressID); err != nil {
			h.HandleError(c, err)
			return
		}
		h.NoContent(c)
	})
}

func (h *CustomerHandler) withOwnedAddress(c *gin.Context, fn func(customerID, addressID uuid.UUID)) {
	addressID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid address ID format")
		return
	}

	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fn(customerID, addressID)
}
