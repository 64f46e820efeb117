package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	checkoutapp "github.com/shopfront/backend/internal/application/checkout"
	partnerapp "github.com/shopfront/backend/internal/application/partner"
	tradeapp "github.com/shopfront/backend/internal/application/trade"
)

// CheckoutHandler handles the cart and checkout flow
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
	customerService *partnerapp.CustomerService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.CheckoutService, customerService *partnerapp.CustomerService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		customerService: customerService,
	}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	checkout := rg.Group("/checkout")
	checkout.GET("", h.GetSession)
	checkout.DELETE("", h.ClearSession)
	checkout.POST("/items", h.AddItem)
	checkout.PUT("/items/:product_id", h.UpdateItem)
	checkout.POST("/address", h.SetAddress)
	checkout.POST("/shipping/quote", h.QuoteShipping)
	checkout.POST("/shipping/select", h.SelectShippingOption)
	checkout.POST("/place", h.PlaceOrder)
}

// GetSession godoc
// @Summary      Get the current checkout session
// @Tags         checkout
// @Produce      json
// @Success      200 {object} dto.Response{data=checkoutapp.SessionResponse}
// @Security     BearerAuth
// @Router       /checkout [get]
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	session, err := h.checkoutService.GetSession(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body checkoutapp.AddItemRequest true "Item to add"
// @Success      200 {object} dto.Response{data=checkoutapp.SessionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkout/items [post]
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req checkoutapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.AddItem(c.Request.Context(), customerID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// UpdateItem godoc
// @Summary      Change the quantity of a cart line
// @Description  Quantity zero removes the line from the cart.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body checkoutapp.UpdateItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=checkoutapp.SessionResponse}
// @Security     BearerAuth
// @Router       /checkout/items/{product_id} [put]
func (h *CheckoutHandler) UpdateItem(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req checkoutapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.UpdateItemQuantity(c.Request.Context(), customerID, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// SetAddress godoc
// @Summary      Select the delivery address for checkout
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body checkoutapp.SetAddressRequest true "Address selection"
// @Success      200 {object} dto.Response{data=checkoutapp.SessionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkout/address [post]
func (h *CheckoutHandler) SetAddress(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req checkoutapp.SetAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.SetAddress(c.Request.Context(), customerID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// QuoteShipping godoc
// @Summary      Fetch shipping rates for the current cart and address
// @Description  Rate lookup failures are reported in the result body, not as
// @Description  HTTP errors. Re-invoking this endpoint retries a failed lookup.
// @Tags         checkout
// @Produce      json
// @Success      200 {object} dto.Response{data=checkoutapp.QuoteResult}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo} "A lookup is already in flight"
// @Security     BearerAuth
// @Router       /checkout/shipping/quote [post]
func (h *CheckoutHandler) QuoteShipping(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.checkoutService.QuoteShipping(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SelectShippingOption godoc
// @Summary      Select one of the quoted shipping options
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body checkoutapp.SelectOptionRequest true "Option selection"
// @Success      200 {object} dto.Response{data=checkoutapp.SessionResponse}
// @Security     BearerAuth
// @Router       /checkout/shipping/select [post]
func (h *CheckoutHandler) SelectShippingOption(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req checkoutapp.SelectOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.SelectShippingOption(c.Request.Context(), customerID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// PlaceOrder godoc
// @Summary      Place an order from the checkout session
// @Tags         checkout
// @Produce      json
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkout/place [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tradeapp.ToOrderResponse(order))
}

// ClearSession godoc
// @Summary      Abandon the checkout session
// @Tags         checkout
// @Success      204
// @Security     BearerAuth
// @Router       /checkout [delete]
func (h *CheckoutHandler) ClearSession(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.checkoutService.ClearSession(c.Request.Context(), customerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
