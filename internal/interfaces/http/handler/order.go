package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	financeapp "github.com/shopfront/backend/internal/application/finance"
	partnerapp "github.com/shopfront/backend/internal/application/partner"
	tradeapp "github.com/shopfront/backend/internal/application/trade"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles customer and admin order endpoints
type OrderHandler struct {
	BaseHandler
	orderService    *tradeapp.OrderService
	paymentService  *financeapp.PaymentService
	customerService *partnerapp.CustomerService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, paymentService *financeapp.PaymentService, customerService *partnerapp.CustomerService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		paymentService:  paymentService,
		customerService: customerService,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", h.ListMine)
	orders.GET("/:id", h.GetMine)
	orders.POST("/:id/cancel", h.CancelMine)
	orders.POST("/:id/payment/retry", h.RetryPayment)
	orders.GET("/:id/payment", h.GetPaymentStatus)

	admin := rg.Group("/admin/orders", middleware.RequireRole("admin"))
	admin.GET("", h.List)
	admin.GET("/:id", h.GetByID)
	admin.POST("/:id/ship", h.Ship)
	admin.POST("/:id/complete", h.Complete)
	admin.POST("/:id/cancel", h.Cancel)
}

// ListMine godoc
// @Summary      List the authenticated customer's orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.orderService.ListForCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// GetMine godoc
// @Summary      Get one of the authenticated customer's orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetMine(c *gin.Context) {
	h.withOwnedOrder(c, func(customerID, orderID uuid.UUID) {
		order, err := h.orderService.GetForCustomer(c.Request.Context(), customerID, orderID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, order)
	})
}

// CancelMine godoc
// @Summary      Cancel an order that has not shipped yet
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.CancelOrderRequest false "Cancellation reason"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelMine(c *gin.Context) {
	// The reason body is optional.
	var req tradeapp.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	h.withOwnedOrder(c, func(customerID, orderID uuid.UUID) {
		order, err := h.orderService.CancelForCustomer(c.Request.Context(), customerID, orderID, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, order)
	})
}

// RetryPayment godoc
// @Summary      Re-initiate payment for a pending order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/payment/retry [post]
func (h *OrderHandler) RetryPayment(c *gin.Context) {
	h.withOwnedOrder(c, func(customerID, orderID uuid.UUID) {
		order, err := h.paymentService.RetryPayment(c.Request.Context(), customerID, orderID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, tradeapp.ToOrderResponse(order))
	})
}

// GetPaymentStatus godoc
// @Summary      Get the gateway payment status for an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.PaymentStatusResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/payment [get]
func (h *OrderHandler) GetPaymentStatus(c *gin.Context) {
	h.withOwnedOrder(c, func(customerID, orderID uuid.UUID) {
		status, err := h.paymentService.GetPaymentStatus(c.Request.Context(), customerID, orderID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, status)
	})
}

// List lists all orders for back office review
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// GetByID gets any order by ID
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Ship godoc
// @Summary      Mark a paid order as shipped
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.ShipOrderRequest true "Tracking number"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Ship(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Complete marks a shipped order as completed
func (h *OrderHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel cancels an order from the back office
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *OrderHandler) withOwnedOrder(c *gin.Context, fn func(customerID, orderID uuid.UUID)) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	customerID, err := resolveCustomerID(c, h.customerService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fn(customerID, orderID)
}
