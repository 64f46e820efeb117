package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	financeapp "github.com/shopfront/backend/internal/application/finance"
	"github.com/shopfront/backend/internal/domain/finance"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// PaymentHandler receives payment gateway callbacks
type PaymentHandler struct {
	BaseHandler
	paymentService *financeapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *financeapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/notifications", h.HandleNotification)
}

// HandleNotification godoc
// @Summary      Payment gateway notification webhook
// @Description  Called by the payment gateway, not by API clients. The raw
// @Description  body is verified against the gateway signature before any
// @Description  order state changes.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payments/notifications [post]
func (h *PaymentHandler) HandleNotification(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Unable to read notification body")
		return
	}

	if err := h.paymentService.ProcessNotification(c.Request.Context(), payload); err != nil {
		requestID := middleware.GetRequestID(c)
		switch {
		case errors.Is(err, finance.ErrNotificationBadSignature):
			c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid notification signature", requestID))
		case errors.Is(err, shared.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("NOT_FOUND", "Unknown order number", requestID))
		default:
			h.HandleError(c, err)
		}
		return
	}

	h.Success(c, nil)
}
