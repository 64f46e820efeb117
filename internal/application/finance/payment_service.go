package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/finance"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/partner"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
)

// PaymentService drives payments for orders: it opens gateway charges when
// orders are placed, applies the gateway's server-to-server notifications
// to order state and answers status queries. It implements
// finance.PaymentNotificationHandler.
type PaymentService struct {
	orderRepo    trade.OrderRepository
	customerRepo partner.CustomerRepository
	userRepo     identity.UserRepository
	gateway      finance.PaymentGateway
	paymentCfg   config.PaymentConfig
	logger       *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	orderRepo trade.OrderRepository,
	customerRepo partner.CustomerRepository,
	userRepo identity.UserRepository,
	gateway finance.PaymentGateway,
	paymentCfg config.PaymentConfig,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		gateway:      gateway,
		paymentCfg:   paymentCfg,
		logger:       logger.Named("payment"),
	}
}

// InitiatePayment opens a gateway charge for a pending order and attaches
// the returned token and redirect URL to it
func (s *PaymentService) InitiatePayment(ctx context.Context, order *trade.Order) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "initiate")
	defer span.End()

	customer, err := s.customerRepo.FindByID(ctx, order.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to load customer for charge: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, customer.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user account for charge: %w", err)
	}

	charge, err := s.gateway.CreateCharge(ctx, &finance.CreateChargeRequest{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		GrossAmount:    order.TotalAmount,
		Currency:       "IDR",
		CustomerName:   customer.FullName,
		CustomerEmail:  user.Email,
		CustomerPhone:  customer.Phone,
		ExpiryDuration: s.paymentCfg.ChargeTTL,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := order.AttachPayment(charge.Token, charge.RedirectURL); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	s.logger.Info("payment initiated",
		zap.String("order_number", order.OrderNumber),
		zap.String("amount", order.TotalAmount.String()),
		zap.Time("expires_at", charge.ExpiresAt))
	return nil
}

// RetryPayment re-opens a charge for an order that is still awaiting
// payment, scoped to the owning customer. Used when the original payment
// page expired or initiation failed after placement.
func (s *PaymentService) RetryPayment(ctx context.Context, customerID, orderID uuid.UUID) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, shared.ErrNotFound
	}
	if order.Status != trade.OrderStatusPendingPayment {
		return nil, shared.NewDomainError("INVALID_STATE", "Order is not awaiting payment")
	}

	if err := s.InitiatePayment(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ProcessNotification verifies a raw gateway notification payload and
// applies it. This is the entry point for the webhook endpoint.
func (s *PaymentService) ProcessNotification(ctx context.Context, payload []byte) error {
	notification, err := s.gateway.VerifyNotification(ctx, payload)
	if err != nil {
		return err
	}
	return s.HandlePaymentNotification(ctx, notification)
}

// HandlePaymentNotification applies a verified gateway notification to the
// referenced order. Notifications are idempotent: re-delivery of a status
// the order already reflects is acknowledged without a state change, and a
// stale notification arriving after the order moved on is logged and
// dropped rather than rejected, since the gateway retries on error.
func (s *PaymentService) HandlePaymentNotification(ctx context.Context, notification *finance.PaymentNotification) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "notification")
	defer span.End()

	order, err := s.orderRepo.FindByOrderNumber(ctx, notification.OrderNumber)
	if err != nil {
		return err
	}

	logger := s.logger.With(
		zap.String("order_number", order.OrderNumber),
		zap.String("transaction_status", notification.Status.String()),
		zap.String("payment_type", notification.PaymentType))

	switch notification.Status {
	case finance.TransactionStatusPending:
		logger.Debug("payment pending notification acknowledged")
		return nil

	case finance.TransactionStatusSettled:
		if order.Status != trade.OrderStatusPendingPayment {
			logger.Info("settlement notification for order already past payment, ignored",
				zap.String("order_status", order.Status.String()))
			return nil
		}
		if !notification.GrossAmount.Equal(order.TotalAmount) {
			logger.Error("settlement amount does not match order total",
				zap.String("notified", notification.GrossAmount.String()),
				zap.String("expected", order.TotalAmount.String()))
			return shared.NewDomainError("AMOUNT_MISMATCH", "Settled amount does not match the order total")
		}
		if err := order.MarkPaid(); err != nil {
			return err
		}

	case finance.TransactionStatusExpired, finance.TransactionStatusCancelled, finance.TransactionStatusDenied:
		if order.Status != trade.OrderStatusPendingPayment {
			logger.Info("failure notification for order already past payment, ignored",
				zap.String("order_status", order.Status.String()))
			return nil
		}
		if err := order.Cancel(cancelReason(notification.Status)); err != nil {
			return err
		}

	default:
		logger.Warn("unrecognized transaction status, ignored")
		return nil
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}
	logger.Info("payment notification applied", zap.String("order_status", order.Status.String()))
	return nil
}

// GetPaymentStatus queries the gateway for the current charge status of a
// customer's order
func (s *PaymentService) GetPaymentStatus(ctx context.Context, customerID, orderID uuid.UUID) (*PaymentStatusResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, shared.ErrNotFound
	}

	status, err := s.gateway.GetTransactionStatus(ctx, order.OrderNumber)
	if err != nil {
		return nil, err
	}
	return ToPaymentStatusResponse(status), nil
}

func cancelReason(status finance.TransactionStatus) string {
	switch status {
	case finance.TransactionStatusExpired:
		return "Payment expired"
	case finance.TransactionStatusDenied:
		return "Payment denied by the gateway"
	default:
		return "Payment cancelled"
	}
}

var _ finance.PaymentNotificationHandler = (*PaymentService)(nil)
