package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	financeapp "github.com/shopfront/backend/internal/application/finance"
	"github.com/shopfront/backend/internal/domain/finance"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/partner"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopfront/backend/internal/infrastructure/config"
)

// MockOrderRepository implements trade.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockCustomerRepository implements partner.CustomerRepository for testing
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository implements identity.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockPaymentGateway implements finance.PaymentGateway for testing
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCharge(ctx context.Context, req *finance.CreateChargeRequest) (*finance.CreateChargeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CreateChargeResponse), args.Error(1)
}

func (m *MockPaymentGateway) GetTransactionStatus(ctx context.Context, orderNumber string) (*finance.TransactionStatusResponse, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.TransactionStatusResponse), args.Error(1)
}

func (m *MockPaymentGateway) VerifyNotification(ctx context.Context, payload []byte) (*finance.PaymentNotification, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PaymentNotification), args.Error(1)
}

func setupPaymentHandler(orderRepo *MockOrderRepository, gateway *MockPaymentGateway) *PaymentHandler {
	service := financeapp.NewPaymentService(orderRepo, new(MockCustomerRepository), new(MockUserRepository),
		gateway, config.PaymentConfig{ChargeTTL: 24 * time.Hour}, nil)
	return NewPaymentHandler(service)
}

func buildPendingOrder(t *testing.T) *trade.Order {
	t.Helper()

	location, err := valueobject.NewAddress("Jawa Barat", "Bandung", "Coblong", "Jl. Dago No. 15")
	require.NoError(t, err)

	order, err := trade.NewOrder("ORD-20260828-0001", uuid.New(),
		trade.DeliveryAddress{
			RecipientName: "Budi Santoso",
			Phone:         "+628123456789",
			Location:      location,
			DestinationID: 17473,
		},
		trade.NewShippingSelection(shipping.ShippingOption{
			CourierName:        "JNE",
			CourierServiceName: "REG",
			Price:              decimal.NewFromInt(15000),
			ETD:                "2-3",
		}))
	require.NoError(t, err)

	_, err = order.AddItem(uuid.New(), "KOPI-001", "Kopi Gayo 250g", 2, 250,
		valueobject.NewMoneyIDRFromInt(85000))
	require.NoError(t, err)

	return order
}

func postNotification(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments/notifications", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPaymentHandler_Notification_Settlement(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	handler := setupPaymentHandler(orderRepo, gateway)

	order := buildPendingOrder(t)
	now := time.Now()
	gateway.On("VerifyNotification", mock.Anything, mock.Anything).Return(&finance.PaymentNotification{
		OrderNumber:          order.OrderNumber,
		GatewayTransactionID: "b4f7c2a1-midtrans",
		Status:               finance.TransactionStatusSettled,
		GrossAmount:          order.TotalAmount,
		PaymentType:          "qris",
		SettledAt:            &now,
	}, nil)
	orderRepo.On("FindByOrderNumber", mock.Anything, order.OrderNumber).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	router := gin.New()
	handler.RegisterRoutes(router.Group(""))

	w := postNotification(router, `{"order_id":"ORD-20260828-0001","transaction_status":"settlement"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, trade.OrderStatusPaid, order.Status)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	orderRepo.AssertExpectations(t)
}

func TestPaymentHandler_Notification_BadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	handler := setupPaymentHandler(orderRepo, gateway)

	gateway.On("VerifyNotification", mock.Anything, mock.Anything).
		Return(nil, finance.ErrNotificationBadSignature)

	router := gin.New()
	handler.RegisterRoutes(router.Group(""))

	w := postNotification(router, `{"order_id":"ORD-20260828-0001","signature_key":"forged"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	orderRepo.AssertNotCalled(t, "FindByOrderNumber", mock.Anything, mock.Anything)
}

func TestPaymentHandler_Notification_UnknownOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	handler := setupPaymentHandler(orderRepo, gateway)

	gateway.On("VerifyNotification", mock.Anything, mock.Anything).Return(&finance.PaymentNotification{
		OrderNumber: "ORD-20260828-9999",
		Status:      finance.TransactionStatusSettled,
		GrossAmount: decimal.NewFromInt(185000),
	}, nil)
	orderRepo.On("FindByOrderNumber", mock.Anything, "ORD-20260828-9999").Return(nil, shared.ErrNotFound)

	router := gin.New()
	handler.RegisterRoutes(router.Group(""))

	w := postNotification(router, `{"order_id":"ORD-20260828-9999"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
