package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	checkoutapp "github.com/shopfront/backend/internal/application/checkout"
	partnerapp "github.com/shopfront/backend/internal/application/partner"
	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/partner"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopfront/backend/internal/infrastructure/config"
)

// stubSessionStore is an in-memory checkout.SessionStore
type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*checkout.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[uuid.UUID]*checkout.Session)}
}

func (s *stubSessionStore) Get(ctx context.Context, customerID uuid.UUID) (*checkout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[customerID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *stubSessionStore) Put(ctx context.Context, session *checkout.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.CustomerID] = &copied
	return nil
}

func (s *stubSessionStore) Delete(ctx context.Context, customerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, customerID)
	return nil
}

// MockAddressRepository implements partner.AddressRepository for testing
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]partner.Address, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]partner.Address), args.Error(1)
}

func (m *MockAddressRepository) FindDefault(ctx context.Context, customerID uuid.UUID) (*partner.Address, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Address), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, address *partner.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAddressRepository) ClearDefault(ctx context.Context, customerID uuid.UUID) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

// MockRateGateway implements shipping.RateGateway for testing
type MockRateGateway struct {
	mock.Mock
}

func (m *MockRateGateway) CalculateRates(ctx context.Context, req *shipping.RateRequest) ([]shipping.RawTariff, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.RawTariff), args.Error(1)
}

type checkoutHandlerFixture struct {
	handler      *CheckoutHandler
	sessions     *stubSessionStore
	productRepo  *MockProductRepository
	customerRepo *MockCustomerRepository
	userID       uuid.UUID
	customerID   uuid.UUID
}

func setupCheckoutHandler(t *testing.T) *checkoutHandlerFixture {
	t.Helper()

	userID := uuid.New()
	customer, err := partner.NewCustomer(userID, "Budi Santoso")
	require.NoError(t, err)

	customerRepo := new(MockCustomerRepository)
	customerRepo.On("FindByUserID", mock.Anything, userID).Return(customer, nil)
	customerService := partnerapp.NewCustomerService(customerRepo)

	sessions := newStubSessionStore()
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	checkoutService := checkoutapp.NewCheckoutService(
		sessions, productRepo, new(MockAddressRepository),
		checkoutapp.NewNoOpTransactionScope(orderRepo, productRepo),
		new(MockRateGateway), nil,
		config.ShippingConfig{OriginID: 501}, nil)

	return &checkoutHandlerFixture{
		handler:      NewCheckoutHandler(checkoutService, customerService),
		sessions:     sessions,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		userID:       userID,
		customerID:   customer.ID,
	}
}

func (f *checkoutHandlerFixture) router() *gin.Engine {
	router := authRouter(f.userID, "customer")
	f.handler.RegisterRoutes(router.Group(""))
	return router
}

func TestCheckoutHandler_GetSession_Empty(t *testing.T) {
	f := setupCheckoutHandler(t)
	router := f.router()

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "idle", data["rate_state"])
	assert.Empty(t, data["items"])
}

func TestCheckoutHandler_AddItem(t *testing.T) {
	f := setupCheckoutHandler(t)

	product := buildStoreProduct(t)
	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := f.router()

	body, _ := json.Marshal(checkoutapp.AddItemRequest{ProductID: product.ID, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/checkout/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "170000", data["subtotal"])

	// The session is owned by the resolved customer, not the user
	_, err := f.sessions.Get(context.Background(), f.customerID)
	assert.NoError(t, err)
}

func TestCheckoutHandler_AddItem_OutOfStock(t *testing.T) {
	f := setupCheckoutHandler(t)

	product := buildStoreProduct(t)
	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := f.router()

	body, _ := json.Marshal(checkoutapp.AddItemRequest{ProductID: product.ID, Quantity: 99})
	req := httptest.NewRequest(http.MethodPost, "/checkout/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INSUFFICIENT_STOCK", resp["error"].(map[string]interface{})["code"])
}

func TestCheckoutHandler_QuoteWithoutAddress(t *testing.T) {
	f := setupCheckoutHandler(t)

	product := buildStoreProduct(t)
	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := f.router()

	body, _ := json.Marshal(checkoutapp.AddItemRequest{ProductID: product.ID, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/checkout/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/checkout/shipping/quote", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_ADDRESS", resp["error"].(map[string]interface{})["code"])
}

func TestCheckoutHandler_PlaceOrder_NotReady(t *testing.T) {
	f := setupCheckoutHandler(t)
	router := f.router()

	req := httptest.NewRequest(http.MethodPost, "/checkout/place", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
