package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopfront/backend/internal/domain/trade"
)

func newOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&trade.Order{}, &trade.OrderItem{}))
	return db
}

func buildTestOrder(t *testing.T, orderNumber string, customerID uuid.UUID) *trade.Order {
	t.Helper()

	location, err := valueobject.NewAddress("Jawa Barat", "Bandung", "Coblong", "Jl. Dago No. 15")
	require.NoError(t, err)

	address := trade.DeliveryAddress{
		RecipientName: "Budi Santoso",
		Phone:         "+6281234567890",
		Location:      location,
		DestinationID: 17473,
	}

	selection := trade.NewShippingSelection(shipping.ShippingOption{
		ID:                 0,
		CourierName:        "JNE",
		CourierServiceName: "REG",
		Description:        "JNE - REG",
		Price:              decimal.NewFromInt(15000),
		ETD:                "2-3",
	})

	order, err := trade.NewOrder(orderNumber, customerID, address, selection)
	require.NoError(t, err)

	_, err = order.AddItem(uuid.New(), "SKU-001", "Kopi Arabika Gayo 500g", 2, 500,
		valueobject.NewMoneyIDRFromInt(85000))
	require.NoError(t, err)

	return order
}

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := newOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	order := buildTestOrder(t, "ORD-20260828-0001", customerID)

	require.NoError(t, repo.Save(ctx, order))

	t.Run("finds by ID with items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "ORD-20260828-0001", found.OrderNumber)
		assert.Equal(t, trade.OrderStatusPendingPayment, found.Status)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "SKU-001", found.Items[0].ProductCode)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(185000)))
	})

	t.Run("finds by order number", func(t *testing.T) {
		found, err := repo.FindByOrderNumber(ctx, "ORD-20260828-0001")
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})

	t.Run("returns ErrNotFound for missing order", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository_SaveReplacesItems(t *testing.T) {
	db := newOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	order := buildTestOrder(t, "ORD-20260828-0002", uuid.New())
	require.NoError(t, repo.Save(ctx, order))

	_, err := order.AddItem(uuid.New(), "SKU-002", "Teh Hijau Premium 250g", 1, 250,
		valueobject.NewMoneyIDRFromInt(42000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 2)

	var count int64
	require.NoError(t, db.Model(&trade.OrderItem{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestGormOrderRepository_FindByCustomerAndStatus(t *testing.T) {
	db := newOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	first := buildTestOrder(t, "ORD-20260828-0003", customerID)
	second := buildTestOrder(t, "ORD-20260828-0004", customerID)
	other := buildTestOrder(t, "ORD-20260828-0005", uuid.New())

	require.NoError(t, first.AttachPayment("tok-1", "https://pay.example.com/tok-1"))
	require.NoError(t, first.MarkPaid())

	for _, o := range []*trade.Order{first, second, other} {
		require.NoError(t, repo.Save(ctx, o))
	}

	orders, err := repo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	paid, err := repo.FindByStatus(ctx, trade.OrderStatusPaid, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, first.ID, paid[0].ID)

	count, err := repo.CountByCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	db := newOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	first, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-\d{8}-0001$`, first)

	order := buildTestOrder(t, first, uuid.New())
	require.NoError(t, repo.Save(ctx, order))

	second, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-\d{8}-0002$`, second)
	assert.NotEqual(t, first, second)
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
