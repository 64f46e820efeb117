package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appcheckout "github.com/shopfront/backend/internal/application/checkout"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/trade"
)

func newCheckoutScopeTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Category{}, &catalog.Product{},
		&trade.Order{}, &trade.OrderItem{},
	))
	return db
}

func TestGormTransactionScope_CommitsAllWrites(t *testing.T) {
	db := newCheckoutScopeTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	product := mustNewProduct(t, "SKU-201", "Gula Aren Cair 500ml", "gula-aren-cair-500ml", 35000)
	require.NoError(t, product.AdjustStock(10))
	require.NoError(t, NewGormProductRepository(db).Save(ctx, product))

	err := scope.Execute(ctx, func(repos appcheckout.TransactionalRepositories) error {
		fresh, err := repos.ProductRepo().FindByID(ctx, product.ID)
		if err != nil {
			return err
		}
		if err := fresh.AdjustStock(-2); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, fresh); err != nil {
			return err
		}

		number, err := repos.OrderRepo().GenerateOrderNumber(ctx)
		if err != nil {
			return err
		}
		return repos.OrderRepo().Save(ctx, buildTestOrder(t, number, uuid.New()))
	})
	require.NoError(t, err)

	saved, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, saved.Stock)

	count, err := NewGormOrderRepository(db).Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormTransactionScope_RollsBackStockOnOrderConflict(t *testing.T) {
	db := newCheckoutScopeTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	product := mustNewProduct(t, "SKU-202", "Keripik Singkong Balado", "keripik-singkong-balado", 18000)
	require.NoError(t, product.AdjustStock(10))
	require.NoError(t, NewGormProductRepository(db).Save(ctx, product))

	customerID := uuid.New()
	taken := buildTestOrder(t, "ORD-20260828-0001", customerID)
	require.NoError(t, NewGormOrderRepository(db).Save(ctx, taken))

	err := scope.Execute(ctx, func(repos appcheckout.TransactionalRepositories) error {
		fresh, err := repos.ProductRepo().FindByID(ctx, product.ID)
		if err != nil {
			return err
		}
		if err := fresh.AdjustStock(-2); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, fresh); err != nil {
			return err
		}

		// Same order number as the one already persisted
		return repos.OrderRepo().Save(ctx, buildTestOrder(t, "ORD-20260828-0001", customerID))
	})
	require.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// The stock decrement rolled back with the failed order
	saved, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, saved.Stock)
}
