package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/shared"
)

func testSession(t *testing.T) *checkout.Session {
	t.Helper()
	s := checkout.NewSession(uuid.New())
	require.NoError(t, s.AddItem(checkout.CartItem{
		ProductID:   uuid.New(),
		ProductCode: "SKU-001",
		ProductName: "Kopi Arabika Gayo 500g",
		UnitPrice:   decimal.NewFromInt(85000),
		Quantity:    2,
		WeightGrams: 500,
	}))
	return s
}

func TestInMemorySessionStore_PutGet(t *testing.T) {
	store := NewInMemorySessionStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	session := testSession(t)
	require.NoError(t, store.Put(ctx, session))

	loaded, err := store.Get(ctx, session.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, session.CustomerID, loaded.CustomerID)
	require.Len(t, loaded.Items, 1)
	assert.True(t, loaded.Subtotal().Equal(decimal.NewFromInt(170000)))

	// Get returns a copy, mutations must not leak back into the store
	loaded.Items[0].Quantity = 99
	again, err := store.Get(ctx, session.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestInMemorySessionStore_GetMissing(t *testing.T) {
	store := NewInMemorySessionStore(time.Hour)
	defer store.Close()

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInMemorySessionStore_Expiration(t *testing.T) {
	store := NewInMemorySessionStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	session := testSession(t)
	require.NoError(t, store.Put(ctx, session))

	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(ctx, session.CustomerID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInMemorySessionStore_Delete(t *testing.T) {
	store := NewInMemorySessionStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	session := testSession(t)
	require.NoError(t, store.Put(ctx, session))
	require.NoError(t, store.Delete(ctx, session.CustomerID))

	_, err := store.Get(ctx, session.CustomerID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
