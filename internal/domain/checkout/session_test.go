package checkout

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/backend/internal/domain/shipping"
)

func newTestItem(price int64, qty, weight int) CartItem {
	return CartItem{
		ProductID:   uuid.New(),
		ProductCode: "SKU-001",
		ProductName: "Kopi Arabika Gayo 500g",
		UnitPrice:   decimal.NewFromInt(price),
		Quantity:    qty,
		WeightGrams: weight,
	}
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(uuid.New())
	require.NoError(t, s.AddItem(newTestItem(85000, 2, 500)))
	require.NoError(t, s.SetAddress(uuid.New()))
	require.NoError(t, s.BeginQuote())
	require.NoError(t, s.CompleteQuote([]shipping.ShippingOption{
		{ID: 0, CourierName: "JNE", CourierServiceName: "REG", Price: decimal.NewFromInt(15000), ETD: "2-3"},
		{ID: 1, CourierName: "SiCepat", CourierServiceName: "BEST", Price: decimal.NewFromInt(21000), ETD: "1-2", IsCOD: true},
	}))
	return s
}

func TestSession_AddItem(t *testing.T) {
	s := NewSession(uuid.New())

	item := newTestItem(85000, 1, 500)
	require.NoError(t, s.AddItem(item))
	require.Len(t, s.Items, 1)

	// Same product merges quantities
	require.NoError(t, s.AddItem(item))
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)

	assert.Error(t, s.AddItem(CartItem{ProductID: uuid.Nil, Quantity: 1}))
	assert.Error(t, s.AddItem(CartItem{ProductID: uuid.New(), Quantity: 0}))
}

func TestSession_UpdateItemQuantity(t *testing.T) {
	s := NewSession(uuid.New())
	item := newTestItem(85000, 2, 500)
	require.NoError(t, s.AddItem(item))

	require.NoError(t, s.UpdateItemQuantity(item.ProductID, 5))
	assert.Equal(t, 5, s.Items[0].Quantity)

	// Zero removes the line
	require.NoError(t, s.UpdateItemQuantity(item.ProductID, 0))
	assert.Empty(t, s.Items)

	assert.Error(t, s.UpdateItemQuantity(uuid.New(), 1))
}

func TestSession_QuoteLifecycle(t *testing.T) {
	s := NewSession(uuid.New())
	require.NoError(t, s.AddItem(newTestItem(85000, 1, 500)))

	// No address yet
	assert.Error(t, s.BeginQuote())

	require.NoError(t, s.SetAddress(uuid.New()))
	require.NoError(t, s.BeginQuote())
	assert.Equal(t, shipping.QuoteStateLoading, s.RateState)

	// A second lookup while one is in flight is rejected
	assert.Error(t, s.BeginQuote())

	require.NoError(t, s.CompleteQuote([]shipping.ShippingOption{
		{ID: 0, CourierName: "JNE", CourierServiceName: "REG", Price: decimal.NewFromInt(15000), ETD: "2-3"},
	}))
	assert.Equal(t, shipping.QuoteStateLoaded, s.RateState)
	assert.Len(t, s.Options, 1)
}

func TestSession_QuoteFailureAndRetry(t *testing.T) {
	s := NewSession(uuid.New())
	require.NoError(t, s.AddItem(newTestItem(85000, 1, 500)))
	require.NoError(t, s.SetAddress(uuid.New()))
	require.NoError(t, s.BeginQuote())

	require.NoError(t, s.FailQuote("upstream returned status 500"))
	assert.Equal(t, shipping.QuoteStateError, s.RateState)
	assert.Equal(t, "upstream returned status 500", s.RateError)
	assert.Empty(t, s.Options)

	// Retry is an explicit new lookup
	require.NoError(t, s.BeginQuote())
	assert.Equal(t, shipping.QuoteStateLoading, s.RateState)
	assert.Empty(t, s.RateError)
}

func TestSession_SelectOption(t *testing.T) {
	s := loadedSession(t)

	require.NoError(t, s.SelectOption(1))
	require.NotNil(t, s.SelectedOption)
	assert.Equal(t, "SiCepat", s.SelectedOption.CourierName)

	// Re-selection swaps the choice without re-fetching
	require.NoError(t, s.SelectOption(0))
	assert.Equal(t, "JNE", s.SelectedOption.CourierName)
	assert.Equal(t, shipping.QuoteStateLoaded, s.RateState)

	assert.Error(t, s.SelectOption(99))
}

func TestSession_Totals(t *testing.T) {
	s := loadedSession(t)

	assert.True(t, s.Subtotal().Equal(decimal.NewFromInt(170000)))
	assert.True(t, s.ShippingCost().IsZero())
	assert.True(t, s.Total().Equal(decimal.NewFromInt(170000)))

	require.NoError(t, s.SelectOption(0))
	assert.True(t, s.ShippingCost().Equal(decimal.NewFromInt(15000)))
	assert.True(t, s.Total().Equal(decimal.NewFromInt(185000)))

	assert.Equal(t, 1000, s.TotalWeightGrams())
}

func TestSession_CartChangeInvalidatesQuote(t *testing.T) {
	s := loadedSession(t)
	require.NoError(t, s.SelectOption(0))
	require.True(t, s.IsReadyToPlace())

	require.NoError(t, s.AddItem(newTestItem(42000, 1, 250)))

	assert.Equal(t, shipping.QuoteStateIdle, s.RateState)
	assert.Nil(t, s.SelectedOption)
	assert.Empty(t, s.Options)
	assert.False(t, s.IsReadyToPlace())
}

func TestSession_AddressChangeInvalidatesQuote(t *testing.T) {
	s := loadedSession(t)
	require.NoError(t, s.SelectOption(0))

	require.NoError(t, s.SetAddress(uuid.New()))

	assert.Equal(t, shipping.QuoteStateIdle, s.RateState)
	assert.Nil(t, s.SelectedOption)
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s := loadedSession(t)
	require.NoError(t, s.SelectOption(1))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored Session
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, s.CustomerID, restored.CustomerID)
	assert.Equal(t, shipping.QuoteStateLoaded, restored.RateState)
	require.NotNil(t, restored.SelectedOption)
	assert.Equal(t, "SiCepat", restored.SelectedOption.CourierName)
	assert.True(t, restored.Total().Equal(s.Total()))
}
