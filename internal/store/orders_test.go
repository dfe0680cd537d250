package store

import (
	"context"
	"testing"

	"fulfillment/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderWithItems(t *testing.T) {
	t.Skip("Integration test - requires database")

	store, err := NewStore(testDatabaseURL)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	order := &models.Order{
		CustomerID:  1,
		TotalAmount: 11.00,
		Status:      models.OrderStatusPending,
		Region:      "Default",
	}
	items := []models.OrderItem{
		{ProductID: 42, Quantity: 2, UnitPrice: 5.00, Subtotal: 10.00},
	}

	err = store.CreateOrder(ctx, order, items)
	require.NoError(t, err)
	assert.NotZero(t, order.OrderID)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, order.OrderID, items[0].OrderID)

	got, err := store.GetOrderByID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.InDelta(t, 11.00, got.TotalAmount, 0.001)

	gotItems, err := store.GetOrderItems(ctx, order.OrderID)
	require.NoError(t, err)
	require.Len(t, gotItems, 1)
	assert.Equal(t, int64(42), gotItems[0].ProductID)
}

func TestCreateOrderIdempotencyKeyUnique(t *testing.T) {
	t.Skip("Integration test - requires database")

	store, err := NewStore(testDatabaseURL)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	first := &models.Order{
		CustomerID:     1,
		TotalAmount:    5.00,
		Status:         models.OrderStatusPending,
		Region:         "Default",
		IdempotencyKey: "order-key-123",
	}
	require.NoError(t, store.CreateOrder(ctx, first, nil))

	// Same key again must hit the unique constraint.
	second := &models.Order{
		CustomerID:     2,
		TotalAmount:    7.00,
		Status:         models.OrderStatusPending,
		Region:         "Default",
		IdempotencyKey: "order-key-123",
	}
	assert.Error(t, store.CreateOrder(ctx, second, nil))

	found, err := store.GetOrderByIdempotencyKey(ctx, "order-key-123")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.OrderID, found.OrderID)
}
