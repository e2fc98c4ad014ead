package repository

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepositoryRoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewOrderRepository(store, 0)

	orders := []domain.Order{
		{ID: "ORD-000002", Date: "2026-10-18", Total: decimal.NewFromInt(40), Status: domain.OrderStatusPending, PaymentMethod: "PayPal"},
		{ID: "ORD-000001", Date: "2026-10-17", Total: decimal.NewFromInt(240), Status: domain.OrderStatusDelivered, PaymentMethod: "Credit Card",
			Items: []domain.CartItem{{ProductID: 1, Price: decimal.NewFromInt(100), Quantity: 2}}},
	}
	require.NoError(t, repo.Save(ctx, orders))

	loaded, err := NewOrderRepository(store, 0).Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "ORD-000002", loaded[0].ID)
	assert.Equal(t, "ORD-000001", loaded[1].ID)
	assert.True(t, loaded[1].Total.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, domain.OrderStatusDelivered, loaded[1].Status)
	assert.Len(t, loaded[1].Items, 1)
}

func TestOrderRepositoryAbsentAndEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(storage.NewMemoryStore(), 0)

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, repo.Save(ctx, nil))
	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestOrderRepositoryMalformedState(t *testing.T) {
	tests := map[string]string{
		"garbage":        `not json`,
		"missing id":     `[{"id":"","status":"pending","total":"1"}]`,
		"unknown status": `[{"id":"ORD-1","status":"teleported","total":"1"}]`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(context.Background(), OrdersKey, []byte(raw)))

			_, err := NewOrderRepository(store, 0).Load(context.Background())
			assert.True(t, errors.Is(err, ErrMalformedState), "got %v", err)
		})
	}
}

func TestRepositoriesUseIndependentKeys(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	require.NoError(t, NewCartRepository(store, 0).Save(ctx, []domain.CartItem{{ProductID: 1, Quantity: 1}}))
	require.NoError(t, NewOrderRepository(store, 0).Save(ctx, []domain.Order{}))

	items, err := NewCartRepository(store, 0).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
