package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/storage"
)

// OrderRepository defines the interface for order history persistence.
// The history is stored newest-first.
type OrderRepository interface {
	Load(ctx context.Context) ([]domain.Order, error)
	Save(ctx context.Context, orders []domain.Order) error
}

type orderRepository struct {
	state jsonState[[]domain.Order]
}

// NewOrderRepository creates an OrderRepository storing the history under OrdersKey
func NewOrderRepository(store storage.Store, timeout time.Duration) OrderRepository {
	return &orderRepository{state: newJSONState[[]domain.Order](store, OrdersKey, timeout)}
}

func (r *orderRepository) Load(ctx context.Context) ([]domain.Order, error) {
	orders, err := r.state.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == "" {
			return nil, fmt.Errorf("%w: order without id", ErrMalformedState)
		}
		if !o.Status.Valid() {
			return nil, fmt.Errorf("%w: order %s has status %q", ErrMalformedState, o.ID, o.Status)
		}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (r *orderRepository) Save(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	return r.state.save(ctx, orders)
}
