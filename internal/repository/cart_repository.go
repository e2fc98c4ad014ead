package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/storage"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	Load(ctx context.Context) ([]domain.CartItem, error)
	Save(ctx context.Context, items []domain.CartItem) error
}

type cartRepository struct {
	state jsonState[[]domain.CartItem]
}

// NewCartRepository creates a CartRepository storing the cart under CartKey
func NewCartRepository(store storage.Store, timeout time.Duration) CartRepository {
	return &cartRepository{state: newJSONState[[]domain.CartItem](store, CartKey, timeout)}
}

// Load returns the persisted cart. Absent state yields ErrStateNotFound, undecodable
// or inconsistent state yields ErrMalformedState.
func (r *cartRepository) Load(ctx context.Context) ([]domain.CartItem, error) {
	items, err := r.state.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateCart(items); err != nil {
		return nil, err
	}
	return domain.CloneItems(items), nil
}

func (r *cartRepository) Save(ctx context.Context, items []domain.CartItem) error {
	return r.state.save(ctx, domain.CloneItems(items))
}

func validateCart(items []domain.CartItem) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: product %d has quantity %d", ErrMalformedState, item.ProductID, item.Quantity)
		}
		if _, dup := seen[item.ProductID]; dup {
			return fmt.Errorf("%w: product %d appears twice", ErrMalformedState, item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}
