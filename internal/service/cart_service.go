package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidQuantity = fmt.Errorf("quantity must be between 1 and %d", domain.MaxLineQuantity)

// CartService defines the interface for the shopping cart
type CartService interface {
	Add(ctx context.Context, product domain.Product, quantity int) error
	Remove(ctx context.Context, productID int) error
	UpdateQuantity(ctx context.Context, productID, quantity int) error
	Clear(ctx context.Context) error
	RemoveLines(ctx context.Context, lines []domain.CartItem) error
	Items() []domain.CartItem
	Total() decimal.Decimal
	ItemCount() int
}

type cartService struct {
	mu     sync.Mutex
	repo   repository.CartRepository
	items  []domain.CartItem
	logger *zap.Logger
}

// NewCartService creates a CartService rehydrated from repo. Absent or malformed state starts
// an empty cart; any other load failure is returned.
func NewCartService(ctx context.Context, repo repository.CartRepository, logger *zap.Logger) (CartService, error) {
	items, err := repo.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStateNotFound):
		items = []domain.CartItem{}
	case errors.Is(err, repository.ErrMalformedState):
		logger.Warn("Discarding unreadable cart state", zap.Error(err))
		items = []domain.CartItem{}
	default:
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return &cartService{
		repo:   repo,
		items:  items,
		logger: logger,
	}, nil
}

// Add puts quantity units of product in the cart. An existing line keeps its price snapshot.
func (s *cartService) Add(ctx context.Context, product domain.Product, quantity int) error {
	if !domain.ValidQuantity(quantity) {
		return ErrInvalidQuantity
	}

	return s.mutate(ctx, func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		if i := indexOf(items, product.ID); i >= 0 {
			if quantity > domain.MaxLineQuantity-items[i].Quantity {
				return nil, false, ErrInvalidQuantity
			}
			items[i].Quantity += quantity
			return items, true, nil
		}
		return append(items, domain.NewCartItem(product, quantity)), true, nil
	})
}

func (s *cartService) Remove(ctx context.Context, productID int) error {
	return s.mutate(ctx, func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		i := indexOf(items, productID)
		if i < 0 {
			return items, false, nil
		}
		return append(items[:i], items[i+1:]...), true, nil
	})
}

// UpdateQuantity sets the quantity of an existing line. Quantities below 1 are ignored;
// quantities above MaxLineQuantity are rejected.
func (s *cartService) UpdateQuantity(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		s.logger.Debug("Ignoring cart quantity below 1",
			zap.Int("product_id", productID),
			zap.Int("quantity", quantity),
		)
		return nil
	}
	if quantity > domain.MaxLineQuantity {
		return ErrInvalidQuantity
	}

	return s.mutate(ctx, func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		i := indexOf(items, productID)
		if i < 0 || items[i].Quantity == quantity {
			return items, false, nil
		}
		items[i].Quantity = quantity
		return items, true, nil
	})
}

func (s *cartService) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]domain.CartItem) ([]domain.CartItem, bool, error) {
		return []domain.CartItem{}, true, nil
	})
}

// RemoveLines takes the quantities in lines out of the cart, dropping lines that reach zero.
// Units added after lines were read stay in the cart.
func (s *cartService) RemoveLines(ctx context.Context, lines []domain.CartItem) error {
	return s.mutate(ctx, func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		changed := false
		for _, line := range lines {
			i := indexOf(items, line.ProductID)
			if i < 0 {
				continue
			}
			changed = true
			if items[i].Quantity > line.Quantity {
				items[i].Quantity -= line.Quantity
				continue
			}
			items = append(items[:i], items[i+1:]...)
		}
		return items, changed, nil
	})
}

func (s *cartService) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneItems(s.items)
}

func (s *cartService) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SumItems(s.items)
}

func (s *cartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CountItems(s.items)
}

// mutate applies fn to a copy of the cart and commits it only once the repository holds it
func (s *cartService) mutate(ctx context.Context, fn func([]domain.CartItem) ([]domain.CartItem, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := fn(domain.CloneItems(s.items))
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("Failed to persist cart", zap.Error(err))
		return fmt.Errorf("failed to save cart: %w", err)
	}

	s.items = next
	return nil
}

func indexOf(items []domain.CartItem, productID int) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
