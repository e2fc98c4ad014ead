package service

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/catalog"
	"storefront/internal/domain"

	"go.uber.org/zap"
)

// Storefront is one shopping session: a catalog view with its filters, a cart and an order history.
type Storefront struct {
	catalog *catalog.Catalog
	cart    CartService
	orders  OrderService
	logger  *zap.Logger

	mu       sync.Mutex
	criteria domain.FilterCriteria
	results  []domain.Product
	applied  bool
}

// NewStorefront wires a session from its collaborators
func NewStorefront(c *catalog.Catalog, cart CartService, orders OrderService, logger *zap.Logger) *Storefront {
	return &Storefront{
		catalog:  c,
		cart:     cart,
		orders:   orders,
		logger:   logger,
		criteria: domain.NewFilterCriteria(),
	}
}

func (s *Storefront) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Storefront) ListCategories() []string {
	return s.catalog.Categories()
}

func (s *Storefront) ListBrands() []string {
	return s.catalog.Brands()
}

// Filter runs criteria against the catalog without touching the session's filter state
func (s *Storefront) Filter(criteria domain.FilterCriteria) []domain.Product {
	return s.catalog.Filter(criteria)
}

// Criteria returns a copy of the pending filter criteria
func (s *Storefront) Criteria() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Clone()
}

// EditCriteria mutates the pending criteria. Results change only on ApplyFilters.
func (s *Storefront) EditCriteria(edit func(*domain.FilterCriteria)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edit(&s.criteria)
}

// ApplyFilters filters the catalog with the pending criteria and keeps the result
func (s *Storefront) ApplyFilters() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked()
}

// ApplyCategoryHint merges a deep-link category into the pending criteria and re-applies them
// when they changed.
func (s *Storefront) ApplyCategoryHint(hint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !catalog.ApplyCategoryHint(&s.criteria, hint, s.catalog) {
		return false
	}
	s.applyLocked()
	return true
}

// ResetFilters clears the criteria and forgets the last result
func (s *Storefront) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Reset()
	s.results = nil
	s.applied = false
}

// Filtered returns the last applied result. applied is false until filters were applied once,
// which keeps "nothing matched" apart from "not filtered yet".
func (s *Storefront) Filtered() (products []domain.Product, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.applied {
		return nil, false
	}
	out := make([]domain.Product, len(s.results))
	copy(out, s.results)
	return out, true
}

func (s *Storefront) applyLocked() []domain.Product {
	s.results = s.catalog.Filter(s.criteria)
	s.applied = true
	out := make([]domain.Product, len(s.results))
	copy(out, s.results)
	return out
}

func (s *Storefront) Cart() CartService {
	return s.cart
}

// AddToCart looks up the product and adds it to the cart
func (s *Storefront) AddToCart(ctx context.Context, productID, quantity int) error {
	product, err := s.catalog.FindByID(productID)
	if err != nil {
		return err
	}
	return s.cart.Add(ctx, product, quantity)
}

func (s *Storefront) PlaceOrder(ctx context.Context, items []domain.CartItem, paymentMethod string) (domain.Order, error) {
	return s.orders.PlaceOrder(ctx, items, paymentMethod)
}

// Checkout places an order for the cart contents and then removes the ordered lines from the cart.
// Items added while the order is being placed stay in the cart.
// If the order is placed but the cart cannot be updated, the order is returned with the error.
func (s *Storefront) Checkout(ctx context.Context, paymentMethod string) (domain.Order, error) {
	lines := s.cart.Items()
	order, err := s.orders.PlaceOrder(ctx, lines, paymentMethod)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.cart.RemoveLines(ctx, lines); err != nil {
		s.logger.Error("Order placed but cart not cleared", zap.String("order_id", order.ID), zap.Error(err))
		return order, fmt.Errorf("failed to clear cart after order %s: %w", order.ID, err)
	}
	return order, nil
}

// BuyNow orders quantity units of a single product. The cart is left untouched.
func (s *Storefront) BuyNow(ctx context.Context, productID, quantity int, paymentMethod string) (domain.Order, error) {
	if !domain.ValidQuantity(quantity) {
		return domain.Order{}, ErrInvalidQuantity
	}
	product, err := s.catalog.FindByID(productID)
	if err != nil {
		return domain.Order{}, err
	}
	return s.orders.PlaceOrder(ctx, []domain.CartItem{domain.NewCartItem(product, quantity)}, paymentMethod)
}

func (s *Storefront) OrderHistory() []domain.Order {
	return s.orders.History()
}

func (s *Storefront) GetOrder(id string) (domain.Order, error) {
	return s.orders.GetOrder(id)
}
