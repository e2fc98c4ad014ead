package service

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store unavailable")

// Mock repositories for testing
type mockCartRepository struct {
	items   []domain.CartItem
	loadErr error
	saveErr error
	saves   int
}

func (m *mockCartRepository) Load(ctx context.Context) ([]domain.CartItem, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.items == nil {
		return nil, repository.ErrStateNotFound
	}
	return domain.CloneItems(m.items), nil
}

func (m *mockCartRepository) Save(ctx context.Context, items []domain.CartItem) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.items = domain.CloneItems(items)
	return nil
}

type mockOrderRepository struct {
	orders  []domain.Order
	loadErr error
	saveErr error
	saves   int
}

func (m *mockOrderRepository) Load(ctx context.Context) ([]domain.Order, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.orders == nil {
		return nil, repository.ErrStateNotFound
	}
	return cloneOrders(m.orders), nil
}

func (m *mockOrderRepository) Save(ctx context.Context, orders []domain.Order) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.orders = cloneOrders(orders)
	return nil
}

func cloneOrders(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}

type mockPublisher struct {
	mu        sync.Mutex
	published []domain.Order
	err       error
	onPublish func()
}

func (m *mockPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	if m.onPublish != nil {
		m.onPublish()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, order)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// sequenceIDs hands out ids in order, repeating the last one when exhausted
func sequenceIDs(ids ...string) IDGenerator {
	i := 0
	return IDGeneratorFunc(func() string {
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	})
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// productA and productB are the reference pair: A at 100, B at 50 on sale for 40
func productA() domain.Product {
	return domain.Product{ID: 1, Name: "Product A", Category: "Audio", Brand: "SoundMax", Price: money("100")}
}

func productB() domain.Product {
	return domain.Product{ID: 2, Name: "Product B", Category: "Audio", Brand: "Lumina", Price: money("50"), OnSale: true, SalePrice: money("40")}
}
