package service

import (
	"context"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

// SessionConfig scopes a session's persisted state
type SessionConfig struct {
	Namespace string
	Timeout   time.Duration
	Orders    OrderOptions
}

// OpenSession builds a Storefront whose cart and order history live under
// "<namespace>:cart" and "<namespace>:orders" in store, rehydrating both.
func OpenSession(ctx context.Context, c *catalog.Catalog, store storage.Store, cfg SessionConfig, base *zap.Logger) (*Storefront, error) {
	log := logger.Session(base, cfg.Namespace)
	scoped := storage.WithPrefix(store, cfg.Namespace)

	cart, err := NewCartService(ctx, repository.NewCartRepository(scoped, cfg.Timeout), log)
	if err != nil {
		return nil, err
	}

	orders, err := NewOrderService(ctx, repository.NewOrderRepository(scoped, cfg.Timeout), cfg.Orders, log)
	if err != nil {
		return nil, err
	}

	log.Info("Session opened",
		zap.Int("cart_items", cart.ItemCount()),
		zap.Int("orders", len(orders.History())),
	)

	return NewStorefront(c, cart, orders, log), nil
}
