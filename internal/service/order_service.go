package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

const maxIDAttempts = 32

var (
	ErrEmptyCart       = errors.New("cannot place an order with nothing in it")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderIDConflict = errors.New("could not generate a unique order id")
)

// OrderService defines the interface for the order lifecycle
type OrderService interface {
	PlaceOrder(ctx context.Context, items []domain.CartItem, paymentMethod string) (domain.Order, error)
	History() []domain.Order
	GetOrder(id string) (domain.Order, error)
}

// OrderOptions carries the collaborators of an OrderService. Zero fields fall back to defaults.
type OrderOptions struct {
	Clock                Clock
	IDs                  IDGenerator
	Publisher            events.Publisher
	DefaultPaymentMethod string
}

type orderService struct {
	mu            sync.Mutex
	repo          repository.OrderRepository
	orders        []domain.Order
	clock         Clock
	ids           IDGenerator
	publisher     events.Publisher
	paymentMethod string
	logger        *zap.Logger
}

// NewOrderService creates an OrderService rehydrated from repo. Absent or malformed history
// starts empty; any other load failure is returned.
func NewOrderService(ctx context.Context, repo repository.OrderRepository, opts OrderOptions, logger *zap.Logger) (OrderService, error) {
	orders, err := repo.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStateNotFound):
		orders = []domain.Order{}
	case errors.Is(err, repository.ErrMalformedState):
		logger.Warn("Discarding unreadable order history", zap.Error(err))
		orders = []domain.Order{}
	default:
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}

	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.IDs == nil {
		opts.IDs = RandomIDGenerator("ORD")
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NoopPublisher{}
	}
	if strings.TrimSpace(opts.DefaultPaymentMethod) == "" {
		opts.DefaultPaymentMethod = domain.DefaultPaymentMethod
	}

	return &orderService{
		repo:          repo,
		orders:        orders,
		clock:         opts.Clock,
		ids:           opts.IDs,
		publisher:     opts.Publisher,
		paymentMethod: opts.DefaultPaymentMethod,
		logger:        logger,
	}, nil
}

// PlaceOrder freezes items into a pending order, prepends it to the history and persists it
func (s *orderService) PlaceOrder(ctx context.Context, items []domain.CartItem, paymentMethod string) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	for _, item := range items {
		if !domain.ValidQuantity(item.Quantity) {
			return domain.Order{}, ErrInvalidQuantity
		}
	}
	if strings.TrimSpace(paymentMethod) == "" {
		paymentMethod = s.paymentMethod
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.nextID()
	if err != nil {
		return domain.Order{}, err
	}

	frozen := domain.CloneItems(items)
	order := domain.Order{
		ID:            id,
		Date:          s.clock.Now().Format(domain.DateLayout),
		Items:         frozen,
		Total:         domain.SumItems(frozen),
		Status:        domain.OrderStatusPending,
		PaymentMethod: paymentMethod,
	}

	next := make([]domain.Order, 0, len(s.orders)+1)
	next = append(next, order)
	next = append(next, s.orders...)

	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("Failed to persist order history", zap.String("order_id", id), zap.Error(err))
		return domain.Order{}, fmt.Errorf("failed to save order: %w", err)
	}
	s.orders = next

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("lines", len(order.Items)),
	)

	if err := s.publisher.PublishOrderPlaced(ctx, order.Clone()); err != nil {
		s.logger.Warn("Failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}

	return order.Clone(), nil
}

// History returns the orders newest first
func (s *orderService) History() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

func (s *orderService) GetOrder(id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

// nextID draws ids until one is absent from the history. Callers hold s.mu.
func (s *orderService) nextID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.ids.NewID()
		if !s.hasOrder(id) {
			return id, nil
		}
		s.logger.Debug("Order id collision", zap.String("order_id", id), zap.Int("attempt", attempt+1))
	}
	return "", ErrOrderIDConflict
}

func (s *orderService) hasOrder(id string) bool {
	for _, o := range s.orders {
		if o.ID == id {
			return true
		}
	}
	return false
}
