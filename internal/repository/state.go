package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/storage"
)

var (
	ErrStateNotFound  = errors.New("persisted state not found")
	ErrMalformedState = errors.New("persisted state is malformed")
)

const (
	CartKey   = "cart"
	OrdersKey = "orders"

	DefaultTimeout = 3 * time.Second
)

// jsonState stores a single JSON document under one key
type jsonState[T any] struct {
	store   storage.Store
	key     string
	timeout time.Duration
}

func newJSONState[T any](store storage.Store, key string, timeout time.Duration) jsonState[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return jsonState[T]{store: store, key: key, timeout: timeout}
}

func (s jsonState[T]) load(ctx context.Context) (T, error) {
	var value T

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return value, ErrStateNotFound
		}
		return value, fmt.Errorf("failed to read %s state: %w", s.key, err)
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("%w: %s: %v", ErrMalformedState, s.key, err)
	}
	return value, nil
}

func (s jsonState[T]) save(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s state: %w", s.key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to write %s state: %w", s.key, err)
	}
	return nil
}
