// Package storage provides the durable key-value surface the cart and order history persist through.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrEmptyKey = errors.New("key must not be empty")
)

// Store is a durable key-value store. Get returns ErrNotFound for absent keys.
// A Set that returns nil must be visible to every later Get on the same store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Driver names a Store implementation
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
)

type prefixedStore struct {
	Store
	prefix string
}

// WithPrefix namespaces every key of store as "<prefix>:<key>". An empty prefix returns store unchanged.
func WithPrefix(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return &prefixedStore{Store: store, prefix: prefix + ":"}
}

func (s *prefixedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return s.Store.Get(ctx, s.prefix+key)
}

func (s *prefixedStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.Store.Set(ctx, s.prefix+key, value)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
