package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthCheck reports a dependency's state. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// Backend is the opened persistence layer plus the redis client shared with rate limiting
type Backend struct {
	Store  storage.Store
	Redis  *redis.Client
	checks map[string]HealthCheck
}

// OpenBackend opens the store selected by cfg.Store.Driver. A redis client is created when
// the store or the rate limiter needs one.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	b := &Backend{checks: make(map[string]HealthCheck)}

	if storage.Driver(cfg.Store.Driver) == storage.DriverRedis || cfg.RateLimit.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr(), err)
		}
		b.Redis = client
		b.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	store, err := b.openStore(ctx, cfg, logger)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Store = store

	logger.Info("Store opened",
		zap.String("driver", cfg.Store.Driver),
		zap.String("namespace", cfg.Store.Namespace),
	)
	return b, nil
}

func (b *Backend) openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch storage.Driver(cfg.Store.Driver) {
	case storage.DriverMemory:
		logger.Warn("Using in-memory store, state is lost on exit")
		return storage.NewMemoryStore(), nil

	case storage.DriverFile, "":
		return storage.NewFileStore(cfg.Store.Path)

	case storage.DriverSQLite:
		dsn, err := sqliteDSN(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return storage.OpenSQLite(dsn)

	case storage.DriverPostgres:
		svc, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(svc.DB(), logger); err != nil {
			svc.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		b.checks["postgres"] = func(ctx context.Context) error {
			if health := svc.Health(ctx); health["status"] != "up" {
				return errors.New(health["error"])
			}
			return nil
		}
		return storage.NewPostgresStore(svc.DB()), nil

	case storage.DriverRedis:
		return storage.NewRedisStore(b.Redis), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Health runs every registered check
func (b *Backend) Health(ctx context.Context) map[string]error {
	out := make(map[string]error, len(b.checks))
	for name, check := range b.checks {
		out[name] = check(ctx)
	}
	return out
}

// Close releases the store and the redis client
func (b *Backend) Close() error {
	var errs []error
	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}
	// The redis store owns the client and has already closed it
	if b.Redis != nil && !isRedisStore(b.Store) {
		if err := b.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func isRedisStore(s storage.Store) bool {
	_, ok := s.(*storage.RedisStore)
	return ok
}

// sqliteDSN treats a path without an extension as a directory holding storefront.db
func sqliteDSN(path string) (string, error) {
	if path == "" || path == ":memory:" || filepath.Ext(path) != "" {
		return path, nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create store directory: %w", err)
	}
	return filepath.Join(path, "storefront.db"), nil
}
