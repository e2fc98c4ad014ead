package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("Storefront exited with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Graceful shutdown complete")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
	)

	c, err := catalog.LoadFile(cfg.Catalog.File)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Info("Catalog loaded", zap.Int("products", c.Len()), zap.String("file", cfg.Catalog.File))

	backend, err := server.OpenBackend(ctx, cfg, log)
	if err != nil {
		return err
	}

	publisher := newPublisher(cfg, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher", zap.Error(err))
		}
	}()

	storefront, err := service.OpenSession(ctx, c, backend.Store, service.SessionConfig{
		Namespace: cfg.Store.Namespace,
		Timeout:   cfg.Store.Timeout,
		Orders: service.OrderOptions{
			Clock:                service.SystemClock,
			IDs:                  service.RandomIDGenerator(cfg.Order.IDPrefix),
			Publisher:            publisher,
			DefaultPaymentMethod: cfg.Order.DefaultPaymentMethod,
		},
	}, log)
	if err != nil {
		backend.Close()
		return fmt.Errorf("failed to open session: %w", err)
	}

	srv := server.NewServer(cfg, log, storefront, backend)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}
		return srv.Close()
	})

	return g.Wait()
}

func newPublisher(cfg *config.Config, log *zap.Logger) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("Kafka brokers not configured, order events disabled")
		return events.NoopPublisher{}
	}

	log.Info("Publishing order events",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)
	return events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, "storefront", log)
}
