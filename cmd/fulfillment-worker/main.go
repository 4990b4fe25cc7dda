package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bookhavenapp/bookhaven-backend/internal/app"
	"github.com/bookhavenapp/bookhaven-backend/internal/fulfillment"
	"github.com/bookhavenapp/bookhaven-backend/pkg/config"
	"github.com/bookhavenapp/bookhaven-backend/pkg/db"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/metrics"
	"github.com/bookhavenapp/bookhaven-backend/pkg/migrate"
	"github.com/bookhavenapp/bookhaven-backend/pkg/redis"
	"github.com/bookhavenapp/bookhaven-backend/pkg/snapshot"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "fulfillment-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "fulfillment-worker"

	logg = logger.New(logger.Options{
		ServiceName: "fulfillment-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, lock, cleanup, err := buildBackends(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap backends", err)
		os.Exit(1)
	}
	defer cleanup()

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)
	state, err := app.New(app.Params{
		Store:      store,
		Logger:     logg,
		Metrics:    checkoutMetrics,
		CartDelay:  cfg.Checkout.CartDelay,
		OrderDelay: cfg.Checkout.OrderDelay,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to assemble state", err)
		os.Exit(1)
	}
	if err := state.Restore(context.Background()); err != nil {
		logg.Error(context.Background(), "state restore was incomplete", err)
	}

	advanceJob, err := fulfillment.NewAdvanceJob(fulfillment.AdvanceJobParams{
		Logger: logg,
		Orders: state.Orders,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create advance job", err)
		os.Exit(1)
	}

	service, err := fulfillment.NewService(fulfillment.ServiceParams{
		Logger:   logg,
		Registry: fulfillment.NewRegistry(advanceJob),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Fulfillment.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create fulfillment service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting fulfillment worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "fulfillment worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "fulfillment worker shutting down gracefully")
}

// buildBackends selects the snapshot store for the configured backend and the
// matching coordination lock. Only the redis backend gets a distributed lock;
// the others assume a single instance.
func buildBackends(ctx context.Context, cfg *config.Config, logg *logger.Logger) (snapshot.Store, fulfillment.Lock, func(), error) {
	cleanup := func() {}

	switch {
	case cfg.Snapshot.UseRedis():
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("bootstrap redis: %w", err)
		}
		store, err := snapshot.NewRedisStore(redisClient)
		if err != nil {
			return nil, nil, cleanup, err
		}
		lock, err := fulfillment.NewRedisLock(redisClient, redisClient.LockKey("fulfillment"), cfg.Fulfillment.LockTTL)
		if err != nil {
			return nil, nil, cleanup, err
		}
		cleanup = func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}
		return store, lock, cleanup, nil

	case cfg.Snapshot.UseDB():
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return nil, nil, cleanup, fmt.Errorf("run dev migrations: %w", err)
		}
		store, err := snapshot.NewGormStore(dbClient.DB())
		if err != nil {
			return nil, nil, cleanup, err
		}
		cleanup = func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}
		return store, fulfillment.NopLock{}, cleanup, nil

	default:
		return snapshot.NewMemoryStore(), fulfillment.NopLock{}, cleanup, nil
	}
}
