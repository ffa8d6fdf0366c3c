package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/cron"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/instance"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/angelmondragon/storefront-cart/pkg/migrate"
	"github.com/angelmondragon/storefront-cart/pkg/redis"
)

const lockName = "cron-worker"

func main() {
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg, *once); err != nil {
		logg.Error(context.Background(), "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger, once bool) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.Open(bootCtx, cfg, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("dev migrations: %w", err)
	}

	var lock cron.Lock = &cron.LocalLock{}
	if cfg.Redis.Configured() {
		var redisClient *redis.Client
		redisClient, err = redis.New(bootCtx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(lockName, cfg.App.Env), 0)
		if err != nil {
			return fmt.Errorf("cron lock: %w", err)
		}
	} else {
		logg.Warn(bootCtx, "redis not configured, using in-process cron lock")
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	registry := cron.NewRegistry()
	if cfg.Cart.Store == config.CartStorePostgres {
		job, err := cron.NewCartRetentionJob(cron.CartRetentionJobParams{
			Logger:     logg,
			Repository: cart.NewRepository(dbClient.DB()),
			Metrics:    metricsCollector,
			Retention:  cfg.Cart.Retention,
			BatchSize:  cfg.Cron.BatchSize,
		})
		if err != nil {
			return fmt.Errorf("cart retention job: %w", err)
		}
		registry.Register(job)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		return fmt.Errorf("cron service: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"jobs":        registry.Len(),
		"cart_store":  cfg.Cart.Store,
		"instance":    instance.GetID(),
	})

	if registry.Len() == 0 {
		logg.Warn(ctx, "no cron jobs registered for this cart store")
	}

	if once {
		logg.Info(ctx, "running single cron cycle")
		return service.RunOnce(ctx)
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
	return nil
}
