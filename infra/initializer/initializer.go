package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/amirasaad/usdtgate/infra/cache"
	infraeventbus "github.com/amirasaad/usdtgate/infra/eventbus"
	"github.com/amirasaad/usdtgate/pkg/app"
	"github.com/amirasaad/usdtgate/pkg/config"
	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/amirasaad/usdtgate/pkg/eventbus"
	"github.com/amirasaad/usdtgate/pkg/metrics"
	"github.com/amirasaad/usdtgate/pkg/pricefeed"
	"github.com/redis/go-redis/v9"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	return initializeDependencies(SetupLogger(cfg.Log), cfg)
}

func initializeDependencies(logger *slog.Logger, cfg *config.App) (deps *app.Deps, err error) {
	deps = &app.Deps{Logger: logger}
	deps.Metrics = metrics.New()
	deps.EventBus = eventbus.New(logger)

	deps.Feed = pricefeed.New(
		cfg.PriceFeed.USDT,
		cfg.PriceFeed.TRX,
		cfg.PriceFeed.Interval,
		pricefeed.WithLogger(logger),
		pricefeed.WithObserver(func(p pricefeed.Prices) {
			deps.Metrics.SetPrices(p.USDT, p.TRX)
		}),
	)
	current := deps.Feed.Current()
	deps.Metrics.SetPrices(current.USDT, current.TRX)

	deps.Store, err = newSessionStore(cfg.Redis, logger)
	if err != nil {
		return nil, err
	}
	deps.Forwarders, err = newForwarders(cfg, logger)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}
	return deps, nil
}

// newForwarders connects the optional external event sinks. The Redis
// stream shares the session store's Redis URL.
func newForwarders(cfg *config.App, logger *slog.Logger) ([]eventbus.Publisher, error) {
	var forwarders []eventbus.Publisher
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.Events.RedisStream != "" {
		if cfg.Redis.URL == "" {
			return nil, fmt.Errorf("events redis stream %q requires REDIS_URL", cfg.Events.RedisStream)
		}
		p, err := infraeventbus.NewRedisStreamPublisherFromURL(ctx,
			cfg.Redis.URL, cfg.Events.RedisStream, cfg.Events.RedisStreamMaxLen, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Forwarding deposit events to Redis stream", "stream", cfg.Events.RedisStream)
		forwarders = append(forwarders, p)
	}

	if cfg.Events.KafkaBrokers != "" {
		p, err := infraeventbus.NewKafkaPublisher(ctx, infraeventbus.KafkaConfig{
			Brokers:      cfg.Events.KafkaBrokers,
			Topic:        cfg.Events.KafkaTopic,
			SASLUsername: cfg.Events.KafkaUsername,
			SASLPassword: cfg.Events.KafkaPassword,
			TLSEnabled:   cfg.Events.KafkaTLS,
			DialTimeout:  cfg.Events.KafkaDialTimeout,
		}, logger)
		if err != nil {
			for _, f := range forwarders {
				if c, ok := f.(io.Closer); ok {
					_ = c.Close()
				}
			}
			return nil, err
		}
		forwarders = append(forwarders, p)
	}
	return forwarders, nil
}

// newSessionStore uses Redis when a URL is configured, memory otherwise.
func newSessionStore(cfg *config.Redis, logger *slog.Logger) (deposit.Store, error) {
	if cfg.URL == "" {
		logger.Info("Using in-memory deposit session store")
		return cache.NewMemorySessionStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := cache.NewRedisSessionStoreFromURL(ctx, cfg.URL, cfg.KeyPrefix, logger,
		func(o *redis.Options) {
			o.PoolSize = cfg.PoolSize
			o.DialTimeout = cfg.DialTimeout
			o.ReadTimeout = cfg.ReadTimeout
			o.WriteTimeout = cfg.WriteTimeout
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis session store: %w", err)
	}
	logger.Info("Using Redis deposit session store", "key_prefix", cfg.KeyPrefix)
	return store, nil
}
