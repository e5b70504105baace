// Package app assembles the pricing, validation, quote and deposit services
// from configuration and infrastructure dependencies.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/usdtgate/pkg/config"
	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/amirasaad/usdtgate/pkg/eventbus"
	"github.com/amirasaad/usdtgate/pkg/metrics"
	"github.com/amirasaad/usdtgate/pkg/pricefeed"
	"github.com/amirasaad/usdtgate/pkg/pricing"
	"github.com/amirasaad/usdtgate/pkg/quote"
	"github.com/amirasaad/usdtgate/pkg/validation"
)

// Deps contains the infrastructure the services are built on
type Deps struct {
	Store    deposit.Store
	Feed     *pricefeed.Feed
	Metrics  *metrics.Metrics
	EventBus *eventbus.Bus
	// Forwarders receive every deposit status event, e.g. external streams.
	Forwarders []eventbus.Publisher
	Logger     *slog.Logger
}

// Close releases the session store and forwarders that hold resources.
func (d *Deps) Close() error {
	var errs []error
	if c, ok := d.Store.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	for _, f := range d.Forwarders {
		if c, ok := f.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

type App struct {
	Deps      *Deps
	Config    *config.App
	Engine    *pricing.Engine
	Validator *validation.Validator
	Quotes    *quote.Builder
	Deposits  *deposit.Service
}

// New builds the services. deps.Metrics and deps.Feed may be nil.
func New(deps *Deps, cfg *config.App, opts ...deposit.Option) (*App, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	pc, err := cfg.PricingConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build pricing config: %w", err)
	}
	engine, err := pricing.NewEngine(pc)
	if err != nil {
		return nil, fmt.Errorf("failed to build pricing engine: %w", err)
	}
	validator := validation.New(pc)

	var prices quote.PriceSource
	if deps.Feed != nil {
		prices = deps.Feed
	}

	if deps.EventBus == nil {
		deps.EventBus = eventbus.New(deps.Logger)
	}
	subscribeStatusHandlers(deps)

	depositOpts := []deposit.Option{
		deposit.WithLogger(deps.Logger),
		deposit.WithPublisher(deps.EventBus),
	}
	depositOpts = append(depositOpts, opts...)

	return &App{
		Deps:      deps,
		Config:    cfg,
		Engine:    engine,
		Validator: validator,
		Quotes:    quote.NewBuilder(engine, validator, prices),
		Deposits: deposit.NewService(
			cfg.DepositConfig(),
			engine,
			validator,
			deps.Store,
			depositOpts...,
		),
	}, nil
}

// subscribeStatusHandlers wires the deposit status events to metrics, the
// audit log and the forwarders.
func subscribeStatusHandlers(deps *Deps) {
	if deps.Metrics != nil {
		deps.EventBus.Subscribe(deposit.EventStatusChanged, func(_ context.Context, e eventbus.Event) error {
			deps.Metrics.ObserveStatus(e.(deposit.StatusChanged).Status)
			return nil
		})
	}
	deps.EventBus.Subscribe(deposit.EventStatusChanged, func(_ context.Context, e eventbus.Event) error {
		sc := e.(deposit.StatusChanged)
		deps.Logger.Info("deposit status changed", "session_id", sc.SessionID, "status", sc.Status)
		return nil
	})
	for _, f := range deps.Forwarders {
		deps.EventBus.Subscribe(deposit.EventStatusChanged, f.Publish)
	}
}

// RunBackground starts the price feed when enabled. It returns immediately;
// the feed stops when ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	if a.Deps.Feed == nil || !a.Config.PriceFeed.Enabled {
		return
	}
	a.Deps.Logger.Info("Starting price feed", "interval", a.Config.PriceFeed.Interval)
	go a.Deps.Feed.Run(ctx)
}
