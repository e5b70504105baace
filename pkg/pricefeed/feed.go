// Package pricefeed keeps the simulated USD prices shown next to the quote.
package pricefeed

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// DefaultUSDTPrice is the starting USDT price in USD.
	DefaultUSDTPrice = decimal.NewFromInt(1)
	// DefaultTRXPrice is the TRX price in USD. It is not simulated.
	DefaultTRXPrice = decimal.RequireFromString("0.25")

	minUSDT = decimal.RequireFromString("0.95")
	maxUSDT = decimal.RequireFromString("1.05")
	// max swing per tick: ±1%
	swing = decimal.RequireFromString("0.02")
)

// Prices is a point-in-time snapshot of the feed.
type Prices struct {
	USDT      decimal.Decimal `json:"usdt"`
	TRX       decimal.Decimal `json:"trx"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Option configures a Feed.
type Option func(*Feed)

// WithRand sets the source of the fluctuation, a function returning [0, 1).
func WithRand(fn func() float64) Option {
	return func(f *Feed) { f.rand = fn }
}

// WithClock sets the clock used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) { f.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Feed) { f.logger = l }
}

// WithObserver registers a callback invoked with every new snapshot.
func WithObserver(fn func(Prices)) Option {
	return func(f *Feed) { f.observer = fn }
}

// Feed holds the current prices. Safe for concurrent use.
type Feed struct {
	mu     sync.RWMutex
	prices Prices

	interval time.Duration
	rand     func() float64
	now      func() time.Time
	logger   *slog.Logger
	observer func(Prices)
}

// New creates a feed starting at the given prices.
func New(usdt, trx decimal.Decimal, interval time.Duration, opts ...Option) *Feed {
	f := &Feed{
		interval: interval,
		rand:     rand.Float64,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.prices = Prices{USDT: usdt, TRX: trx, UpdatedAt: f.now().UTC()}
	return f
}

// Current returns the latest snapshot.
func (f *Feed) Current() Prices {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.prices
}

// Tick applies one fluctuation to the USDT price and returns the new snapshot.
func (f *Feed) Tick() Prices {
	delta := decimal.NewFromFloat(f.rand() - 0.5).Mul(swing)

	f.mu.Lock()
	next := f.prices.USDT.Add(delta)
	if next.LessThan(minUSDT) {
		next = minUSDT
	}
	if next.GreaterThan(maxUSDT) {
		next = maxUSDT
	}
	f.prices.USDT = next
	f.prices.UpdatedAt = f.now().UTC()
	p := f.prices
	f.mu.Unlock()

	if f.observer != nil {
		f.observer(p)
	}
	return p
}

// Run ticks every interval until ctx is done.
func (f *Feed) Run(ctx context.Context) {
	if f.interval <= 0 {
		return
	}
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Debug("price feed stopped")
			return
		case <-ticker.C:
			p := f.Tick()
			f.logger.Debug("price feed tick", "usdt", p.USDT.StringFixed(4))
		}
	}
}
