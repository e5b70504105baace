// Package metrics exposes Prometheus collectors for quotes, validation and
// deposit sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/amirasaad/usdtgate/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "usdtgate"

// Quote results.
const (
	QuotePriced      = "priced"
	QuotePlaceholder = "placeholder"
)

// Metrics owns a private registry so tests and multiple apps don't collide.
type Metrics struct {
	registry *prometheus.Registry

	quotes             *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	depositSessions    *prometheus.CounterVec
	checkDuration      prometheus.Histogram
	usdtPrice          prometheus.Gauge
	trxPrice           prometheus.Gauge
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		quotes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Total number of quotes rendered",
			},
			[]string{"result"},
		),
		validationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of rejected form fields",
			},
			[]string{"field"},
		),
		depositSessions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deposit_sessions_total",
				Help:      "Total number of deposit session status changes",
			},
			[]string{"status"},
		),
		checkDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "payment_check_duration_seconds",
				Help:      "Duration of simulated payment checks",
				Buckets:   []float64{.5, 1, 2, 5, 10, 30},
			},
		),
		usdtPrice: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "usdt_price_usd",
				Help:      "Current USDT price in USD",
			},
		),
		trxPrice: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "trx_price_usd",
				Help:      "Current TRX price in USD",
			},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveQuote counts a rendered quote.
func (m *Metrics) ObserveQuote(priced bool) {
	result := QuotePlaceholder
	if priced {
		result = QuotePriced
	}
	m.quotes.WithLabelValues(result).Inc()
}

// ObserveForm counts every invalid field of r. Empty fields are not failures.
func (m *Metrics) ObserveForm(r validation.FormResult) {
	for _, f := range r.Fields() {
		if f.State == validation.StateInvalid {
			m.validationFailures.WithLabelValues(string(f.Field)).Inc()
		}
	}
}

// ObserveStatus counts a deposit session status change.
func (m *Metrics) ObserveStatus(s deposit.Status) {
	m.depositSessions.WithLabelValues(string(s)).Inc()
}

// ObserveCheck records the duration of one payment check.
func (m *Metrics) ObserveCheck(d time.Duration) {
	m.checkDuration.Observe(d.Seconds())
}

// SetPrices updates the price gauges.
func (m *Metrics) SetPrices(usdt, trx decimal.Decimal) {
	m.usdtPrice.Set(usdt.InexactFloat64())
	m.trxPrice.Set(trx.InexactFloat64())
}
