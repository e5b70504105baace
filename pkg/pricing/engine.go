// Package pricing maps a requested USDT amount to the TRX network fee,
// the discount on it and the final payable fee.
//
// Every function here is pure: no I/O, no clocks, no shared state.
package pricing

import (
	"github.com/shopspring/decimal"
)

// FeeUnits returns ceil(a / 500). Non-positive amounts have zero units.
func FeeUnits(a decimal.Decimal) int64 {
	if !a.IsPositive() {
		return 0
	}
	q, r := a.QuoRem(FeeUnitSize, 0)
	if r.IsPositive() {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q.IntPart()
}

// OriginalFee returns FeeUnits(a) × rate.
func OriginalFee(a decimal.Decimal, cfg Config) decimal.Decimal {
	return decimal.NewFromInt(FeeUnits(a)).Mul(cfg.feeRatePer500)
}

// Discount returns OriginalFee(a) × discount fraction.
func Discount(a decimal.Decimal, cfg Config) decimal.Decimal {
	return OriginalFee(a, cfg).Mul(cfg.discountFraction)
}

// FinalFee returns OriginalFee(a) − Discount(a).
func FinalFee(a decimal.Decimal, cfg Config) decimal.Decimal {
	return OriginalFee(a, cfg).Sub(Discount(a, cfg))
}

// Compute derives the full breakdown in one pass. A non-positive amount
// yields the empty breakdown.
func Compute(a decimal.Decimal, cfg Config) FeeBreakdown {
	units := FeeUnits(a)
	if units == 0 {
		return FeeBreakdown{}
	}
	original := decimal.NewFromInt(units).Mul(cfg.feeRatePer500)
	discount := original.Mul(cfg.discountFraction)
	return FeeBreakdown{
		Amount:      a,
		FeeUnits:    units,
		OriginalFee: original,
		Discount:    discount,
		FinalFee:    original.Sub(discount),
	}
}

// NormalizeAmount rounds an amount to a whole USDT, half away from zero.
func NormalizeAmount(a decimal.Decimal) decimal.Decimal {
	return a.Round(0)
}

// Engine binds a validated Config to the pricing functions.
type Engine struct {
	cfg Config
}

// NewEngine returns an Engine for cfg, or an error if cfg is invalid.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Compute returns the breakdown for a.
func (e *Engine) Compute(a decimal.Decimal) FeeBreakdown { return Compute(a, e.cfg) }

// FeeUnits returns ceil(a / 500).
func (e *Engine) FeeUnits(a decimal.Decimal) int64 { return FeeUnits(a) }

// OriginalFee returns the undiscounted fee for a.
func (e *Engine) OriginalFee(a decimal.Decimal) decimal.Decimal { return OriginalFee(a, e.cfg) }

// Discount returns the discount on the fee for a.
func (e *Engine) Discount(a decimal.Decimal) decimal.Decimal { return Discount(a, e.cfg) }

// FinalFee returns the payable fee for a.
func (e *Engine) FinalFee(a decimal.Decimal) decimal.Decimal { return FinalFee(a, e.cfg) }

// InRange reports whether a is within the configured inclusive bounds.
func (e *Engine) InRange(a decimal.Decimal) bool {
	return a.GreaterThanOrEqual(e.cfg.minAmount) && a.LessThanOrEqual(e.cfg.maxAmount)
}
