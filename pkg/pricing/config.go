package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// FeeUnitSize is the USDT increment priced by one fee unit.
var FeeUnitSize = decimal.NewFromInt(500)

var (
	// ErrInvalidConfig is returned when a pricing configuration breaks an invariant.
	ErrInvalidConfig = errors.New("invalid pricing config")
)

// Config holds the pricing constants. It is immutable once built: fields are
// unexported and only readable through accessors.
type Config struct {
	minAmount        decimal.Decimal
	maxAmount        decimal.Decimal
	feeRatePer500    decimal.Decimal
	discountFraction decimal.Decimal
}

// DefaultConfig returns {min: 500, max: 500000, rate: 20 TRX, discount: 5%}.
func DefaultConfig() Config {
	return Config{
		minAmount:        decimal.NewFromInt(500),
		maxAmount:        decimal.NewFromInt(500_000),
		feeRatePer500:    decimal.NewFromInt(20),
		discountFraction: decimal.RequireFromString("0.05"),
	}
}

// NewConfig builds and validates a Config.
func NewConfig(minAmount, maxAmount, feeRatePer500, discountFraction decimal.Decimal) (Config, error) {
	cfg := Config{
		minAmount:        minAmount,
		maxAmount:        maxAmount,
		feeRatePer500:    feeRatePer500,
		discountFraction: discountFraction,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewConfigFromFloats is a convenience for configuration read from the environment.
func NewConfigFromFloats(minAmount, maxAmount, feeRatePer500, discountFraction float64) (Config, error) {
	return NewConfig(
		decimal.NewFromFloat(minAmount),
		decimal.NewFromFloat(maxAmount),
		decimal.NewFromFloat(feeRatePer500),
		decimal.NewFromFloat(discountFraction),
	)
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	switch {
	case !c.minAmount.IsPositive():
		return fmt.Errorf("%w: min amount must be positive", ErrInvalidConfig)
	case c.maxAmount.LessThan(c.minAmount):
		return fmt.Errorf("%w: max amount %s below min amount %s", ErrInvalidConfig, c.maxAmount, c.minAmount)
	case !c.feeRatePer500.IsPositive():
		return fmt.Errorf("%w: fee rate must be positive", ErrInvalidConfig)
	case c.discountFraction.IsNegative() || c.discountFraction.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return fmt.Errorf("%w: discount fraction must be in [0, 1)", ErrInvalidConfig)
	}
	return nil
}

// MinAmount returns the inclusive lower amount bound in USDT.
func (c Config) MinAmount() decimal.Decimal { return c.minAmount }

// MaxAmount returns the inclusive upper amount bound in USDT.
func (c Config) MaxAmount() decimal.Decimal { return c.maxAmount }

// FeeRatePer500 returns the TRX fee charged per fee unit.
func (c Config) FeeRatePer500() decimal.Decimal { return c.feeRatePer500 }

// DiscountFraction returns the discount applied to the original fee.
func (c Config) DiscountFraction() decimal.Decimal { return c.discountFraction }

// DiscountPercent returns the discount as a whole percentage, e.g. 5.
func (c Config) DiscountPercent() decimal.Decimal {
	return c.discountFraction.Mul(decimal.NewFromInt(100))
}
