package pricing_test

import (
	"testing"

	"github.com/amirasaad/usdtgate/pkg/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_ConcreteCases(t *testing.T) {
	cfg := pricing.DefaultConfig()
	tests := []struct {
		amount   string
		units    int64
		original string
		discount string
		final    string
	}{
		{"500", 1, "20", "1", "19"},
		{"1000", 2, "40", "2", "38"},
		{"2500", 5, "100", "5", "95"},
		{"5000", 10, "200", "10", "190"},
		{"10000", 20, "400", "20", "380"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			b := pricing.Compute(d(tt.amount), cfg)
			assert.Equal(t, tt.units, b.FeeUnits)
			assert.True(t, b.OriginalFee.Equal(d(tt.original)), "original fee %s", b.OriginalFee)
			assert.True(t, b.Discount.Equal(d(tt.discount)), "discount %s", b.Discount)
			assert.True(t, b.FinalFee.Equal(d(tt.final)), "final fee %s", b.FinalFee)
			assert.False(t, b.IsEmpty())
		})
	}
}

func TestFeeUnits_Boundaries(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"0.000000000000000001", 1},
		{"1", 1},
		{"499.99", 1},
		{"500", 1},
		{"500.01", 2},
		{"501", 2},
		{"1000", 2},
		{"1001", 3},
		{"500000", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.FeeUnits(d(tt.amount)))
		})
	}
}

func TestFeeUnits_StepOf500AddsOneUnit(t *testing.T) {
	for _, a := range []string{"1", "250", "500", "501", "999.5", "1000", "12345.67"} {
		base := d(a)
		assert.Equal(t, pricing.FeeUnits(base)+1, pricing.FeeUnits(base.Add(pricing.FeeUnitSize)), "amount %s", a)
	}
}

func TestFinalFee_EqualsDiscountedOriginal(t *testing.T) {
	cfg := pricing.DefaultConfig()
	factor := decimal.NewFromInt(1).Sub(cfg.DiscountFraction())
	for _, a := range []string{"1", "500", "777.7", "2500", "499999", "500000"} {
		amount := d(a)
		want := pricing.OriginalFee(amount, cfg).Mul(factor)
		assert.True(t, pricing.FinalFee(amount, cfg).Equal(want), "amount %s", a)
		assert.True(t, pricing.Discount(amount, cfg).Equal(pricing.OriginalFee(amount, cfg).Sub(want)))
	}
}

func TestCompute_NoAmount(t *testing.T) {
	cfg := pricing.DefaultConfig()
	for _, a := range []string{"0", "-1", "-500"} {
		b := pricing.Compute(d(a), cfg)
		assert.True(t, b.IsEmpty(), "amount %s", a)
		assert.True(t, b.FinalFee.IsZero())
	}
}

func TestCompute_AlternateConfig(t *testing.T) {
	cfg, err := pricing.NewConfig(d("100"), d("1000"), d("10"), d("0.1"))
	require.NoError(t, err)

	b := pricing.Compute(d("1200"), cfg)
	assert.Equal(t, int64(3), b.FeeUnits)
	assert.True(t, b.OriginalFee.Equal(d("30")))
	assert.True(t, b.Discount.Equal(d("3")))
	assert.True(t, b.FinalFee.Equal(d("27")))
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name                     string
		min, max, rate, fraction string
	}{
		{"zero min", "0", "10", "20", "0.05"},
		{"max below min", "500", "100", "20", "0.05"},
		{"zero rate", "500", "1000", "0", "0.05"},
		{"negative discount", "500", "1000", "20", "-0.01"},
		{"full discount", "500", "1000", "20", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pricing.NewConfig(d(tt.min), d(tt.max), d(tt.rate), d(tt.fraction))
			assert.ErrorIs(t, err, pricing.ErrInvalidConfig)
		})
	}
}

func TestNewConfigFromFloats(t *testing.T) {
	cfg, err := pricing.NewConfigFromFloats(500, 500000, 20, 0.05)
	require.NoError(t, err)
	assert.True(t, cfg.DiscountFraction().Equal(d("0.05")))
	assert.True(t, cfg.DiscountPercent().Equal(d("5")))
}

func TestEngine(t *testing.T) {
	e, err := pricing.NewEngine(pricing.DefaultConfig())
	require.NoError(t, err)

	assert.True(t, e.InRange(d("500")))
	assert.True(t, e.InRange(d("500000")))
	assert.False(t, e.InRange(d("499")))
	assert.False(t, e.InRange(d("500001")))

	assert.True(t, e.FinalFee(d("2500")).Equal(d("95")))
	assert.Equal(t, pricing.Compute(d("2500"), e.Config()).FeeUnits, e.Compute(d("2500")).FeeUnits)
	assert.Equal(t, int64(5), e.FeeUnits(d("2500")))
	assert.True(t, e.OriginalFee(d("2500")).Equal(d("100")))
	assert.True(t, e.Discount(d("2500")).Equal(d("5")))

	_, err = pricing.NewEngine(pricing.Config{})
	assert.ErrorIs(t, err, pricing.ErrInvalidConfig)
}

func TestNormalizeAmount(t *testing.T) {
	assert.True(t, pricing.NormalizeAmount(d("1234.5")).Equal(d("1235")))
	assert.True(t, pricing.NormalizeAmount(d("1234.4")).Equal(d("1234")))
}

func TestBreakdown_Money(t *testing.T) {
	b := pricing.Compute(d("500"), pricing.DefaultConfig())
	assert.Equal(t, "19.00 TRX", b.Payable().String())
	assert.Equal(t, "500.00 USDT", b.Receivable().String())
}
