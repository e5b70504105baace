package quote_test

import (
	"testing"

	"github.com/amirasaad/usdtgate/pkg/pricefeed"
	"github.com/amirasaad/usdtgate/pkg/pricing"
	"github.com/amirasaad/usdtgate/pkg/quote"
	"github.com/amirasaad/usdtgate/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPrices struct{ p pricefeed.Prices }

func (f fixedPrices) Current() pricefeed.Prices { return f.p }

func newBuilder(t *testing.T, prices quote.PriceSource) *quote.Builder {
	t.Helper()
	cfg := pricing.DefaultConfig()
	engine, err := pricing.NewEngine(cfg)
	require.NoError(t, err)
	return quote.NewBuilder(engine, validation.New(cfg), prices)
}

func newBuilderWithMax(t *testing.T, maxAmount string) *quote.Builder {
	t.Helper()
	def := pricing.DefaultConfig()
	cfg, err := pricing.NewConfig(def.MinAmount(), decimal.RequireFromString(maxAmount), def.FeeRatePer500(), def.DiscountFraction())
	require.NoError(t, err)
	engine, err := pricing.NewEngine(cfg)
	require.NoError(t, err)
	return quote.NewBuilder(engine, validation.New(cfg), nil)
}

func TestBuild_Priced(t *testing.T) {
	b := newBuilder(t, nil)

	v := b.Build("500")
	assert.True(t, v.Priced)
	require.NotNil(t, v.Breakdown)
	assert.Equal(t, int64(1), v.Breakdown.FeeUnits)
	assert.Equal(t, "19.00 TRX", v.YouPay)
	assert.Equal(t, "500.00 USDT", v.YouReceive)
	assert.Equal(t, "19.00 TRX", v.TransactionFee)
	assert.Equal(t, "Original: 20.00 TRX", v.OriginalFee)
	assert.Equal(t, "-1.00 TRX", v.FeeDiscount)
	assert.Equal(t, "Fee: 1 × 20 TRX = 20.00 TRX (5% off = 19.00 TRX)", v.Help)
	assert.Equal(t, "Pay 19.00 TRX Fee", v.PayButton)
	assert.Equal(t, "1.00", v.USDTPrice)
	assert.Equal(t, "500.00 USD", v.USDValue)
	assert.Equal(t, "4.75 USD", v.FeeUSD)
	assert.Equal(t, "500", v.Normalized)
	assert.Empty(t, v.YouReceiveShort)
}

func TestBuild_Normalized(t *testing.T) {
	b := newBuilder(t, nil)
	tests := []struct {
		input      string
		normalized string
		priced     bool
	}{
		{"1234.5", "1235", true},
		{"1234.4", "1234", true},
		{"499.5", "500", false},
		{"499999.6", "500000", true},
		{"500001", "", false},
		{"1e99999999", "", false},
		{"abc", "", false},
		{"0", "", false},
		{"-700", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := b.Build(tt.input)
			assert.Equal(t, tt.normalized, v.Normalized)
			assert.Equal(t, tt.priced, v.Priced)
		})
	}
}

func TestBuild_YouReceiveShort(t *testing.T) {
	b := newBuilder(t, nil)
	assert.Equal(t, "1.0K USDT", b.Build("1000").YouReceiveShort)
	assert.Equal(t, "2.50M USDT", newBuilderWithMax(t, "5000000").Build("2500000").YouReceiveShort)
	assert.Empty(t, b.Build("999").YouReceiveShort)
	assert.Empty(t, b.Build("100").YouReceiveShort)
}

func TestBuild_PricedTable(t *testing.T) {
	b := newBuilder(t, nil)
	tests := []struct {
		input  string
		youPay string
		help   string
	}{
		{"501", "38.00 TRX", "Fee: 2 × 20 TRX = 40.00 TRX (5% off = 38.00 TRX)"},
		{"2500", "95.00 TRX", "Fee: 5 × 20 TRX = 100.00 TRX (5% off = 95.00 TRX)"},
		{"500000", "19,000.00 TRX", "Fee: 1,000 × 20 TRX = 20,000.00 TRX (5% off = 19,000.00 TRX)"},
		{" 1000 ", "38.00 TRX", "Fee: 2 × 20 TRX = 40.00 TRX (5% off = 38.00 TRX)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := b.Build(tt.input)
			assert.True(t, v.Priced)
			assert.Equal(t, tt.youPay, v.YouPay)
			assert.Equal(t, tt.help, v.Help)
		})
	}
}

func TestBuild_Placeholders(t *testing.T) {
	b := newBuilder(t, nil)
	tests := []struct {
		input   string
		state   validation.State
		message string
	}{
		{"", validation.StateEmpty, ""},
		{"abc", validation.StateEmpty, ""},
		{"0", validation.StateEmpty, ""},
		{"499.99", validation.StateInvalid, "Minimum amount is 500 USDT"},
		{"500001", validation.StateInvalid, "Maximum amount is 500,000 USDT"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := b.Build(tt.input)
			assert.False(t, v.Priced)
			assert.Nil(t, v.Breakdown)
			assert.Equal(t, tt.state, v.Field.State)
			assert.Equal(t, tt.message, v.Field.Message)
			assert.Equal(t, quote.Placeholder, v.YouPay)
			assert.Equal(t, quote.Placeholder, v.YouReceive)
			assert.Equal(t, quote.Placeholder, v.TransactionFee)
			assert.Empty(t, v.OriginalFee)
			assert.Empty(t, v.FeeDiscount)
			assert.Empty(t, v.Help)
			assert.Equal(t, quote.DefaultPayButton, v.PayButton)
			assert.Empty(t, v.USDValue)
		})
	}
}

func TestBuild_UsesPriceSource(t *testing.T) {
	b := newBuilder(t, fixedPrices{p: pricefeed.Prices{
		USDT: decimal.RequireFromString("1.02"),
		TRX:  decimal.RequireFromString("0.5"),
	}})

	v := b.Build("1000")
	assert.Equal(t, "1.02", v.USDTPrice)
	assert.Equal(t, "1,020.00 USD", v.USDValue)
	assert.Equal(t, "19.00 USD", v.FeeUSD)
}
