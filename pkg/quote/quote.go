// Package quote turns the raw amount field into what the purchase page shows.
package quote

import (
	"fmt"

	"github.com/amirasaad/usdtgate/pkg/money"
	"github.com/amirasaad/usdtgate/pkg/pricefeed"
	"github.com/amirasaad/usdtgate/pkg/pricing"
	"github.com/amirasaad/usdtgate/pkg/validation"
	"github.com/shopspring/decimal"
)

// Placeholder is shown in value slots while there is no priced amount.
const Placeholder = "-"

// DefaultPayButton is the pay button label without a priced amount.
const DefaultPayButton = "Pay TRX Fee"

// PriceSource provides current USD prices.
type PriceSource interface {
	Current() pricefeed.Prices
}

// View is the display state for one settled amount input.
type View struct {
	Input string `json:"input"`
	// Normalized is the amount rounded to a whole USDT, the value the
	// amount field settles to once editing ends. Empty for unparsable or
	// out-of-range input.
	Normalized string                 `json:"normalized,omitempty"`
	Field      validation.FieldResult `json:"field"`
	Priced     bool                   `json:"priced"`
	Breakdown  *pricing.FeeBreakdown  `json:"breakdown,omitempty"`

	YouPay          string `json:"you_pay"`
	YouReceive      string `json:"you_receive"`
	YouReceiveShort string `json:"you_receive_short,omitempty"`
	TransactionFee  string `json:"transaction_fee"`
	OriginalFee     string `json:"original_fee"`
	FeeDiscount     string `json:"fee_discount"`
	Help            string `json:"help"`
	PayButton       string `json:"pay_button"`

	USDTPrice string `json:"usdt_price"`
	USDValue  string `json:"usd_value,omitempty"`
	FeeUSD    string `json:"fee_usd,omitempty"`
}

// Builder renders views. It holds no mutable state.
type Builder struct {
	engine    *pricing.Engine
	validator *validation.Validator
	prices    PriceSource
}

// NewBuilder returns a Builder. prices may be nil, in which case the
// default prices are used.
func NewBuilder(engine *pricing.Engine, validator *validation.Validator, prices PriceSource) *Builder {
	return &Builder{engine: engine, validator: validator, prices: prices}
}

func (b *Builder) currentPrices() pricefeed.Prices {
	if b.prices == nil {
		return pricefeed.Prices{USDT: pricefeed.DefaultUSDTPrice, TRX: pricefeed.DefaultTRXPrice}
	}
	return b.prices.Current()
}

// Build renders the view for raw. Amounts outside the bounds, zero or
// unparsable input render placeholders.
func (b *Builder) Build(raw string) View {
	prices := b.currentPrices()
	v := View{
		Input:          raw,
		Field:          b.validator.AmountString(raw),
		YouPay:         Placeholder,
		YouReceive:     Placeholder,
		TransactionFee: Placeholder,
		PayButton:      DefaultPayButton,
		USDTPrice:      money.FormatPrice(prices.USDT),
	}
	amount, ok := validation.ParseAmount(raw)
	cfg := b.engine.Config()
	if ok && amount.IsPositive() && amount.LessThanOrEqual(cfg.MaxAmount()) {
		v.Normalized = pricing.NormalizeAmount(amount).String()
	}
	if !v.Field.Valid {
		return v
	}

	bd := b.engine.Compute(amount)

	final := money.Format(bd.FinalFee, money.TRX, 2)
	original := money.Format(bd.OriginalFee, money.TRX, 2)

	v.Priced = true
	v.Breakdown = &bd
	v.YouPay = final
	v.YouReceive = bd.Receivable().String()
	if bd.Amount.GreaterThanOrEqual(decimal.NewFromInt(1_000)) {
		v.YouReceiveShort = money.FormatLarge(bd.Amount) + " USDT"
	}
	v.TransactionFee = final
	v.OriginalFee = "Original: " + original
	v.FeeDiscount = "-" + money.Format(bd.Discount, money.TRX, 2)
	v.Help = fmt.Sprintf("Fee: %s × %s TRX = %s (%s%% off = %s)",
		money.Format(decimal.NewFromInt(bd.FeeUnits), "", 0),
		cfg.FeeRatePer500().String(),
		original,
		cfg.DiscountPercent().String(),
		final,
	)
	v.PayButton = fmt.Sprintf("Pay %s Fee", final)
	if usd, err := bd.Receivable().Convert(money.USD, prices.USDT); err == nil {
		v.USDValue = usd.String()
	}
	if usd, err := bd.Payable().Convert(money.USD, prices.TRX); err == nil {
		v.FeeUSD = usd.String()
	}
	return v
}
