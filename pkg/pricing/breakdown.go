package pricing

import (
	"github.com/amirasaad/usdtgate/pkg/money"
	"github.com/shopspring/decimal"
)

// FeeBreakdown is the derived fee for one amount. It is never mutated,
// only recomputed.
type FeeBreakdown struct {
	Amount      decimal.Decimal `json:"amount"`
	FeeUnits    int64           `json:"fee_units"`
	OriginalFee decimal.Decimal `json:"original_fee"`
	Discount    decimal.Decimal `json:"discount"`
	FinalFee    decimal.Decimal `json:"final_fee"`
}

// IsEmpty reports the "no amount" state.
func (b FeeBreakdown) IsEmpty() bool {
	return b.FeeUnits == 0
}

// Payable returns the final fee as TRX money.
func (b FeeBreakdown) Payable() money.Money {
	return money.Must(b.FinalFee, money.TRX)
}

// Receivable returns the requested amount as USDT money.
func (b FeeBreakdown) Receivable() money.Money {
	return money.Must(b.Amount, money.USDT)
}
