package quote

import (
	"time"

	"github.com/amirasaad/usdtgate/pkg/money"
	"github.com/amirasaad/usdtgate/pkg/pricefeed"
)

// QuoteRequest is the body of POST /api/quote.
type QuoteRequest struct {
	Amount string `json:"amount" validate:"max=64"`
}

// ValidateRequest is the body of POST /api/validate.
type ValidateRequest struct {
	Amount        string `json:"amount"`
	Email         string `json:"email"`
	WalletAddress string `json:"wallet_address"`
}

// PriceDTO is the response of GET /api/price.
type PriceDTO struct {
	USDT      string    `json:"usdt"`
	TRX       string    `json:"trx"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPriceDTO(p pricefeed.Prices) PriceDTO {
	return PriceDTO{
		USDT:      money.FormatPrice(p.USDT),
		TRX:       money.FormatPrice(p.TRX),
		UpdatedAt: p.UpdatedAt,
	}
}

// ConfigDTO exposes the constants the purchase page needs.
type ConfigDTO struct {
	MinAmount       string `json:"min_amount"`
	MaxAmount       string `json:"max_amount"`
	FeeRatePer500   string `json:"fee_rate_per_500"`
	DiscountPercent string `json:"discount_percent"`
	DepositAddress  string `json:"deposit_address"`
	DepositTimeout  int64  `json:"deposit_timeout_seconds"`
	DebounceMillis  int64  `json:"debounce_ms"`
}
