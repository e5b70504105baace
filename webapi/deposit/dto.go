package deposit

import (
	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/amirasaad/usdtgate/pkg/money"
	"github.com/amirasaad/usdtgate/pkg/pricing"
)

// StartRequest is the body of POST /api/deposits.
type StartRequest struct {
	Amount        string `json:"amount"`
	Email         string `json:"email"`
	WalletAddress string `json:"wallet_address"`
	Method        string `json:"method" validate:"omitempty,oneof=crypto fiat"`
}

func (r StartRequest) toService() deposit.StartRequest {
	method := deposit.MethodCrypto
	if r.Method != "" {
		method = deposit.Method(r.Method)
	}
	return deposit.StartRequest{
		Amount:  r.Amount,
		Email:   r.Email,
		Address: r.WalletAddress,
		Method:  method,
	}
}

// PreviewRequest is the body of POST /api/deposits/preview.
type PreviewRequest struct {
	Amount        string `json:"amount" validate:"required"`
	Email         string `json:"email" validate:"required,simple_email"`
	WalletAddress string `json:"wallet_address" validate:"required,trc20"`
}

// PreviewDTO is the confirmation shown before a deposit session opens.
type PreviewDTO struct {
	Amount      string `json:"amount"`
	OriginalFee string `json:"original_fee"`
	Discount    string `json:"discount"`
	Fee         string `json:"fee"`
	TotalToPay  string `json:"total_to_pay"`
	Recipient   string `json:"recipient"`
	Email       string `json:"email"`
}

const recipientPrefixLen = 10

func toPreviewDTO(bd pricing.FeeBreakdown, email, address string) PreviewDTO {
	recipient := address
	if len(recipient) > recipientPrefixLen {
		recipient = recipient[:recipientPrefixLen] + "..."
	}
	return PreviewDTO{
		Amount:      bd.Receivable().String(),
		OriginalFee: money.Format(bd.OriginalFee, money.TRX, 2),
		Discount:    "-" + money.Format(bd.Discount, money.TRX, 2),
		Fee:         bd.Payable().String(),
		TotalToPay:  bd.Payable().String(),
		Recipient:   recipient,
		Email:       email,
	}
}
