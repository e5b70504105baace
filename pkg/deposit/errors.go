package deposit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirasaad/usdtgate/pkg/validation"
)

var (
	// ErrSessionNotFound is returned when no session exists for an id.
	ErrSessionNotFound = errors.New("deposit session not found")
	// ErrSessionExpired is returned when the deposit window has elapsed.
	ErrSessionExpired = errors.New("payment timeout, please try again")
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the session's current status.
	ErrInvalidTransition = errors.New("invalid deposit session transition")
	// ErrFiatUnavailable is returned for the fiat payment method.
	ErrFiatUnavailable = errors.New("fiat payment system coming soon")
)

// User-facing status messages.
const (
	MsgFiatUnavailable = "Fiat payment system coming soon!"
	MsgCryptoSelected  = "Crypto payment selected"
	MsgChecking        = "Checking payment status..."
	MsgConfirmed       = "Payment confirmed! Processing USDT transfer..."
	MsgCompleted       = "Transaction completed successfully!"
	MsgCanceled        = "Payment cancelled"
	MsgTimeout         = "Payment timeout. Please try again."
)

// FormError carries the per-field outcome of a rejected purchase form.
type FormError struct {
	Result validation.FormResult
}

func (e *FormError) Error() string {
	errs := e.Result.Errors()
	parts := make([]string, 0, len(errs))
	for _, f := range e.Result.Fields() {
		if msg, ok := errs[f.Field]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, msg))
		}
	}
	return "invalid purchase form: " + strings.Join(parts, "; ")
}
