// Package validation holds the field validators of the purchase form.
//
// Validators never fail: they return a FieldResult describing the state of
// the field and the message to render next to it.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/amirasaad/usdtgate/pkg/money"
	"github.com/amirasaad/usdtgate/pkg/pricing"
	"github.com/shopspring/decimal"
)

// Field names a form field.
type Field string

const (
	FieldAmount  Field = "amount"
	FieldEmail   Field = "email"
	FieldAddress Field = "wallet_address"
)

// State is the validation state of one field.
type State string

const (
	// StateEmpty means nothing usable was entered yet. It is not an error.
	StateEmpty   State = "empty"
	StateValid   State = "valid"
	StateInvalid State = "invalid"
)

// Messages rendered for invalid fields.
const (
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Invalid email format"
	MsgAddressRequired = "Wallet address is required"
	MsgAddressInvalid  = "Invalid TRC20 address format"
)

var (
	// Coarse local@domain.tld check; not RFC 5321.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// 'T' then 33 of [A-Za-z1-9]; only the digit 0 is excluded.
	trc20Pattern = regexp.MustCompile(`^T[A-Za-z1-9]{33}$`)
	// Leading float literal, as accepted by a lenient number parser.
	numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

	// overflowAmount stands in for a value beyond float64 range. It is above
	// any configurable maximum and cheap to compare against.
	overflowAmount = decimal.New(1, 309)
)

// maxExponent bounds the decimal exponent kept from the input. Wider inputs
// are re-read through their float64 value.
const maxExponent = 30

// FieldResult is the outcome of validating one field.
type FieldResult struct {
	Field   Field  `json:"field"`
	State   State  `json:"state"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func result(f Field, s State, msg string) FieldResult {
	return FieldResult{Field: f, State: s, Valid: s == StateValid, Message: msg}
}

// IsEmailSyntax reports whether s matches the coarse email pattern.
func IsEmailSyntax(s string) bool {
	return emailPattern.MatchString(s)
}

// IsTRC20Address reports whether s has the surface syntax of a TRC20 address.
func IsTRC20Address(s string) bool {
	return trc20Pattern.MatchString(s)
}

// ParseAmount reads the leading number of raw. It returns false when nothing
// numeric is found or the number is zero, which is the "no amount" state.
// Numbers beyond float64 range come back as a huge amount of the same sign.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	m := numericPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return decimal.Zero, false
	}
	// The float64 reading decides overflow and underflow the way a browser
	// parseFloat would: overflow is ±Infinity, underflow is zero.
	f, _ := strconv.ParseFloat(m, 64)
	switch {
	case math.IsInf(f, 1):
		return overflowAmount, true
	case math.IsInf(f, -1):
		return overflowAmount.Neg(), true
	case f == 0:
		return decimal.Zero, false
	}
	a, err := decimal.NewFromString(m)
	if err != nil || a.Exponent() > maxExponent || a.Exponent() < -maxExponent {
		a = decimal.NewFromFloat(f)
	}
	if a.IsZero() {
		return decimal.Zero, false
	}
	return a, true
}

// Validator checks form fields against a pricing configuration.
type Validator struct {
	cfg pricing.Config
}

// New returns a Validator bound to cfg.
func New(cfg pricing.Config) *Validator {
	return &Validator{cfg: cfg}
}

// Amount checks a parsed amount against the inclusive bounds.
func (v *Validator) Amount(a decimal.Decimal) FieldResult {
	if a.IsZero() {
		return result(FieldAmount, StateEmpty, "")
	}
	if a.LessThan(v.cfg.MinAmount()) {
		return result(FieldAmount, StateInvalid,
			fmt.Sprintf("Minimum amount is %s", money.Format(v.cfg.MinAmount(), money.USDT, 0)))
	}
	if a.GreaterThan(v.cfg.MaxAmount()) {
		return result(FieldAmount, StateInvalid,
			fmt.Sprintf("Maximum amount is %s", money.Format(v.cfg.MaxAmount(), money.USDT, 0)))
	}
	return result(FieldAmount, StateValid, "")
}

// AmountString parses raw and checks it.
func (v *Validator) AmountString(raw string) FieldResult {
	a, ok := ParseAmount(raw)
	if !ok {
		return result(FieldAmount, StateEmpty, "")
	}
	return v.Amount(a)
}

// Email checks the trimmed email field.
func (v *Validator) Email(raw string) FieldResult {
	email := strings.TrimSpace(raw)
	if email == "" {
		return result(FieldEmail, StateEmpty, MsgEmailRequired)
	}
	if !IsEmailSyntax(email) {
		return result(FieldEmail, StateInvalid, MsgEmailInvalid)
	}
	return result(FieldEmail, StateValid, "")
}

// Address checks the trimmed wallet address field.
func (v *Validator) Address(raw string) FieldResult {
	address := strings.TrimSpace(raw)
	if address == "" {
		return result(FieldAddress, StateEmpty, MsgAddressRequired)
	}
	if !IsTRC20Address(address) {
		return result(FieldAddress, StateInvalid, MsgAddressInvalid)
	}
	return result(FieldAddress, StateValid, "")
}

// Form is the raw form input.
type Form struct {
	Amount        string `json:"amount"`
	Email         string `json:"email"`
	WalletAddress string `json:"wallet_address"`
}

// FormResult aggregates the three field results.
type FormResult struct {
	Valid   bool        `json:"valid"`
	Amount  FieldResult `json:"amount"`
	Email   FieldResult `json:"email"`
	Address FieldResult `json:"wallet_address"`
}

// Fields returns the three results in form order.
func (r FormResult) Fields() []FieldResult {
	return []FieldResult{r.Amount, r.Email, r.Address}
}

// Errors returns field name to message for every field that is not valid.
func (r FormResult) Errors() map[Field]string {
	errs := make(map[Field]string)
	for _, f := range r.Fields() {
		if !f.Valid {
			msg := f.Message
			if msg == "" {
				msg = string(f.State)
			}
			errs[f.Field] = msg
		}
	}
	return errs
}

// Form validates every field. All three validators always run.
func (v *Validator) Form(f Form) FormResult {
	amount := v.AmountString(f.Amount)
	email := v.Email(f.Email)
	address := v.Address(f.WalletAddress)
	return FormResult{
		Valid:   amount.Valid && email.Valid && address.Valid,
		Amount:  amount,
		Email:   email,
		Address: address,
	}
}
