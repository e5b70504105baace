// Package money provides functionality for handling monetary values.
//
// It is a value object that represents an amount in a specific currency.
// Invariants:
//   - Amount is an exact decimal, never a binary float.
//   - Currency code must be one of the supported codes.
//   - Conversion rates are never negative.
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a specific currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a new Money value object with the given amount and code.
func New(amount decimal.Decimal, code Code) (Money, error) {
	c, ok := code.Currency()
	if !ok {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidCurrency, code)
	}
	return Money{amount: amount, currency: c}, nil
}

// Must creates a Money value and panics if the code is not supported.
func Must(amount decimal.Decimal, code Code) Money {
	m, err := New(amount, code)
	if err != nil {
		panic(fmt.Sprintf("money.Must(%v, %v): %v", amount, code, err))
	}
	return m
}

// Code returns the currency code of the Money value.
func (m Money) Code() Code {
	return m.currency.Code
}

// Convert returns the value expressed in another currency at the given rate
// (units of `to` per one unit of m), rounded to the precision of `to`.
// A negative rate is rejected.
func (m Money) Convert(to Code, rate decimal.Decimal) (Money, error) {
	if rate.IsNegative() {
		return Money{}, ErrNegativeFactor
	}
	c, ok := to.Currency()
	if !ok {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidCurrency, to)
	}
	return Money{amount: m.amount.Mul(rate).Round(c.Decimals), currency: c}, nil
}

// Format renders the value with en-US grouping and the given number of decimals.
func (m Money) Format(decimals int32) string {
	return Format(m.amount, m.currency.Code, decimals)
}

// String returns the value with two decimals, e.g. "19.00 TRX".
func (m Money) String() string {
	return m.Format(2)
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Code            `json:"currency"`
}

// MarshalJSON writes the exact amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency.Code})
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (m *Money) UnmarshalJSON(data []byte) error {
	var aux moneyJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v, err := New(aux.Amount, aux.Currency)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
