package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders amount with en-US digit grouping and a fixed number of
// decimals followed by the code, e.g. "1,234.50 TRX". An empty code renders
// the number only.
func Format(amount decimal.Decimal, code Code, decimals int32) string {
	rounded := amount.Round(decimals).InexactFloat64()
	s := printer.Sprint(number.Decimal(rounded, number.Scale(int(decimals))))
	if code == "" {
		return s
	}
	return s + " " + string(code)
}

// FormatLarge abbreviates large numbers: millions with two decimals and an
// "M" suffix, thousands with one decimal and a "K" suffix.
func FormatLarge(n decimal.Decimal) string {
	million := decimal.NewFromInt(1_000_000)
	thousand := decimal.NewFromInt(1_000)
	switch {
	case n.GreaterThanOrEqual(million):
		return n.Div(million).StringFixed(2) + "M"
	case n.GreaterThanOrEqual(thousand):
		return n.Div(thousand).StringFixed(1) + "K"
	default:
		return n.String()
	}
}

// FormatPrice renders a USD price with two decimals and no suffix.
func FormatPrice(p decimal.Decimal) string {
	return p.StringFixed(2)
}
