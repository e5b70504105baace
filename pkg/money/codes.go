package money

// Code represents a currency or token code (e.g., "USDT", "TRX").
type Code string

// Supported codes
const (
	USDT Code = "USDT" // Tether, TRC20
	TRX  Code = "TRX"  // Tron native token
	USD  Code = "USD"  // US Dollar, used for price display only
)

// String returns the string representation of the code.
func (c Code) String() string {
	return string(c)
}

// Currency returns the currency metadata for the code.
func (c Code) Currency() (Currency, bool) {
	cur, ok := currencies[c]
	return cur, ok
}

// Currency represents a monetary unit with its on-chain decimal places.
type Currency struct {
	Code     Code
	Decimals int32
}

// String returns the currency code as a string
func (c Currency) String() string { return string(c.Code) }

var currencies = map[Code]Currency{
	USDT: {Code: USDT, Decimals: 6},
	TRX:  {Code: TRX, Decimals: 6},
	USD:  {Code: USD, Decimals: 2},
}
