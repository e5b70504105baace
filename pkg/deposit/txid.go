package deposit

import (
	"math/rand/v2"
	"strings"
)

const (
	txPrefix   = "TX"
	txLength   = 9
	txAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewTransactionID returns a fabricated transaction id: "TX" followed by nine
// upper-case base-36 characters. It is not a blockchain hash.
func NewTransactionID() string {
	var b strings.Builder
	b.Grow(len(txPrefix) + txLength)
	b.WriteString(txPrefix)
	for range txLength {
		b.WriteByte(txAlphabet[rand.IntN(len(txAlphabet))])
	}
	return b.String()
}
