package utils

import (
	"math/big"
	"strings"
)

// Pow10 returns 10^decimals as a new big.Int.
func Pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// ToUIAmount projects a raw integer amount to a display float: amount / 10^decimals.
// The quotient is computed exactly and rounded once, to the nearest float64.
func ToUIAmount(amount *big.Int, decimals uint8) float64 {
	if amount == nil || amount.Sign() == 0 {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(amount, Pow10(decimals)).Float64()
	return f
}

// FormatBigInt converts a big.Int value to an exact human-readable decimal string,
// considering the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	sign := ""
	abs := new(big.Int).Set(amount)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Abs(abs)
	}

	intPart, frac := new(big.Int).QuoRem(abs, Pow10(decimals), new(big.Int))
	if frac.Sign() == 0 {
		return sign + intPart.String()
	}

	fracStr := frac.Text(10)
	if len(fracStr) < int(decimals) {
		fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
	}
	return sign + intPart.String() + "." + strings.TrimRight(fracStr, "0")
}

// ParseRawAmount parses a non-negative decimal integer amount as sent by chain RPCs.
func ParseRawAmount(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, false
	}
	return n, true
}
