// Package amount provides shared asset amount parsing and formatting.
//
// Control limits and proposal amounts travel as decimal strings on the
// wire and are stored as big.Int in the smallest asset unit. Eight
// decimal places cover the finest-grained assets the wallet handles
// (1 BTC = 100,000,000 units).
package amount

import (
	"math/big"
	"strings"
)

const Decimals = 8

// Parse converts a decimal string (e.g. "1.5") to its smallest-unit
// big.Int representation (150000000). Returns (nil, false) on invalid
// input.
//
// Rules:
//   - Empty string returns (0, true)
//   - Negative amounts are rejected
//   - More than one decimal point is rejected
//   - Fractional parts are padded or truncated to 8 decimal places
func Parse(s string) (*big.Int, bool) {
	if s == "" {
		return big.NewInt(0), true
	}

	if strings.HasPrefix(s, "-") {
		return nil, false
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, false
	}
	whole := parts[0]
	frac := ""
	if len(parts) > 1 {
		frac = parts[1]
	}

	for len(frac) < Decimals {
		frac += "0"
	}
	frac = frac[:Decimals]

	combined := whole + frac
	result, ok := new(big.Int).SetString(combined, 10)
	return result, ok
}

// ParsePositive is Parse restricted to strictly positive amounts.
func ParsePositive(s string) (*big.Int, bool) {
	v, ok := Parse(s)
	if !ok || v.Sign() <= 0 {
		return nil, false
	}
	return v, true
}

// Format converts a smallest-unit big.Int to a decimal string with
// exactly 8 decimal places (e.g. "1.50000000").
func Format(v *big.Int) string {
	if v == nil {
		return "0.00000000"
	}
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	s := abs.String()
	for len(s) < Decimals+1 {
		s = "0" + s
	}
	split := len(s) - Decimals
	out := s[:split] + "." + s[split:]
	if neg {
		out = "-" + out
	}
	return out
}

// Add returns Format(a + b) for two decimal strings. Unparseable inputs
// count as zero; callers validate before arithmetic.
func Add(a, b string) string {
	av, _ := Parse(a)
	bv, _ := Parse(b)
	if av == nil {
		av = big.NewInt(0)
	}
	if bv == nil {
		bv = big.NewInt(0)
	}
	return Format(new(big.Int).Add(av, bv))
}
