package calculation

import "github.com/shopspring/decimal"

// safeDiv divides a by b, substituting zero for a zero denominator so a
// degenerate scenario (zero collateral, zero exposure) yields a
// well-defined all-zero result instead of a panic.
func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// clampNonNeg floors a value at zero.
func clampNonNeg(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return d
}

// minDec returns the smallest of the given values.
func minDec(first decimal.Decimal, rest ...decimal.Decimal) decimal.Decimal {
	out := first
	for _, d := range rest {
		if d.LessThan(out) {
			out = d
		}
	}
	return out
}

var one = decimal.NewFromInt(1)
