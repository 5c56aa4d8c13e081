// Package services provides the pure quote computation core: the currency
// kernel, the pricing engine, the report builder and the CSV codec. Nothing
// in this package touches the database.
package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GSTRate is the fixed Goods and Services Tax rate applied to discounted
// exclusive totals.
const GSTRate = 0.10

// roundEpsilon absorbs binary float representation error before rounding,
// so that values like 1.005 land on the correct side of the boundary.
const roundEpsilon = 2.220446049250313e-16 // 2^-52

// RoundTo rounds half-away-from-zero at the given decimal precision.
// Non-finite input yields 0.
func RoundTo(v float64, precision int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	factor := math.Pow(10, float64(precision))
	rounded := math.Round((math.Abs(v)+roundEpsilon)*factor) / factor
	if rounded == 0 {
		return 0
	}
	return math.Copysign(rounded, v)
}

// RoundCurrency rounds to cents.
func RoundCurrency(v float64) float64 {
	return RoundTo(v, 2)
}

// LineTotal computes the exclusive total for one line. Negative or
// non-finite quantities count as 0, as does a non-finite price. Callers that
// track an "unset" price must check Item.HasPrice themselves; here an unset
// price has already been coerced to 0 for aggregation.
func LineTotal(qty, price float64) float64 {
	q := qty
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		q = 0
	}
	p := price
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	return RoundCurrency(q * p)
}

// CalculateGST returns the GST payable on an exclusive amount.
func CalculateGST(exclusive float64) float64 {
	base := exclusive
	if math.IsNaN(base) || math.IsInf(base, 0) {
		base = 0
	}
	return RoundCurrency(base * GSTRate)
}

// RecalcGrandTotal applies a percent discount to a base exclusive total,
// clamping the result at zero.
func RecalcGrandTotal(base, discountPercent float64) float64 {
	b := base
	if math.IsNaN(b) || math.IsInf(b, 0) {
		b = 0
	}
	d := discountPercent
	if math.IsNaN(d) || math.IsInf(d, 0) {
		d = 0
	}
	computed := b * (1 - d/100)
	if math.IsNaN(computed) || math.IsInf(computed, 0) || computed < 0 {
		computed = 0
	}
	return RoundCurrency(computed)
}

// Clamp bounds v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampPercent bounds a discount percentage to [0, 100]. Non-finite input
// yields 0.
func ClampPercent(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return Clamp(p, 0, 100)
}

// FormatCurrency renders a value as a fixed two-decimal string with no
// currency symbol or grouping. Non-finite input renders as "0.00".
func FormatCurrency(v float64) string {
	return fmt.Sprintf("%.2f", RoundCurrency(v))
}

// FormatPercent renders a percentage as a fixed two-decimal string.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f", RoundCurrency(v))
}

// ParseNumber parses a numeric cell after stripping currency symbols, commas
// and whitespace. An empty (or symbols-only) cell parses as 0; anything else
// that does not survive as a number is an error.
func ParseNumber(cell string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(cell))
	if cleaned == "" {
		return 0, nil
	}
	num, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, fmt.Errorf("%q is not a number", cell)
	}
	return num, nil
}
