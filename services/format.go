package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatAUD formats an amount as Australian dollars with thousands grouping,
// e.g. $12,345.68. The result always carries exactly 2 decimal places.
func FormatAUD(amount float64) string {
	negative := false
	v := RoundCurrency(amount)
	if v < 0 {
		negative = true
		v = -v
	}

	raw := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "$" + applyThousandsGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts commas into an integer string every 3
// digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}

// FormatQty renders a quantity: whole numbers without decimals, fractional
// values with 2 decimal places.
func FormatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
