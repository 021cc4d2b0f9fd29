package utils

import (
	"fmt"
	"math"
)

// Round2 rounds to two decimal places. Builders round once at save time; the
// renderer only formats what was stored.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders a monetary value with exactly two decimal places.
func FormatAmount(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
