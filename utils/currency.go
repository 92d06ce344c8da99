package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatAmount groups the integer part in thousands with commas and keeps two
// decimals only when there are paise: 5000 -> "5,000", 1234.5 -> "1,234.50".
func FormatAmount(amount float64) string {
	neg := amount < 0
	amount = math.Abs(amount)

	cents := int64(math.Round(amount * 100))
	integer := cents / 100
	fraction := cents % 100

	digits := fmt.Sprintf("%d", integer)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, ",")
	if fraction > 0 {
		out = fmt.Sprintf("%s.%02d", out, fraction)
	}
	if neg {
		out = "-" + out
	}
	return out
}
