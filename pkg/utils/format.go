// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatWithCommas formats an integer with thousands separators
// (e.g. 164000 -> "164,000").
func FormatWithCommas(n int64) string {
	negative := n < 0
	if negative {
		n = -n
	}

	s := fmt.Sprintf("%d", n)
	result := groupThousands(s)
	if negative {
		result = "-" + result
	}
	return result
}

// FormatFloatWithCommas formats a float with thousands separators and
// no decimal places (e.g. 52483910.7 -> "52,483,911").
func FormatFloatWithCommas(f float64) string {
	negative := f < 0
	if negative {
		f = -f
	}

	s := fmt.Sprintf("%.0f", f)
	result := groupThousands(s)
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma before every group of three digits,
// counting from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var groups []string
	for n > 3 {
		groups = append([]string{s[n-3:]}, groups...)
		s = s[:n-3]
		n = len(s)
	}
	groups = append([]string{s}, groups...)
	return strings.Join(groups, ",")
}

// FormatSignedPercent formats a percentage with an explicit sign.
func FormatSignedPercent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}

// FormatBillions formats a dollar amount in billions.
func FormatBillions(amount float64) string {
	return fmt.Sprintf("$%.2fB", amount/1e9)
}
