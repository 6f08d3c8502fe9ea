package report

import (
	"strconv"

	"market-analyst/internal/models"
)

// numOrNA renders a numeric field as its plain literal value, or the
// literal "N/A" when the field is absent or non-numeric. Used for
// ratios and other fields that feed no further arithmetic.
func numOrNA(info models.QuoteInfo, key string) string {
	switch v := info[key].(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return "N/A"
}

// pct converts a fractional field to a percentage, defaulting a
// missing value to 0 before the multiply. An absent margin therefore
// displays as "0.00%", not "N/A".
func pct(info models.QuoteInfo, key string) float64 {
	return info.Float(key, 0) * 100
}
