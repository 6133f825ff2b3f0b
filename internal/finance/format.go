package finance

import (
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout renders dates the way en-IN locales print them (d/m/yyyy).
const DateLayout = "2/1/2006"

var indianEnglish = language.MustParse("en-IN")

// FormatAmount renders v with two decimals and Indian digit grouping
// (last three digits, then pairs): 1234567.5 -> "12,34,567.50".
func FormatAmount(v float64) string {
	rounded := math.Round(v*100) / 100
	if rounded == 0 {
		// Drops a negative zero.
		rounded = 0
	}
	return message.NewPrinter(indianEnglish).Sprintf("%.2f", rounded)
}

// FormatRupees prefixes FormatAmount with the rupee abbreviation used on documents.
func FormatRupees(v float64) string {
	return "Rs. " + FormatAmount(v)
}

// FormatDate renders t in DateLayout, or an empty string for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatQuantity drops a trailing ".0" so whole quantities print as integers.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
