package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/finance"
)

var courtesyTitles = []string{"mr.", "mrs.", "ms.", "dr."}

// CustomerName picks the contact person, then the company name, then N/A,
// and prefixes "Mr. " unless the name already starts with a courtesy title.
func CustomerName(c domain.Customer) string {
	name := strings.TrimSpace(c.ContactPerson)
	if name == "" {
		name = strings.TrimSpace(c.CompanyName)
	}
	if name == "" {
		name = "N/A"
	}
	lower := strings.ToLower(name)
	for _, t := range courtesyTitles {
		if strings.HasPrefix(lower, t) {
			return name
		}
	}
	return "Mr. " + name
}

// NumberTerms drops blank lines and numbers the rest from 1. A line that
// already starts with its own number followed by a dot is kept as is.
func NumberTerms(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		prefix := strconv.Itoa(len(out)+1) + "."
		if !strings.HasPrefix(line, prefix) {
			line = prefix + " " + line
		}
		out = append(out, line)
	}
	return out
}

// DefaultTerms is printed when a document has no terms of its own.
func DefaultTerms(validUntil *time.Time) []string {
	validity := "15 Days from the date of proposal"
	if validUntil != nil && !validUntil.IsZero() {
		validity = finance.FormatDate(*validUntil)
	}
	return []string{
		"1. Above Price is Inclusive of GST",
		"2. Validity: " + validity,
		"3. Payment Terms: As per agreement",
		"4. Delivery: As per schedule",
		"5. Warranty: As per Manufacturer's terms",
	}
}

// Terms returns the numbered custom terms, or the defaults when none are set.
func Terms(h domain.Header) []string {
	if strings.TrimSpace(h.Terms) != "" {
		return NumberTerms(h.Terms)
	}
	return DefaultTerms(h.ValidUntil)
}

func unitsLabel(item domain.LineItem) string {
	units := strings.TrimSpace(item.Units)
	if units == "" {
		units = "Piece"
	}
	return finance.FormatQuantity(item.Quantity) + " " + units
}
