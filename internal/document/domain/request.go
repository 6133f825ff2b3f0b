package domain

import (
	"strings"
	"time"
)

// Request is the ad-hoc render payload accepted by the HTTP API and the CLI.
type Request struct {
	Type string      `json:"type"`
	Data RequestData `json:"data"`
}

type RequestData struct {
	Number       string     `json:"number"`
	Version      int        `json:"version"`
	Date         string     `json:"date"`
	ValidUntil   string     `json:"valid_until"`
	DueDate      string     `json:"due_date"`
	Status       string     `json:"status"`
	TotalAmount  float64    `json:"total_amount"`
	Terms        string     `json:"terms"`
	PaymentTerms string     `json:"payment_terms"`
	Notes        string     `json:"notes"`
	PaidAmount   float64    `json:"paid_amount"`
	Customer     Customer   `json:"customer"`
	Items        []LineItem `json:"items"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps and plain ISO dates.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseOptionalDate is ParseDate for fields that may be left blank.
func ParseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Header converts the payload into a document header. Version defaults to 1
// and a missing total is left at zero for the caller to derive.
func (d RequestData) Header() (Header, error) {
	h := Header{
		Number:       strings.TrimSpace(d.Number),
		Version:      d.Version,
		Status:       strings.TrimSpace(d.Status),
		TotalAmount:  d.TotalAmount,
		Terms:        d.Terms,
		PaymentTerms: d.PaymentTerms,
		Notes:        d.Notes,
		PaidAmount:   d.PaidAmount,
	}
	if h.Version == 0 {
		h.Version = 1
	}
	if strings.TrimSpace(d.Date) != "" {
		date, err := ParseDate(d.Date)
		if err != nil {
			return Header{}, err
		}
		h.Date = date
	}

	until := d.ValidUntil
	if strings.TrimSpace(until) == "" {
		until = d.DueDate
	}
	validUntil, err := ParseOptionalDate(until)
	if err != nil {
		return Header{}, err
	}
	h.ValidUntil = validUntil
	return h, nil
}

// Parse resolves the document kind and header of an ad hoc render.
func (r Request) Parse() (Kind, Header, error) {
	kind, err := ParseKind(r.Type)
	if err != nil {
		return "", Header{}, err
	}
	header, err := r.Data.Header()
	if err != nil {
		return "", Header{}, err
	}
	return kind, header, nil
}
