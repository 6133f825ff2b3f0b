package domain

import (
	"strings"
	"time"

	"github.com/smallbiznis/officecrm/internal/finance"
)

// Kind is the document family being rendered.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindInvoice   Kind = "invoice"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindQuotation:
		return KindQuotation, nil
	case KindInvoice:
		return KindInvoice, nil
	default:
		return "", ErrUnknownKind
	}
}

// LineItem is one priced row. Amount is authoritative once persisted and is
// never recomputed from quantity and unit price at render time.
type LineItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	Units       string  `json:"units"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

func (i LineItem) LineTotal() float64 { return i.Amount }

// Header carries the quotation or invoice fields printed on the document.
type Header struct {
	Number        string     `json:"number"`
	Version       int        `json:"version"`
	Date          time.Time  `json:"date"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	Status        string     `json:"status"`
	Subtotal      float64    `json:"subtotal"`
	TaxRate       float64    `json:"tax_rate"`
	TaxAmount     float64    `json:"tax_amount"`
	TotalAmount   float64    `json:"total_amount"`
	Notes         string     `json:"notes,omitempty"`
	Terms         string     `json:"terms,omitempty"`
	PaymentTerms  string     `json:"payment_terms,omitempty"`
	PaidAmount    float64    `json:"paid_amount"`
	BalanceAmount float64    `json:"balance_amount"`
}

// Customer is the lead snapshot printed in the TO block.
type Customer struct {
	CompanyName   string `json:"company_name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	GSTIN         string `json:"gstin"`
}

// Artifact is a generated document ready to download or store.
type Artifact struct {
	Kind        Kind
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
	GrandTotal  float64
	Breakdown   finance.GSTBreakdown
}

const ContentTypePDF = "application/pdf"
