package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/lineitem"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// Quotation is one version of a quote. Revisions share the number and
// increase the version.
type Quotation struct {
	ID                 snowflake.ID  `gorm:"primaryKey" json:"id"`
	QuotationNumber    string        `gorm:"not null;uniqueIndex:ux_quotations_number_version" json:"quotation_number"`
	Version            int           `gorm:"not null;uniqueIndex:ux_quotations_number_version" json:"version"`
	ParentID           *snowflake.ID `json:"parent_id,omitempty"`
	LeadID             snowflake.ID  `gorm:"not null;index" json:"lead_id"`
	QuotationDate      time.Time     `gorm:"not null" json:"quotation_date"`
	ValidUntil         *time.Time    `json:"valid_until,omitempty"`
	Status             Status        `gorm:"not null" json:"status"`
	Subtotal           float64       `gorm:"not null" json:"subtotal"`
	TaxRate            float64       `gorm:"not null" json:"tax_rate"`
	TaxAmount          float64       `gorm:"not null" json:"tax_amount"`
	TotalAmount        float64       `gorm:"not null" json:"total_amount"`
	Notes              string        `json:"notes,omitempty"`
	TermsAndConditions string        `json:"terms_and_conditions,omitempty"`
	CreatedAt          time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"not null" json:"updated_at"`
}

type Item struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	QuotationID snowflake.ID `gorm:"not null;index" json:"quotation_id"`
	lineitem.Line
}

func (Item) TableName() string { return "quotation_items" }

// Detail is a quotation with its items in sort order.
type Detail struct {
	Quotation
	Items []Item `json:"items"`
}

// Header maps the quotation onto the printed document header.
func (q Quotation) Header() docdomain.Header {
	return docdomain.Header{
		Number:      q.QuotationNumber,
		Version:     q.Version,
		Date:        q.QuotationDate,
		ValidUntil:  q.ValidUntil,
		Status:      string(q.Status),
		Subtotal:    q.Subtotal,
		TaxRate:     q.TaxRate,
		TaxAmount:   q.TaxAmount,
		TotalAmount: q.TotalAmount,
		Notes:       q.Notes,
		Terms:       q.TermsAndConditions,
	}
}

// Lines returns the stored lines of the items.
func (d Detail) Lines() []lineitem.Line {
	out := make([]lineitem.Line, len(d.Items))
	for i, item := range d.Items {
		out[i] = item.Line
	}
	return out
}
