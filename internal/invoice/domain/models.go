// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/finance"
	"github.com/smallbiznis/officecrm/internal/lineitem"
)

// Status values are shared with payment application.
type Status = finance.InvoiceStatus

// Invoice is a GST tax invoice. BalanceAmount always equals TotalAmount
// minus PaidAmount; PaidAmount only moves through payments.
type Invoice struct {
	ID                 snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceNumber      string        `gorm:"not null;uniqueIndex" json:"invoice_number"`
	LeadID             snowflake.ID  `gorm:"not null;index" json:"lead_id"`
	QuotationID        *snowflake.ID `gorm:"index" json:"quotation_id,omitempty"`
	InvoiceDate        time.Time     `gorm:"not null" json:"invoice_date"`
	DueDate            *time.Time    `json:"due_date,omitempty"`
	PaymentTerms       string        `json:"payment_terms,omitempty"`
	Status             Status        `gorm:"type:text;not null;default:'draft'" json:"status"`
	Subtotal           float64       `gorm:"not null" json:"subtotal"`
	TaxRate            float64       `gorm:"not null" json:"tax_rate"`
	TaxAmount          float64       `gorm:"not null" json:"tax_amount"`
	TotalAmount        float64       `gorm:"not null" json:"total_amount"`
	PaidAmount         float64       `gorm:"not null;default:0" json:"paid_amount"`
	BalanceAmount      float64       `gorm:"not null" json:"balance_amount"`
	Notes              string        `json:"notes,omitempty"`
	TermsAndConditions string        `json:"terms_and_conditions,omitempty"`
	CreatedAt          time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Balance returns the payment state of the invoice.
func (i Invoice) Balance() finance.Balance {
	return finance.Balance{
		TotalAmount:   i.TotalAmount,
		PaidAmount:    i.PaidAmount,
		BalanceAmount: i.BalanceAmount,
		Status:        i.Status,
	}
}

// Header maps the invoice onto the printed document header.
func (i Invoice) Header() docdomain.Header {
	return docdomain.Header{
		Number:        i.InvoiceNumber,
		Version:       1,
		Date:          i.InvoiceDate,
		ValidUntil:    i.DueDate,
		Status:        string(i.Status),
		Subtotal:      i.Subtotal,
		TaxRate:       i.TaxRate,
		TaxAmount:     i.TaxAmount,
		TotalAmount:   i.TotalAmount,
		Notes:         i.Notes,
		Terms:         i.TermsAndConditions,
		PaymentTerms:  i.PaymentTerms,
		PaidAmount:    i.PaidAmount,
		BalanceAmount: i.BalanceAmount,
	}
}

// Item is a line on an invoice.
type Item struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	lineitem.Line
}

// TableName sets the database table name.
func (Item) TableName() string { return "invoice_items" }

// Detail is an invoice with its items in sort order.
type Detail struct {
	Invoice
	Items []Item `json:"items"`
}

func (d Detail) Lines() []lineitem.Line {
	out := make([]lineitem.Line, len(d.Items))
	for i, item := range d.Items {
		out[i] = item.Line
	}
	return out
}
