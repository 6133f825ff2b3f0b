package domain

import (
	"context"
	"errors"

	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/finance"
	"github.com/smallbiznis/officecrm/internal/lineitem"
)

type CreateInvoiceRequest struct {
	LeadID             string           `json:"lead_id"`
	QuotationID        string           `json:"quotation_id"`
	InvoiceDate        string           `json:"invoice_date"`
	DueDate            string           `json:"due_date"`
	PaymentTerms       string           `json:"payment_terms"`
	Notes              string           `json:"notes"`
	TermsAndConditions string           `json:"terms_and_conditions"`
	Items              []lineitem.Input `json:"items"`
}

// CreateFromQuotationRequest carries the invoice-only fields. Lead, items,
// notes and terms come from the quotation.
type CreateFromQuotationRequest struct {
	InvoiceDate  string `json:"invoice_date"`
	DueDate      string `json:"due_date"`
	PaymentTerms string `json:"payment_terms"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Detail, error)
	CreateFromQuotation(ctx context.Context, quotationID string, req CreateFromQuotationRequest) (Detail, error)
	GetByID(ctx context.Context, id string) (Detail, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Invoice, error)
	Render(ctx context.Context, id string) (*docdomain.Artifact, error)
	MarkOverdue(ctx context.Context, batchSize int) (int, error)
}

// ValidStatus reports whether s may be set directly. Partial and paid are
// only reached through payments.
func ValidStatus(s Status) bool {
	switch s {
	case finance.InvoiceStatusDraft, finance.InvoiceStatusSent, finance.InvoiceStatusOverdue, finance.InvoiceStatusCancelled:
		return true
	}
	return false
}

var (
	ErrInvalidID         = errors.New("invalid_invoice_id")
	ErrInvalidLead       = errors.New("invalid_lead_id")
	ErrInvalidQuotation  = errors.New("invalid_quotation_id")
	ErrLeadNotFound      = errors.New("lead_not_found")
	ErrQuotationNotFound = errors.New("quotation_not_found")
	ErrInvalidDate       = errors.New("invalid_invoice_date")
	ErrInvalidStatus     = errors.New("invalid_invoice_status")
	ErrEmptyItems        = errors.New("empty_invoice_items")
	ErrNotFound          = errors.New("invoice_not_found")
	ErrConcurrentUpdate  = errors.New("invoice_concurrent_update")
	ErrDuplicateNumber   = errors.New("duplicate_invoice_number")
)
