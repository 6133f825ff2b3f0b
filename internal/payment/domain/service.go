package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/officecrm/internal/providers/pdf"
)

type RecordPaymentRequest struct {
	InvoiceID       string  `json:"invoice_id"`
	Amount          float64 `json:"amount"`
	PaymentDate     string  `json:"payment_date"`
	PaymentMode     string  `json:"payment_mode"`
	ReferenceNumber string  `json:"reference_number"`
	Notes           string  `json:"notes"`
}

type Service interface {
	Record(context.Context, RecordPaymentRequest) (Payment, error)
	Delete(ctx context.Context, id string) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]Payment, error)
	Receipt(ctx context.Context, id string) (*pdf.Document, error)
}

var (
	ErrInvalidID          = errors.New("invalid_payment_id")
	ErrInvalidInvoice     = errors.New("invalid_invoice_id")
	ErrInvalidAmount      = errors.New("invalid_payment_amount")
	ErrAmountExceedsDue   = errors.New("payment_exceeds_balance")
	ErrInvalidDate        = errors.New("invalid_payment_date")
	ErrInvalidPaymentMode = errors.New("invalid_payment_mode")
	ErrInvoiceNotFound    = errors.New("invoice_not_found")
	ErrNotFound           = errors.New("payment_not_found")
)
