package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/officecrm/internal/providers/pdf"
)

type CreateProjectRequest struct {
	ProjectName    string  `json:"project_name"`
	LeadID         string  `json:"lead_id"`
	QuotationID    string  `json:"quotation_id"`
	InvoiceID      string  `json:"invoice_id"`
	QuoteAmount    float64 `json:"quote_amount"`
	Status         string  `json:"status"`
	StartDate      string  `json:"start_date"`
	CompletionDate string  `json:"completion_date"`
	Description    string  `json:"description"`
	Notes          string  `json:"notes"`
}

type CreateExpenseRequest struct {
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	VendorName      string  `json:"vendor_name"`
	Amount          float64 `json:"amount"`
	ExpenseDate     string  `json:"expense_date"`
	PaymentMode     string  `json:"payment_mode"`
	ReferenceNumber string  `json:"reference_number"`
	Notes           string  `json:"notes"`
}

type Service interface {
	Create(context.Context, CreateProjectRequest) (Project, error)
	GetByID(ctx context.Context, id string) (Project, error)
	AddExpense(ctx context.Context, projectID string, req CreateExpenseRequest) (Expense, error)
	Financials(ctx context.Context, id string) (Financials, error)
	Statement(ctx context.Context, id string) (*pdf.Document, error)
}

var (
	ErrInvalidID          = errors.New("invalid_project_id")
	ErrInvalidName        = errors.New("invalid_project_name")
	ErrInvalidReference   = errors.New("invalid_project_reference")
	ErrInvalidQuoteAmount = errors.New("invalid_quote_amount")
	ErrInvalidStatus      = errors.New("invalid_project_status")
	ErrInvalidDate        = errors.New("invalid_project_date")
	ErrInvalidCategory    = errors.New("invalid_expense_category")
	ErrInvalidAmount      = errors.New("invalid_expense_amount")
	ErrInvalidPaymentMode = errors.New("invalid_payment_mode")
	ErrNotFound           = errors.New("project_not_found")
)
