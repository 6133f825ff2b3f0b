package domain

import (
	"context"
	"errors"

	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/lineitem"
)

type CreateQuotationRequest struct {
	LeadID             string           `json:"lead_id"`
	QuotationDate      string           `json:"quotation_date"`
	ValidUntil         string           `json:"valid_until"`
	Notes              string           `json:"notes"`
	TermsAndConditions string           `json:"terms_and_conditions"`
	Items              []lineitem.Input `json:"items"`
}

type Service interface {
	Create(context.Context, CreateQuotationRequest) (Detail, error)
	GetByID(ctx context.Context, id string) (Detail, error)
	Revise(ctx context.Context, id string) (Detail, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Quotation, error)
	Render(ctx context.Context, id string) (*docdomain.Artifact, error)
}

var (
	ErrInvalidID     = errors.New("invalid_quotation_id")
	ErrInvalidLead   = errors.New("invalid_lead_id")
	ErrLeadNotFound  = errors.New("lead_not_found")
	ErrInvalidDate   = errors.New("invalid_quotation_date")
	ErrInvalidStatus = errors.New("invalid_quotation_status")
	ErrEmptyItems    = errors.New("empty_quotation_items")
	ErrNotFound      = errors.New("quotation_not_found")
	ErrDuplicate     = errors.New("duplicate_quotation_version")
)
