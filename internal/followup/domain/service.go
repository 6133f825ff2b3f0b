package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateFollowupRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	DueTime     string `json:"due_time"`
	LeadID      string `json:"lead_id"`
	InvoiceID   string `json:"invoice_id"`
	AssignedTo  string `json:"assigned_to"`
}

type ListFollowupRequest struct {
	Status string
	LeadID string
	Window string
}

type ListFollowupFilter struct {
	Status    Status
	LeadID    *snowflake.ID
	DueFrom   *time.Time
	DueBefore *time.Time
}

type Service interface {
	Create(context.Context, CreateFollowupRequest) (FollowupView, error)
	GetByID(ctx context.Context, id string) (FollowupView, error)
	List(context.Context, ListFollowupRequest) ([]FollowupView, error)
	Complete(ctx context.Context, id string) (FollowupView, error)
	Cancel(ctx context.Context, id string) (FollowupView, error)
	Delete(ctx context.Context, id string) error
	Summary(context.Context) (Summary, error)
}

var (
	ErrInvalidID        = errors.New("invalid_followup_id")
	ErrInvalidTitle     = errors.New("invalid_followup_title")
	ErrInvalidDueDate   = errors.New("invalid_followup_due_date")
	ErrInvalidDueTime   = errors.New("invalid_followup_due_time")
	ErrInvalidStatus    = errors.New("invalid_followup_status")
	ErrInvalidWindow    = errors.New("invalid_followup_window")
	ErrInvalidLead      = errors.New("invalid_lead_id")
	ErrInvalidInvoice   = errors.New("invalid_invoice_id")
	ErrMissingReference = errors.New("missing_followup_reference")
	ErrLeadNotFound     = errors.New("lead_not_found")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrNotPending       = errors.New("followup_not_pending")
	ErrNotFound         = errors.New("followup_not_found")
)
