// Package domain contains persistence models for projects and expenses.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/finance"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}

// Project is a job delivered for a customer, optionally tied to the
// quotation and invoice it came from.
type Project struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	ProjectName    string        `gorm:"not null" json:"project_name"`
	LeadID         *snowflake.ID `gorm:"index" json:"lead_id,omitempty"`
	QuotationID    *snowflake.ID `gorm:"index" json:"quotation_id,omitempty"`
	InvoiceID      *snowflake.ID `gorm:"index" json:"invoice_id,omitempty"`
	QuoteAmount    float64       `gorm:"not null" json:"quote_amount"`
	Status         Status        `gorm:"type:text;not null;default:'in_progress'" json:"status"`
	StartDate      time.Time     `gorm:"not null" json:"start_date"`
	CompletionDate *time.Time    `json:"completion_date,omitempty"`
	Description    string        `json:"description,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// Expense is money spent, either on a project or as general overhead.
type Expense struct {
	ID              snowflake.ID        `gorm:"primaryKey" json:"id"`
	ProjectID       *snowflake.ID       `gorm:"index" json:"project_id,omitempty"`
	Category        string              `gorm:"not null" json:"category"`
	Description     string              `json:"description,omitempty"`
	VendorName      string              `json:"vendor_name,omitempty"`
	Amount          float64             `gorm:"not null" json:"amount"`
	ExpenseDate     time.Time           `gorm:"not null" json:"expense_date"`
	PaymentMode     finance.PaymentMode `gorm:"type:text;not null" json:"payment_mode"`
	ReferenceNumber string              `json:"reference_number,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `gorm:"not null" json:"created_at"`
}

func (Expense) TableName() string { return "expenses" }

// Receipt is a payment credited to a project, read from the payments table.
type Receipt struct {
	ID              snowflake.ID
	InvoiceID       snowflake.ID
	Amount          float64
	PaymentDate     time.Time
	PaymentMode     finance.PaymentMode
	ReferenceNumber string
}

// Financials is the profitability of a project.
type Financials struct {
	ProjectID     snowflake.ID `json:"project_id"`
	QuoteAmount   float64      `json:"quote_amount"`
	TotalReceived float64      `json:"total_received"`
	TotalSpent    float64      `json:"total_spent"`
	Profit        float64      `json:"profit"`
	Margin        float64      `json:"margin"`
	Completion    float64      `json:"completion"`
}

func NewFinancials(p Project, r finance.Rollup) Financials {
	return Financials{
		ProjectID:     p.ID,
		QuoteAmount:   p.QuoteAmount,
		TotalReceived: r.TotalReceived,
		TotalSpent:    r.TotalSpent,
		Profit:        r.Profit,
		Margin:        r.Margin,
		Completion:    r.Completion,
	}
}
