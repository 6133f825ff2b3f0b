package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Window selects follow-ups by due date relative to today.
type Window string

const (
	WindowAll      Window = ""
	WindowOverdue  Window = "overdue"
	WindowToday    Window = "today"
	WindowTomorrow Window = "tomorrow"
	WindowWeek     Window = "week"
)

// Followup is a dated task against a lead or an invoice.
type Followup struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `json:"description,omitempty"`
	DueDate     time.Time     `gorm:"not null" json:"due_date"`
	DueTime     string        `json:"due_time,omitempty"`
	LeadID      *snowflake.ID `json:"lead_id,omitempty"`
	InvoiceID   *snowflake.ID `json:"invoice_id,omitempty"`
	AssignedTo  string        `json:"assigned_to,omitempty"`
	Status      Status        `gorm:"not null;default:'pending'" json:"status"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Overdue reports whether a pending follow-up is due before today.
func (f Followup) Overdue(today time.Time) bool {
	return f.Status == StatusPending && f.DueDate.Before(today)
}

// FollowupView adds the overdue flag as of the request.
type FollowupView struct {
	Followup
	Overdue bool `json:"overdue"`
}

// Summary counts pending follow-ups for the dashboard.
type Summary struct {
	Overdue  int64 `json:"overdue"`
	DueToday int64 `json:"due_today"`
	Pending  int64 `json:"pending"`
}
