package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/finance"
)

// Payment is money received against an invoice.
type Payment struct {
	ID              snowflake.ID        `gorm:"primaryKey" json:"id"`
	InvoiceID       snowflake.ID        `gorm:"not null;index" json:"invoice_id"`
	ProjectID       *snowflake.ID       `gorm:"index" json:"project_id,omitempty"`
	Amount          float64             `gorm:"not null" json:"amount"`
	PaymentDate     time.Time           `gorm:"not null" json:"payment_date"`
	PaymentMode     finance.PaymentMode `gorm:"type:text;not null" json:"payment_mode"`
	ReferenceNumber string              `json:"reference_number,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `gorm:"not null" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
