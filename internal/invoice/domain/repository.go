package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/finance"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	InsertItems(ctx context.Context, db *gorm.DB, items []Item) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	ListItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]Item, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, updatedAt time.Time) error
	// UpdateBalance writes next only if the stored paid amount still equals
	// prevPaid, and returns ErrConcurrentUpdate otherwise.
	UpdateBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, prevPaid float64, next finance.Balance, updatedAt time.Time) error
	// MarkOverdue moves up to limit sent or partially paid invoices due
	// before asOf to overdue and returns how many changed.
	MarkOverdue(ctx context.Context, db *gorm.DB, asOf time.Time, limit int, updatedAt time.Time) (int64, error)
}
