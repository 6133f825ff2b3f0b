package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, project *Project) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Project, error)
	// FindByInvoiceID returns the earliest project billed through the invoice.
	FindByInvoiceID(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (*Project, error)
	InsertExpense(ctx context.Context, db *gorm.DB, expense *Expense) error
	ListExpenses(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]Expense, error)
	ListReceipts(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]Receipt, error)
}
