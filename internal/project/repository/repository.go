package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/project/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const projectColumns = `id, project_name, lead_id, quotation_id, invoice_id, quote_amount, status, start_date, completion_date, description, notes, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *domain.Project) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.ProjectName,
		p.LeadID,
		p.QuotationID,
		p.InvoiceID,
		p.QuoteAmount,
		p.Status,
		p.StartDate,
		p.CompletionDate,
		p.Description,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Project, error) {
	var p domain.Project
	err := db.WithContext(ctx).Raw(
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindByInvoiceID(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (*domain.Project, error) {
	var p domain.Project
	err := db.WithContext(ctx).Raw(
		`SELECT `+projectColumns+` FROM projects
		 WHERE invoice_id = ?
		 ORDER BY created_at ASC, id ASC
		 LIMIT 1`,
		invoiceID,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) InsertExpense(ctx context.Context, db *gorm.DB, e *domain.Expense) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO expenses (id, project_id, category, description, vendor_name, amount, expense_date, payment_mode, reference_number, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.ProjectID,
		e.Category,
		e.Description,
		e.VendorName,
		e.Amount,
		e.ExpenseDate,
		e.PaymentMode,
		e.ReferenceNumber,
		e.Notes,
		e.CreatedAt,
	).Error
}

func (r *repo) ListExpenses(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]domain.Expense, error) {
	var items []domain.Expense
	err := db.WithContext(ctx).Raw(
		`SELECT id, project_id, category, description, vendor_name, amount, expense_date, payment_mode, reference_number, notes, created_at
		 FROM expenses
		 WHERE project_id = ?
		 ORDER BY expense_date ASC, id ASC`,
		projectID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListReceipts(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]domain.Receipt, error) {
	var items []domain.Receipt
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, amount, payment_date, payment_mode, reference_number
		 FROM payments
		 WHERE project_id = ?
		 ORDER BY payment_date ASC, id ASC`,
		projectID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
