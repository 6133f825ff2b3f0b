package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/finance"
	"github.com/smallbiznis/officecrm/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (id, invoice_number, lead_id, quotation_id, invoice_date, due_date, payment_terms, status, subtotal, tax_rate, tax_amount, total_amount, paid_amount, balance_amount, notes, terms_and_conditions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.InvoiceNumber,
		inv.LeadID,
		inv.QuotationID,
		inv.InvoiceDate,
		inv.DueDate,
		inv.PaymentTerms,
		inv.Status,
		inv.Subtotal,
		inv.TaxRate,
		inv.TaxAmount,
		inv.TotalAmount,
		inv.PaidAmount,
		inv.BalanceAmount,
		inv.Notes,
		inv.TermsAndConditions,
		inv.CreatedAt,
		inv.UpdatedAt,
	).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_number, lead_id, quotation_id, invoice_date, due_date, payment_terms, status, subtotal, tax_rate, tax_amount, total_amount, paid_amount, balance_amount, notes, terms_and_conditions, created_at, updated_at
		 FROM invoices WHERE id = ?`,
		id,
	).Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.Item, error) {
	var items []domain.Item
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, product_id, item_name, description, category, image_url, units, quantity, unit_price, amount, base_price, gst_amount, sort_order
		 FROM invoice_items WHERE invoice_id = ? ORDER BY sort_order ASC, id ASC`,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		updatedAt,
		id,
	).Error
}

func (r *repo) UpdateBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, prevPaid float64, next finance.Balance, updatedAt time.Time) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE invoices SET paid_amount = ?, balance_amount = ?, status = ?, updated_at = ?
		 WHERE id = ? AND paid_amount = ?`,
		next.PaidAmount,
		next.BalanceAmount,
		next.Status,
		updatedAt,
		id,
		prevPaid,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return domain.ErrConcurrentUpdate
	}
	return nil
}

func (r *repo) MarkOverdue(ctx context.Context, db *gorm.DB, asOf time.Time, limit int, updatedAt time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE invoices SET status = ?, updated_at = ?
		 WHERE id IN (
			SELECT id FROM invoices
			WHERE status IN (?, ?) AND due_date IS NOT NULL AND due_date < ? AND balance_amount > 0
			ORDER BY due_date ASC
			LIMIT ?
		 )`,
		finance.InvoiceStatusOverdue,
		updatedAt,
		finance.InvoiceStatusSent,
		finance.InvoiceStatusPartial,
		asOf,
		limit,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
