package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/quotation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, q *domain.Quotation) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO quotations (id, quotation_number, version, parent_id, lead_id, quotation_date, valid_until, status, subtotal, tax_rate, tax_amount, total_amount, notes, terms_and_conditions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID,
		q.QuotationNumber,
		q.Version,
		q.ParentID,
		q.LeadID,
		q.QuotationDate,
		q.ValidUntil,
		q.Status,
		q.Subtotal,
		q.TaxRate,
		q.TaxAmount,
		q.TotalAmount,
		q.Notes,
		q.TermsAndConditions,
		q.CreatedAt,
		q.UpdatedAt,
	).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Quotation, error) {
	var q domain.Quotation
	err := db.WithContext(ctx).Raw(
		`SELECT id, quotation_number, version, parent_id, lead_id, quotation_date, valid_until, status, subtotal, tax_rate, tax_amount, total_amount, notes, terms_and_conditions, created_at, updated_at
		 FROM quotations WHERE id = ?`,
		id,
	).Scan(&q).Error
	if err != nil {
		return nil, err
	}
	if q.ID == 0 {
		return nil, nil
	}
	return &q, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, quotationID snowflake.ID) ([]domain.Item, error) {
	var items []domain.Item
	err := db.WithContext(ctx).Raw(
		`SELECT id, quotation_id, product_id, item_name, description, category, image_url, units, quantity, unit_price, amount, base_price, gst_amount, sort_order
		 FROM quotation_items WHERE quotation_id = ? ORDER BY sort_order ASC, id ASC`,
		quotationID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) LatestVersion(ctx context.Context, db *gorm.DB, number string) (int, error) {
	var version int
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(version), 0) FROM quotations WHERE quotation_number = ?`,
		number,
	).Scan(&version).Error
	return version, err
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE quotations SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		updatedAt,
		id,
	).Error
}
