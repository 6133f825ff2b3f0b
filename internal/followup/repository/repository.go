package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/followup/domain"
	"gorm.io/gorm"
)

const followupColumns = `id, title, description, due_date, due_time, lead_id, invoice_id, assigned_to, status, completed_at, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, f *domain.Followup) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO followups (`+followupColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID,
		f.Title,
		f.Description,
		f.DueDate,
		f.DueTime,
		f.LeadID,
		f.InvoiceID,
		f.AssignedTo,
		f.Status,
		f.CompletedAt,
		f.CreatedAt,
		f.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Followup, error) {
	var f domain.Followup
	err := db.WithContext(ctx).Raw(
		`SELECT `+followupColumns+` FROM followups WHERE id = ?`,
		id,
	).Scan(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

// List returns follow-ups soonest first.
func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFollowupFilter) ([]*domain.Followup, error) {
	var items []*domain.Followup
	stmt := db.WithContext(ctx).Model(&domain.Followup{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.LeadID != nil {
		stmt = stmt.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.DueFrom != nil {
		stmt = stmt.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueBefore != nil {
		stmt = stmt.Where("due_date < ?", *filter.DueBefore)
	}
	err := stmt.
		Order("due_date asc").
		Order("due_time asc").
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Transition(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to domain.Status, completedAt *time.Time, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE followups SET status = ?, completed_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, completedAt, now, id, from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM followups WHERE id = ?`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) CountPending(ctx context.Context, db *gorm.DB, dueFrom, dueBefore *time.Time) (int64, error) {
	var n int64
	stmt := db.WithContext(ctx).Model(&domain.Followup{}).Where("status = ?", domain.StatusPending)
	if dueFrom != nil {
		stmt = stmt.Where("due_date >= ?", *dueFrom)
	}
	if dueBefore != nil {
		stmt = stmt.Where("due_date < ?", *dueBefore)
	}
	if err := stmt.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
