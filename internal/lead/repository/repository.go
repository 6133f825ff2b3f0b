package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/lead/domain"
	"github.com/smallbiznis/officecrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, lead *domain.Lead) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO leads (id, company_name, contact_person, phone, email, address, city, state, pincode, gstin, status, source, estimated_value, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID,
		lead.CompanyName,
		lead.ContactPerson,
		lead.Phone,
		lead.Email,
		lead.Address,
		lead.City,
		lead.State,
		lead.Pincode,
		lead.GSTIN,
		lead.Status,
		lead.Source,
		lead.EstimatedValue,
		lead.Notes,
		lead.CreatedAt,
		lead.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Lead, error) {
	var lead domain.Lead
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_name, contact_person, phone, email, address, city, state, pincode, gstin, status, source, estimated_value, notes, created_at, updated_at
		 FROM leads WHERE id = ?`,
		id,
	).Scan(&lead).Error
	if err != nil {
		return nil, err
	}
	if lead.ID == 0 {
		return nil, nil
	}
	return &lead, nil
}

// List returns up to page.PageSize+1 leads, newest first. Snowflake ids grow
// with time, so the page token carries the last id seen.
func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListLeadFilter, page pagination.Pagination) ([]*domain.Lead, error) {
	var leads []*domain.Lead
	stmt := db.WithContext(ctx).Model(&domain.Lead{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		stmt = stmt.Where("id < ?", id)
	}
	err := stmt.
		Order("id desc").
		Limit(page.PageSize + 1).
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}
