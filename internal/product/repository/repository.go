package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/product/domain"
	"gorm.io/gorm"
)

const productColumns = `id, model, description, image_url, units, category, hsn_code, our_price, selling_price, is_active, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Model,
		p.Description,
		p.ImageURL,
		p.Units,
		p.Category,
		p.HSNCode,
		p.OurPrice,
		p.SellingPrice,
		p.IsActive,
		p.CreatedAt,
		p.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT `+productColumns+` FROM products WHERE id = ?`,
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

func (r *repo) FindActiveByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []*domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT `+productColumns+` FROM products WHERE id IN ? AND is_active = ?`,
		ids, true,
	).Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// List returns products ordered by model name.
func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListProductFilter) ([]*domain.Product, error) {
	var products []*domain.Product
	stmt := db.WithContext(ctx).Model(&domain.Product{})
	if !filter.IncludeInactive {
		stmt = stmt.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if err := stmt.Order("model asc").Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET model = ?, description = ?, image_url = ?, units = ?, category = ?, hsn_code = ?,
		     our_price = ?, selling_price = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		p.Model,
		p.Description,
		p.ImageURL,
		p.Units,
		p.Category,
		p.HSNCode,
		p.OurPrice,
		p.SellingPrice,
		p.IsActive,
		p.UpdatedAt,
		p.ID,
	).Error
}
