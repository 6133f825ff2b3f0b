package service

import (
	"context"
	"slices"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/clock"
	"github.com/smallbiznis/officecrm/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.ProductView, error) {
	now := s.clock.Now()
	p := domain.Product{
		ID:           s.genID.Generate(),
		Model:        strings.TrimSpace(req.Model),
		Description:  strings.TrimSpace(req.Description),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Units:        strings.ToLower(strings.TrimSpace(req.Units)),
		Category:     strings.ToUpper(strings.TrimSpace(req.Category)),
		HSNCode:      strings.TrimSpace(req.HSNCode),
		OurPrice:     req.OurPrice,
		SellingPrice: req.SellingPrice,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.Units == "" {
		p.Units = domain.DefaultUnits
	}
	if err := validate(p); err != nil {
		return domain.ProductView{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &p); err != nil {
		return domain.ProductView{}, err
	}

	s.log.Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.String("model", p.Model),
	)
	return p.View(), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.ProductView, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return domain.ProductView{}, err
	}
	return p.View(), nil
}

func (s *Service) List(ctx context.Context, req domain.ListProductRequest) ([]domain.ProductView, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListProductFilter{
		Category:        strings.ToUpper(strings.TrimSpace(req.Category)),
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		return nil, err
	}

	views := make([]domain.ProductView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		views = append(views, item.View())
	}
	return views, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateProductRequest) (domain.ProductView, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return domain.ProductView{}, err
	}

	if req.Model != nil {
		p.Model = strings.TrimSpace(*req.Model)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Units != nil {
		p.Units = strings.ToLower(strings.TrimSpace(*req.Units))
	}
	if req.Category != nil {
		p.Category = strings.ToUpper(strings.TrimSpace(*req.Category))
	}
	if req.HSNCode != nil {
		p.HSNCode = strings.TrimSpace(*req.HSNCode)
	}
	if req.OurPrice != nil {
		p.OurPrice = *req.OurPrice
	}
	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}
	if err := validate(p); err != nil {
		return domain.ProductView{}, err
	}

	p.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, &p); err != nil {
		return domain.ProductView{}, err
	}
	return p.View(), nil
}

// Deactivate hides the product from the catalog. Documents that already
// reference it keep their copied fields.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	p, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return nil
	}

	p.IsActive = false
	p.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, &p); err != nil {
		return err
	}

	s.log.Info("product deactivated", zap.String("product_id", p.ID.String()))
	return nil
}

func (s *Service) find(ctx context.Context, id string) (domain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || productID == 0 {
		return domain.Product{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return *item, nil
}

func validate(p domain.Product) error {
	switch {
	case p.Model == "":
		return domain.ErrInvalidModel
	case !slices.Contains(domain.Units, p.Units):
		return domain.ErrInvalidUnits
	case p.OurPrice <= 0, p.SellingPrice <= 0:
		return domain.ErrInvalidPrice
	case p.SellingPrice < p.OurPrice:
		return domain.ErrPriceBelowCost
	}
	return nil
}
