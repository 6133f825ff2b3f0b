package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/lead/domain"
	"github.com/smallbiznis/officecrm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const gstinLength = 15

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("lead.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLeadRequest) (domain.Lead, error) {
	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		return domain.Lead{}, domain.ErrInvalidCompanyName
	}

	contact := strings.TrimSpace(req.ContactPerson)
	if contact == "" {
		return domain.Lead{}, domain.ErrInvalidContactPerson
	}

	email := strings.TrimSpace(req.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.Lead{}, domain.ErrInvalidEmail
		}
	}

	gstin := strings.ToUpper(strings.TrimSpace(req.GSTIN))
	if gstin != "" && len(gstin) != gstinLength {
		return domain.Lead{}, domain.ErrInvalidGSTIN
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "new"
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "other"
	}

	now := time.Now().UTC()
	lead := domain.Lead{
		ID:             s.genID.Generate(),
		CompanyName:    company,
		ContactPerson:  contact,
		Phone:          strings.TrimSpace(req.Phone),
		Email:          email,
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		State:          strings.TrimSpace(req.State),
		Pincode:        strings.TrimSpace(req.Pincode),
		GSTIN:          gstin,
		Status:         status,
		Source:         source,
		EstimatedValue: req.EstimatedValue,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &lead); err != nil {
		return domain.Lead{}, err
	}

	s.log.Info("lead created", zap.String("lead_id", lead.ID.String()))
	return lead, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Lead, error) {
	leadID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || leadID == 0 {
		return domain.Lead{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, leadID)
	if err != nil {
		return domain.Lead{}, err
	}
	if item == nil {
		return domain.Lead{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListLeadRequest) (domain.ListLeadResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListLeadFilter{
		Status: strings.TrimSpace(req.Status),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListLeadResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(lead *domain.Lead) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: lead.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	leads := make([]domain.Lead, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		leads = append(leads, *item)
	}

	resp := domain.ListLeadResponse{Leads: leads}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
