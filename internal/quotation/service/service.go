package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/clock"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/finance"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	"github.com/smallbiznis/officecrm/internal/lineitem"
	"github.com/smallbiznis/officecrm/internal/numbering"
	productdomain "github.com/smallbiznis/officecrm/internal/product/domain"
	"github.com/smallbiznis/officecrm/internal/quotation/domain"
	"github.com/smallbiznis/officecrm/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Leads     leaddomain.Repository
	Products  productdomain.Repository
	Numbers   *numbering.Generator
	Documents docdomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	leads     leaddomain.Repository
	products  productdomain.Repository
	numbers   *numbering.Generator
	documents docdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("quotation.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		leads:     p.Leads,
		products:  p.Products,
		numbers:   p.Numbers,
		documents: p.Documents,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateQuotationRequest) (domain.Detail, error) {
	leadID, err := snowflake.ParseString(strings.TrimSpace(req.LeadID))
	if err != nil || leadID == 0 {
		return domain.Detail{}, domain.ErrInvalidLead
	}

	date, err := docdomain.ParseDate(req.QuotationDate)
	if err != nil {
		return domain.Detail{}, domain.ErrInvalidDate
	}
	validUntil, err := docdomain.ParseOptionalDate(req.ValidUntil)
	if err != nil {
		return domain.Detail{}, domain.ErrInvalidDate
	}

	if len(req.Items) == 0 {
		return domain.Detail{}, domain.ErrEmptyItems
	}
	inputs, err := productdomain.FillLines(ctx, s.db, s.products, req.Items)
	if err != nil {
		return domain.Detail{}, err
	}
	lines, err := lineitem.Build(inputs)
	if err != nil {
		return domain.Detail{}, err
	}

	lead, err := s.leads.FindByID(ctx, s.db, leadID)
	if err != nil {
		return domain.Detail{}, err
	}
	if lead == nil {
		return domain.Detail{}, domain.ErrLeadNotFound
	}

	number, err := s.numbers.Generate(ctx, numbering.KindQuotation)
	if err != nil {
		return domain.Detail{}, err
	}

	totals := finance.ComputeDocumentTotals(lines)
	now := s.clock.Now()
	q := domain.Quotation{
		ID:                 s.genID.Generate(),
		QuotationNumber:    number,
		Version:            1,
		LeadID:             leadID,
		QuotationDate:      date,
		ValidUntil:         validUntil,
		Status:             domain.StatusDraft,
		Subtotal:           totals.Subtotal,
		TaxRate:            totals.TaxRate,
		TaxAmount:          totals.TaxAmount,
		TotalAmount:        totals.TotalAmount,
		Notes:              strings.TrimSpace(req.Notes),
		TermsAndConditions: strings.TrimSpace(req.TermsAndConditions),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	items := s.items(q.ID, lines)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &q); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicate
			}
			return err
		}
		return s.repo.InsertItems(ctx, tx, items)
	})
	if err != nil {
		return domain.Detail{}, fmt.Errorf("create quotation %s: %w", number, err)
	}

	s.log.Info("quotation created",
		zap.String("quotation_id", q.ID.String()),
		zap.String("number", number),
		zap.Float64("total_amount", q.TotalAmount),
	)
	return domain.Detail{Quotation: q, Items: items}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Detail, error) {
	qid, err := parseID(id)
	if err != nil {
		return domain.Detail{}, err
	}
	return s.load(ctx, s.db, qid)
}

// Revise copies a quotation into a new draft version with the same number.
func (s *Service) Revise(ctx context.Context, id string) (domain.Detail, error) {
	qid, err := parseID(id)
	if err != nil {
		return domain.Detail{}, err
	}

	var out domain.Detail
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, err := s.load(ctx, tx, qid)
		if err != nil {
			return err
		}
		latest, err := s.repo.LatestVersion(ctx, tx, src.QuotationNumber)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		rev := src.Quotation
		rev.ID = s.genID.Generate()
		rev.Version = latest + 1
		rev.ParentID = &src.ID
		rev.Status = domain.StatusDraft
		rev.CreatedAt = now
		rev.UpdatedAt = now

		items := s.items(rev.ID, src.Lines())
		if err := s.repo.Insert(ctx, tx, &rev); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicate
			}
			return err
		}
		if err := s.repo.InsertItems(ctx, tx, items); err != nil {
			return err
		}
		out = domain.Detail{Quotation: rev, Items: items}
		return nil
	})
	if err != nil {
		return domain.Detail{}, err
	}

	s.log.Info("quotation revised",
		zap.String("number", out.QuotationNumber),
		zap.Int("version", out.Version),
	)
	return out, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Quotation, error) {
	qid, err := parseID(id)
	if err != nil {
		return domain.Quotation{}, err
	}
	if !status.Valid() {
		return domain.Quotation{}, domain.ErrInvalidStatus
	}

	q, err := s.repo.FindByID(ctx, s.db, qid)
	if err != nil {
		return domain.Quotation{}, err
	}
	if q == nil {
		return domain.Quotation{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, s.db, qid, status, now); err != nil {
		return domain.Quotation{}, err
	}
	q.Status = status
	q.UpdatedAt = now
	return *q, nil
}

// Render builds the quotation document from the stored records.
func (s *Service) Render(ctx context.Context, id string) (*docdomain.Artifact, error) {
	qid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	detail, err := s.load(ctx, s.db, qid)
	if err != nil {
		return nil, err
	}

	lead, err := s.leads.FindByID(ctx, s.db, detail.LeadID)
	if err != nil {
		return nil, err
	}
	var customer docdomain.Customer
	if lead != nil {
		customer = lead.Customer()
	}

	return s.documents.BuildQuotationDocument(ctx, detail.Header(), customer, lineitem.Documents(detail.Lines()))
}

func (s *Service) load(ctx context.Context, db *gorm.DB, id snowflake.ID) (domain.Detail, error) {
	q, err := s.repo.FindByID(ctx, db, id)
	if err != nil {
		return domain.Detail{}, err
	}
	if q == nil {
		return domain.Detail{}, domain.ErrNotFound
	}
	items, err := s.repo.ListItems(ctx, db, id)
	if err != nil {
		return domain.Detail{}, err
	}
	return domain.Detail{Quotation: *q, Items: items}, nil
}

func (s *Service) items(quotationID snowflake.ID, lines []lineitem.Line) []domain.Item {
	items := make([]domain.Item, len(lines))
	for i, l := range lines {
		items[i] = domain.Item{ID: s.genID.Generate(), QuotationID: quotationID, Line: l}
	}
	return items
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
