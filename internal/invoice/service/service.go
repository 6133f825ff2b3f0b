package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/clock"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/finance"
	"github.com/smallbiznis/officecrm/internal/invoice/domain"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	"github.com/smallbiznis/officecrm/internal/lineitem"
	"github.com/smallbiznis/officecrm/internal/numbering"
	productdomain "github.com/smallbiznis/officecrm/internal/product/domain"
	quotationdomain "github.com/smallbiznis/officecrm/internal/quotation/domain"
	"github.com/smallbiznis/officecrm/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultOverdueBatch = 100

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Leads      leaddomain.Repository
	Products   productdomain.Repository
	Quotations quotationdomain.Repository
	Numbers    *numbering.Generator
	Documents  docdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	leads      leaddomain.Repository
	products   productdomain.Repository
	quotations quotationdomain.Repository
	numbers    *numbering.Generator
	documents  docdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		leads:      p.Leads,
		products:   p.Products,
		quotations: p.Quotations,
		numbers:    p.Numbers,
		documents:  p.Documents,
	}
}

// draft is an invoice about to be inserted with its lines.
type draft struct {
	leadID       snowflake.ID
	quotationID  *snowflake.ID
	date         time.Time
	dueDate      *time.Time
	paymentTerms string
	notes        string
	terms        string
	lines        []lineitem.Line
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Detail, error) {
	leadID, err := snowflake.ParseString(strings.TrimSpace(req.LeadID))
	if err != nil || leadID == 0 {
		return domain.Detail{}, domain.ErrInvalidLead
	}

	var quotationID *snowflake.ID
	if raw := strings.TrimSpace(req.QuotationID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.Detail{}, domain.ErrInvalidQuotation
		}
		quotationID = &id
	}

	date, dueDate, err := parseDates(req.InvoiceDate, req.DueDate)
	if err != nil {
		return domain.Detail{}, err
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

	return s.insert(ctx, draft{
		leadID:       leadID,
		quotationID:  quotationID,
		date:         date,
		dueDate:      dueDate,
		paymentTerms: strings.TrimSpace(req.PaymentTerms),
		notes:        strings.TrimSpace(req.Notes),
		terms:        strings.TrimSpace(req.TermsAndConditions),
		lines:        lines,
	})
}

// CreateFromQuotation raises an invoice for the lead, items, notes and terms
// of a quotation.
func (s *Service) CreateFromQuotation(ctx context.Context, quotationID string, req domain.CreateFromQuotationRequest) (domain.Detail, error) {
	qid, err := snowflake.ParseString(strings.TrimSpace(quotationID))
	if err != nil || qid == 0 {
		return domain.Detail{}, domain.ErrInvalidQuotation
	}

	date, dueDate, err := parseDates(req.InvoiceDate, req.DueDate)
	if err != nil {
		return domain.Detail{}, err
	}

	q, err := s.quotations.FindByID(ctx, s.db, qid)
	if err != nil {
		return domain.Detail{}, err
	}
	if q == nil {
		return domain.Detail{}, domain.ErrQuotationNotFound
	}
	items, err := s.quotations.ListItems(ctx, s.db, qid)
	if err != nil {
		return domain.Detail{}, err
	}
	if len(items) == 0 {
		return domain.Detail{}, domain.ErrEmptyItems
	}
	lines := make([]lineitem.Line, len(items))
	for i, item := range items {
		lines[i] = item.Line
	}

	return s.insert(ctx, draft{
		leadID:       q.LeadID,
		quotationID:  &q.ID,
		date:         date,
		dueDate:      dueDate,
		paymentTerms: strings.TrimSpace(req.PaymentTerms),
		notes:        q.Notes,
		terms:        q.TermsAndConditions,
		lines:        lines,
	})
}

func (s *Service) insert(ctx context.Context, d draft) (domain.Detail, error) {
	number, err := s.numbers.Generate(ctx, numbering.KindInvoice)
	if err != nil {
		return domain.Detail{}, err
	}

	totals := finance.ComputeDocumentTotals(d.lines)
	now := s.clock.Now()
	inv := domain.Invoice{
		ID:                 s.genID.Generate(),
		InvoiceNumber:      number,
		LeadID:             d.leadID,
		QuotationID:        d.quotationID,
		InvoiceDate:        d.date,
		DueDate:            d.dueDate,
		PaymentTerms:       d.paymentTerms,
		Status:             finance.InvoiceStatusDraft,
		Subtotal:           totals.Subtotal,
		TaxRate:            totals.TaxRate,
		TaxAmount:          totals.TaxAmount,
		TotalAmount:        totals.TotalAmount,
		PaidAmount:         0,
		BalanceAmount:      totals.TotalAmount,
		Notes:              d.notes,
		TermsAndConditions: d.terms,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	items := make([]domain.Item, len(d.lines))
	for i, l := range d.lines {
		items[i] = domain.Item{ID: s.genID.Generate(), InvoiceID: inv.ID, Line: l}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &inv); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateNumber
			}
			return err
		}
		return s.repo.InsertItems(ctx, tx, items)
	})
	if err != nil {
		return domain.Detail{}, fmt.Errorf("create invoice %s: %w", number, err)
	}

	fields := []zap.Field{
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", number),
		zap.Float64("total_amount", inv.TotalAmount),
	}
	if inv.QuotationID != nil {
		fields = append(fields, zap.String("quotation_id", inv.QuotationID.String()))
	}
	s.log.Info("invoice created", fields...)
	return domain.Detail{Invoice: inv, Items: items}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Detail, error) {
	iid, err := parseID(id)
	if err != nil {
		return domain.Detail{}, err
	}
	inv, err := s.repo.FindByID(ctx, s.db, iid)
	if err != nil {
		return domain.Detail{}, err
	}
	if inv == nil {
		return domain.Detail{}, domain.ErrNotFound
	}
	items, err := s.repo.ListItems(ctx, s.db, iid)
	if err != nil {
		return domain.Detail{}, err
	}
	return domain.Detail{Invoice: *inv, Items: items}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Invoice, error) {
	iid, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !domain.ValidStatus(status) {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	inv, err := s.repo.FindByID(ctx, s.db, iid)
	if err != nil {
		return domain.Invoice{}, err
	}
	if inv == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, s.db, iid, status, now); err != nil {
		return domain.Invoice{}, err
	}
	inv.Status = status
	inv.UpdatedAt = now
	return *inv, nil
}

// MarkOverdue flags unpaid invoices whose due date is before today.
func (s *Service) MarkOverdue(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = defaultOverdueBatch
	}
	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	n, err := s.repo.MarkOverdue(ctx, s.db, today, batchSize, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("invoices marked overdue", zap.Int64("count", n))
	}
	return int(n), nil
}

// Render builds the tax invoice document from the stored records.
func (s *Service) Render(ctx context.Context, id string) (*docdomain.Artifact, error) {
	detail, err := s.GetByID(ctx, id)
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

	return s.documents.BuildInvoiceDocument(ctx, detail.Header(), customer, lineitem.Documents(detail.Lines()))
}

func parseDates(rawDate, rawDue string) (time.Time, *time.Time, error) {
	date, err := docdomain.ParseDate(rawDate)
	if err != nil {
		return time.Time{}, nil, domain.ErrInvalidDate
	}
	due, err := docdomain.ParseOptionalDate(rawDue)
	if err != nil {
		return time.Time{}, nil, domain.ErrInvalidDate
	}
	return date, due, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
