package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/clock"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/followup/domain"
	invoicedomain "github.com/smallbiznis/officecrm/internal/invoice/domain"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const day = 24 * time.Hour

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Leads    leaddomain.Repository
	Invoices invoicedomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	leads    leaddomain.Repository
	invoices invoicedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("followup.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		leads:    p.Leads,
		invoices: p.Invoices,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateFollowupRequest) (domain.FollowupView, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.FollowupView{}, domain.ErrInvalidTitle
	}
	due, err := docdomain.ParseDate(req.DueDate)
	if err != nil {
		return domain.FollowupView{}, domain.ErrInvalidDueDate
	}
	dueTime, err := parseDueTime(req.DueTime)
	if err != nil {
		return domain.FollowupView{}, err
	}

	leadID, err := parseRef(req.LeadID, domain.ErrInvalidLead)
	if err != nil {
		return domain.FollowupView{}, err
	}
	invoiceID, err := parseRef(req.InvoiceID, domain.ErrInvalidInvoice)
	if err != nil {
		return domain.FollowupView{}, err
	}
	if leadID == nil && invoiceID == nil {
		return domain.FollowupView{}, domain.ErrMissingReference
	}
	if err := s.checkRefs(ctx, leadID, invoiceID); err != nil {
		return domain.FollowupView{}, err
	}

	now := s.clock.Now()
	f := domain.Followup{
		ID:          s.genID.Generate(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		DueDate:     due,
		DueTime:     dueTime,
		LeadID:      leadID,
		InvoiceID:   invoiceID,
		AssignedTo:  strings.TrimSpace(req.AssignedTo),
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &f); err != nil {
		return domain.FollowupView{}, err
	}

	s.log.Info("followup created",
		zap.String("followup_id", f.ID.String()),
		zap.String("due_date", due.Format(time.DateOnly)),
	)
	return s.view(f), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.FollowupView, error) {
	f, err := s.find(ctx, id)
	if err != nil {
		return domain.FollowupView{}, err
	}
	return s.view(f), nil
}

func (s *Service) List(ctx context.Context, req domain.ListFollowupRequest) ([]domain.FollowupView, error) {
	var filter domain.ListFollowupFilter
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.Status(strings.ToLower(raw))
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	leadID, err := parseRef(req.LeadID, domain.ErrInvalidLead)
	if err != nil {
		return nil, err
	}
	filter.LeadID = leadID

	today := s.today()
	switch domain.Window(strings.ToLower(strings.TrimSpace(req.Window))) {
	case domain.WindowAll:
	case domain.WindowOverdue:
		filter.Status = domain.StatusPending
		filter.DueBefore = &today
	case domain.WindowToday:
		filter.DueFrom, filter.DueBefore = span(today, 1)
	case domain.WindowTomorrow:
		filter.DueFrom, filter.DueBefore = span(today.Add(day), 1)
	case domain.WindowWeek:
		filter.DueFrom, filter.DueBefore = span(today, 8)
	default:
		return nil, domain.ErrInvalidWindow
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	views := make([]domain.FollowupView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		views = append(views, s.view(*item))
	}
	return views, nil
}

func (s *Service) Complete(ctx context.Context, id string) (domain.FollowupView, error) {
	now := s.clock.Now()
	return s.transition(ctx, id, domain.StatusCompleted, &now)
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.FollowupView, error) {
	return s.transition(ctx, id, domain.StatusCancelled, nil)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	followupID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || followupID == 0 {
		return domain.ErrInvalidID
	}
	ok, err := s.repo.Delete(ctx, s.db, followupID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.log.Info("followup deleted", zap.String("followup_id", followupID.String()))
	return nil
}

func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	today := s.today()
	overdue, err := s.repo.CountPending(ctx, s.db, nil, &today)
	if err != nil {
		return domain.Summary{}, err
	}
	from, before := span(today, 1)
	dueToday, err := s.repo.CountPending(ctx, s.db, from, before)
	if err != nil {
		return domain.Summary{}, err
	}
	pending, err := s.repo.CountPending(ctx, s.db, nil, nil)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{Overdue: overdue, DueToday: dueToday, Pending: pending}, nil
}

// transition moves a pending follow-up to status. Follow-ups that are
// already closed are left untouched.
func (s *Service) transition(ctx context.Context, id string, status domain.Status, completedAt *time.Time) (domain.FollowupView, error) {
	f, err := s.find(ctx, id)
	if err != nil {
		return domain.FollowupView{}, err
	}

	now := s.clock.Now()
	ok, err := s.repo.Transition(ctx, s.db, f.ID, domain.StatusPending, status, completedAt, now)
	if err != nil {
		return domain.FollowupView{}, err
	}
	if !ok {
		return domain.FollowupView{}, domain.ErrNotPending
	}

	f.Status = status
	f.CompletedAt = completedAt
	f.UpdatedAt = now
	s.log.Info("followup closed",
		zap.String("followup_id", f.ID.String()),
		zap.String("status", string(status)),
	)
	return s.view(f), nil
}

func (s *Service) find(ctx context.Context, id string) (domain.Followup, error) {
	followupID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || followupID == 0 {
		return domain.Followup{}, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, followupID)
	if err != nil {
		return domain.Followup{}, err
	}
	if item == nil {
		return domain.Followup{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) checkRefs(ctx context.Context, leadID, invoiceID *snowflake.ID) error {
	if leadID != nil {
		lead, err := s.leads.FindByID(ctx, s.db, *leadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return domain.ErrLeadNotFound
		}
	}
	if invoiceID != nil {
		inv, err := s.invoices.FindByID(ctx, s.db, *invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
	}
	return nil
}

func (s *Service) today() time.Time {
	now := s.clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) view(f domain.Followup) domain.FollowupView {
	return domain.FollowupView{Followup: f, Overdue: f.Overdue(s.today())}
}

func span(from time.Time, days int) (*time.Time, *time.Time) {
	before := from.Add(time.Duration(days) * day)
	return &from, &before
}

func parseRef(raw string, invalid error) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id <= 0 {
		return nil, invalid
	}
	return &id, nil
}

func parseDueTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", domain.ErrInvalidDueTime
}
