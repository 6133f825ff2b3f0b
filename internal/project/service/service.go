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
	"github.com/smallbiznis/officecrm/internal/project/domain"
	"github.com/smallbiznis/officecrm/internal/providers/pdf"
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
	Leads leaddomain.Repository
	PDF   pdf.Provider
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	leads leaddomain.Repository
	pdf   pdf.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("project.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		leads: p.Leads,
		pdf:   p.PDF,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProjectRequest) (domain.Project, error) {
	name := strings.TrimSpace(req.ProjectName)
	if name == "" {
		return domain.Project{}, domain.ErrInvalidName
	}
	if req.QuoteAmount <= 0 {
		return domain.Project{}, domain.ErrInvalidQuoteAmount
	}

	status := domain.StatusInProgress
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = domain.Status(strings.ToLower(raw))
		if !status.Valid() {
			return domain.Project{}, domain.ErrInvalidStatus
		}
	}

	start, err := docdomain.ParseDate(req.StartDate)
	if err != nil {
		return domain.Project{}, domain.ErrInvalidDate
	}
	completion, err := docdomain.ParseOptionalDate(req.CompletionDate)
	if err != nil {
		return domain.Project{}, domain.ErrInvalidDate
	}

	leadID, err := optionalID(req.LeadID)
	if err != nil {
		return domain.Project{}, err
	}
	quotationID, err := optionalID(req.QuotationID)
	if err != nil {
		return domain.Project{}, err
	}
	invoiceID, err := optionalID(req.InvoiceID)
	if err != nil {
		return domain.Project{}, err
	}

	now := s.clock.Now()
	project := domain.Project{
		ID:             s.genID.Generate(),
		ProjectName:    name,
		LeadID:         leadID,
		QuotationID:    quotationID,
		InvoiceID:      invoiceID,
		QuoteAmount:    req.QuoteAmount,
		Status:         status,
		StartDate:      start,
		CompletionDate: completion,
		Description:    strings.TrimSpace(req.Description),
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Insert(ctx, s.db, &project); err != nil {
		return domain.Project{}, err
	}

	s.log.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.Float64("quote_amount", project.QuoteAmount),
	)
	return project, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Project, error) {
	pid, err := parseID(id)
	if err != nil {
		return domain.Project{}, err
	}
	return s.load(ctx, pid)
}

func (s *Service) AddExpense(ctx context.Context, projectID string, req domain.CreateExpenseRequest) (domain.Expense, error) {
	pid, err := parseID(projectID)
	if err != nil {
		return domain.Expense{}, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.Expense{}, domain.ErrInvalidCategory
	}
	if req.Amount <= 0 {
		return domain.Expense{}, domain.ErrInvalidAmount
	}
	date, err := docdomain.ParseDate(req.ExpenseDate)
	if err != nil {
		return domain.Expense{}, domain.ErrInvalidDate
	}
	mode := finance.PaymentMode(strings.ToLower(strings.TrimSpace(req.PaymentMode)))
	if !mode.Valid() {
		return domain.Expense{}, domain.ErrInvalidPaymentMode
	}

	if _, err := s.load(ctx, pid); err != nil {
		return domain.Expense{}, err
	}

	expense := domain.Expense{
		ID:              s.genID.Generate(),
		ProjectID:       &pid,
		Category:        category,
		Description:     strings.TrimSpace(req.Description),
		VendorName:      strings.TrimSpace(req.VendorName),
		Amount:          req.Amount,
		ExpenseDate:     date,
		PaymentMode:     mode,
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       s.clock.Now(),
	}
	if err := s.repo.InsertExpense(ctx, s.db, &expense); err != nil {
		return domain.Expense{}, err
	}

	s.log.Info("expense recorded",
		zap.String("project_id", pid.String()),
		zap.String("category", category),
		zap.Float64("amount", expense.Amount),
	)
	return expense, nil
}

func (s *Service) Financials(ctx context.Context, id string) (domain.Financials, error) {
	pid, err := parseID(id)
	if err != nil {
		return domain.Financials{}, err
	}
	project, err := s.load(ctx, pid)
	if err != nil {
		return domain.Financials{}, err
	}
	receipts, expenses, err := s.ledger(ctx, pid)
	if err != nil {
		return domain.Financials{}, err
	}
	return domain.NewFinancials(project, rollup(project, receipts, expenses)), nil
}

// Statement renders the payments, expenses and profitability of a project.
func (s *Service) Statement(ctx context.Context, id string) (*pdf.Document, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	project, err := s.load(ctx, pid)
	if err != nil {
		return nil, err
	}
	receipts, expenses, err := s.ledger(ctx, pid)
	if err != nil {
		return nil, err
	}
	r := rollup(project, receipts, expenses)

	data := pdf.StatementData{
		ProjectName:   project.ProjectName,
		Status:        strings.ReplaceAll(string(project.Status), "_", " "),
		StartDate:     finance.FormatDate(project.StartDate),
		QuoteAmount:   finance.FormatRupees(project.QuoteAmount),
		TotalReceived: finance.FormatRupees(r.TotalReceived),
		TotalSpent:    finance.FormatRupees(r.TotalSpent),
		Profit:        finance.FormatRupees(r.Profit),
		Margin:        fmt.Sprintf("%.2f%%", r.Margin),
		Completion:    fmt.Sprintf("%.2f%%", r.Completion),
	}
	if project.LeadID != nil {
		lead, err := s.leads.FindByID(ctx, s.db, *project.LeadID)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			data.Customer = lead.CompanyName
		}
	}
	for _, rc := range receipts {
		desc := rc.ReferenceNumber
		if desc == "" {
			desc = "Payment"
		}
		data.Payments = append(data.Payments, pdf.StatementLine{
			Date:        finance.FormatDate(rc.PaymentDate),
			Description: desc,
			Mode:        rc.PaymentMode.Label(),
			Amount:      finance.FormatRupees(rc.Amount),
		})
	}
	for _, e := range expenses {
		desc := e.Category
		if e.Description != "" {
			desc += ": " + e.Description
		}
		data.Expenses = append(data.Expenses, pdf.StatementLine{
			Date:        finance.FormatDate(e.ExpenseDate),
			Description: desc,
			Mode:        e.PaymentMode.Label(),
			Amount:      finance.FormatRupees(e.Amount),
		})
	}

	out, err := s.pdf.GenerateStatement(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("project statement %s: %w", pid, err)
	}
	return &pdf.Document{Filename: "project-" + pid.String() + "-statement.pdf", Data: out}, nil
}

func (s *Service) load(ctx context.Context, id snowflake.ID) (domain.Project, error) {
	project, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Project{}, err
	}
	if project == nil {
		return domain.Project{}, domain.ErrNotFound
	}
	return *project, nil
}

func (s *Service) ledger(ctx context.Context, id snowflake.ID) ([]domain.Receipt, []domain.Expense, error) {
	receipts, err := s.repo.ListReceipts(ctx, s.db, id)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.repo.ListExpenses(ctx, s.db, id)
	if err != nil {
		return nil, nil, err
	}
	return receipts, expenses, nil
}

func rollup(p domain.Project, receipts []domain.Receipt, expenses []domain.Expense) finance.Rollup {
	paid := make([]float64, len(receipts))
	for i, r := range receipts {
		paid[i] = r.Amount
	}
	spent := make([]float64, len(expenses))
	for i, e := range expenses {
		spent[i] = e.Amount
	}
	return finance.ProjectFinancials(paid, spent, p.QuoteAmount)
}

func optionalID(raw string) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidReference
	}
	return &id, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
