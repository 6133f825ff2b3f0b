package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/clock"
	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/smallbiznis/officecrm/internal/finance"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	leadrepo "github.com/smallbiznis/officecrm/internal/lead/repository"
	paymentdomain "github.com/smallbiznis/officecrm/internal/payment/domain"
	"github.com/smallbiznis/officecrm/internal/project/domain"
	"github.com/smallbiznis/officecrm/internal/project/repository"
	"github.com/smallbiznis/officecrm/internal/providers/pdf"
	"github.com/smallbiznis/officecrm/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	clk  *clock.FakeClock
	svc  domain.Service
	lead leaddomain.Lead
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t, &leaddomain.Lead{}, &domain.Project{}, &domain.Expense{}, &paymentdomain.Payment{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	lead := leaddomain.Lead{ID: node.Generate(), CompanyName: "Acme", ContactPerson: "Ravi", Status: "new", Source: "other", CreatedAt: clk.Now(), UpdatedAt: clk.Now()}
	leads := leadrepo.Provide()
	require.NoError(t, leads.Insert(context.Background(), db, &lead))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
		Leads: leads,
		PDF:   pdf.New(config.DefaultCompany()),
	})
	return fixture{db: db, node: node, clk: clk, svc: svc, lead: lead}
}

func (f fixture) create(t *testing.T, quote float64) domain.Project {
	t.Helper()
	p, err := f.svc.Create(context.Background(), domain.CreateProjectRequest{
		ProjectName: "Conference hall audio",
		LeadID:      f.lead.ID.String(),
		QuoteAmount: quote,
		StartDate:   "2025-06-01",
	})
	require.NoError(t, err)
	return p
}

func (f fixture) receive(t *testing.T, projectID snowflake.ID, amount float64, day int) {
	t.Helper()
	p := paymentdomain.Payment{
		ID:          f.node.Generate(),
		InvoiceID:   f.node.Generate(),
		ProjectID:   &projectID,
		Amount:      amount,
		PaymentDate: time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		PaymentMode: finance.PaymentModeBankTransfer,
		CreatedAt:   f.clk.Now(),
	}
	require.NoError(t, f.db.Create(&p).Error)
}

func expense(amount float64) domain.CreateExpenseRequest {
	return domain.CreateExpenseRequest{
		Category:    "Transportation",
		Description: "Speaker delivery",
		Amount:      amount,
		ExpenseDate: "2025-06-02",
		PaymentMode: "cash",
	}
}

func TestCreateProject(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := f.create(t, 10000)
	assert.Equal(t, domain.StatusInProgress, p.Status)
	require.NotNil(t, p.LeadID)
	assert.Equal(t, f.lead.ID, *p.LeadID)
	assert.Nil(t, p.InvoiceID)

	got, err := f.svc.GetByID(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Conference hall audio", got.ProjectName)
	assert.Equal(t, 10000.0, got.QuoteAmount)

	_, err = f.svc.GetByID(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateProjectValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	valid := domain.CreateProjectRequest{ProjectName: "P", QuoteAmount: 1, StartDate: "2025-06-01"}

	req := valid
	req.ProjectName = " "
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	req = valid
	req.QuoteAmount = 0
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuoteAmount)

	req = valid
	req.StartDate = ""
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	req = valid
	req.Status = "archived"
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	req = valid
	req.InvoiceID = "inv"
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestAddExpense(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.create(t, 10000)

	e, err := f.svc.AddExpense(ctx, p.ID.String(), expense(1500))
	require.NoError(t, err)
	require.NotNil(t, e.ProjectID)
	assert.Equal(t, p.ID, *e.ProjectID)
	assert.Equal(t, finance.PaymentModeCash, e.PaymentMode)

	req := expense(1)
	req.Category = ""
	_, err = f.svc.AddExpense(ctx, p.ID.String(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = f.svc.AddExpense(ctx, p.ID.String(), expense(0))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = expense(1)
	req.PaymentMode = "barter"
	_, err = f.svc.AddExpense(ctx, p.ID.String(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMode)

	_, err = f.svc.AddExpense(ctx, f.node.Generate().String(), expense(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFinancials(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.create(t, 10000)

	empty, err := f.svc.Financials(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.TotalReceived)
	assert.Equal(t, 0.0, empty.Margin)
	assert.Equal(t, 0.0, empty.Completion)

	f.receive(t, p.ID, 4000, 3)
	f.receive(t, p.ID, 1000, 4)
	_, err = f.svc.AddExpense(ctx, p.ID.String(), expense(1500))
	require.NoError(t, err)
	_, err = f.svc.AddExpense(ctx, p.ID.String(), expense(500))
	require.NoError(t, err)

	other := f.create(t, 100)
	f.receive(t, other.ID, 99, 5)

	got, err := f.svc.Financials(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ProjectID)
	assert.Equal(t, 5000.0, got.TotalReceived)
	assert.Equal(t, 2000.0, got.TotalSpent)
	assert.Equal(t, 3000.0, got.Profit)
	assert.InDelta(t, 60.0, got.Margin, 1e-9)
	assert.InDelta(t, 50.0, got.Completion, 1e-9)
}

func TestFinancialsKeepsLoss(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.create(t, 10000)

	f.receive(t, p.ID, 1000, 3)
	_, err := f.svc.AddExpense(ctx, p.ID.String(), expense(2500))
	require.NoError(t, err)

	got, err := f.svc.Financials(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, -1500.0, got.Profit)
	assert.InDelta(t, -150.0, got.Margin, 1e-9)
}

func TestStatement(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.create(t, 10000)
	f.receive(t, p.ID, 4000, 3)
	_, err := f.svc.AddExpense(ctx, p.ID.String(), expense(1500))
	require.NoError(t, err)

	doc, err := f.svc.Statement(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "project-"+p.ID.String()+"-statement.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))

	_, err = f.svc.Statement(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
