package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/clock"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/finance"
	"github.com/smallbiznis/officecrm/internal/invoice/domain"
	"github.com/smallbiznis/officecrm/internal/invoice/repository"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	leadrepo "github.com/smallbiznis/officecrm/internal/lead/repository"
	"github.com/smallbiznis/officecrm/internal/lineitem"
	"github.com/smallbiznis/officecrm/internal/numbering"
	productdomain "github.com/smallbiznis/officecrm/internal/product/domain"
	productrepo "github.com/smallbiznis/officecrm/internal/product/repository"
	quotationdomain "github.com/smallbiznis/officecrm/internal/quotation/domain"
	quotationrepo "github.com/smallbiznis/officecrm/internal/quotation/repository"
	"github.com/smallbiznis/officecrm/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubDocuments struct {
	headers   []docdomain.Header
	customers []docdomain.Customer
	items     [][]docdomain.LineItem
}

func (s *stubDocuments) BuildQuotationDocument(context.Context, docdomain.Header, docdomain.Customer, []docdomain.LineItem) (*docdomain.Artifact, error) {
	panic("unexpected quotation render")
}

func (s *stubDocuments) BuildInvoiceDocument(_ context.Context, h docdomain.Header, c docdomain.Customer, items []docdomain.LineItem) (*docdomain.Artifact, error) {
	s.headers = append(s.headers, h)
	s.customers = append(s.customers, c)
	s.items = append(s.items, items)
	return &docdomain.Artifact{Kind: docdomain.KindInvoice, Filename: h.Number + ".pdf"}, nil
}

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	clk  *clock.FakeClock
	svc  domain.Service
	docs *stubDocuments
	lead leaddomain.Lead
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t,
		&leaddomain.Lead{},
		&productdomain.Product{},
		&quotationdomain.Quotation{},
		&quotationdomain.Item{},
		&domain.Invoice{},
		&domain.Item{},
		&numbering.DocumentSequence{},
	)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	lead := leaddomain.Lead{ID: node.Generate(), CompanyName: "Acme", ContactPerson: "Ravi", City: "Hyderabad", Status: "new", Source: "other", CreatedAt: clk.Now(), UpdatedAt: clk.Now()}
	leads := leadrepo.Provide()
	require.NoError(t, leads.Insert(context.Background(), db, &lead))

	docs := &stubDocuments{}
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clk,
		Repo:       repository.Provide(),
		Leads:      leads,
		Products:   productrepo.Provide(),
		Quotations: quotationrepo.Provide(),
		Numbers:    numbering.NewGenerator(numbering.Params{Authority: numbering.NewSequenceAuthority(db, clk), Clock: clk, Log: zap.NewNop()}),
		Documents:  docs,
	})
	return fixture{db: db, node: node, clk: clk, svc: svc, docs: docs, lead: lead}
}

func request(leadID string) domain.CreateInvoiceRequest {
	return domain.CreateInvoiceRequest{
		LeadID:       leadID,
		InvoiceDate:  "2025-06-01",
		DueDate:      "2025-06-30",
		PaymentTerms: "50% advance",
		Items: []lineitem.Input{
			{Name: "SPK-1", Category: "Sound System", Quantity: 2, UnitPrice: 2950},
			{Name: "CBL-1", Category: "accessories", Quantity: 1, UnitPrice: 5900},
		},
	}
}

func (f fixture) insertQuotation(t *testing.T) quotationdomain.Quotation {
	t.Helper()
	ctx := context.Background()
	lines, err := lineitem.Build([]lineitem.Input{
		{Name: "AMP-1", Category: "electronics", Quantity: 1, UnitPrice: 3540},
		{Name: "MIC-1", Category: "electronics", Quantity: 2, UnitPrice: 1180},
	})
	require.NoError(t, err)

	totals := finance.ComputeDocumentTotals(lines)
	q := quotationdomain.Quotation{
		ID:                 f.node.Generate(),
		QuotationNumber:    "QT-25-0007",
		Version:            1,
		LeadID:             f.lead.ID,
		QuotationDate:      f.clk.Now(),
		Status:             quotationdomain.StatusApproved,
		Subtotal:           totals.Subtotal,
		TaxRate:            totals.TaxRate,
		TaxAmount:          totals.TaxAmount,
		TotalAmount:        totals.TotalAmount,
		Notes:              "Install on site",
		TermsAndConditions: "1. Delivery in 7 days",
		CreatedAt:          f.clk.Now(),
		UpdatedAt:          f.clk.Now(),
	}
	items := make([]quotationdomain.Item, len(lines))
	for i, l := range lines {
		items[i] = quotationdomain.Item{ID: f.node.Generate(), QuotationID: q.ID, Line: l}
	}

	repo := quotationrepo.Provide()
	require.NoError(t, repo.Insert(ctx, f.db, &q))
	require.NoError(t, repo.InsertItems(ctx, f.db, items))
	return q
}

func TestCreateInvoice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, "INV-25-0001", created.InvoiceNumber)
	assert.Equal(t, finance.InvoiceStatusDraft, created.Status)
	assert.Equal(t, 11800.0, created.TotalAmount)
	assert.Equal(t, 0.0, created.PaidAmount)
	assert.Equal(t, 11800.0, created.BalanceAmount)
	assert.InDelta(t, 1800, created.TaxAmount, 0.001)
	assert.Nil(t, created.QuotationID)

	got, err := f.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "50% advance", got.PaymentTerms)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, 30, got.DueDate.Day())
	require.Len(t, got.Items, 2)
	assert.Equal(t, "SPK-1", got.Items[0].ItemName)
	assert.Equal(t, "ACCESSORIES", got.Items[1].Category)

	second, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, "INV-25-0002", second.InvoiceNumber)
}

func TestCreateInvoiceValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, request(""))
	assert.ErrorIs(t, err, domain.ErrInvalidLead)

	_, err = f.svc.Create(ctx, request("42"))
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)

	req := request(f.lead.ID.String())
	req.QuotationID = "abc"
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuotation)

	req = request(f.lead.ID.String())
	req.InvoiceDate = "01/06/2025x"
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	req = request(f.lead.ID.String())
	req.DueDate = "soon"
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	req = request(f.lead.ID.String())
	req.Items = nil
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmptyItems)

	req = request(f.lead.ID.String())
	req.Items[1].UnitPrice = -1
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, lineitem.ErrInvalidPrice)
}

func TestCreateInvoiceFromQuotation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.insertQuotation(t)

	inv, err := f.svc.CreateFromQuotation(ctx, q.ID.String(), domain.CreateFromQuotationRequest{InvoiceDate: "2025-06-05"})
	require.NoError(t, err)
	assert.Equal(t, "INV-25-0001", inv.InvoiceNumber)
	assert.Equal(t, f.lead.ID, inv.LeadID)
	require.NotNil(t, inv.QuotationID)
	assert.Equal(t, q.ID, *inv.QuotationID)
	assert.Equal(t, q.TotalAmount, inv.TotalAmount)
	assert.Equal(t, q.TotalAmount, inv.BalanceAmount)
	assert.Equal(t, "Install on site", inv.Notes)
	assert.Equal(t, "1. Delivery in 7 days", inv.TermsAndConditions)
	assert.Nil(t, inv.DueDate)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "AMP-1", inv.Items[0].ItemName)
	assert.Equal(t, "MIC-1", inv.Items[1].ItemName)

	_, err = f.svc.CreateFromQuotation(ctx, "77", domain.CreateFromQuotationRequest{InvoiceDate: "2025-06-05"})
	assert.ErrorIs(t, err, domain.ErrQuotationNotFound)

	_, err = f.svc.CreateFromQuotation(ctx, "x", domain.CreateFromQuotationRequest{InvoiceDate: "2025-06-05"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuotation)

	_, err = f.svc.CreateFromQuotation(ctx, q.ID.String(), domain.CreateFromQuotationRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestUpdateInvoiceStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, inv.ID.String(), finance.InvoiceStatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, "99", finance.InvoiceStatusSent)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.clk.Advance(time.Hour)
	updated, err := f.svc.UpdateStatus(ctx, inv.ID.String(), finance.InvoiceStatusSent)
	require.NoError(t, err)
	assert.Equal(t, finance.InvoiceStatusSent, updated.Status)

	stored, err := f.svc.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, finance.InvoiceStatusSent, stored.Status)
}

func TestMarkOverdue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	due, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, due.ID.String(), finance.InvoiceStatusSent)
	require.NoError(t, err)

	draft, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)

	laterReq := request(f.lead.ID.String())
	laterReq.DueDate = "2025-07-31"
	later, err := f.svc.Create(ctx, laterReq)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, later.ID.String(), finance.InvoiceStatusSent)
	require.NoError(t, err)

	f.clk.Advance(29 * 24 * time.Hour)
	n, err := f.svc.MarkOverdue(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n, "due today is not overdue yet")

	f.clk.Advance(2 * 24 * time.Hour)
	n, err = f.svc.MarkOverdue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for id, want := range map[string]domain.Status{
		due.ID.String():   finance.InvoiceStatusOverdue,
		draft.ID.String(): finance.InvoiceStatusDraft,
		later.ID.String(): finance.InvoiceStatusSent,
	} {
		stored, err := f.svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Status, id)
	}

	n, err = f.svc.MarkOverdue(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRenderInvoice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)

	art, err := f.svc.Render(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "INV-25-0001.pdf", art.Filename)

	require.Len(t, f.docs.headers, 1)
	h := f.docs.headers[0]
	assert.Equal(t, "INV-25-0001", h.Number)
	assert.Equal(t, "50% advance", h.PaymentTerms)
	assert.Equal(t, 11800.0, h.BalanceAmount)
	assert.Equal(t, "Acme", f.docs.customers[0].CompanyName)
	require.Len(t, f.docs.items[0], 2)

	_, err = f.svc.Render(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateInvoiceFillsLinesFromProducts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	product := productdomain.Product{
		ID:           f.node.Generate(),
		Model:        "AMP-2",
		Units:        "set",
		Category:     "SOUND SYSTEM",
		OurPrice:     9000,
		SellingPrice: 11800,
		IsActive:     true,
		CreatedAt:    f.clk.Now(),
		UpdatedAt:    f.clk.Now(),
	}
	require.NoError(t, productrepo.Provide().Insert(ctx, f.db, &product))

	req := request(f.lead.ID.String())
	req.Items = []lineitem.Input{{ProductID: product.ID.String(), Quantity: 1}}
	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "AMP-2", created.Items[0].ItemName)
	assert.Equal(t, "set", created.Items[0].Units)
	assert.Equal(t, 11800.0, created.TotalAmount)

	product.IsActive = false
	require.NoError(t, productrepo.Provide().Update(ctx, f.db, &product))
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, productdomain.ErrNotFound)
}
