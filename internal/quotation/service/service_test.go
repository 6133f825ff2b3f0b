package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/clock"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	leadrepo "github.com/smallbiznis/officecrm/internal/lead/repository"
	"github.com/smallbiznis/officecrm/internal/lineitem"
	"github.com/smallbiznis/officecrm/internal/numbering"
	productdomain "github.com/smallbiznis/officecrm/internal/product/domain"
	productrepo "github.com/smallbiznis/officecrm/internal/product/repository"
	"github.com/smallbiznis/officecrm/internal/quotation/domain"
	"github.com/smallbiznis/officecrm/internal/quotation/repository"
	"github.com/smallbiznis/officecrm/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type renderCall struct {
	header   docdomain.Header
	customer docdomain.Customer
	items    []docdomain.LineItem
}

type stubDocuments struct {
	calls []renderCall
}

func (s *stubDocuments) BuildQuotationDocument(_ context.Context, h docdomain.Header, c docdomain.Customer, items []docdomain.LineItem) (*docdomain.Artifact, error) {
	s.calls = append(s.calls, renderCall{header: h, customer: c, items: items})
	return &docdomain.Artifact{Kind: docdomain.KindQuotation, Filename: h.Number + ".pdf"}, nil
}

func (s *stubDocuments) BuildInvoiceDocument(context.Context, docdomain.Header, docdomain.Customer, []docdomain.LineItem) (*docdomain.Artifact, error) {
	panic("unexpected invoice render")
}

type fixture struct {
	svc     domain.Service
	docs    *stubDocuments
	lead    leaddomain.Lead
	product productdomain.Product
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t, &leaddomain.Lead{}, &productdomain.Product{}, &domain.Quotation{}, &domain.Item{}, &numbering.DocumentSequence{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	lead := leaddomain.Lead{ID: node.Generate(), CompanyName: "Acme", ContactPerson: "Ravi", City: "Hyderabad", Status: "new", Source: "other", CreatedAt: clk.Now(), UpdatedAt: clk.Now()}
	leads := leadrepo.Provide()
	require.NoError(t, leads.Insert(context.Background(), db, &lead))

	product := productdomain.Product{
		ID:           node.Generate(),
		Model:        "TV-55",
		Description:  "55 inch display",
		ImageURL:     "https://cdn.example.com/tv-55.png",
		Units:        "pcs",
		Category:     "DISPLAY SYSTEM",
		OurPrice:     40000,
		SellingPrice: 47200,
		IsActive:     true,
		CreatedAt:    clk.Now(),
		UpdatedAt:    clk.Now(),
	}
	products := productrepo.Provide()
	require.NoError(t, products.Insert(context.Background(), db, &product))

	docs := &stubDocuments{}
	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clk,
		Repo:      repository.Provide(),
		Leads:     leads,
		Products:  products,
		Numbers:   numbering.NewGenerator(numbering.Params{Authority: numbering.NewSequenceAuthority(db, clk), Clock: clk, Log: zap.NewNop()}),
		Documents: docs,
	})
	return fixture{svc: svc, docs: docs, lead: lead, product: product}
}

func request(leadID string) domain.CreateQuotationRequest {
	return domain.CreateQuotationRequest{
		LeadID:        leadID,
		QuotationDate: "2025-06-01",
		ValidUntil:    "2025-06-16",
		Items: []lineitem.Input{
			{Name: "SPK-1", Category: "Sound System", Quantity: 2, UnitPrice: 2950},
			{Name: "CBL-1", Category: "accessories", Quantity: 1, UnitPrice: 5900},
		},
	}
}

func TestCreateQuotation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, "QT-25-0001", created.QuotationNumber)
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, domain.StatusDraft, created.Status)
	assert.Equal(t, 11800.0, created.TotalAmount)
	assert.Equal(t, created.TotalAmount, created.Subtotal)
	assert.Equal(t, 18.0, created.TaxRate)
	assert.InDelta(t, 1800, created.TaxAmount, 0.001)

	got, err := f.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "SPK-1", got.Items[0].ItemName)
	assert.Equal(t, "SOUND SYSTEM", got.Items[0].Category)
	assert.Equal(t, 5900.0, got.Items[0].Amount)
	assert.Equal(t, "CBL-1", got.Items[1].ItemName)
	require.NotNil(t, got.ValidUntil)
	assert.Equal(t, 16, got.ValidUntil.Day())

	second, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, "QT-25-0002", second.QuotationNumber)
}

func TestCreateQuotationValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, request("nope"))
	assert.ErrorIs(t, err, domain.ErrInvalidLead)

	_, err = f.svc.Create(ctx, request("42"))
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)

	req := request(f.lead.ID.String())
	req.QuotationDate = ""
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	req = request(f.lead.ID.String())
	req.Items = nil
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmptyItems)

	req = request(f.lead.ID.String())
	req.Items[0].Quantity = 0
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, lineitem.ErrInvalidQuantity)
}

func TestReviseQuotation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v1, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, v1.ID.String(), domain.StatusSent)
	require.NoError(t, err)

	v2, err := f.svc.Revise(ctx, v1.ID.String())
	require.NoError(t, err)
	assert.Equal(t, v1.QuotationNumber, v2.QuotationNumber)
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, domain.StatusDraft, v2.Status)
	require.NotNil(t, v2.ParentID)
	assert.Equal(t, v1.ID, *v2.ParentID)
	require.Len(t, v2.Items, 2)
	assert.NotEqual(t, v1.Items[0].ID, v2.Items[0].ID)
	assert.Equal(t, v1.Items[0].Line, v2.Items[0].Line)

	// Revising an older version still takes the next free version.
	v3, err := f.svc.Revise(ctx, v1.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, v3.Version)

	stored, err := f.svc.GetByID(ctx, v1.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, stored.Status)
}

func TestUpdateQuotationStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, q.ID.String(), "won")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, "99", domain.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := f.svc.UpdateStatus(ctx, q.ID.String(), domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
}

func TestRenderQuotation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, err := f.svc.Create(ctx, request(f.lead.ID.String()))
	require.NoError(t, err)

	art, err := f.svc.Render(ctx, q.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "QT-25-0001.pdf", art.Filename)

	require.Len(t, f.docs.calls, 1)
	call := f.docs.calls[0]
	assert.Equal(t, "QT-25-0001", call.header.Number)
	assert.Equal(t, 1, call.header.Version)
	assert.Equal(t, 11800.0, call.header.TotalAmount)
	assert.Equal(t, "Ravi", call.customer.ContactPerson)
	assert.Equal(t, "Hyderabad", call.customer.City)
	require.Len(t, call.items, 2)
	assert.Equal(t, "SPK-1", call.items[0].Name)

	_, err = f.svc.Render(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateQuotationFillsLinesFromProducts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := request(f.lead.ID.String())
	req.Items = []lineitem.Input{
		{ProductID: f.product.ID.String(), Quantity: 2},
		{ProductID: f.product.ID.String(), Name: "TV-55 wall kit", Quantity: 1, UnitPrice: 50000},
	}
	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	require.Len(t, created.Items, 2)

	first := created.Items[0]
	assert.Equal(t, "TV-55", first.ItemName)
	assert.Equal(t, "55 inch display", first.Description)
	assert.Equal(t, "DISPLAY SYSTEM", first.Category)
	assert.Equal(t, "https://cdn.example.com/tv-55.png", first.ImageURL)
	assert.Equal(t, "pcs", first.Units)
	assert.Equal(t, 47200.0, first.UnitPrice)
	assert.Equal(t, 94400.0, first.Amount)
	require.NotNil(t, first.ProductID)
	assert.Equal(t, f.product.ID, *first.ProductID)

	second := created.Items[1]
	assert.Equal(t, "TV-55 wall kit", second.ItemName)
	assert.Equal(t, 50000.0, second.UnitPrice)
	assert.Equal(t, "55 inch display", second.Description)
	assert.Equal(t, 144400.0, created.TotalAmount)
}

func TestCreateQuotationRejectsUnknownProducts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := request(f.lead.ID.String())
	req.Items = []lineitem.Input{{ProductID: "not-a-product", Quantity: 1}}
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, lineitem.ErrInvalidProduct)

	req.Items = []lineitem.Input{{ProductID: "987654321", Quantity: 1}}
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, productdomain.ErrNotFound)
}
