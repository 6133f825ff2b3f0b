package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/document/images"
	"github.com/smallbiznis/officecrm/internal/document/render"
	"github.com/smallbiznis/officecrm/internal/observability/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 255, G: 102, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fixture struct {
	svc    domain.Service
	logs   *observer.ObservedLogs
	server *httptest.Server
	hits   *atomic.Int64
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	data := pngBytes(t)
	hits := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	company := config.DefaultCompany()
	company.LogoURL = srv.URL + "/logo.png"

	svc := New(Params{
		Company:  company,
		Renderer: render.New(company),
		Images:   images.New(images.Params{Config: config.Config{}, Log: log}),
		Log:      log,
		Metrics:  metrics.NewNoop(),
	})
	return fixture{svc: svc, logs: logs, server: srv, hits: hits}
}

func header(number string, total float64) domain.Header {
	return domain.Header{
		Number:      number,
		Version:     1,
		Date:        time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		TotalAmount: total,
	}
}

func items(imageURL string) []domain.LineItem {
	return []domain.LineItem{
		{Name: "SPK-1", Category: "SOUND SYSTEM", Quantity: 2, UnitPrice: 1000, Amount: 2000, ImageURL: imageURL},
		{Name: "TV-1", Category: "ELECTRONICS", Quantity: 1, UnitPrice: 3000, Amount: 3000},
		{Name: "CBL-1", Category: "", Quantity: 1, UnitPrice: 900, Amount: 900},
	}
}

func TestBuildQuotationDocument(t *testing.T) {
	f := newFixture(t)

	art, err := f.svc.BuildQuotationDocument(context.Background(), header("QT-25-0001", 5900), domain.Customer{ContactPerson: "Ravi"}, items(f.server.URL+"/spk.png"))
	require.NoError(t, err)

	assert.Equal(t, domain.KindQuotation, art.Kind)
	assert.Equal(t, "QT-25-0001.pdf", art.Filename)
	assert.Equal(t, domain.ContentTypePDF, art.ContentType)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF")))
	assert.GreaterOrEqual(t, art.Pages, 1)
	assert.InDelta(t, 5900, art.GrandTotal, 0.001)
	assert.InDelta(t, 5000, art.Breakdown.Taxable, 0.01)
	assert.Equal(t, int64(2), f.hits.Load())
	assert.Zero(t, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestBuildInvoiceDocumentSkipsItemImages(t *testing.T) {
	f := newFixture(t)

	h := header("INV-25-0001", 5900)
	h.PaidAmount = 1000
	art, err := f.svc.BuildInvoiceDocument(context.Background(), h, domain.Customer{CompanyName: "Acme"}, items(f.server.URL+"/spk.png"))
	require.NoError(t, err)

	assert.Equal(t, domain.KindInvoice, art.Kind)
	assert.Equal(t, "INV-25-0001.pdf", art.Filename)
	// Only the logo is fetched for invoices.
	assert.Equal(t, int64(1), f.hits.Load())
}

func TestBuildDocumentContinuesWithoutImages(t *testing.T) {
	f := newFixture(t)

	art, err := f.svc.BuildQuotationDocument(context.Background(), header("QT-25-0002", 0), domain.Customer{}, items(f.server.URL+"/missing.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF")))
	assert.Equal(t, 1, f.logs.FilterMessage("image fetch failed, continuing without it").Len())
}

func TestBuildDocumentWarnsOnTotalsMismatch(t *testing.T) {
	f := newFixture(t)

	art, err := f.svc.BuildQuotationDocument(context.Background(), header("QT-25-0003", 6000), domain.Customer{}, items(""))
	require.NoError(t, err)
	assert.InDelta(t, 5900, art.GrandTotal, 0.001)

	warns := f.logs.FilterMessage("document total differs from line items").All()
	require.Len(t, warns, 1)
	assert.Equal(t, "QT-25-0003", warns[0].ContextMap()["number"])
}

func TestBuildDocumentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.BuildQuotationDocument(ctx, header("", 0), domain.Customer{}, items(""))
	assert.ErrorIs(t, err, domain.ErrMissingNumber)

	h := header("QT-25-0004", 0)
	h.Date = time.Time{}
	_, err = f.svc.BuildQuotationDocument(ctx, h, domain.Customer{}, items(""))
	assert.ErrorIs(t, err, domain.ErrMissingDate)

	h = header("QT-25-0004", 0)
	h.Version = 0
	_, err = f.svc.BuildInvoiceDocument(ctx, h, domain.Customer{}, items(""))
	assert.ErrorIs(t, err, domain.ErrInvalidVersion)

	_, err = f.svc.BuildInvoiceDocument(ctx, header("INV-25-0004", 0), domain.Customer{}, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyItems)
	assert.Zero(t, f.hits.Load())
}
