package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func attrMap(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestGinMiddlewareNamesSpanAfterRoute(t *testing.T) {
	recorder := recordSpans(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/api/invoices/:id/pdf", func(c *gin.Context) {
		c.Set("document_kind", "invoice")
		c.Status(http.StatusOK)
	})
	router.GET("/api/products/:id", func(c *gin.Context) {
		_ = c.Error(errors.New(" database down "))
		c.Status(http.StatusInternalServerError)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/invoices/42/pdf", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/7", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	pdf := spans[0]
	assert.Equal(t, "GET /api/invoices/:id/pdf", pdf.Name())
	attrs := attrMap(pdf)
	assert.Equal(t, "invoices", attrs["officecrm.resource"].AsString())
	assert.Equal(t, "invoice", attrs["document.kind"].AsString())
	assert.Equal(t, int64(200), attrs["http.status_code"].AsInt64())
	assert.Equal(t, codes.Unset, pdf.Status().Code)

	failed := spans[1]
	assert.Equal(t, "products", attrMap(failed)["officecrm.resource"].AsString())
	assert.Equal(t, codes.Error, failed.Status().Code)
	require.Len(t, failed.Events(), 1)
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "followups", resourceOf("/api/followups/:id/complete"))
	assert.Equal(t, "downloads", resourceOf("/downloads/*key"))
	assert.Equal(t, "", resourceOf("/metrics"))
	assert.Equal(t, "", resourceOf("unmatched"))
}
