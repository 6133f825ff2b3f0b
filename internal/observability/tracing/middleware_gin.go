package tracing

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/officecrm/internal/observability/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "officecrm/http"

// GinMiddleware opens a server span per request. The span is named after the
// matched route and tagged with the record family and any rendered document
// kind; request bodies never reach it.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)
	return func(c *gin.Context) {
		method := strings.ToUpper(c.Request.Method)
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		if id := logger.RequestIDFromContext(ctx); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		span.SetName(method + " " + route)

		status := c.Writer.Status()
		attrs := []attribute.KeyValue{
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		}
		if resource := resourceOf(route); resource != "" {
			attrs = append(attrs, attribute.String("officecrm.resource", resource))
		}
		if kind := strings.TrimSpace(c.GetString("document_kind")); kind != "" {
			attrs = append(attrs, attribute.String("document.kind", kind))
		}
		span.SetAttributes(SafeAttributes(attrs...)...)

		if status < http.StatusInternalServerError {
			return
		}
		if last := c.Errors.Last(); last != nil {
			if err := SafeError(last.Err); err != nil {
				span.RecordError(err)
			}
		}
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

// resourceOf maps /api/invoices/:id/pdf to invoices.
func resourceOf(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	switch {
	case len(parts) >= 2 && parts[0] == "api":
		return parts[1]
	case len(parts) >= 1 && parts[0] == "downloads":
		return "downloads"
	}
	return ""
}
