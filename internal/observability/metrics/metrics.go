package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	documentsGenerated metric.Int64Counter
	documentPages      metric.Int64Histogram
	imageFetchFailures metric.Int64Counter
	numberingFallbacks metric.Int64Counter
	totalsMismatches   metric.Int64Counter
	paymentsRecorded   metric.Int64Counter
	paymentsDeleted    metric.Int64Counter
	jobRuns            metric.Int64Counter
	jobDuration        metric.Float64Histogram
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "officecrm"
	}
	meter := provider.Meter(name)

	documentsGenerated, err := meter.Int64Counter("officecrm_documents_generated_total")
	if err != nil {
		return nil, err
	}
	documentPages, err := meter.Int64Histogram("officecrm_document_pages")
	if err != nil {
		return nil, err
	}
	imageFetchFailures, err := meter.Int64Counter("officecrm_image_fetch_failures_total")
	if err != nil {
		return nil, err
	}
	numberingFallbacks, err := meter.Int64Counter("officecrm_numbering_fallbacks_total")
	if err != nil {
		return nil, err
	}
	totalsMismatches, err := meter.Int64Counter("officecrm_document_totals_mismatch_total")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("officecrm_payments_recorded_total")
	if err != nil {
		return nil, err
	}
	paymentsDeleted, err := meter.Int64Counter("officecrm_payments_deleted_total")
	if err != nil {
		return nil, err
	}
	jobRuns, err := meter.Int64Counter("officecrm_scheduler_job_runs_total")
	if err != nil {
		return nil, err
	}
	jobDuration, err := meter.Float64Histogram("officecrm_scheduler_job_duration_seconds", metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		documentsGenerated: documentsGenerated,
		documentPages:      documentPages,
		imageFetchFailures: imageFetchFailures,
		numberingFallbacks: numberingFallbacks,
		totalsMismatches:   totalsMismatches,
		paymentsRecorded:   paymentsRecorded,
		paymentsDeleted:    paymentsDeleted,
		jobRuns:            jobRuns,
		jobDuration:        jobDuration,
	}, nil
}

// NewNoop returns instruments backed by the noop provider, for tests and tools.
func NewNoop() *Metrics {
	m, _ := New(Config{}, noop.NewMeterProvider())
	return m
}

// RecordDocumentGenerated counts a rendered document and its page count.
func (m *Metrics) RecordDocumentGenerated(ctx context.Context, kind string, pages int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.documentsGenerated.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.documentPages.Record(ctx, int64(pages), metric.WithAttributes(attrs...))
}

// RecordImageFetchFailure counts an image that was left out of a document.
func (m *Metrics) RecordImageFetchFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.imageFetchFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordNumberingFallback counts a document number synthesized locally.
func (m *Metrics) RecordNumberingFallback(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.numberingFallbacks.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordTotalsMismatch counts documents whose persisted total disagrees with
// the total re-derived from their line items.
func (m *Metrics) RecordTotalsMismatch(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.totalsMismatches.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPayment counts a recorded payment by mode.
func (m *Metrics) RecordPayment(ctx context.Context, mode string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("mode", strings.TrimSpace(mode)))
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPaymentDeleted counts a deleted payment.
func (m *Metrics) RecordPaymentDeleted(ctx context.Context, mode string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("mode", strings.TrimSpace(mode)))
	m.paymentsDeleted.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordJobRun counts a scheduler job run by outcome and observes its
// duration.
func (m *Metrics) RecordJobRun(ctx context.Context, job, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("job", strings.TrimSpace(job)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.jobRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.jobDuration.Record(ctx, d.Seconds(), metric.WithAttributes(FilterAttributes(attribute.String("job", job))...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"kind":        {},
	"mode":        {},
	"job":         {},
	"outcome":     {},
	"reason":      {},
	"status_code": {},
	"route":       {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
