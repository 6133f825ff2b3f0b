package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/officecrm/internal/observability/logger"
	"github.com/smallbiznis/officecrm/internal/observability/metrics"
	"github.com/smallbiznis/officecrm/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideTracingConfig,
		tracing.NewProvider,
		provideMetricsConfig,
		metrics.NewProvider,
		metrics.New,
		providePrometheusRegisterer,
		metrics.NewHTTPMetrics,
		provideGormLogger,
		provideMiddlewareConfig,
	),
	fx.Invoke(ensureTracingProvider),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}

func providePrometheusRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

func provideTracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Telemetry.Enabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.Telemetry.Endpoint,
		ExporterProtocol: cfg.Telemetry.Protocol,
		SamplingRatio:    cfg.Telemetry.SamplingRatio,
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.Telemetry.Enabled,
		ExporterEndpoint: cfg.Telemetry.Endpoint,
		ExporterProtocol: cfg.Telemetry.Protocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
	}
}

func provideGormLogger(cfg Config, log *zap.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if cfg.Debug() {
		level = gormlogger.Info
	}
	return logger.NewGormLogger(log, level, cfg.SlowQuery())
}

func provideMiddlewareConfig(cfg Config) logger.MiddlewareConfig {
	return logger.MiddlewareConfig{Debug: cfg.Debug()}
}
