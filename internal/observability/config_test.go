package observability

import (
	"testing"
	"time"

	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFromAppConfig(t *testing.T) {
	cfg := LoadConfig(config.Config{
		Environment: " Production ",
		LogLevel:    "WARN",
		Telemetry: config.TelemetryConfig{
			Endpoint:      "otel:4317",
			Protocol:      "grpc",
			SamplingRatio: 4,
			SlowQuery:     -time.Second,
		},
	})

	assert.Equal(t, "officecrm", cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "otel:4317", cfg.Telemetry.Endpoint)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.Zero(t, cfg.SlowQuery())
	assert.False(t, cfg.Debug())
}

func TestDebugInDevelopment(t *testing.T) {
	assert.True(t, Config{Environment: "development", LogLevel: "info"}.Debug())
	assert.True(t, Config{Environment: "production", LogLevel: "debug"}.Debug())
	assert.False(t, Config{Environment: "staging", LogLevel: "info"}.Debug())
}
