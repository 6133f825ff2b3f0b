package observability

import (
	"slices"
	"strings"
	"time"

	"github.com/smallbiznis/officecrm/internal/config"
)

var devEnvironments = []string{"dev", "development", "local", "test"}

// Config is the part of the application config the telemetry stack reads.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string

	Telemetry config.TelemetryConfig
}

func LoadConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = "officecrm"
	}
	telemetry := cfg.Telemetry
	if telemetry.SamplingRatio < 0 || telemetry.SamplingRatio > 1 {
		telemetry.SamplingRatio = 1
	}
	return Config{
		ServiceName: name,
		Environment: strings.ToLower(strings.TrimSpace(cfg.Environment)),
		Version:     strings.TrimSpace(cfg.AppVersion),
		LogLevel:    strings.ToLower(strings.TrimSpace(cfg.LogLevel)),
		LogFormat:   strings.ToLower(strings.TrimSpace(cfg.LogFormat)),
		Telemetry:   telemetry,
	}
}

// Debug turns on verbose request and query logs.
func (c Config) Debug() bool {
	return c.LogLevel == "debug" || slices.Contains(devEnvironments, c.Environment)
}

// SlowQuery is the warn threshold for SQL statements; zero disables it.
func (c Config) SlowQuery() time.Duration {
	if c.Telemetry.SlowQuery < 0 {
		return 0
	}
	return c.Telemetry.SlowQuery
}
