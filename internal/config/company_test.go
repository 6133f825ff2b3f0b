package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCompanyDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	company, err := LoadCompany()
	require.NoError(t, err)
	assert.Equal(t, DefaultCompany(), company)
}

func TestLoadCompanyFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yml := []byte(`company:
  name: ACME AUDIO
  gstin: 29AAAAA0000A1Z5
  bank:
    ifsc: HDFC0000001
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "company.yml"), yml, 0o600))

	company, err := LoadCompany()
	require.NoError(t, err)
	assert.Equal(t, "ACME AUDIO", company.Name)
	assert.Equal(t, "29AAAAA0000A1Z5", company.GSTIN)
	assert.Equal(t, "HDFC0000001", company.Bank.IFSC)
	assert.Equal(t, DefaultCompany().Bank.Branch, company.Bank.Branch)
	assert.Equal(t, "NISSI", company.Wordmark.Title)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("NUMBERING_BACKEND", "REDIS")
	t.Setenv("DOCUMENT_IMAGE_TIMEOUT", "1500ms")
	t.Setenv("STORAGE_PUBLIC_BASE_URL", "https://cdn.example.com/docs/")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "HTTP/protobuf")
	t.Setenv("DATABASE_SLOW_QUERY", "1s")

	cfg := Load()
	assert.Equal(t, NumberingRedis, cfg.Numbering.Backend)
	assert.Equal(t, int64(1500), cfg.Document.ImageTimeout.Milliseconds())
	assert.Equal(t, "https://cdn.example.com/docs", cfg.Storage.PublicBaseURL)
	assert.Equal(t, "http/protobuf", cfg.Telemetry.Protocol)
	assert.Equal(t, time.Second, cfg.Telemetry.SlowQuery)
}
