package redis

import (
	"testing"

	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestNewClientOnlyWhenUsed(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := config.Config{Numbering: config.NumberingConfig{Backend: config.NumberingDatabase}}
	assert.Nil(t, NewClient(lc, cfg, zap.NewNop()))

	cfg.Redis.Addr = " localhost:6390 "
	cfg.Redis.DB = 2
	cfg.Numbering.Backend = config.NumberingRedis
	client := NewClient(lc, cfg, zap.NewNop())
	require.NotNil(t, client)
	assert.Equal(t, "localhost:6390", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)

	lc.RequireStart()
	lc.RequireStop()
}

func TestEnabled(t *testing.T) {
	assert.False(t, Enabled(config.Config{}))
	assert.True(t, Enabled(config.Config{RateLimit: config.RateLimitConfig{RenderRate: 5}}))
	assert.True(t, Enabled(config.Config{Numbering: config.NumberingConfig{Backend: config.NumberingRedis}}))
}
