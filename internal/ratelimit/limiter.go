package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/officecrm/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const renderKeyPrefix = "officecrm:ratelimit:render:"

// Limiter decides whether a client may render another document.
type Limiter interface {
	Allow(ctx context.Context, client string) (*Result, error)
}

// RenderLimiter applies one shared token bucket configuration per client.
type RenderLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

type Params struct {
	fx.In

	Config config.Config
	Redis  *redis.Client `optional:"true"`
	Log    *zap.Logger
}

// NewRenderLimiter returns nil when limiting is disabled or redis is not
// available. Callers treat a nil Limiter as "always allow".
func NewRenderLimiter(p Params) Limiter {
	cfg := p.Config.RateLimit
	if cfg.RenderRate <= 0 {
		return nil
	}
	if p.Redis == nil {
		p.Log.Warn("render rate limit configured without redis, limiting disabled")
		return nil
	}
	return newRenderLimiter(NewTokenBucket(p.Redis), cfg)
}

func newRenderLimiter(bucket *TokenBucket, cfg config.RateLimitConfig) *RenderLimiter {
	burst := cfg.RenderBurst
	if burst <= 0 {
		burst = 1
	}
	return &RenderLimiter{bucket: bucket, rate: cfg.RenderRate, burst: burst}
}

func (l *RenderLimiter) Allow(ctx context.Context, client string) (*Result, error) {
	if client == "" {
		return nil, ErrEmptyKey
	}
	return l.bucket.Allow(ctx, renderKeyPrefix+client, l.rate, l.burst)
}
