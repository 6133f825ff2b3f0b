// Package redis provides the shared redis client used by the numbering
// authority and the render rate limiter.
package redis

import (
	"context"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/officecrm/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("redis",
	fx.Provide(NewClient),
)

// Enabled reports whether any configured component talks to redis.
func Enabled(cfg config.Config) bool {
	return cfg.Numbering.Backend == config.NumberingRedis || cfg.RateLimit.RenderRate > 0
}

// NewClient returns nil when nothing is configured to use redis. The client
// is closed when the app stops.
func NewClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *goredis.Client {
	if !Enabled(cfg) {
		return nil
	}

	addr := strings.TrimSpace(cfg.Redis.Addr)
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Redis.Password),
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Info("closing redis connection", zap.String("addr", addr))
			return client.Close()
		},
	})
	return client
}
