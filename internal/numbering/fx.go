package numbering

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/officecrm/internal/clock"
	"github.com/smallbiznis/officecrm/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("numbering",
	fx.Provide(provideAuthority),
	fx.Provide(NewGenerator),
)

type authorityParams struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Clock  clock.Clock
	Log    *zap.Logger
	Redis  *redis.Client `optional:"true"`
}

func provideAuthority(p authorityParams) Authority {
	switch p.Config.Numbering.Backend {
	case config.NumberingRedis:
		return NewRedisAuthority(p.Redis, p.Clock)
	case config.NumberingNone:
		p.Log.Info("numbering authority disabled, numbers use the local fallback")
		return nil
	default:
		return NewSequenceAuthority(p.DB, p.Clock)
	}
}
