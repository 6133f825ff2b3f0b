package artifact

import (
	"context"

	"github.com/smallbiznis/officecrm/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("artifact.store",
	fx.Provide(New),
)

// New selects the backend named by the storage configuration.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Store, error) {
	if cfg.Storage.Backend == config.StorageMinio {
		store, err := NewMinio(cfg.Storage, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return store.EnsureBucket(ctx)
			},
		})
		return store, nil
	}

	store, err := NewLocalDir(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	log.Named("artifact").Info("using local artifact store", zap.String("dir", cfg.Storage.LocalDir))
	return store, nil
}
