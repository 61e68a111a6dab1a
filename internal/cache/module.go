package cache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ffmarket/internal/config"
)

// Module provides order status cache. Without REDIS_ADDR the cache is disabled.
var Module = fx.Provide(newStatusCache)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newStatusCache(p cacheParams) StatusCache {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("status cache disabled")
		return Nop{}
	}

	store := NewRedis(p.Config.RedisAddr, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Ping(ctx); err != nil {
				p.Logger.Warn("redis unreachable, serving from database", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store
}
