package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ffmarket/internal/adapter/zinipay"
	"github.com/polkiloo/ffmarket/internal/app"
	"github.com/polkiloo/ffmarket/internal/cache"
	"github.com/polkiloo/ffmarket/internal/config"
	"github.com/polkiloo/ffmarket/internal/events"
	"github.com/polkiloo/ffmarket/internal/logger"
	"github.com/polkiloo/ffmarket/internal/pkg/auth"
	"github.com/polkiloo/ffmarket/internal/server/http/router"
	"github.com/polkiloo/ffmarket/internal/storage/postgres"
	"github.com/polkiloo/ffmarket/internal/usecase"
)

// Module assembles the payment service graph. Extra options are appended
// last so callers can replace or decorate any component.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		zinipay.Module,
		cache.Module,
		events.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
