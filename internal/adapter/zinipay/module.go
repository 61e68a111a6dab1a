package zinipay

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ffmarket/internal/config"
)

// Module exposes ZiniPay client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.ZiniPayBaseURL, p.Config.ZiniPayAPIKey, p.Logger)
}
