package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/polkiloo/ffmarket/internal/config"
)

// New creates a preconfigured slog.Logger. Development builds log at debug level.
func New(cfg *config.Config) *slog.Logger {
	return newWithWriter(os.Stdout, cfg)
}

func newWithWriter(w io.Writer, cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Environment == config.EnvDevelopment {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("service", "ffmarket-payment"))
}
