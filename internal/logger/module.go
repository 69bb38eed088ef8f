package logger

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/PankiTrejd/naracki/internal/config"
)

// Module wires slog logger for dependency injection.
var Module = fx.Options(
	fx.Provide(func(cfg *config.Config) *slog.Logger { return New(cfg.LogLevel) }),
	fx.WithLogger(FxLogger),
)
