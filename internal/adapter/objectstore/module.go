package objectstore

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/PankiTrejd/naracki/internal/config"
)

// Module exposes the attachment store to fx graph.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (Store, error) {
	if !p.Config.Spaces.Enabled() {
		p.Logger.Warn("attachment storage disabled, uploads will be rejected")
		return DisabledStore{}, nil
	}
	return NewS3Store(p.Config.Spaces, p.Logger)
}
