package courier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/PankiTrejd/naracki/internal/config"
)

// Module exposes the courier client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	cfg := p.Config.Courier
	if !cfg.Enabled() {
		p.Logger.Info("courier integration disabled")
		return DisabledClient{}, nil
	}
	return NewHTTPClient(cfg.URL, cfg.Token, Options{Timeout: cfg.Timeout, RatePerSec: cfg.RatePerSec}, p.Logger)
}
