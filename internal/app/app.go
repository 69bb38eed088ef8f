package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/PankiTrejd/naracki/internal/config"
	"github.com/PankiTrejd/naracki/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewOperationsFacade,
		newHTTPServer,
		newShipmentDispatcher,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade   worker.ShipmentFacade
	Recorder worker.BookingRecorder
	Config   *config.Config
	Logger   *slog.Logger
}

func newShipmentDispatcher(p workerParams) *worker.ShipmentDispatcher {
	return worker.NewShipmentDispatcher(
		p.Facade,
		p.Recorder,
		p.Config.Courier.PollInterval,
		p.Config.Courier.BatchSize,
		p.Config.Courier.Workers,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.ShipmentDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	dispatch := p.Config.Courier.Enabled()

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting naracki",
				slog.String("addr", p.Server.Addr),
				slog.Bool("courier", dispatch),
				slog.Bool("storage", p.Config.Spaces.Enabled()),
			)
			if dispatch {
				p.Dispatcher.Start(context.WithoutCancel(ctx))
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if dispatch {
				p.Dispatcher.Stop()
			}

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("naracki stopped")
			return nil
		},
	})
}
