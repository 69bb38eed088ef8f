package di

import (
	"go.uber.org/fx"

	"github.com/PankiTrejd/naracki/internal/adapter/courier"
	"github.com/PankiTrejd/naracki/internal/adapter/objectstore"
	"github.com/PankiTrejd/naracki/internal/app"
	"github.com/PankiTrejd/naracki/internal/config"
	"github.com/PankiTrejd/naracki/internal/logger"
	"github.com/PankiTrejd/naracki/internal/metrics"
	"github.com/PankiTrejd/naracki/internal/pkg/auth"
	"github.com/PankiTrejd/naracki/internal/server/http/handlers"
	"github.com/PankiTrejd/naracki/internal/server/http/router"
	"github.com/PankiTrejd/naracki/internal/storage/postgres"
	"github.com/PankiTrejd/naracki/internal/usecase"
	"github.com/PankiTrejd/naracki/internal/worker"
)

// Module composes the whole service graph. Extra options are appended last so
// tests can replace any dependency.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		objectstore.Module,
		courier.Module,
		usecase.Module,
		fx.Provide(
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(m *metrics.Metrics) app.OrderCounter { return m },
			func(m *metrics.Metrics) worker.BookingRecorder { return m },
			func(f *app.OperationsFacade) handlers.OperationsFacade { return f },
			func(f *app.OperationsFacade) worker.ShipmentFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
