package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/PankiTrejd/naracki/internal/config"
	"github.com/PankiTrejd/naracki/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.Factory { return s },
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.ExpenseRepository { return s.Expenses() },
		func(s *Storage) repository.GoalRepository { return s.Goals() },
		func(s *Storage) repository.DashboardRepository { return s.Dashboard() },
		func(s *Storage) repository.ShipmentRepository { return s.Shipments() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Config.DBTimeout, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Logger().Info("closing database pool")
			storage.Close()
			return nil
		},
	})
}
