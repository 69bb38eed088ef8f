package di

import (
	"context"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/PankiTrejd/naracki/internal/adapter/courier"
	"github.com/PankiTrejd/naracki/internal/adapter/objectstore"
	"github.com/PankiTrejd/naracki/internal/app"
	"github.com/PankiTrejd/naracki/internal/config"
	"github.com/PankiTrejd/naracki/internal/domain/repository"
	"github.com/PankiTrejd/naracki/internal/server/http/handlers"
	"github.com/PankiTrejd/naracki/internal/storage/postgres"
	"github.com/PankiTrejd/naracki/internal/test"
	"github.com/PankiTrejd/naracki/internal/worker"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		ShutdownTimeout: time.Millisecond,
		MaxBodyBytes:    1 << 20,
		CORSOrigins:     []string{"http://localhost:3000"},
		Auth:            config.AuthConfig{Secret: "secret", TokenTTL: time.Hour},
		Courier:         config.CourierConfig{PollInterval: time.Millisecond, Workers: 1, BatchSize: 1, MaxAttempts: 1},
	}

	var (
		facade     *app.OperationsFacade
		httpFacade handlers.OperationsFacade
		dispatch   worker.ShipmentFacade
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(test.NopLogger()),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(&test.OrderRepositoryStub{})),
			fx.Replace(repository.ExpenseRepository(test.NewExpenseRepositoryStub())),
			fx.Replace(repository.GoalRepository(&test.GoalRepositoryStub{})),
			fx.Replace(repository.DashboardRepository(&test.DashboardRepositoryStub{})),
			fx.Replace(repository.ShipmentRepository(&test.ShipmentRepositoryStub{})),
			fx.Replace(objectstore.Store(&test.FileStoreStub{})),
			fx.Replace(courier.Client(&test.CourierStub{})),
		),
		fx.Populate(&facade, &httpFacade, &dispatch),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || httpFacade == nil || dispatch == nil {
		t.Fatal("expected facades to be populated")
	}
	if httpFacade.AuthEnabled() {
		t.Fatal("expected auth to be disabled without a password hash")
	}
}
