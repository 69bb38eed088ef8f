package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/repository"
)

// DefaultTimeout bounds a single repository call.
const DefaultTimeout = 30 * time.Second

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool    pgxPool
	logger  *slog.Logger
	timeout time.Duration
}

type orderRepository struct {
	storage *Storage
}

type expenseRepository struct {
	storage *Storage
}

type goalRepository struct {
	storage *Storage
}

type dashboardRepository struct {
	storage *Storage
}

type shipmentRepository struct {
	storage *Storage
}

// New connects to PostgreSQL and prepares the schema.
func New(ctx context.Context, dsn string, timeout time.Duration, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cfg.ConnConfig.ConnectTimeout = timeout
	cfg.MaxConnIdleTime = timeout

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger, timeout: timeout}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Expenses() repository.ExpenseRepository {
	return &expenseRepository{storage: s}
}

func (s *Storage) Goals() repository.GoalRepository {
	return &goalRepository{storage: s}
}

func (s *Storage) Dashboard() repository.DashboardRepository {
	return &dashboardRepository{storage: s}
}

func (s *Storage) Shipments() repository.ShipmentRepository {
	return &shipmentRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            order_number BIGSERIAL UNIQUE NOT NULL,
            customer_name TEXT NOT NULL,
            street TEXT NOT NULL,
            city TEXT NOT NULL,
            phone_number TEXT NOT NULL,
            total_price NUMERIC(12,2) NOT NULL CHECK (total_price >= 0),
            notes TEXT,
            timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            status TEXT NOT NULL DEFAULT 'New' CHECK (status IN ('New', 'Accepted', 'Done')),
            tracking_code TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS attachments (
            id UUID PRIMARY KEY,
            order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            type TEXT NOT NULL CHECK (type IN ('image', 'document')),
            url TEXT NOT NULL,
            name TEXT NOT NULL,
            object_key TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS expenses (
            id UUID PRIMARY KEY,
            description TEXT NOT NULL,
            amount NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
            date DATE NOT NULL,
            timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            notes TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS goal_tracker (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            goal_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
            current_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
            image_url TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS shipment_requests (
            order_id UUID PRIMARY KEY REFERENCES orders(id) ON DELETE CASCADE,
            payload JSONB NOT NULL,
            attempts INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            booked_reference TEXT,
            next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`ALTER TABLE shipment_requests ADD COLUMN IF NOT EXISTS booked_reference TEXT`,
		`CREATE INDEX IF NOT EXISTS idx_orders_timestamp ON orders(timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_attachments_order ON attachments(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_timestamp ON expenses(timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_shipment_requests_due ON shipment_requests(next_attempt_at)`,
		`INSERT INTO goal_tracker (name)
            SELECT 'Savings goal' WHERE NOT EXISTS (SELECT 1 FROM goal_tracker)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

// translate maps driver errors onto the domain taxonomy.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	for _, known := range []error{
		domainErrors.ErrValidation,
		domainErrors.ErrNotFound,
		domainErrors.ErrPermission,
		domainErrors.ErrPersistence,
		domainErrors.ErrTimeout,
	} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domainErrors.ErrNotFound)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, domainErrors.ErrTimeout)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "23514", "22P02", "22003":
			return fmt.Errorf("%s: %w: %s", op, domainErrors.ErrValidation, pgErr.Message)
		case "23503":
			return fmt.Errorf("%s: %w", op, domainErrors.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w: %w", op, domainErrors.ErrPersistence, err)
}

// parseMoney converts a NUMERIC column selected as text.
func parseMoney(column, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: column %s holds non-numeric value %q", domainErrors.ErrPersistence, column, raw)
	}
	return d, nil
}

func idStrings[T fmt.Stringer](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
