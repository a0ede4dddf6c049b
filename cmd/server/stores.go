package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	billingservice "hotelchain/internal/billing/service"
	billinginvoice "hotelchain/internal/billing/store/invoice"
	billingpayment "hotelchain/internal/billing/store/payment"
	bookingservice "hotelchain/internal/booking/service"
	bookingstore "hotelchain/internal/booking/store/booking"
	reservationstore "hotelchain/internal/booking/store/reservation"
	identityservice "hotelchain/internal/identity/service"
	attemptstore "hotelchain/internal/identity/store/attempts"
	sessionstore "hotelchain/internal/identity/store/session"
	userstore "hotelchain/internal/identity/store/user"
	inventoryservice "hotelchain/internal/inventory/service"
	branchstore "hotelchain/internal/inventory/store/branch"
	roomstore "hotelchain/internal/inventory/store/room"
	roomtypestore "hotelchain/internal/inventory/store/roomtype"
	"hotelchain/internal/platform/config"
	"hotelchain/internal/platform/postgres"
	"hotelchain/internal/platform/redis"
	reportsservice "hotelchain/internal/reports/service"
	reportstore "hotelchain/internal/reports/store"
	"hotelchain/internal/web"
	audit "hotelchain/pkg/platform/audit"
	auditmemory "hotelchain/pkg/platform/audit/store/memory"
	auditpostgres "hotelchain/pkg/platform/audit/store/postgres"
	"hotelchain/pkg/platform/tx"
)

// bookingStore is the one booking table read by three contexts.
type bookingStore interface {
	bookingservice.BookingStore
	inventoryservice.BookingIndex
	billingservice.BookingReader
}

// stores is every persistence dependency, backed by Postgres and Redis or by
// process memory.
type stores struct {
	users        identityservice.UserStore
	sessions     identityservice.SessionStore
	attempts     identityservice.AttemptStore
	branches     inventoryservice.BranchStore
	types        inventoryservice.RoomTypeStore
	rooms        inventoryservice.RoomStore
	reservations bookingservice.ReservationStore
	bookings     bookingStore
	invoices     billingservice.InvoiceStore
	payments     billingservice.PaymentStore
	audit        audit.Store
	reports      reportsservice.Source
	tx           tx.Runner

	// Set only when DATABASE_URL is configured.
	db          *sql.DB
	reportsPool *pgxpool.Pool
	outbox      *auditpostgres.Store
	redis       *redis.Client
}

func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (*stores, error) {
	s, err := openRelational(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		s.close()
		return nil, err
	}
	if rc == nil {
		logger.InfoContext(ctx, "REDIS_URL not set, keeping sessions in memory")
		if s.sessions == nil {
			s.sessions = sessionstore.NewInMemory()
			s.attempts = attemptstore.NewInMemory()
		}
		return s, nil
	}
	s.redis = rc
	s.sessions = sessionstore.NewRedis(rc.Client)
	s.attempts = attemptstore.NewRedis(rc.Client)
	return s, nil
}

func openRelational(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	if cfg.URL == "" {
		logger.InfoContext(ctx, "DATABASE_URL not set, using in-memory stores")
		return memoryStores(), nil
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	pool, err := postgres.OpenReportsPool(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	outbox := auditpostgres.New(db)
	return &stores{
		users:        userstore.NewPostgres(db),
		branches:     branchstore.NewPostgres(db),
		types:        roomtypestore.NewPostgres(db),
		rooms:        roomstore.NewPostgres(db),
		reservations: reservationstore.NewPostgres(db),
		bookings:     bookingstore.NewPostgres(db),
		invoices:     billinginvoice.NewPostgres(db),
		payments:     billingpayment.NewPostgres(db),
		audit:        outbox,
		reports:      reportstore.NewPostgres(pool),
		tx:           tx.NewSQLRunner(db),
		db:           db,
		reportsPool:  pool,
		outbox:       outbox,
	}, nil
}

func memoryStores() *stores {
	users := userstore.NewInMemory()
	branches := branchstore.NewInMemory()
	types := roomtypestore.NewInMemory()
	rooms := roomstore.NewInMemory()
	bookings := bookingstore.NewInMemory()
	return &stores{
		users:        users,
		sessions:     sessionstore.NewInMemory(),
		attempts:     attemptstore.NewInMemory(),
		branches:     branches,
		types:        types,
		rooms:        rooms,
		reservations: reservationstore.NewInMemory(),
		bookings:     bookings,
		invoices:     billinginvoice.NewInMemory(),
		payments:     billingpayment.NewInMemory(),
		audit:        auditmemory.NewInMemoryStore(),
		reports:      reportstore.NewMemory(branches, users, rooms, types, bookings),
		tx:           tx.NewLockRunner(),
	}
}

func (s *stores) checks() map[string]web.HealthCheck {
	checks := make(map[string]web.HealthCheck)
	if s.db != nil {
		checks["postgres"] = s.db.PingContext
	}
	if s.reportsPool != nil {
		checks["reports_pool"] = s.reportsPool.Ping
	}
	if s.redis != nil {
		checks["redis"] = s.redis.Health
	}
	return checks
}

func (s *stores) close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.reportsPool != nil {
		s.reportsPool.Close()
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
