package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"hotelchain/internal/audit"
	billinghandler "hotelchain/internal/billing/handler"
	billingmetrics "hotelchain/internal/billing/metrics"
	billingservice "hotelchain/internal/billing/service"
	bookinghandler "hotelchain/internal/booking/handler"
	bookingmetrics "hotelchain/internal/booking/metrics"
	bookingservice "hotelchain/internal/booking/service"
	identityhandler "hotelchain/internal/identity/handler"
	identitymetrics "hotelchain/internal/identity/metrics"
	identityservice "hotelchain/internal/identity/service"
	"hotelchain/internal/identity/sessiontoken"
	inventoryhandler "hotelchain/internal/inventory/handler"
	inventoryservice "hotelchain/internal/inventory/service"
	"hotelchain/internal/platform/config"
	"hotelchain/internal/platform/httpserver"
	"hotelchain/internal/platform/kafka"
	"hotelchain/internal/platform/logger"
	"hotelchain/internal/platform/metrics"
	reportshandler "hotelchain/internal/reports/handler"
	reportsservice "hotelchain/internal/reports/service"
	"hotelchain/internal/web"
	"hotelchain/internal/web/render"
	"hotelchain/pkg/platform/audit/worker"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

type application struct {
	identity  *identityservice.Service
	inventory *inventoryservice.Service
	booking   *bookingservice.Service
	billing   *billingservice.Service
	reports   *reportsservice.Service
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Error("failed to close stores", "error", err)
		}
	}()

	producer, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("connect kafka: %w", err)
	}
	if producer != nil {
		defer producer.Close()
	}

	reg := prometheus.DefaultRegisterer
	app := buildServices(cfg, st, reg, log)

	if cfg.Seed.AdminEmail != "" {
		if err := app.identity.SeedAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	if err := app.inventory.SeedRoomTypes(ctx); err != nil {
		return fmt.Errorf("seed room types: %w", err)
	}

	rd, err := render.New(log)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	checks := st.checks()
	if producer != nil {
		checks["kafka"] = producer.Health
	}
	router := buildRouter(cfg, app, rd, log, metrics.NewWithRegisterer(reg), checks)
	srv := httpserver.New(cfg.Server, router)

	var relay *worker.Relay
	if producer != nil && st.outbox != nil {
		if err := producer.EnsureTopic(ctx); err != nil {
			return fmt.Errorf("ensure audit topic: %w", err)
		}
		relay = worker.NewRelay(st.outbox, kafkaSink{producer}, st.tx, log,
			worker.WithBatchSize(cfg.Kafka.RelayBatch),
			worker.WithPeriod(cfg.Kafka.RelayPeriod),
		)
	} else {
		log.Info("audit relay disabled", "kafka", producer != nil, "outbox", st.outbox != nil)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting hotel chain server", "addr", cfg.Server.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if relay != nil {
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// buildServices shares one transaction runner and one audit publisher across
// every context so cross-context calls join the caller's transaction.
func buildServices(cfg config.Config, st *stores, reg prometheus.Registerer, log *slog.Logger) *application {
	auditor := audit.NewPublisher(st.audit, log)

	inventory := inventoryservice.New(st.branches, st.types, st.rooms, st.bookings,
		inventoryservice.WithLogger(log),
		inventoryservice.WithAuditPublisher(auditor),
		inventoryservice.WithTx(st.tx),
		inventoryservice.WithStaffCounter(branchStaff{st.users}),
	)
	identity := identityservice.New(st.users, st.sessions, st.attempts, sessiontoken.NewSigner(cfg.Session.SigningKey),
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(auditor),
		identityservice.WithMetrics(identitymetrics.New(reg)),
		identityservice.WithBranchChecker(inventory),
		identityservice.WithGuestHistory(guestHistory{st.reservations, st.bookings, st.invoices}),
		identityservice.WithTx(st.tx),
		identityservice.WithSessionTTL(cfg.Session.TTL),
		identityservice.WithLockout(cfg.Session.LockoutAttempts, cfg.Session.LockoutWindow),
	)
	billing := billingservice.New(st.invoices, st.payments, st.bookings, inventory, identity,
		billingservice.WithLogger(log),
		billingservice.WithAuditPublisher(auditor),
		billingservice.WithMetrics(billingmetrics.New(reg)),
		billingservice.WithTx(st.tx),
	)
	booking := bookingservice.New(st.reservations, st.bookings, inventory, billing, identity,
		bookingservice.WithLogger(log),
		bookingservice.WithAuditPublisher(auditor),
		bookingservice.WithMetrics(bookingmetrics.New(reg)),
		bookingservice.WithTx(st.tx),
	)
	return &application{
		identity:  identity,
		inventory: inventory,
		booking:   booking,
		billing:   billing,
		reports:   reportsservice.New(st.reports, reportsservice.WithLogger(log)),
	}
}

func buildRouter(cfg config.Config, app *application, rd *render.Renderer, log *slog.Logger, m *metrics.Metrics, checks map[string]web.HealthCheck) http.Handler {
	return web.NewRouter(web.RouterConfig{
		Logger:         log,
		Authenticator:  app.identity,
		Metrics:        m,
		RequestTimeout: cfg.Server.RequestTimeout,
		Checks:         checks,
	},
		identityhandler.New(app.identity, app.inventory, rd, log, cfg.Session.SecureCookie),
		inventoryhandler.New(app.inventory, rd, log),
		bookinghandler.New(app.booking, app.inventory, rd, log),
		billinghandler.New(app.billing, app.booking, rd, log),
		reportshandler.New(app.reports, rd, log),
	)
}

// kafkaSink adapts the producer to the relay.
type kafkaSink struct {
	producer *kafka.Producer
}

func (s kafkaSink) Publish(ctx context.Context, records ...worker.Record) error {
	msgs := make([]kafka.Message, 0, len(records))
	for _, r := range records {
		msgs = append(msgs, kafka.Message{Key: r.Key, Value: r.Value, Headers: r.Headers})
	}
	return s.producer.Publish(ctx, msgs...)
}
