package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"hotelchain/internal/reports/models"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	"hotelchain/pkg/requestcontext"
)

var tracer = otel.Tracer("hotelchain/reports")

// Source supplies the raw chain-wide figures.
type Source interface {
	CountBranches(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)
	CountBookings(ctx context.Context) (int, error)
	Revenue(ctx context.Context) (id.Money, error)
	Occupancy(ctx context.Context) (checkedIn, rooms int, err error)
	BookingsPerBranch(ctx context.Context) ([]models.BranchBookings, error)
}

// Service builds the super admin dashboard and chain report.
type Service struct {
	source Source
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(source Source, opts ...Option) *Service {
	s := &Service{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard counts branches, users and bookings concurrently.
func (s *Service) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	ctx, span := tracer.Start(ctx, "reports.Dashboard")
	defer span.End()

	var d models.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Branches, err = s.source.CountBranches(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Users, err = s.source.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Bookings, err = s.source.CountBookings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dashboard")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dashboard")
	}
	return &d, nil
}

// ChainReport gathers revenue, occupancy and per-branch bookings concurrently.
func (s *Service) ChainReport(ctx context.Context) (*models.ChainReport, error) {
	ctx, span := tracer.Start(ctx, "reports.ChainReport")
	defer span.End()

	report := models.ChainReport{GeneratedAt: requestcontext.Now(ctx)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.Revenue, err = s.source.Revenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		report.CheckedIn, report.Rooms, err = s.source.Occupancy(gctx)
		return err
	})
	g.Go(func() (err error) {
		report.PerBranch, err = s.source.BookingsPerBranch(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chain report")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build report")
	}
	report.OccupancyRate = models.OccupancyRate(report.CheckedIn, report.Rooms)
	s.logger.InfoContext(ctx, "chain report generated",
		"branches", len(report.PerBranch),
		"occupancy_rate", report.OccupancyRate,
	)
	return &report, nil
}
