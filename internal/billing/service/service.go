package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hotelchain/internal/billing/metrics"
	"hotelchain/internal/billing/models"
	"hotelchain/internal/billing/store/invoice"
	"hotelchain/internal/billing/store/payment"
	bookingmodels "hotelchain/internal/booking/models"
	identitymodels "hotelchain/internal/identity/models"
	inventorymodels "hotelchain/internal/inventory/models"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/platform/tx"
)

var tracer = otel.Tracer("hotelchain/billing")

type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	FindByID(ctx context.Context, invoiceID id.InvoiceID) (*models.Invoice, error)
	Update(ctx context.Context, inv *models.Invoice) error
	List(ctx context.Context, f invoice.Filter) ([]*models.Invoice, error)
	Totals(ctx context.Context, branchID id.BranchID) (invoice.Totals, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	Update(ctx context.Context, p *models.Payment) error
	List(ctx context.Context, f payment.Filter) ([]*models.Payment, error)
	SumCompleted(ctx context.Context, branchID id.BranchID) (id.Money, error)
}

// BookingReader loads stays to invoice. It is implemented by the booking store.
type BookingReader interface {
	FindByID(ctx context.Context, bookingID id.BookingID) (*bookingmodels.Booking, error)
}

// RoomPricer resolves the nightly rate of a room.
type RoomPricer interface {
	GetRoom(ctx context.Context, roomID id.RoomID) (*inventorymodels.Room, error)
	GetRoomType(ctx context.Context, typeID id.RoomTypeID) (*inventorymodels.RoomType, error)
}

// GuestDirectory resolves invoice recipients.
type GuestDirectory interface {
	GetUser(ctx context.Context, userID id.UserID) (*identitymodels.User, error)
	FindByEmail(ctx context.Context, email string) (*identitymodels.User, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service issues invoices and records payments.
type Service struct {
	invoices InvoiceStore
	payments PaymentStore
	bookings BookingReader
	rooms    RoomPricer
	guests   GuestDirectory
	tx       tx.Runner
	logger   *slog.Logger
	auditor  AuditPublisher
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTx(r tx.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func New(invoices InvoiceStore, payments PaymentStore, bookings BookingReader, rooms RoomPricer, guests GuestDirectory, opts ...Option) *Service {
	s := &Service{
		invoices: invoices,
		payments: payments,
		bookings: bookings,
		rooms:    rooms,
		guests:   guests,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewLockRunner()
	}
	return s
}

// emit writes the audit event in the caller's transaction; a failure aborts it.
func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, dErrors.Message(err))
	}
	span.End()
}

func wrapStoreErr(err error, entity, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		return dErrors.New(dErrors.CodeValidation, dErrors.Message(err))
	case dErrors.CodeOf(err) != dErrors.CodeInternal:
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}
