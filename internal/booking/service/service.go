package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	billingmodels "hotelchain/internal/billing/models"
	"hotelchain/internal/booking/metrics"
	"hotelchain/internal/booking/models"
	"hotelchain/internal/booking/store/booking"
	identitymodels "hotelchain/internal/identity/models"
	inventorymodels "hotelchain/internal/inventory/models"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/platform/tx"
	"hotelchain/pkg/requestcontext"
)

var tracer = otel.Tracer("hotelchain/booking")

type ReservationStore interface {
	Create(ctx context.Context, r *models.Reservation) error
	FindByID(ctx context.Context, reservationID id.ReservationID) (*models.Reservation, error)
	Update(ctx context.Context, r *models.Reservation) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Reservation, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	FindByID(ctx context.Context, bookingID id.BookingID) (*models.Booking, error)
	Update(ctx context.Context, b *models.Booking) error
	List(ctx context.Context, f booking.Filter) ([]*models.Booking, error)
	RoomConflicts(ctx context.Context, roomID id.RoomID, stay models.Stay, exclude id.BookingID) (int, error)
}

// RoomDirectory is the inventory the booking flows read and update.
type RoomDirectory interface {
	GetBranch(ctx context.Context, branchID id.BranchID) (*inventorymodels.Branch, error)
	GetRoom(ctx context.Context, roomID id.RoomID) (*inventorymodels.Room, error)
	GetRoomType(ctx context.Context, typeID id.RoomTypeID) (*inventorymodels.RoomType, error)
	FindFreeRooms(ctx context.Context, branchID id.BranchID, typeID id.RoomTypeID, checkIn, checkOut time.Time, limit int, exclude id.ReservationID) ([]*inventorymodels.Room, error)
	SetRoomStatus(ctx context.Context, roomID id.RoomID, status inventorymodels.RoomStatus) error
	AvailableRooms(ctx context.Context, branchID id.BranchID) ([]inventorymodels.RoomView, error)
}

// Ledger records the money side of a reservation or stay. Calls made with a
// transaction context join that transaction.
type Ledger interface {
	RecordPayment(ctx context.Context, draft billingmodels.PaymentDraft) (*billingmodels.Payment, error)
	CreatePendingInvoice(ctx context.Context, draft billingmodels.InvoiceDraft) (*billingmodels.Invoice, error)
	VoidReservationInvoices(ctx context.Context, reservationID id.ReservationID) (int, error)
	VoidReservationHolds(ctx context.Context, reservationID id.ReservationID) ([]*billingmodels.Payment, error)
}

// GuestDirectory resolves and registers guests.
type GuestDirectory interface {
	GetUser(ctx context.Context, userID id.UserID) (*identitymodels.User, error)
	FindByEmail(ctx context.Context, email string) (*identitymodels.User, error)
	FindOrCreateGuest(ctx context.Context, name, email string) (*identitymodels.User, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs reservations for guests and arrivals and departures for the
// front desk.
type Service struct {
	reservations ReservationStore
	bookings     BookingStore
	rooms        RoomDirectory
	ledger       Ledger
	guests       GuestDirectory
	tx           tx.Runner
	logger       *slog.Logger
	auditor      AuditPublisher
	metrics      *metrics.Metrics
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

func New(reservations ReservationStore, bookings BookingStore, rooms RoomDirectory, ledger Ledger, guests GuestDirectory, opts ...Option) *Service {
	s := &Service{
		reservations: reservations,
		bookings:     bookings,
		rooms:        rooms,
		ledger:       ledger,
		guests:       guests,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewLockRunner()
	}
	return s
}

// currentGuest returns the signed-in user making a reservation.
func currentGuest(ctx context.Context) (requestcontext.Principal, error) {
	p, ok := requestcontext.CurrentPrincipal(ctx)
	if !ok || p.UserID.IsNil() {
		return requestcontext.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "please log in")
	}
	return p, nil
}

// emit writes the audit event in the caller's transaction; a failure aborts it.
func (s *Service) emit(ctx context.Context, action audit.AuditEvent, userID id.UserID, branchID id.BranchID, subject string) error {
	if s.auditor == nil {
		return nil
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Action:   string(action),
		UserID:   userID,
		BranchID: branchID.String(),
		Subject:  subject,
	})
	if err != nil {
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

// transition turns a refused state change into a conflict the page can show.
func transition(err error) error {
	if err == nil {
		return nil
	}
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeConflict, dErrors.Message(err))
	}
	return err
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
