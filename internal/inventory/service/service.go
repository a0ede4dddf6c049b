package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hotelchain/internal/inventory/models"
	"hotelchain/internal/inventory/store/room"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/platform/tx"
)

type BranchStore interface {
	Create(ctx context.Context, b *models.Branch) error
	FindByID(ctx context.Context, branchID id.BranchID) (*models.Branch, error)
	Update(ctx context.Context, b *models.Branch) error
	Delete(ctx context.Context, branchID id.BranchID) error
	List(ctx context.Context) ([]*models.Branch, error)
	Count(ctx context.Context) (int, error)
}

type RoomTypeStore interface {
	Create(ctx context.Context, rt *models.RoomType) error
	FindByID(ctx context.Context, typeID id.RoomTypeID) (*models.RoomType, error)
	List(ctx context.Context) ([]*models.RoomType, error)
}

type RoomStore interface {
	Create(ctx context.Context, r *models.Room) error
	FindByID(ctx context.Context, roomID id.RoomID) (*models.Room, error)
	Update(ctx context.Context, r *models.Room) error
	Delete(ctx context.Context, roomID id.RoomID) error
	List(ctx context.Context, f room.Filter) ([]*models.Room, error)
	Count(ctx context.Context, f room.Filter) (int, error)
}

// BookingIndex answers which rooms are tied up by bookings. It is implemented
// by the booking store.
type BookingIndex interface {
	CountByRoom(ctx context.Context, roomID id.RoomID) (int, error)
	BusyRooms(ctx context.Context, branchID id.BranchID, checkIn, checkOut time.Time, exclude id.ReservationID) (map[id.RoomID]bool, error)
}

// StaffCounter counts managers and clerks assigned to a branch.
type StaffCounter interface {
	CountStaff(ctx context.Context, branchID id.BranchID) (int, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages branches, room types and rooms.
type Service struct {
	branches BranchStore
	types    RoomTypeStore
	rooms    RoomStore
	bookings BookingIndex
	staff    StaffCounter
	tx       tx.Runner
	logger   *slog.Logger
	auditor  AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithStaffCounter(c StaffCounter) Option {
	return func(s *Service) { s.staff = c }
}

func WithTx(r tx.Runner) Option {
	return func(s *Service) { s.tx = r }
}

// New constructs the inventory service. bookings may be nil until the booking
// context is wired; room deletion and free-room search then ignore bookings.
func New(branches BranchStore, types RoomTypeStore, rooms RoomStore, bookings BookingIndex, opts ...Option) *Service {
	s := &Service{
		branches: branches,
		types:    types,
		rooms:    rooms,
		bookings: bookings,
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

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, branchID id.BranchID, subject string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{Action: string(action), Subject: subject}
	if !branchID.IsNil() {
		event.BranchID = branchID.String()
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed", "action", action, "error", err)
	}
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
