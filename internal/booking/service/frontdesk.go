package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	billingmodels "hotelchain/internal/billing/models"
	"hotelchain/internal/booking/models"
	"hotelchain/internal/booking/store/booking"
	inventorymodels "hotelchain/internal/inventory/models"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	authmw "hotelchain/pkg/platform/middleware/auth"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/requestcontext"
)

// WalkInCommand is the walk-in check-in form.
type WalkInCommand struct {
	Name     string
	Email    string
	CheckIn  string
	CheckOut string
	RoomID   string
}

// CheckOutCommand is the check-out form.
type CheckOutCommand struct {
	Method         string
	CardLastFour   string
	ServiceCharges id.Money
}

// CheckOutResult is what the guest was charged. Payment is nil when the stay
// was settled in advance.
type CheckOutResult struct {
	Booking *models.Booking
	Quote   models.StayQuote
	Payment *billingmodels.Payment
}

// SearchArrival lists pending bookings in the clerk's branch arriving today,
// matched by booking ID or guest email. An empty query lists every arrival.
func (s *Service) SearchArrival(ctx context.Context, query string) ([]models.BookingView, error) {
	return s.search(ctx, query, booking.Filter{
		Statuses:  []models.BookingStatus{models.BookingPending},
		CheckInOn: requestcontext.Now(ctx),
	})
}

// SearchStay lists guests in house in the clerk's branch who have not yet
// passed their check-out date, with what they owe so far.
func (s *Service) SearchStay(ctx context.Context, query string) ([]models.BookingView, error) {
	return s.search(ctx, query, booking.Filter{
		Statuses:     []models.BookingStatus{models.BookingCheckedIn},
		CheckOutFrom: requestcontext.Now(ctx),
	})
}

func (s *Service) search(ctx context.Context, query string, f booking.Filter) ([]models.BookingView, error) {
	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		return nil, err
	}
	f.BranchID = branchID
	query = strings.TrimSpace(query)

	var found []*models.Booking
	if bookingID, parseErr := id.ParseBookingID(query); parseErr == nil {
		b, err := s.bookings.FindByID(ctx, bookingID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, nil
		case err != nil:
			return nil, wrapStoreErr(err, "booking", "load booking")
		}
		// Narrow the filter to this guest and keep only the booking asked for.
		f.UserID = b.UserID
		candidates, err := s.bookings.List(ctx, f)
		if err != nil {
			return nil, wrapStoreErr(err, "booking", "search bookings")
		}
		for _, c := range candidates {
			if c.ID == bookingID {
				found = append(found, c)
			}
		}
		return s.bookingViews(ctx, found)
	}
	if query != "" {
		guest, err := s.guests.FindByEmail(ctx, query)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				return nil, nil
			}
			return nil, err
		}
		f.UserID = guest.ID
	}
	found, err = s.bookings.List(ctx, f)
	if err != nil {
		return nil, wrapStoreErr(err, "booking", "search bookings")
	}
	return s.bookingViews(ctx, found)
}

// CheckIn puts the guest of a pending booking into an available room of the
// clerk's branch.
func (s *Service) CheckIn(ctx context.Context, bookingID id.BookingID, roomID id.RoomID) (_ *models.Booking, err error) {
	ctx, span := tracer.Start(ctx, "booking.CheckIn")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("booking.id", bookingID.String()), attribute.String("room.id", roomID.String()))

	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var b *models.Booking
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.branchBooking(ctx, branchID, bookingID)
		if err != nil {
			return err
		}
		if err := s.checkRoom(ctx, branchID, roomID, b.Stay, b.ID); err != nil {
			return err
		}
		if err := transition(b.CheckIn(roomID, now)); err != nil {
			return err
		}
		if err := s.bookings.Update(ctx, b); err != nil {
			return wrapStoreErr(err, "booking", "check in")
		}
		if err := s.rooms.SetRoomStatus(ctx, roomID, inventorymodels.RoomOccupied); err != nil {
			return err
		}
		if b.ReservationID != nil {
			r, err := s.reservations.FindByID(ctx, *b.ReservationID)
			if err != nil {
				return wrapStoreErr(err, "reservation", "load reservation")
			}
			r.Confirm(now)
			if err := s.reservations.Update(ctx, r); err != nil {
				return wrapStoreErr(err, "reservation", "confirm reservation")
			}
		}
		return s.emit(ctx, audit.EventGuestCheckedIn, b.UserID, b.BranchID, b.ID.String())
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementCheckIn("reservation")
	}
	return b, nil
}

// WalkIn checks in a guest without a reservation, registering them when the
// email is new.
func (s *Service) WalkIn(ctx context.Context, cmd WalkInCommand) (_ *models.Booking, err error) {
	ctx, span := tracer.Start(ctx, "booking.WalkIn")
	defer func() { endSpan(span, err) }()

	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	stay, err := models.ParseStay(cmd.CheckIn, cmd.CheckOut, now)
	if err != nil {
		return nil, err
	}
	roomID, err := id.ParseRoomID(cmd.RoomID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "select a room")
	}

	var b *models.Booking
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkRoom(ctx, branchID, roomID, stay, id.BookingID{}); err != nil {
			return err
		}
		guest, err := s.guests.FindOrCreateGuest(ctx, cmd.Name, cmd.Email)
		if err != nil {
			return err
		}
		b = &models.Booking{
			ID:        id.BookingID(uuid.New()),
			UserID:    guest.ID,
			BranchID:  branchID,
			RoomID:    roomID,
			Stay:      stay,
			Status:    models.BookingCheckedIn,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.bookings.Create(ctx, b); err != nil {
			return wrapStoreErr(err, "booking", "create booking")
		}
		if err := s.rooms.SetRoomStatus(ctx, roomID, inventorymodels.RoomOccupied); err != nil {
			return err
		}
		return s.emit(ctx, audit.EventWalkInCheckedIn, b.UserID, b.BranchID, b.ID.String())
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementCheckIn("walk_in")
	}
	return b, nil
}

// CheckOut closes a stay, frees the room and records the guest's payment for
// the nights plus service charges. Nights already paid on the reservation are
// credited, and no payment is recorded when nothing is left to collect.
func (s *Service) CheckOut(ctx context.Context, bookingID id.BookingID, cmd CheckOutCommand) (_ *CheckOutResult, err error) {
	ctx, span := tracer.Start(ctx, "booking.CheckOut")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("booking.id", bookingID.String()), attribute.String("payment.method", cmd.Method))

	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		return nil, err
	}
	method, err := billingmodels.ParseDeskMethod(cmd.Method)
	if err != nil {
		return nil, err
	}
	if cmd.ServiceCharges < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "service charges cannot be negative")
	}
	now := requestcontext.Now(ctx)

	result := &CheckOutResult{}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := s.branchBooking(ctx, branchID, bookingID)
		if err != nil {
			return err
		}
		room, err := s.rooms.GetRoom(ctx, b.RoomID)
		if err != nil {
			return err
		}
		rt, err := s.rooms.GetRoomType(ctx, room.RoomTypeID)
		if err != nil {
			return err
		}
		if err := transition(b.CheckOut(now)); err != nil {
			return err
		}
		prepaid, err := s.prepaidRoomCharges(ctx, b, rt.BasePrice)
		if err != nil {
			return err
		}
		quote := models.Quote(rt.BasePrice, b.Stay.Nights(), cmd.ServiceCharges).Less(prepaid)

		var payment *billingmodels.Payment
		if quote.Due > 0 {
			payment, err = s.ledger.RecordPayment(ctx, billingmodels.PaymentDraft{
				UserID:        b.UserID,
				BranchID:      b.BranchID,
				ReservationID: b.ReservationID,
				BookingID:     &b.ID,
				Amount:        quote.Due,
				Method:        method,
				CardLastFour:  strings.TrimSpace(cmd.CardLastFour),
				Status:        billingmodels.PaymentCompleted,
			})
			if err != nil {
				return err
			}
		}
		if err := s.bookings.Update(ctx, b); err != nil {
			return wrapStoreErr(err, "booking", "check out")
		}
		if err := s.rooms.SetRoomStatus(ctx, b.RoomID, inventorymodels.RoomAvailable); err != nil {
			return err
		}
		if err := s.completeReservation(ctx, b, now); err != nil {
			return err
		}
		result.Booking, result.Quote, result.Payment = b, quote, payment
		return s.emit(ctx, audit.EventGuestCheckedOut, b.UserID, b.BranchID, b.ID.String())
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementCheckOut()
	}
	return result, nil
}

// prepaidRoomCharges is this room's share of a reservation paid in advance:
// the nightly rate over the reserved nights.
func (s *Service) prepaidRoomCharges(ctx context.Context, b *models.Booking, nightly id.Money) (id.Money, error) {
	if b.ReservationID == nil {
		return 0, nil
	}
	r, err := s.reservations.FindByID(ctx, *b.ReservationID)
	if err != nil {
		return 0, wrapStoreErr(err, "reservation", "load reservation")
	}
	if r.PaymentStatus != models.PaymentPaid {
		return 0, nil
	}
	return nightly.Times(r.Stay.Nights()), nil
}

// completeReservation closes the booking's reservation once none of its rooms
// is still held.
func (s *Service) completeReservation(ctx context.Context, b *models.Booking, now time.Time) error {
	if b.ReservationID == nil {
		return nil
	}
	active, err := s.bookings.List(ctx, booking.Filter{
		ReservationID: *b.ReservationID,
		Statuses:      []models.BookingStatus{models.BookingPending, models.BookingCheckedIn},
	})
	if err != nil {
		return wrapStoreErr(err, "booking", "load bookings")
	}
	if len(active) > 0 {
		return nil
	}
	r, err := s.reservations.FindByID(ctx, *b.ReservationID)
	if err != nil {
		return wrapStoreErr(err, "reservation", "load reservation")
	}
	r.Complete(now)
	if err := s.reservations.Update(ctx, r); err != nil {
		return wrapStoreErr(err, "reservation", "complete reservation")
	}
	return nil
}

// ModifyCheckOut moves the departure date of a guest in house. The room must
// stay free of other bookings for the new dates.
func (s *Service) ModifyCheckOut(ctx context.Context, bookingID id.BookingID, newCheckOut string) (*models.Booking, error) {
	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		return nil, err
	}
	checkOut, err := models.ParseDay(newCheckOut)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var b *models.Booking
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.branchBooking(ctx, branchID, bookingID)
		if err != nil {
			return err
		}
		if err := b.ExtendTo(checkOut, now); err != nil {
			if b.Status != models.BookingCheckedIn {
				return transition(err)
			}
			return wrapStoreErr(err, "booking", "change check-out date")
		}
		conflicts, err := s.bookings.RoomConflicts(ctx, b.RoomID, b.Stay, b.ID)
		if err != nil {
			return wrapStoreErr(err, "booking", "check room availability")
		}
		if conflicts > 0 {
			return dErrors.New(dErrors.CodeConflict, "the room is booked by another guest for those dates")
		}
		b.UpdatedAt = now
		if err := s.bookings.Update(ctx, b); err != nil {
			return wrapStoreErr(err, "booking", "change check-out date")
		}
		return s.emit(ctx, audit.EventCheckOutModified, b.UserID, b.BranchID, b.ID.String())
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// AvailableRooms lists the rooms of the clerk's branch a walk-in can take.
func (s *Service) AvailableRooms(ctx context.Context) ([]inventorymodels.RoomView, error) {
	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		return nil, err
	}
	return s.rooms.AvailableRooms(ctx, branchID)
}

// branchBooking loads a booking of the clerk's branch. Bookings of other
// branches look missing.
func (s *Service) branchBooking(ctx context.Context, branchID id.BranchID, bookingID id.BookingID) (*models.Booking, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, wrapStoreErr(err, "booking", "load booking")
	}
	if b.BranchID != branchID {
		return nil, dErrors.New(dErrors.CodeNotFound, "booking not found")
	}
	return b, nil
}

// checkRoom confirms the room belongs to the branch, is available and is not
// promised to another guest for the stay.
func (s *Service) checkRoom(ctx context.Context, branchID id.BranchID, roomID id.RoomID, stay models.Stay, exclude id.BookingID) error {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return asValidation(err, "select a room")
	}
	if room.BranchID != branchID {
		return dErrors.New(dErrors.CodeValidation, "room is not in your branch")
	}
	if !room.IsAvailable() {
		return dErrors.New(dErrors.CodeConflict, "room "+room.RoomNumber+" is not available")
	}
	conflicts, err := s.bookings.RoomConflicts(ctx, roomID, stay, exclude)
	if err != nil {
		return wrapStoreErr(err, "booking", "check room availability")
	}
	if conflicts > 0 {
		return dErrors.New(dErrors.CodeConflict, "room "+room.RoomNumber+" is booked for those dates")
	}
	return nil
}
