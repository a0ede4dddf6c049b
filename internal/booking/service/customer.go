package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	billingmodels "hotelchain/internal/billing/models"
	"hotelchain/internal/booking/models"
	"hotelchain/internal/booking/store/booking"
	inventorymodels "hotelchain/internal/inventory/models"
	"hotelchain/pkg/card"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/requestcontext"
)

// paymentDeadlineHour is when an unpaid reservation's invoice falls due on the
// check-in day.
const paymentDeadlineHour = 19

// ReservationCommand is the reservation form.
type ReservationCommand struct {
	BranchID      string
	RoomTypeID    string
	CheckIn       string
	CheckOut      string
	Occupants     int
	NumberOfRooms int
	Payment       string
	Card          card.Details
}

// EditReservationCommand re-plans the dates and party of a pending reservation.
type EditReservationCommand struct {
	CheckIn       string
	CheckOut      string
	Occupants     int
	NumberOfRooms int
}

// MakeReservation books NumberOfRooms free rooms of the type for the signed-in
// guest. Card reservations record a pending card payment; the others get an
// invoice due on the evening of arrival.
func (s *Service) MakeReservation(ctx context.Context, cmd ReservationCommand) (_ *models.Reservation, err error) {
	ctx, span := tracer.Start(ctx, "booking.MakeReservation")
	defer func() { endSpan(span, err) }()

	guest, err := currentGuest(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	branchID, err := id.ParseBranchID(cmd.BranchID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "select a branch")
	}
	typeID, err := id.ParseRoomTypeID(cmd.RoomTypeID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "select a room type")
	}
	stay, err := models.ParseStay(cmd.CheckIn, cmd.CheckOut, now)
	if err != nil {
		return nil, err
	}
	choice, err := models.ParsePaymentChoice(cmd.Payment)
	if err != nil {
		return nil, err
	}
	if _, err := s.rooms.GetBranch(ctx, branchID); err != nil {
		return nil, asValidation(err, "select a branch")
	}
	rt, err := s.rooms.GetRoomType(ctx, typeID)
	if err != nil {
		return nil, asValidation(err, "select a room type")
	}
	if err := models.ValidateParty(cmd.Occupants, cmd.NumberOfRooms, rt.MaxOccupancy); err != nil {
		return nil, err
	}
	if choice == models.PayByCard {
		if errs := card.Validate(cmd.Card, now); len(errs) > 0 {
			return nil, dErrors.Join(errs)
		}
	}
	span.SetAttributes(
		attribute.String("branch.id", branchID.String()),
		attribute.Int("reservation.rooms", cmd.NumberOfRooms),
		attribute.String("reservation.payment", string(choice)),
	)

	r := &models.Reservation{
		ID:            id.ReservationID(uuid.New()),
		UserID:        guest.UserID,
		BranchID:      branchID,
		RoomTypeID:    typeID,
		Stay:          stay,
		Occupants:     cmd.Occupants,
		NumberOfRooms: cmd.NumberOfRooms,
		Status:        models.ReservationPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		free, err := s.rooms.FindFreeRooms(ctx, branchID, typeID, stay.CheckIn, stay.CheckOut, r.NumberOfRooms, id.ReservationID{})
		if err != nil {
			return err
		}
		if len(free) < r.NumberOfRooms {
			return dErrors.New(dErrors.CodeConflict, "not enough rooms available for the selected dates")
		}
		if err := s.reservations.Create(ctx, r); err != nil {
			return wrapStoreErr(err, "reservation", "create reservation")
		}
		for _, room := range free {
			if err := s.bookings.Create(ctx, newBooking(r, room.ID, models.BookingPending, now)); err != nil {
				return wrapStoreErr(err, "booking", "create booking")
			}
		}
		if choice == models.PayByCard {
			_, err = s.ledger.RecordPayment(ctx, billingmodels.PaymentDraft{
				UserID:         r.UserID,
				BranchID:       r.BranchID,
				ReservationID:  &r.ID,
				Amount:         r.Amount(rt.BasePrice),
				Method:         billingmodels.MethodCreditCard,
				CardLastFour:   card.LastFour(cmd.Card.Number),
				CardholderName: cmd.Card.Holder,
				Status:         billingmodels.PaymentPending,
			})
		} else {
			_, err = s.ledger.CreatePendingInvoice(ctx, reservationInvoice(r, rt))
		}
		if err != nil {
			return err
		}
		return s.emit(ctx, audit.EventReservationCreated, r.UserID, r.BranchID, r.ID.String())
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementReservation("created")
		s.metrics.ObserveRooms(r.NumberOfRooms)
	}
	return r, nil
}

// ListReservations returns the signed-in guest's reservations, newest first.
func (s *Service) ListReservations(ctx context.Context) ([]models.ReservationView, error) {
	guest, err := currentGuest(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservations.ListByUser(ctx, guest.UserID)
	if err != nil {
		return nil, wrapStoreErr(err, "reservation", "list reservations")
	}
	names := newNameCache(s.rooms)
	views := make([]models.ReservationView, 0, len(reservations))
	for _, r := range reservations {
		branch, err := names.branch(ctx, r.BranchID)
		if err != nil {
			return nil, err
		}
		rt, err := names.roomType(ctx, r.RoomTypeID)
		if err != nil {
			return nil, err
		}
		views = append(views, models.ReservationView{
			Reservation:  r,
			BranchName:   branch.Name,
			RoomTypeName: rt.Name,
			Amount:       r.Amount(rt.BasePrice),
		})
	}
	return views, nil
}

// EditReservation re-plans a pending reservation. Its own bookings do not
// count against availability, and they are moved onto the rooms found.
func (s *Service) EditReservation(ctx context.Context, reservationID id.ReservationID, cmd EditReservationCommand) (_ *models.Reservation, err error) {
	ctx, span := tracer.Start(ctx, "booking.EditReservation")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("reservation.id", reservationID.String()))

	now := requestcontext.Now(ctx)
	stay, err := models.ParseStay(cmd.CheckIn, cmd.CheckOut, now)
	if err != nil {
		return nil, err
	}

	var r *models.Reservation
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.ownReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if !r.IsPending() {
			return dErrors.New(dErrors.CodeConflict, "only pending reservations can be edited")
		}
		rt, err := s.rooms.GetRoomType(ctx, r.RoomTypeID)
		if err != nil {
			return err
		}
		if err := models.ValidateParty(cmd.Occupants, cmd.NumberOfRooms, rt.MaxOccupancy); err != nil {
			return err
		}
		free, err := s.rooms.FindFreeRooms(ctx, r.BranchID, r.RoomTypeID, stay.CheckIn, stay.CheckOut, cmd.NumberOfRooms, r.ID)
		if err != nil {
			return err
		}
		if len(free) < cmd.NumberOfRooms {
			return dErrors.New(dErrors.CodeConflict, "not enough rooms available for the selected dates")
		}

		r.Stay = stay
		r.Occupants = cmd.Occupants
		r.NumberOfRooms = cmd.NumberOfRooms
		r.UpdatedAt = now
		if err := s.reservations.Update(ctx, r); err != nil {
			return wrapStoreErr(err, "reservation", "update reservation")
		}
		if err := s.reassign(ctx, r, free, now); err != nil {
			return err
		}

		// An unpaid reservation's invoice follows the new price and arrival day.
		voided, err := s.ledger.VoidReservationInvoices(ctx, r.ID)
		if err != nil {
			return err
		}
		if voided > 0 {
			if _, err := s.ledger.CreatePendingInvoice(ctx, reservationInvoice(r, rt)); err != nil {
				return err
			}
		}
		// So does the card hold of one booked by card.
		holds, err := s.ledger.VoidReservationHolds(ctx, r.ID)
		if err != nil {
			return err
		}
		if len(holds) > 0 {
			if _, err := s.ledger.RecordPayment(ctx, billingmodels.PaymentDraft{
				UserID:         r.UserID,
				BranchID:       r.BranchID,
				ReservationID:  &r.ID,
				Amount:         r.Amount(rt.BasePrice),
				Method:         billingmodels.MethodCreditCard,
				CardLastFour:   holds[0].CardLastFour,
				CardholderName: holds[0].CardholderName,
				Status:         billingmodels.PaymentPending,
			}); err != nil {
				return err
			}
		}
		return s.emit(ctx, audit.EventReservationEdited, r.UserID, r.BranchID, r.ID.String())
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementReservation("edited")
	}
	return r, nil
}

// reassign moves the reservation's pending bookings onto rooms, creating or
// cancelling bookings when the room count changed.
func (s *Service) reassign(ctx context.Context, r *models.Reservation, rooms []*inventorymodels.Room, now time.Time) error {
	current, err := s.bookings.List(ctx, booking.Filter{
		ReservationID: r.ID,
		Statuses:      []models.BookingStatus{models.BookingPending},
	})
	if err != nil {
		return wrapStoreErr(err, "booking", "load bookings")
	}
	for i, room := range rooms {
		if i >= len(current) {
			if err := s.bookings.Create(ctx, newBooking(r, room.ID, models.BookingPending, now)); err != nil {
				return wrapStoreErr(err, "booking", "create booking")
			}
			continue
		}
		b := current[i]
		b.RoomID = room.ID
		b.Stay = r.Stay
		b.UpdatedAt = now
		if err := s.bookings.Update(ctx, b); err != nil {
			return wrapStoreErr(err, "booking", "update booking")
		}
	}
	for _, b := range current[min(len(rooms), len(current)):] {
		b.Cancel(now)
		if err := s.bookings.Update(ctx, b); err != nil {
			return wrapStoreErr(err, "booking", "cancel booking")
		}
	}
	return nil
}

// CancelReservation cancels a pending reservation with its bookings, any
// unpaid invoice and any card hold.
func (s *Service) CancelReservation(ctx context.Context, reservationID id.ReservationID) error {
	now := requestcontext.Now(ctx)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.ownReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := transition(r.Cancel(now)); err != nil {
			return err
		}
		if err := s.reservations.Update(ctx, r); err != nil {
			return wrapStoreErr(err, "reservation", "cancel reservation")
		}
		if err := s.reassign(ctx, r, nil, now); err != nil {
			return err
		}
		if _, err := s.ledger.VoidReservationInvoices(ctx, r.ID); err != nil {
			return err
		}
		if _, err := s.ledger.VoidReservationHolds(ctx, r.ID); err != nil {
			return err
		}
		return s.emit(ctx, audit.EventReservationCancelled, r.UserID, r.BranchID, r.ID.String())
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementReservation("cancelled")
	}
	return nil
}

// PayReservation settles a reservation by card. Outstanding invoices and card
// holds are voided.
func (s *Service) PayReservation(ctx context.Context, reservationID id.ReservationID, details card.Details) (_ *billingmodels.Payment, err error) {
	ctx, span := tracer.Start(ctx, "booking.PayReservation")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("reservation.id", reservationID.String()))

	now := requestcontext.Now(ctx)
	if errs := card.Validate(details, now); len(errs) > 0 {
		return nil, dErrors.Join(errs)
	}

	var paid *billingmodels.Payment
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.ownReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := transition(r.MarkPaid(now)); err != nil {
			return err
		}
		rt, err := s.rooms.GetRoomType(ctx, r.RoomTypeID)
		if err != nil {
			return err
		}
		paid, err = s.ledger.RecordPayment(ctx, billingmodels.PaymentDraft{
			UserID:         r.UserID,
			BranchID:       r.BranchID,
			ReservationID:  &r.ID,
			Amount:         r.Amount(rt.BasePrice),
			Method:         billingmodels.MethodCreditCard,
			CardLastFour:   card.LastFour(details.Number),
			CardholderName: details.Holder,
			Status:         billingmodels.PaymentCompleted,
		})
		if err != nil {
			return err
		}
		if _, err := s.ledger.VoidReservationInvoices(ctx, r.ID); err != nil {
			return err
		}
		if _, err := s.ledger.VoidReservationHolds(ctx, r.ID); err != nil {
			return err
		}
		if err := s.reservations.Update(ctx, r); err != nil {
			return wrapStoreErr(err, "reservation", "update reservation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementReservation("paid")
	}
	return paid, nil
}

// ListBookings returns the signed-in guest's room bookings for the dashboard.
func (s *Service) ListBookings(ctx context.Context) ([]models.BookingView, error) {
	guest, err := currentGuest(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.List(ctx, booking.Filter{UserID: guest.UserID})
	if err != nil {
		return nil, wrapStoreErr(err, "booking", "list bookings")
	}
	return s.bookingViews(ctx, bookings)
}

// ownReservation loads a reservation of the signed-in guest. Other guests'
// reservations look missing.
func (s *Service) ownReservation(ctx context.Context, reservationID id.ReservationID) (*models.Reservation, error) {
	guest, err := currentGuest(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, wrapStoreErr(err, "reservation", "load reservation")
	}
	if r.UserID != guest.UserID {
		return nil, dErrors.New(dErrors.CodeNotFound, "reservation not found")
	}
	return r, nil
}

func newBooking(r *models.Reservation, roomID id.RoomID, status models.BookingStatus, now time.Time) *models.Booking {
	return &models.Booking{
		ID:            id.BookingID(uuid.New()),
		ReservationID: &r.ID,
		UserID:        r.UserID,
		BranchID:      r.BranchID,
		RoomID:        roomID,
		Stay:          r.Stay,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func reservationInvoice(r *models.Reservation, rt *inventorymodels.RoomType) billingmodels.InvoiceDraft {
	due := r.Stay.CheckIn.Add(paymentDeadlineHour * time.Hour)
	return billingmodels.InvoiceDraft{
		UserID:        r.UserID,
		BranchID:      r.BranchID,
		ReservationID: &r.ID,
		Amount:        r.Amount(rt.BasePrice),
		DueAt:         &due,
	}
}

// asValidation reports a missing referenced entity as a form error.
func asValidation(err error, msg string) error {
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return dErrors.New(dErrors.CodeValidation, msg)
	}
	return err
}
