package models

import (
	"time"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) String() string { return string(s) }

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) String() string { return string(s) }

// PaymentChoice is how the guest intends to pay when reserving.
type PaymentChoice string

const (
	PayByCard    PaymentChoice = "credit_card"
	PayAtArrival PaymentChoice = "without_credit_card"
)

// ParsePaymentChoice accepts the two reservation payment options.
func ParsePaymentChoice(s string) (PaymentChoice, error) {
	switch PaymentChoice(s) {
	case PayByCard, PayAtArrival:
		return PaymentChoice(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "choose to pay by credit card or without credit card")
	}
}

const (
	MinRooms = 1
	MaxRooms = 10
)

// Reservation is a guest's request for rooms of one type at one branch.
//
// Invariants:
//   - Occupants is between 1 and MaxOccupancy of the type times NumberOfRooms
//   - NumberOfRooms is between 1 and 10
//   - only pending reservations are edited or cancelled
type Reservation struct {
	ID            id.ReservationID
	UserID        id.UserID
	BranchID      id.BranchID
	RoomTypeID    id.RoomTypeID
	Stay          Stay
	Occupants     int
	NumberOfRooms int
	Status        ReservationStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateParty checks the occupant and room counts against the type's limit.
func ValidateParty(occupants, rooms, maxOccupancy int) error {
	if rooms < MinRooms || rooms > MaxRooms {
		return dErrors.New(dErrors.CodeValidation, "number of rooms must be between 1 and 10")
	}
	if occupants < 1 {
		return dErrors.New(dErrors.CodeValidation, "at least one occupant is required")
	}
	if occupants > maxOccupancy*rooms {
		return dErrors.New(dErrors.CodeValidation, "too many occupants for the selected rooms")
	}
	return nil
}

// IsPending reports whether the guest may still edit or cancel.
func (r *Reservation) IsPending() bool {
	return r.Status == ReservationPending
}

// CanPay reports whether the guest can still settle the reservation by card.
func (r *Reservation) CanPay() bool {
	return r.Status != ReservationCancelled && r.PaymentStatus != PaymentPaid
}

// Cancel marks a pending reservation cancelled.
func (r *Reservation) Cancel(now time.Time) error {
	if !r.IsPending() {
		return dErrors.New(dErrors.CodeInvariantViolation, "only pending reservations can be cancelled")
	}
	r.Status = ReservationCancelled
	r.UpdatedAt = now
	return nil
}

// Confirm records that the guest has arrived.
func (r *Reservation) Confirm(now time.Time) {
	if r.Status == ReservationPending {
		r.Status = ReservationConfirmed
		r.UpdatedAt = now
	}
}

// Complete closes the reservation once its last room is vacated. A checked-out
// stay has been paid at the desk.
func (r *Reservation) Complete(now time.Time) {
	r.Status = ReservationCompleted
	r.PaymentStatus = PaymentPaid
	r.UpdatedAt = now
}

// MarkPaid records full payment.
func (r *Reservation) MarkPaid(now time.Time) error {
	switch {
	case r.Status == ReservationCancelled:
		return dErrors.New(dErrors.CodeInvariantViolation, "cancelled reservations cannot be paid")
	case r.PaymentStatus == PaymentPaid:
		return dErrors.New(dErrors.CodeInvariantViolation, "reservation is already paid")
	}
	r.PaymentStatus = PaymentPaid
	r.UpdatedAt = now
	return nil
}

// Amount is the room charge for the whole reservation.
func (r *Reservation) Amount(nightly id.Money) id.Money {
	return nightly.Times(r.Stay.Nights() * r.NumberOfRooms)
}
