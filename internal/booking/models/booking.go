package models

import (
	"time"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) String() string { return string(s) }

// IsActive reports whether the booking still holds its room.
func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingCheckedIn
}

// Booking assigns one room to a guest for a stay. Walk-in bookings have no
// reservation.
type Booking struct {
	ID            id.BookingID
	ReservationID *id.ReservationID
	UserID        id.UserID
	BranchID      id.BranchID
	RoomID        id.RoomID
	Stay          Stay
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CheckIn moves a pending booking into the room.
func (b *Booking) CheckIn(roomID id.RoomID, now time.Time) error {
	if b.Status != BookingPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "booking is not awaiting check-in")
	}
	b.RoomID = roomID
	b.Status = BookingCheckedIn
	b.UpdatedAt = now
	return nil
}

// CheckOut closes a checked-in booking.
func (b *Booking) CheckOut(now time.Time) error {
	if b.Status != BookingCheckedIn {
		return dErrors.New(dErrors.CodeInvariantViolation, "guest is not checked in")
	}
	b.Status = BookingCheckedOut
	b.UpdatedAt = now
	return nil
}

// ExtendTo moves the check-out date of a checked-in stay. The new date must
// be after today and after check-in.
func (b *Booking) ExtendTo(checkOut, today time.Time) error {
	if b.Status != BookingCheckedIn {
		return dErrors.New(dErrors.CodeInvariantViolation, "guest is not checked in")
	}
	checkOut = Day(checkOut)
	if !checkOut.After(Day(today)) {
		return dErrors.New(dErrors.CodeInvariantViolation, "new check-out date must be in the future")
	}
	if !checkOut.After(b.Stay.CheckIn) {
		return dErrors.New(dErrors.CodeInvariantViolation, "new check-out date must be after check-in")
	}
	b.Stay.CheckOut = checkOut
	return nil
}

// Cancel releases a pending booking.
func (b *Booking) Cancel(now time.Time) {
	if b.Status == BookingPending {
		b.Status = BookingCancelled
		b.UpdatedAt = now
	}
}
