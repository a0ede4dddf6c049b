// Package booking stores room assignments and answers availability queries.
package booking

import (
	"time"

	"hotelchain/internal/booking/models"
	id "hotelchain/pkg/domain"
)

// Filter narrows List. Zero fields match everything.
type Filter struct {
	BranchID      id.BranchID
	UserID        id.UserID
	ReservationID id.ReservationID
	Statuses      []models.BookingStatus
	// CheckInOn matches bookings arriving on that day.
	CheckInOn time.Time
	// CheckOutFrom matches bookings leaving on or after that day.
	CheckOutFrom time.Time
}

func (f Filter) matches(b *models.Booking) bool {
	if !f.BranchID.IsNil() && b.BranchID != f.BranchID {
		return false
	}
	if !f.UserID.IsNil() && b.UserID != f.UserID {
		return false
	}
	if !f.ReservationID.IsNil() && (b.ReservationID == nil || *b.ReservationID != f.ReservationID) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status) {
		return false
	}
	if !f.CheckInOn.IsZero() && !b.Stay.CheckIn.Equal(models.Day(f.CheckInOn)) {
		return false
	}
	if !f.CheckOutFrom.IsZero() && b.Stay.CheckOut.Before(models.Day(f.CheckOutFrom)) {
		return false
	}
	return true
}

func containsStatus(statuses []models.BookingStatus, s models.BookingStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
