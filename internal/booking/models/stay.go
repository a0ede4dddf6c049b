package models

import (
	"strings"
	"time"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

// Day truncates t to its calendar day, expressed as midnight UTC so dates
// compare the same no matter which zone produced them.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD form value.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "dates must be in YYYY-MM-DD format")
	}
	return t, nil
}

// Stay is a half-open range of nights [CheckIn, CheckOut).
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStay validates a stay that starts today or later.
func NewStay(checkIn, checkOut, today time.Time) (Stay, error) {
	s := Stay{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if s.CheckIn.Before(Day(today)) {
		return Stay{}, dErrors.New(dErrors.CodeValidation, "check-in date cannot be in the past")
	}
	if !s.CheckOut.After(s.CheckIn) {
		return Stay{}, dErrors.New(dErrors.CodeValidation, "check-out date must be after check-in date")
	}
	return s, nil
}

// ParseStay parses and validates form dates.
func ParseStay(checkIn, checkOut string, today time.Time) (Stay, error) {
	in, err := ParseDay(checkIn)
	if err != nil {
		return Stay{}, err
	}
	out, err := ParseDay(checkOut)
	if err != nil {
		return Stay{}, err
	}
	return NewStay(in, out, today)
}

// Nights is the number of nights billed for the stay.
func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

// Overlaps reports whether two stays share a night. A guest leaving on day D
// does not block a guest arriving on D.
func (s Stay) Overlaps(o Stay) bool {
	return s.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(s.CheckOut)
}

// StayQuote is what a stay costs at check-out.
type StayQuote struct {
	Nights         int
	RoomCharges    id.Money
	ServiceCharges id.Money
	Total          id.Money
	// Prepaid is room charges the guest already settled on the reservation.
	Prepaid id.Money
	// Due is what is left to collect at the desk.
	Due id.Money
}

// Quote prices nights at the nightly rate plus service charges.
func Quote(nightly id.Money, nights int, serviceCharges id.Money) StayQuote {
	rooms := nightly.Times(nights)
	return StayQuote{
		Nights:         nights,
		RoomCharges:    rooms,
		ServiceCharges: serviceCharges,
		Total:          rooms + serviceCharges,
		Due:            rooms + serviceCharges,
	}
}

// Less credits a prepayment against the quote. Due never goes below zero.
func (q StayQuote) Less(prepaid id.Money) StayQuote {
	q.Prepaid = prepaid
	q.Due = max(q.Total-prepaid, 0)
	return q
}
