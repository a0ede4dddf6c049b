package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

func day(s string) time.Time {
	t, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewStay(t *testing.T) {
	today := time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		wantErr  bool
		nights   int
	}{
		{name: "today for two nights", checkIn: "2026-06-10", checkOut: "2026-06-12", nights: 2},
		{name: "past check-in", checkIn: "2026-06-09", checkOut: "2026-06-12", wantErr: true},
		{name: "same day", checkIn: "2026-06-11", checkOut: "2026-06-11", wantErr: true},
		{name: "reversed", checkIn: "2026-06-12", checkOut: "2026-06-11", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stay, err := ParseStay(tt.checkIn, tt.checkOut, today)
			if tt.wantErr {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.nights, stay.Nights())
		})
	}

	_, err := ParseStay("10/06/2026", "2026-06-12", today)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestStayOverlapsIsHalfOpen(t *testing.T) {
	a := Stay{CheckIn: day("2026-06-10"), CheckOut: day("2026-06-12")}

	assert.False(t, a.Overlaps(Stay{CheckIn: day("2026-06-12"), CheckOut: day("2026-06-14")}), "back to back")
	assert.False(t, a.Overlaps(Stay{CheckIn: day("2026-06-08"), CheckOut: day("2026-06-10")}), "ends on arrival")
	assert.True(t, a.Overlaps(Stay{CheckIn: day("2026-06-11"), CheckOut: day("2026-06-13")}))
	assert.True(t, a.Overlaps(Stay{CheckIn: day("2026-06-01"), CheckOut: day("2026-06-30")}), "contains")
}

func TestValidateParty(t *testing.T) {
	assert.NoError(t, ValidateParty(4, 2, 2))
	assert.Error(t, ValidateParty(5, 2, 2))
	assert.Error(t, ValidateParty(0, 1, 2))
	assert.Error(t, ValidateParty(1, 0, 2))
	assert.Error(t, ValidateParty(1, 11, 2))
}

func TestQuoteAndAmount(t *testing.T) {
	q := Quote(12050, 3, 1500)
	assert.Equal(t, id.Money(36150), q.RoomCharges)
	assert.Equal(t, id.Money(37650), q.Total)

	r := &Reservation{Stay: Stay{CheckIn: day("2026-06-10"), CheckOut: day("2026-06-13")}, NumberOfRooms: 2}
	assert.Equal(t, id.Money(72300), r.Amount(12050))

	credited := q.Less(12050)
	assert.Equal(t, id.Money(12050), credited.Prepaid)
	assert.Equal(t, id.Money(25600), credited.Due)
	assert.Zero(t, q.Less(50000).Due, "due never goes negative")
	assert.Equal(t, q.Total, q.Due)
}

func TestCanPay(t *testing.T) {
	tests := []struct {
		name    string
		status  ReservationStatus
		payment PaymentStatus
		want    bool
	}{
		{"pending unpaid", ReservationPending, PaymentPending, true},
		{"checked in unpaid", ReservationConfirmed, PaymentPending, true},
		{"paid", ReservationConfirmed, PaymentPaid, false},
		{"cancelled", ReservationCancelled, PaymentPending, false},
		{"completed", ReservationCompleted, PaymentPaid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reservation{Status: tt.status, PaymentStatus: tt.payment}
			assert.Equal(t, tt.want, r.CanPay())
		})
	}
}

func TestReservationTransitions(t *testing.T) {
	now := time.Now()
	r := &Reservation{Status: ReservationPending, PaymentStatus: PaymentPending}
	require.NoError(t, r.MarkPaid(now))
	assert.True(t, dErrors.HasCode(r.MarkPaid(now), dErrors.CodeInvariantViolation))

	require.NoError(t, r.Cancel(now))
	assert.Error(t, r.Cancel(now))

	arriving := &Reservation{Status: ReservationPending, PaymentStatus: PaymentPending}
	arriving.Confirm(now)
	assert.Equal(t, ReservationConfirmed, arriving.Status)
	assert.Error(t, arriving.Cancel(now), "confirmed reservations cannot be cancelled")
	arriving.Complete(now)
	assert.Equal(t, ReservationCompleted, arriving.Status)
	assert.Equal(t, PaymentPaid, arriving.PaymentStatus)
}

func TestBookingTransitions(t *testing.T) {
	now := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	b := &Booking{Status: BookingPending, Stay: Stay{CheckIn: day("2026-06-10"), CheckOut: day("2026-06-12")}}

	assert.Error(t, b.CheckOut(now), "cannot check out before check-in")
	require.NoError(t, b.CheckIn(b.RoomID, now))
	assert.Equal(t, BookingCheckedIn, b.Status)

	assert.Error(t, b.ExtendTo(day("2026-06-10"), now), "today is not in the future")
	require.NoError(t, b.ExtendTo(day("2026-06-15"), now))
	assert.Equal(t, 5, b.Stay.Nights())

	require.NoError(t, b.CheckOut(now))
	assert.False(t, b.Status.IsActive())
}
