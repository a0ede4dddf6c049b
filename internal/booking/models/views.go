package models

import id "hotelchain/pkg/domain"

// ReservationView is a reservation with the names the guest pages show.
type ReservationView struct {
	*Reservation
	BranchName   string
	RoomTypeName string
	Amount       id.Money
}

// BookingView is a booking with guest, room and price details for the front desk.
type BookingView struct {
	*Booking
	GuestName    string
	GuestEmail   string
	RoomNumber   string
	RoomTypeName string
	BranchName   string
	Quote        StayQuote
}
