package main

import (
	"context"

	billingservice "hotelchain/internal/billing/service"
	billinginvoice "hotelchain/internal/billing/store/invoice"
	bookingservice "hotelchain/internal/booking/service"
	bookingstore "hotelchain/internal/booking/store/booking"
	identityservice "hotelchain/internal/identity/service"
	id "hotelchain/pkg/domain"
)

// guestHistory answers identity's delete guard from the booking and billing
// tables, which identity does not own.
type guestHistory struct {
	reservations bookingservice.ReservationStore
	bookings     bookingservice.BookingStore
	invoices     billingservice.InvoiceStore
}

func (h guestHistory) HasHistory(ctx context.Context, userID id.UserID) (bool, error) {
	reservations, err := h.reservations.ListByUser(ctx, userID)
	if err != nil || len(reservations) > 0 {
		return len(reservations) > 0, err
	}
	bookings, err := h.bookings.List(ctx, bookingstore.Filter{UserID: userID})
	if err != nil || len(bookings) > 0 {
		return len(bookings) > 0, err
	}
	invoices, err := h.invoices.List(ctx, billinginvoice.Filter{UserID: userID, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(invoices) > 0, nil
}

// branchStaff counts the managers and clerks bound to a branch for
// inventory's delete guard.
type branchStaff struct {
	users identityservice.UserStore
}

func (b branchStaff) CountStaff(ctx context.Context, branchID id.BranchID) (int, error) {
	users, err := b.users.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, u := range users {
		if u.BranchID != nil && *u.BranchID == branchID {
			n++
		}
	}
	return n, nil
}
