package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"hotelchain/internal/billing/models"
	"hotelchain/internal/billing/store/invoice"
	bookingmodels "hotelchain/internal/booking/models"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	authmw "hotelchain/pkg/platform/middleware/auth"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/requestcontext"
)

// checkOutHour is when a desk invoice falls due on the check-out day.
const checkOutHour = 12

var outstanding = []models.InvoiceStatus{models.InvoicePending, models.InvoiceOverdue}

// GenerateInvoice bills a checked-in stay in the clerk's branch for its nights
// plus serviceCharges.
func (s *Service) GenerateInvoice(ctx context.Context, bookingID id.BookingID, serviceCharges id.Money) (_ *models.Invoice, err error) {
	ctx, span := tracer.Start(ctx, "billing.GenerateInvoice")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("booking.id", bookingID.String()))

	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		return nil, err
	}
	if serviceCharges < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "service charges cannot be negative")
	}
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, wrapStoreErr(err, "booking", "load booking")
	}
	if b.BranchID != branchID {
		return nil, dErrors.New(dErrors.CodeNotFound, "booking not found")
	}
	if b.Status != bookingmodels.BookingCheckedIn {
		return nil, dErrors.New(dErrors.CodeConflict, "only checked-in stays can be invoiced")
	}
	quote, err := s.quote(ctx, b, serviceCharges)
	if err != nil {
		return nil, err
	}

	due := b.Stay.CheckOut.Add(checkOutHour * time.Hour)
	var inv *models.Invoice
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.issue(ctx, models.InvoiceDraft{
			UserID:         b.UserID,
			BranchID:       b.BranchID,
			ReservationID:  b.ReservationID,
			BookingID:      &b.ID,
			Amount:         quote.Total,
			ServiceCharges: serviceCharges,
			DueAt:          &due,
		}, "desk")
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// quote prices a booking at its room type's base rate.
func (s *Service) quote(ctx context.Context, b *bookingmodels.Booking, serviceCharges id.Money) (bookingmodels.StayQuote, error) {
	room, err := s.rooms.GetRoom(ctx, b.RoomID)
	if err != nil {
		return bookingmodels.StayQuote{}, err
	}
	rt, err := s.rooms.GetRoomType(ctx, room.RoomTypeID)
	if err != nil {
		return bookingmodels.StayQuote{}, err
	}
	return bookingmodels.Quote(rt.BasePrice, b.Stay.Nights(), serviceCharges), nil
}

// SearchInvoice finds outstanding invoices in the clerk's branch by invoice ID
// or guest email. An empty query lists every outstanding invoice.
func (s *Service) SearchInvoice(ctx context.Context, query string) ([]models.InvoiceView, error) {
	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	filter := invoice.Filter{BranchID: branchID, Statuses: outstanding}

	if invoiceID, parseErr := id.ParseInvoiceID(query); parseErr == nil {
		inv, err := s.invoices.FindByID(ctx, invoiceID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, nil
			}
			return nil, wrapStoreErr(err, "invoice", "load invoice")
		}
		if inv.BranchID != branchID || !inv.IsOutstanding() {
			return nil, nil
		}
		return s.views(ctx, []*models.Invoice{inv})
	}
	if query != "" {
		guest, err := s.guests.FindByEmail(ctx, query)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				return nil, nil
			}
			return nil, err
		}
		filter.UserID = guest.ID
	}
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, wrapStoreErr(err, "invoice", "search invoices")
	}
	return s.views(ctx, invoices)
}

// ProcessPayment settles an outstanding invoice at the desk. The invoice and
// the payment change together.
func (s *Service) ProcessPayment(ctx context.Context, invoiceID id.InvoiceID, method, cardLastFour string) (_ *models.Payment, err error) {
	ctx, span := tracer.Start(ctx, "billing.ProcessPayment")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("invoice.id", invoiceID.String()), attribute.String("payment.method", method))

	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		return nil, err
	}
	m, err := models.ParseDeskMethod(method)
	if err != nil {
		return nil, err
	}

	var paid *models.Payment
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.FindByID(ctx, invoiceID)
		if err != nil {
			return wrapStoreErr(err, "invoice", "load invoice")
		}
		if inv.BranchID != branchID {
			return dErrors.New(dErrors.CodeNotFound, "invoice not found")
		}
		if err := inv.Pay(requestcontext.Now(ctx)); err != nil {
			return dErrors.New(dErrors.CodeConflict, dErrors.Message(err))
		}
		paid, err = s.RecordPayment(ctx, models.PaymentDraft{
			UserID:        inv.UserID,
			BranchID:      inv.BranchID,
			ReservationID: inv.ReservationID,
			BookingID:     inv.BookingID,
			InvoiceID:     &inv.ID,
			Amount:        inv.Amount,
			Method:        m,
			CardLastFour:  strings.TrimSpace(cardLastFour),
			Status:        models.PaymentCompleted,
		})
		if err != nil {
			return err
		}
		if err := s.invoices.Update(ctx, inv); err != nil {
			return wrapStoreErr(err, "invoice", "update invoice")
		}
		return s.emit(ctx, audit.Event{
			Action:   string(audit.EventInvoicePaid),
			UserID:   inv.UserID,
			BranchID: inv.BranchID.String(),
			Subject:  inv.ID.String(),
			Reason:   string(m),
		})
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// views joins invoices with their guests. Unknown guests keep empty names.
func (s *Service) views(ctx context.Context, invoices []*models.Invoice) ([]models.InvoiceView, error) {
	now := requestcontext.Now(ctx)
	type contact struct{ name, email string }
	names := make(map[id.UserID]contact)
	out := make([]models.InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		guest, ok := names[inv.UserID]
		if !ok {
			u, err := s.guests.GetUser(ctx, inv.UserID)
			switch {
			case err == nil:
				guest = contact{name: u.Name, email: u.Email}
			case !dErrors.HasCode(err, dErrors.CodeNotFound):
				return nil, err
			}
			names[inv.UserID] = guest
		}
		out = append(out, models.InvoiceView{
			Invoice:    inv,
			GuestName:  guest.name,
			GuestEmail: guest.email,
			Current:    inv.StatusAt(now),
		})
	}
	return out, nil
}
