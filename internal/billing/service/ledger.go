package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"hotelchain/internal/billing/models"
	"hotelchain/internal/billing/store/invoice"
	"hotelchain/internal/billing/store/payment"
	id "hotelchain/pkg/domain"
	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/requestcontext"
)

// RecordPayment stores a payment. Callers running a transaction pass its
// context so the payment commits with their change.
func (s *Service) RecordPayment(ctx context.Context, draft models.PaymentDraft) (_ *models.Payment, err error) {
	ctx, span := tracer.Start(ctx, "billing.RecordPayment")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("payment.method", string(draft.Method)))

	p, err := models.NewPayment(id.PaymentID(uuid.New()), draft, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapStoreErr(err, "payment", "record payment")
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, wrapStoreErr(err, "payment", "record payment")
	}
	if err := s.emit(ctx, audit.Event{
		Action:   string(audit.EventPaymentRecorded),
		UserID:   p.UserID,
		BranchID: p.BranchID.String(),
		Subject:  p.ID.String(),
		Reason:   string(p.Method),
	}); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordPayment(string(p.Method), string(p.Status), int64(p.Amount))
	}
	return p, nil
}

// CreatePendingInvoice issues an invoice for a reservation paid later.
func (s *Service) CreatePendingInvoice(ctx context.Context, draft models.InvoiceDraft) (*models.Invoice, error) {
	return s.issue(ctx, draft, "reservation")
}

func (s *Service) issue(ctx context.Context, draft models.InvoiceDraft, origin string) (*models.Invoice, error) {
	inv, err := models.NewInvoice(id.InvoiceID(uuid.New()), draft.UserID, draft.BranchID,
		draft.Amount, draft.ServiceCharges, draft.DueAt, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapStoreErr(err, "invoice", "issue invoice")
	}
	inv.ReservationID = draft.ReservationID
	inv.BookingID = draft.BookingID
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, wrapStoreErr(err, "invoice", "issue invoice")
	}
	if err := s.emit(ctx, audit.Event{
		Action:   string(audit.EventInvoiceIssued),
		UserID:   inv.UserID,
		BranchID: inv.BranchID.String(),
		Subject:  inv.ID.String(),
		Reason:   origin,
	}); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementInvoice(origin)
	}
	return inv, nil
}

// VoidReservationInvoices withdraws the outstanding invoices of a reservation
// that was paid by card, re-planned or cancelled. It returns how many it voided.
func (s *Service) VoidReservationInvoices(ctx context.Context, reservationID id.ReservationID) (int, error) {
	outstanding, err := s.invoices.List(ctx, invoice.Filter{
		ReservationID: reservationID,
		Statuses:      []models.InvoiceStatus{models.InvoicePending, models.InvoiceOverdue},
	})
	if err != nil {
		return 0, wrapStoreErr(err, "invoice", "load invoices")
	}
	for _, inv := range outstanding {
		if err := inv.Void(); err != nil {
			return 0, wrapStoreErr(err, "invoice", "void invoice")
		}
		if err := s.invoices.Update(ctx, inv); err != nil {
			return 0, wrapStoreErr(err, "invoice", "void invoice")
		}
	}
	return len(outstanding), nil
}

// VoidReservationHolds withdraws the pending card payments of a reservation
// and returns them, so a re-planned reservation can place a new hold.
func (s *Service) VoidReservationHolds(ctx context.Context, reservationID id.ReservationID) ([]*models.Payment, error) {
	holds, err := s.payments.List(ctx, payment.Filter{ReservationID: reservationID, Status: models.PaymentPending})
	if err != nil {
		return nil, wrapStoreErr(err, "payment", "load payments")
	}
	for _, p := range holds {
		if err := p.Void(); err != nil {
			return nil, wrapStoreErr(err, "payment", "void payment")
		}
		if err := s.payments.Update(ctx, p); err != nil {
			return nil, wrapStoreErr(err, "payment", "void payment")
		}
	}
	return holds, nil
}
