package models

import (
	"regexp"
	"time"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoiceVoid    InvoiceStatus = "void"
)

func (s InvoiceStatus) String() string { return string(s) }

// Invoice is money a guest owes a branch.
type Invoice struct {
	ID             id.InvoiceID
	UserID         id.UserID
	BranchID       id.BranchID
	ReservationID  *id.ReservationID
	BookingID      *id.BookingID
	Amount         id.Money
	ServiceCharges id.Money
	Status         InvoiceStatus
	DueAt          *time.Time
	IssuedAt       time.Time
	PaidAt         *time.Time
}

// NewInvoice issues a pending invoice for a positive amount.
func NewInvoice(invoiceID id.InvoiceID, userID id.UserID, branchID id.BranchID, amount, serviceCharges id.Money, dueAt *time.Time, now time.Time) (*Invoice, error) {
	if amount <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invoice amount must be greater than zero")
	}
	if serviceCharges < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "service charges cannot be negative")
	}
	return &Invoice{
		ID:             invoiceID,
		UserID:         userID,
		BranchID:       branchID,
		Amount:         amount,
		ServiceCharges: serviceCharges,
		Status:         InvoicePending,
		DueAt:          dueAt,
		IssuedAt:       now,
	}, nil
}

// IsOutstanding reports whether the invoice still awaits payment.
func (i *Invoice) IsOutstanding() bool {
	return i.Status == InvoicePending || i.Status == InvoiceOverdue
}

// StatusAt reports overdue for a pending invoice whose due time has passed.
func (i *Invoice) StatusAt(now time.Time) InvoiceStatus {
	if i.Status == InvoicePending && i.DueAt != nil && now.After(*i.DueAt) {
		return InvoiceOverdue
	}
	return i.Status
}

// Pay settles an outstanding invoice.
func (i *Invoice) Pay(now time.Time) error {
	if !i.IsOutstanding() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invoice is not awaiting payment")
	}
	i.Status = InvoicePaid
	i.PaidAt = &now
	return nil
}

// Void withdraws an outstanding invoice, e.g. once its reservation is paid by card.
func (i *Invoice) Void() error {
	if !i.IsOutstanding() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invoice is not awaiting payment")
	}
	i.Status = InvoiceVoid
	return nil
}

type PaymentMethod string

const (
	MethodCash       PaymentMethod = "cash"
	MethodCreditCard PaymentMethod = "credit_card"
	MethodInvoice    PaymentMethod = "invoice"
)

func (m PaymentMethod) String() string { return string(m) }

// ParseDeskMethod accepts the methods a clerk can take at the desk.
func ParseDeskMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCash, MethodCreditCard:
		return PaymentMethod(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "payment method must be cash or credit card")
	}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentVoid      PaymentStatus = "void"
)

func (s PaymentStatus) String() string { return string(s) }

var lastFourPattern = regexp.MustCompile(`^\d{4}$`)

// Payment is money received, or promised by card, for a stay.
type Payment struct {
	ID             id.PaymentID
	UserID         id.UserID
	BranchID       id.BranchID
	ReservationID  *id.ReservationID
	BookingID      *id.BookingID
	InvoiceID      *id.InvoiceID
	Amount         id.Money
	Method         PaymentMethod
	CardLastFour   string
	CardholderName string
	Status         PaymentStatus
	CreatedAt      time.Time
}

// Void withdraws a card hold that was never captured.
func (p *Payment) Void() error {
	if p.Status != PaymentPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "only pending payments can be voided")
	}
	p.Status = PaymentVoid
	return nil
}

// PaymentDraft is what callers supply to record a payment.
type PaymentDraft struct {
	UserID         id.UserID
	BranchID       id.BranchID
	ReservationID  *id.ReservationID
	BookingID      *id.BookingID
	InvoiceID      *id.InvoiceID
	Amount         id.Money
	Method         PaymentMethod
	CardLastFour   string
	CardholderName string
	Status         PaymentStatus
}

// NewPayment validates a draft. Card payments carry exactly four digits.
func NewPayment(paymentID id.PaymentID, d PaymentDraft, now time.Time) (*Payment, error) {
	if d.Amount <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payment amount must be greater than zero")
	}
	switch d.Method {
	case MethodCreditCard:
		if !lastFourPattern.MatchString(d.CardLastFour) {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "card last four digits must be 4 numbers")
		}
	case MethodCash, MethodInvoice:
		d.CardLastFour = ""
		d.CardholderName = ""
	default:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown payment method")
	}
	if d.Status == "" {
		d.Status = PaymentCompleted
	}
	return &Payment{
		ID:             paymentID,
		UserID:         d.UserID,
		BranchID:       d.BranchID,
		ReservationID:  d.ReservationID,
		BookingID:      d.BookingID,
		InvoiceID:      d.InvoiceID,
		Amount:         d.Amount,
		Method:         d.Method,
		CardLastFour:   d.CardLastFour,
		CardholderName: d.CardholderName,
		Status:         d.Status,
		CreatedAt:      now,
	}, nil
}

// InvoiceDraft is what callers supply to issue an invoice.
type InvoiceDraft struct {
	UserID         id.UserID
	BranchID       id.BranchID
	ReservationID  *id.ReservationID
	BookingID      *id.BookingID
	Amount         id.Money
	ServiceCharges id.Money
	DueAt          *time.Time
}

// InvoiceView joins an invoice with the guest it is addressed to.
type InvoiceView struct {
	*Invoice
	GuestName  string
	GuestEmail string
	// Current is StatusAt the time the page was built.
	Current InvoiceStatus
}

// Summary is a branch's money position.
type Summary struct {
	TotalInvoiced  id.Money
	TotalPaid      id.Money
	Outstanding    id.Money
	RecentInvoices []InvoiceView
	RecentPayments []*Payment
}
