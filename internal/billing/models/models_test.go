package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

func TestNewPayment(t *testing.T) {
	now := time.Now()
	base := PaymentDraft{UserID: id.UserID(uuid.New()), BranchID: id.BranchID(uuid.New()), Amount: 1000}

	card := base
	card.Method = MethodCreditCard
	card.CardLastFour = "123"
	_, err := NewPayment(id.PaymentID(uuid.New()), card, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	card.CardLastFour = "4242"
	p, err := NewPayment(id.PaymentID(uuid.New()), card, now)
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, p.Status)

	cash := base
	cash.Method = MethodCash
	cash.CardLastFour = "4242"
	p, err = NewPayment(id.PaymentID(uuid.New()), cash, now)
	require.NoError(t, err)
	assert.Empty(t, p.CardLastFour)

	zero := cash
	zero.Amount = 0
	_, err = NewPayment(id.PaymentID(uuid.New()), zero, now)
	assert.Error(t, err)
}

func TestInvoiceLifecycle(t *testing.T) {
	issued := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 1, 19, 0, 0, 0, time.UTC)

	_, err := NewInvoice(id.InvoiceID(uuid.New()), id.UserID(uuid.New()), id.BranchID(uuid.New()), 0, 0, nil, issued)
	assert.Error(t, err)

	inv, err := NewInvoice(id.InvoiceID(uuid.New()), id.UserID(uuid.New()), id.BranchID(uuid.New()), 5000, 0, &due, issued)
	require.NoError(t, err)
	assert.Equal(t, InvoicePending, inv.StatusAt(issued))
	assert.Equal(t, InvoiceOverdue, inv.StatusAt(due.Add(time.Minute)))

	require.NoError(t, inv.Pay(issued))
	assert.Equal(t, InvoicePaid, inv.StatusAt(due.Add(time.Hour)))
	assert.Error(t, inv.Pay(issued), "paid twice")
	assert.Error(t, inv.Void(), "paid invoices cannot be voided")

	pending, err := NewInvoice(id.InvoiceID(uuid.New()), id.UserID(uuid.New()), id.BranchID(uuid.New()), 5000, 0, &due, issued)
	require.NoError(t, err)
	require.NoError(t, pending.Void())
	assert.False(t, pending.IsOutstanding())
}

func TestParseDeskMethod(t *testing.T) {
	_, err := ParseDeskMethod("invoice")
	assert.Error(t, err)
	m, err := ParseDeskMethod("cash")
	require.NoError(t, err)
	assert.Equal(t, MethodCash, m)
}

func TestPaymentVoid(t *testing.T) {
	draft := PaymentDraft{
		UserID: id.UserID(uuid.New()), BranchID: id.BranchID(uuid.New()), Amount: 1000,
		Method: MethodCreditCard, CardLastFour: "4242", Status: PaymentPending,
	}
	hold, err := NewPayment(id.PaymentID(uuid.New()), draft, time.Now())
	require.NoError(t, err)
	require.NoError(t, hold.Void())
	assert.Equal(t, PaymentVoid, hold.Status)
	assert.Error(t, hold.Void())

	draft.Status = PaymentCompleted
	captured, err := NewPayment(id.PaymentID(uuid.New()), draft, time.Now())
	require.NoError(t, err)
	assert.True(t, dErrors.HasCode(captured.Void(), dErrors.CodeInvariantViolation))
}
