// Package invoice stores invoices issued by branches.
package invoice

import (
	"slices"
	"time"

	"hotelchain/internal/billing/models"
	id "hotelchain/pkg/domain"
)

// Filter narrows List. Zero fields match everything.
type Filter struct {
	BranchID      id.BranchID
	UserID        id.UserID
	ReservationID id.ReservationID
	Statuses      []models.InvoiceStatus
	IssuedSince   time.Time
	Limit         int
}

func (f Filter) matches(inv *models.Invoice) bool {
	switch {
	case !f.BranchID.IsNil() && inv.BranchID != f.BranchID:
		return false
	case !f.UserID.IsNil() && inv.UserID != f.UserID:
		return false
	case !f.ReservationID.IsNil() && (inv.ReservationID == nil || *inv.ReservationID != f.ReservationID):
		return false
	case len(f.Statuses) > 0 && !slices.Contains(f.Statuses, inv.Status):
		return false
	case !f.IssuedSince.IsZero() && inv.IssuedAt.Before(f.IssuedSince):
		return false
	}
	return true
}

// Totals are a branch's invoice sums. Void invoices are excluded.
type Totals struct {
	Invoiced    id.Money
	Outstanding id.Money
}
