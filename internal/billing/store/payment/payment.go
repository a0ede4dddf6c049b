// Package payment stores payments received by branches.
package payment

import (
	"time"

	"hotelchain/internal/billing/models"
	id "hotelchain/pkg/domain"
)

// Filter narrows List. Zero fields match everything.
type Filter struct {
	BranchID      id.BranchID
	ReservationID id.ReservationID
	Status        models.PaymentStatus
	Since         time.Time
	Limit         int
}

func (f Filter) matches(p *models.Payment) bool {
	switch {
	case !f.BranchID.IsNil() && p.BranchID != f.BranchID:
		return false
	case !f.ReservationID.IsNil() && (p.ReservationID == nil || *p.ReservationID != f.ReservationID):
		return false
	case f.Status != "" && p.Status != f.Status:
		return false
	case !f.Since.IsZero() && p.CreatedAt.Before(f.Since):
		return false
	}
	return true
}
