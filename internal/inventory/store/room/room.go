// Package room stores the physical rooms of every branch.
package room

import (
	"hotelchain/internal/inventory/models"
	id "hotelchain/pkg/domain"
)

// Filter narrows List. Zero fields match everything.
type Filter struct {
	BranchID   id.BranchID
	RoomTypeID id.RoomTypeID
	Status     models.RoomStatus
	// ExcludeStatus drops rooms in this status.
	ExcludeStatus models.RoomStatus
}

func (f Filter) matches(r *models.Room) bool {
	if !f.BranchID.IsNil() && r.BranchID != f.BranchID {
		return false
	}
	if !f.RoomTypeID.IsNil() && r.RoomTypeID != f.RoomTypeID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.ExcludeStatus != "" && r.Status == f.ExcludeStatus {
		return false
	}
	return true
}
