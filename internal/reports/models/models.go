package models

import (
	"time"

	id "hotelchain/pkg/domain"
)

// Dashboard is the chain-wide head count shown on the admin landing page.
type Dashboard struct {
	Branches int
	Users    int
	Bookings int
}

// BranchBookings counts every booking ever made at one branch.
type BranchBookings struct {
	BranchID   id.BranchID
	BranchName string
	Bookings   int
}

// ChainReport is the super admin's revenue and occupancy overview.
type ChainReport struct {
	Revenue       id.Money
	CheckedIn     int
	Rooms         int
	OccupancyRate float64
	PerBranch     []BranchBookings
	GeneratedAt   time.Time
}

// OccupancyRate is checked-in bookings as a percentage of rooms, 0 without rooms.
func OccupancyRate(checkedIn, rooms int) float64 {
	if rooms <= 0 {
		return 0
	}
	return float64(checkedIn) / float64(rooms) * 100
}
