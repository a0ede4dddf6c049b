package store

import (
	"context"
	"sort"

	bookingmodels "hotelchain/internal/booking/models"
	"hotelchain/internal/booking/store/booking"
	inventory "hotelchain/internal/inventory/models"
	"hotelchain/internal/inventory/store/room"
	"hotelchain/internal/reports/models"
	id "hotelchain/pkg/domain"
)

type branchLister interface {
	List(ctx context.Context) ([]*inventory.Branch, error)
	Count(ctx context.Context) (int, error)
}

type userCounter interface {
	Count(ctx context.Context) (int, error)
}

type roomLister interface {
	List(ctx context.Context, f room.Filter) ([]*inventory.Room, error)
}

type roomTypeLister interface {
	List(ctx context.Context) ([]*inventory.RoomType, error)
}

type bookingLister interface {
	List(ctx context.Context, f booking.Filter) ([]*bookingmodels.Booking, error)
}

// MemorySource computes the report figures by walking the in-memory stores.
type MemorySource struct {
	branches branchLister
	users    userCounter
	rooms    roomLister
	types    roomTypeLister
	bookings bookingLister
}

func NewMemory(branches branchLister, users userCounter, rooms roomLister, types roomTypeLister, bookings bookingLister) *MemorySource {
	return &MemorySource{branches: branches, users: users, rooms: rooms, types: types, bookings: bookings}
}

func (s *MemorySource) CountBranches(ctx context.Context) (int, error) {
	return s.branches.Count(ctx)
}

func (s *MemorySource) CountUsers(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}

func (s *MemorySource) CountBookings(ctx context.Context) (int, error) {
	all, err := s.bookings.List(ctx, booking.Filter{})
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (s *MemorySource) Revenue(ctx context.Context) (id.Money, error) {
	stays, err := s.bookings.List(ctx, booking.Filter{
		Statuses: []bookingmodels.BookingStatus{bookingmodels.BookingCheckedIn, bookingmodels.BookingCheckedOut},
	})
	if err != nil {
		return 0, err
	}
	rooms, err := s.rooms.List(ctx, room.Filter{})
	if err != nil {
		return 0, err
	}
	types, err := s.types.List(ctx)
	if err != nil {
		return 0, err
	}
	price := make(map[id.RoomTypeID]id.Money, len(types))
	for _, rt := range types {
		price[rt.ID] = rt.BasePrice
	}
	roomPrice := make(map[id.RoomID]id.Money, len(rooms))
	for _, r := range rooms {
		roomPrice[r.ID] = price[r.RoomTypeID]
	}
	var total id.Money
	for _, b := range stays {
		total += roomPrice[b.RoomID].Times(b.Stay.Nights())
	}
	return total, nil
}

func (s *MemorySource) Occupancy(ctx context.Context) (checkedIn, rooms int, err error) {
	in, err := s.bookings.List(ctx, booking.Filter{Statuses: []bookingmodels.BookingStatus{bookingmodels.BookingCheckedIn}})
	if err != nil {
		return 0, 0, err
	}
	all, err := s.rooms.List(ctx, room.Filter{})
	if err != nil {
		return 0, 0, err
	}
	return len(in), len(all), nil
}

func (s *MemorySource) BookingsPerBranch(ctx context.Context) ([]models.BranchBookings, error) {
	branches, err := s.branches.List(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.bookings.List(ctx, booking.Filter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[id.BranchID]int)
	for _, b := range all {
		counts[b.BranchID]++
	}
	out := make([]models.BranchBookings, 0, len(branches))
	for _, br := range branches {
		out = append(out, models.BranchBookings{BranchID: br.ID, BranchName: br.Name, Bookings: counts[br.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BranchName < out[j].BranchName })
	return out, nil
}
