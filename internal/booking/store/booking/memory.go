package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotelchain/internal/booking/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

// InMemory keeps bookings in process memory.
type InMemory struct {
	mu       sync.RWMutex
	bookings map[id.BookingID]*models.Booking
}

func NewInMemory() *InMemory {
	return &InMemory{bookings: make(map[id.BookingID]*models.Booking)}
}

func (s *InMemory) Create(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.bookings[b.ID] = clone(b)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, bookingID id.BookingID) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(b), nil
}

func (s *InMemory) Update(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.bookings[b.ID] = clone(b)
	return nil
}

// List returns matching bookings ordered by check-in, then creation.
func (s *InMemory) List(_ context.Context, f Filter) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Booking
	for _, b := range s.bookings {
		if f.matches(b) {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Stay.CheckIn.Equal(out[j].Stay.CheckIn) {
			return out[i].Stay.CheckIn.Before(out[j].Stay.CheckIn)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) CountByRoom(_ context.Context, roomID id.RoomID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.bookings {
		if b.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

// BusyRooms returns rooms in the branch with an active booking overlapping
// [checkIn, checkOut), ignoring bookings of exclude.
func (s *InMemory) BusyRooms(_ context.Context, branchID id.BranchID, checkIn, checkOut time.Time, exclude id.ReservationID) (map[id.RoomID]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stay := models.Stay{CheckIn: models.Day(checkIn), CheckOut: models.Day(checkOut)}
	busy := make(map[id.RoomID]bool)
	for _, b := range s.bookings {
		if b.BranchID != branchID || !b.Status.IsActive() {
			continue
		}
		if !exclude.IsNil() && b.ReservationID != nil && *b.ReservationID == exclude {
			continue
		}
		if b.Stay.Overlaps(stay) {
			busy[b.RoomID] = true
		}
	}
	return busy, nil
}

// RoomConflicts counts active bookings on the room overlapping the stay,
// other than exclude.
func (s *InMemory) RoomConflicts(_ context.Context, roomID id.RoomID, stay models.Stay, exclude id.BookingID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.ID != exclude && b.Status.IsActive() && b.Stay.Overlaps(stay) {
			n++
		}
	}
	return n, nil
}

func clone(b *models.Booking) *models.Booking {
	cp := *b
	if b.ReservationID != nil {
		rid := *b.ReservationID
		cp.ReservationID = &rid
	}
	return &cp
}
