package room

import (
	"context"
	"sort"
	"sync"

	"hotelchain/internal/inventory/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

// InMemory keeps rooms in process memory.
type InMemory struct {
	mu    sync.RWMutex
	rooms map[id.RoomID]*models.Room
}

func NewInMemory() *InMemory {
	return &InMemory{rooms: make(map[id.RoomID]*models.Room)}
}

func (s *InMemory) numberTaken(r *models.Room) bool {
	for _, existing := range s.rooms {
		if existing.ID != r.ID && existing.BranchID == r.BranchID && existing.RoomNumber == r.RoomNumber {
			return true
		}
	}
	return false
}

func (s *InMemory) Create(_ context.Context, r *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.numberTaken(r) {
		return sentinel.ErrAlreadyUsed
	}
	cp := *r
	s.rooms[r.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, roomID id.RoomID) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, r *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if s.numberTaken(r) {
		return sentinel.ErrAlreadyUsed
	}
	cp := *r
	s.rooms[r.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, roomID id.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.rooms, roomID)
	return nil
}

// List returns matching rooms ordered by room number.
func (s *InMemory) List(_ context.Context, f Filter) ([]*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Room
	for _, r := range s.rooms {
		if f.matches(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID != out[j].BranchID {
			return out[i].BranchID.String() < out[j].BranchID.String()
		}
		return out[i].RoomNumber < out[j].RoomNumber
	})
	return out, nil
}

func (s *InMemory) Count(_ context.Context, f Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.rooms {
		if f.matches(r) {
			n++
		}
	}
	return n, nil
}
