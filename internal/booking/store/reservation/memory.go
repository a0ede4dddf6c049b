package reservation

import (
	"context"
	"sort"
	"sync"

	"hotelchain/internal/booking/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

// InMemory keeps reservations in process memory.
type InMemory struct {
	mu           sync.RWMutex
	reservations map[id.ReservationID]*models.Reservation
}

func NewInMemory() *InMemory {
	return &InMemory{reservations: make(map[id.ReservationID]*models.Reservation)}
}

func (s *InMemory) Create(_ context.Context, r *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[r.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, reservationID id.ReservationID) (*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[reservationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, r *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

// ListByUser returns the user's reservations, newest first.
func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Reservation
	for _, r := range s.reservations {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
