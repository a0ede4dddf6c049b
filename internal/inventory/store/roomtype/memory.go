package roomtype

import (
	"context"
	"sort"
	"strings"
	"sync"

	"hotelchain/internal/inventory/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

// InMemory keeps room types in process memory. Names are unique ignoring case.
type InMemory struct {
	mu    sync.RWMutex
	types map[id.RoomTypeID]*models.RoomType
}

func NewInMemory() *InMemory {
	return &InMemory{types: make(map[id.RoomTypeID]*models.RoomType)}
}

func (s *InMemory) Create(_ context.Context, rt *models.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types {
		if strings.EqualFold(existing.Name, rt.Name) {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *rt
	s.types[rt.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, typeID id.RoomTypeID) (*models.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.types[typeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

// List returns room types ordered by name.
func (s *InMemory) List(_ context.Context) ([]*models.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.RoomType, 0, len(s.types))
	for _, rt := range s.types {
		cp := *rt
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
