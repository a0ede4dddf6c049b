package branch

import (
	"context"
	"sort"
	"sync"

	"hotelchain/internal/inventory/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

// InMemory keeps branches in process memory.
type InMemory struct {
	mu       sync.RWMutex
	branches map[id.BranchID]*models.Branch
}

func NewInMemory() *InMemory {
	return &InMemory{branches: make(map[id.BranchID]*models.Branch)}
}

func (s *InMemory) Create(_ context.Context, b *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.branches[b.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	cp := *b
	s.branches[b.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, branchID id.BranchID) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches[branchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, b *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.branches[b.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *b
	s.branches[b.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, branchID id.BranchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.branches[branchID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.branches, branchID)
	return nil
}

// List returns branches ordered by name.
func (s *InMemory) List(_ context.Context) ([]*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Branch, 0, len(s.branches))
	for _, b := range s.branches {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.branches), nil
}
