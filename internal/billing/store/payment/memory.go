package payment

import (
	"context"
	"sort"
	"sync"

	"hotelchain/internal/billing/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

// InMemory keeps payments in process memory.
type InMemory struct {
	mu       sync.RWMutex
	payments map[id.PaymentID]*models.Payment
}

func NewInMemory() *InMemory {
	return &InMemory{payments: make(map[id.PaymentID]*models.Payment)}
}

func (s *InMemory) Create(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	cp := *p
	s.payments[p.ID] = &cp
	return nil
}

func (s *InMemory) Update(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *p
	s.payments[p.ID] = &cp
	return nil
}

// List returns matching payments, newest first.
func (s *InMemory) List(_ context.Context, f Filter) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Payment
	for _, p := range s.payments {
		if f.matches(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// SumCompleted totals the completed payments of a branch.
func (s *InMemory) SumCompleted(_ context.Context, branchID id.BranchID) (id.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total id.Money
	for _, p := range s.payments {
		if p.BranchID == branchID && p.Status == models.PaymentCompleted {
			total += p.Amount
		}
	}
	return total, nil
}
