package invoice

import (
	"context"
	"sort"
	"sync"

	"hotelchain/internal/billing/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

// InMemory keeps invoices in process memory.
type InMemory struct {
	mu       sync.RWMutex
	invoices map[id.InvoiceID]*models.Invoice
}

func NewInMemory() *InMemory {
	return &InMemory{invoices: make(map[id.InvoiceID]*models.Invoice)}
}

func (s *InMemory) Create(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	cp := *inv
	s.invoices[inv.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, invoiceID id.InvoiceID) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *inv
	s.invoices[inv.ID] = &cp
	return nil
}

// List returns matching invoices, newest first.
func (s *InMemory) List(_ context.Context, f Filter) ([]*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Invoice
	for _, inv := range s.invoices {
		if f.matches(inv) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *InMemory) Totals(_ context.Context, branchID id.BranchID) (Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var t Totals
	for _, inv := range s.invoices {
		if inv.BranchID != branchID || inv.Status == models.InvoiceVoid {
			continue
		}
		t.Invoiced += inv.Amount
		if inv.IsOutstanding() {
			t.Outstanding += inv.Amount
		}
	}
	return t, nil
}
