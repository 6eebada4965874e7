package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/cinemavault/internal/model"
)

// MemoryRentalStore is the default RentalStore.  Contents live for the
// lifetime of the process.
type MemoryRentalStore struct {
	mu      sync.RWMutex
	rentals []model.Rental
	index   map[string]int
}

// NewMemoryRentalStore returns an empty store.
func NewMemoryRentalStore() *MemoryRentalStore {
	return &MemoryRentalStore{index: make(map[string]int)}
}

func (s *MemoryRentalStore) Append(_ context.Context, r model.Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[r.ID]; ok {
		return ErrConflict
	}
	s.index[r.ID] = len(s.rentals)
	s.rentals = append(s.rentals, cloneRental(r))
	return nil
}

func (s *MemoryRentalStore) List(_ context.Context, owner string) ([]model.Rental, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Rental, 0, len(s.rentals))
	for _, r := range s.rentals {
		if owner != "" && r.WalletAddress != owner {
			continue
		}
		out = append(out, cloneRental(r))
	}
	return out, nil
}

func (s *MemoryRentalStore) FindByID(_ context.Context, id string) (model.Rental, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Rental{}, ErrRentalNotFound
	}
	return cloneRental(s.rentals[i]), nil
}

func (s *MemoryRentalStore) Update(_ context.Context, r model.Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[r.ID]
	if !ok {
		return ErrRentalNotFound
	}
	s.rentals[i] = cloneRental(r)
	return nil
}

// cloneRental detaches the snapshot pointer so callers cannot mutate
// stored records.
func cloneRental(r model.Rental) model.Rental {
	if r.Movie != nil {
		snap := *r.Movie
		r.Movie = &snap
	}
	return r
}
