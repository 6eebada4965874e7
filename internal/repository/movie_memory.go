package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/cinemavault/internal/model"
)

// MemoryMovieStore is the process-local fallback collection.
type MemoryMovieStore struct {
	mu     sync.RWMutex
	movies []model.LocalMovie
}

func NewMemoryMovieStore() *MemoryMovieStore { return &MemoryMovieStore{} }

func (s *MemoryMovieStore) Add(_ context.Context, m model.LocalMovie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.movies {
		if existing.ID == m.ID {
			return ErrConflict
		}
	}
	m.Cast = append(make([]string, 0, len(m.Cast)), m.Cast...)
	s.movies = append(s.movies, m)
	return nil
}

func (s *MemoryMovieStore) All(_ context.Context) ([]model.LocalMovie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LocalMovie, len(s.movies))
	copy(out, s.movies)
	return out, nil
}

func (s *MemoryMovieStore) FindByID(_ context.Context, id string) (model.LocalMovie, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if m.ID == id {
			return m, true, nil
		}
	}
	return model.LocalMovie{}, false, nil
}
