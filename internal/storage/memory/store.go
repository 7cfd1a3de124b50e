package memory

import (
	"context"
	"sort"
	"sync"

	"poolRegistry/internal/model"
	"poolRegistry/internal/storage"
)

// Store is an in-memory implementation of storage.PoolStore.
type Store struct {
	mu    sync.RWMutex
	pools map[string]*model.Pool
}

// NewStore creates an empty in-memory pool store.
func NewStore() *Store {
	return &Store{pools: make(map[string]*model.Pool)}
}

var _ storage.PoolStore = (*Store)(nil)

func (s *Store) Insert(_ context.Context, p *model.Pool) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pools[p.ID]; exists {
		return storage.ErrDuplicateKey
	}
	poolCopy := *p
	s.pools[p.ID] = &poolCopy
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*model.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.pools[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	poolCopy := *p
	return &poolCopy, nil
}

func (s *Store) Replace(_ context.Context, p *model.Pool) (*model.Pool, error) {
	if p == nil || p.ID == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.pools[p.ID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	next := *p
	next.CreatedAt = current.CreatedAt
	s.pools[p.ID] = &next

	out := next
	return &out, nil
}

func (s *Store) Delete(_ context.Context, id string) (*model.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.pools[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	delete(s.pools, id)
	return p, nil
}

func (s *Store) ListIDs(_ context.Context, q storage.ListQuery) ([]string, error) {
	s.mu.RLock()
	matched := make([]*model.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		if q.Filter.Matches(p) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if q.Offset < 0 || q.Limit <= 0 || q.Offset >= len(matched) {
		return []string{}, nil
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	ids := make([]string, 0, end-q.Offset)
	for _, p := range matched[q.Offset:end] {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
