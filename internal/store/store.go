// Package store holds the item collection adapters. The orchestrator never
// persists items itself; the server persists turn output through one of
// these stores.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
)

var ErrNotFound = errors.New("item not found")

type ItemStore interface {
	List(ctx context.Context) ([]model.Item, error)
	Get(ctx context.Context, id string) (*model.Item, error)
	Save(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps items in process memory. Used for tests and for running
// without Redis.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]model.Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]model.Item)}
}

func (s *MemoryStore) List(ctx context.Context) ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *MemoryStore) Save(ctx context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}
