package store

import (
	"context"
	"sort"
	"strings"
	"time"
)

type InMemoryRepository struct {
	stores map[int]*Store // by key
	nextID int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		stores: make(map[int]*Store),
		nextID: 1,
	}
}

func (r *InMemoryRepository) FindByKey(ctx context.Context, key int) (*Store, error) {
	s, ok := r.stores[key]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *s
	return &copy, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, s *Store) error {
	now := time.Now()

	if existing, ok := r.stores[s.Key]; ok {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	} else {
		s.ID = r.nextID
		r.nextID++
		s.CreatedAt = now
	}
	s.ModifiedAt = now

	copy := *s
	r.stores[s.Key] = &copy
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, county string) ([]*Store, error) {
	var stores []*Store
	for _, s := range r.stores {
		if county != "" && !strings.EqualFold(s.County, county) {
			continue
		}
		copy := *s
		stores = append(stores, &copy)
	}
	sort.Slice(stores, func(i, j int) bool {
		return stores[i].Name < stores[j].Name
	})
	return stores, nil
}
