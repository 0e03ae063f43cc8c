package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no store matches the given key.
var ErrNotFound = errors.New("store not found")

// Repository defines the data-access contract.
type Repository interface {
	FindByKey(ctx context.Context, key int) (*Store, error)

	// Save upserts by key and fills ID/timestamps on create.
	Save(ctx context.Context, s *Store) error

	// List returns stores ordered by name; county narrows the result
	// when non-empty (case-insensitive match).
	List(ctx context.Context, county string) ([]*Store, error)
}
