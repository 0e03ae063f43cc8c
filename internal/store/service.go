package store

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListStores returns stores ordered by name, optionally narrowed to
// one county.
func (s *Service) ListStores(ctx context.Context, county string) ([]*Store, error) {
	return s.repo.List(ctx, county)
}
