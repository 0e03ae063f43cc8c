package product

import (
	"context"
	"errors"
	"time"
)

const DefaultPerPage = 25

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListingEntry pairs a product with its derived current price for the
// browsing pages. Price is nil when no price row is effective yet.
type ListingEntry struct {
	Product *Product      `json:"product"`
	Price   *ProductPrice `json:"price,omitempty"`
}

// --------------------------------------------------
// Paginated product listing (ordered by title)
// --------------------------------------------------
func (s *Service) ListProducts(ctx context.Context, filter ListFilter, page, perPage int) ([]*ListingEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	products, total, err := s.repo.List(ctx, filter, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, err
	}

	asOf := MonthStart(time.Now())
	entries := make([]*ListingEntry, 0, len(products))

	for _, p := range products {
		entry := &ListingEntry{Product: p}

		price, err := s.repo.CurrentPrice(ctx, p.ID, asOf)
		if err == nil {
			entry.Price = price
		} else if !errors.Is(err, ErrNotFound) {
			return nil, 0, err
		}

		entries = append(entries, entry)
	}

	return entries, total, nil
}

// --------------------------------------------------
// Product detail by slug, with full price history
// --------------------------------------------------
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Product, []*ProductPrice, *ProductPrice, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, nil, err
	}

	prices, err := s.repo.ListPrices(ctx, p.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	current, err := s.repo.CurrentPrice(ctx, p.ID, MonthStart(time.Now()))
	if errors.Is(err, ErrNotFound) {
		current = nil
	} else if err != nil {
		return nil, nil, nil, err
	}

	return p, prices, current, nil
}

// --------------------------------------------------
// Price history by product code (REST API)
// --------------------------------------------------
func (s *Service) PricesByCode(ctx context.Context, code string) ([]*ProductPrice, error) {
	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPrices(ctx, p.ID)
}
