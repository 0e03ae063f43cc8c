package product

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InMemoryRepository backs the reconciler and service tests.
type InMemoryRepository struct {
	products    map[string]*Product       // by code
	prices      map[int64][]*ProductPrice // by product id
	nextID      int64
	nextPriceID int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		products:    make(map[string]*Product),
		prices:      make(map[int64][]*ProductPrice),
		nextID:      1,
		nextPriceID: 1,
	}
}

func (r *InMemoryRepository) FindByCode(ctx context.Context, code string) (*Product, error) {
	p, ok := r.products[code]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *InMemoryRepository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			copy := *p
			return &copy, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) Save(ctx context.Context, p *Product) error {
	now := time.Now()

	if existing, ok := r.products[p.Code]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = r.nextID
		r.nextID++
		p.CreatedAt = now
	}
	p.ModifiedAt = now

	copy := *p
	r.products[p.Code] = &copy
	return nil
}

func (r *InMemoryRepository) sorted() []*Product {
	var products []*Product
	for _, p := range r.products {
		copy := *p
		products = append(products, &copy)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Title < products[j].Title
	})
	return products
}

func matches(p *Product, f ListFilter) bool {
	if f.Title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Title)) {
		return false
	}
	if f.Code != "" && p.Code != f.Code {
		return false
	}
	if f.Size != "" && p.Size != f.Size {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Proof != nil && !p.Proof.Equal(*f.Proof) {
		return false
	}
	if f.OnSale != nil && p.OnSale != *f.OnSale {
		return false
	}
	return true
}

func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]*Product, int, error) {
	var filtered []*Product
	for _, p := range r.sorted() {
		if matches(p, filter) {
			filtered = append(filtered, p)
		}
	}

	total := len(filtered)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Product, error) {
	return r.sorted(), nil
}

func (r *InMemoryRepository) SetOnSale(ctx context.Context, productID int64, onSale bool) error {
	for _, p := range r.products {
		if p.ID == productID {
			p.OnSale = onSale
			p.ModifiedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) CreatePrice(ctx context.Context, productID int64, amount decimal.Decimal, effectiveDate time.Time) (bool, error) {
	for _, pp := range r.prices[productID] {
		if pp.EffectiveDate.Equal(effectiveDate) {
			// First write wins.
			return false, nil
		}
	}

	pp := &ProductPrice{
		ID:            r.nextPriceID,
		ProductID:     productID,
		Amount:        amount,
		EffectiveDate: effectiveDate,
		CreatedAt:     time.Now(),
	}
	r.nextPriceID++
	r.prices[productID] = append(r.prices[productID], pp)
	return true, nil
}

func (r *InMemoryRepository) PriceAt(ctx context.Context, productID int64, date time.Time) (*ProductPrice, error) {
	for _, pp := range r.prices[productID] {
		if pp.EffectiveDate.Equal(date) {
			copy := *pp
			return &copy, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) CurrentPrice(ctx context.Context, productID int64, asOf time.Time) (*ProductPrice, error) {
	var best *ProductPrice
	for _, pp := range r.prices[productID] {
		if pp.EffectiveDate.After(asOf) {
			continue
		}
		if best == nil || pp.EffectiveDate.After(best.EffectiveDate) {
			best = pp
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	copy := *best
	return &copy, nil
}

func (r *InMemoryRepository) ListPrices(ctx context.Context, productID int64) ([]*ProductPrice, error) {
	var prices []*ProductPrice
	for _, pp := range r.prices[productID] {
		copy := *pp
		prices = append(prices, &copy)
	}
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].EffectiveDate.After(prices[j].EffectiveDate)
	})
	return prices, nil
}
