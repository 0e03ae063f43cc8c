package product

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when no product (or price) matches.
	ErrNotFound = errors.New("product not found")

	// ErrAmbiguous is returned when a product code resolves to more
	// than one row. That is a data integrity problem; callers skip
	// the row and keep going.
	ErrAmbiguous = errors.New("product code matches multiple rows")
)

// ListFilter narrows API listings. Zero values mean "no filter".
type ListFilter struct {
	Title  string // substring, case-insensitive
	Code   string
	Size   string
	Status string
	Proof  *decimal.Decimal
	OnSale *bool
}

// Repository defines the data-access contract.
// Reconcilers and services depend ONLY on this interface.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// Save upserts by code and fills ID/timestamps on create.
	Save(ctx context.Context, p *Product) error

	// List returns one page ordered by title plus the total row count.
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]*Product, int, error)

	// ListAll returns every product ordered by title.
	ListAll(ctx context.Context) ([]*Product, error)

	SetOnSale(ctx context.Context, productID int64, onSale bool) error

	// CreatePrice inserts a price row for (product, effective month).
	// Returns false when a row for that month already exists; the
	// existing row wins and nothing is changed.
	CreatePrice(ctx context.Context, productID int64, amount decimal.Decimal, effectiveDate time.Time) (bool, error)

	// PriceAt returns the price whose effective_date equals date exactly.
	PriceAt(ctx context.Context, productID int64, date time.Time) (*ProductPrice, error)

	// CurrentPrice returns the most recent price with effective_date <= asOf.
	CurrentPrice(ctx context.Context, productID int64, asOf time.Time) (*ProductPrice, error)

	// ListPrices returns all price rows for a product, newest first.
	ListPrices(ctx context.Context, productID int64) ([]*ProductPrice, error)
}
