package product

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is one OLCC catalog item, upserted by its natural key (code).
type Product struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	Status         string          `json:"status"`
	Size           string          `json:"size"`
	BottlesPerCase int             `json:"bottles_per_case"`
	Proof          decimal.Decimal `json:"proof"`
	Age            decimal.Decimal `json:"age"`
	OnSale         bool            `json:"on_sale"`
	CreatedAt      time.Time       `json:"created_at"`
	ModifiedAt     time.Time       `json:"modified_at"`
}

// ProductPrice is one dated price row. Rows are append-only; the current
// price is derived by query, not stored on the product.
type ProductPrice struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveDate time.Time       `json:"effective_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

var codePattern = regexp.MustCompile(`^\d{4,5}[A-Za-z]$`)

// IsCodeValid reports whether code looks like an OLCC item code
// (4-5 digits followed by one letter, e.g. "0102B").
func IsCodeValid(code string) bool {
	return codePattern.MatchString(code)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a product title into a URL slug.
func Slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the first day of the month after t,
// wrapping December into January of the next year.
func NextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

// PrevMonth returns the first day of the month before t,
// wrapping January into December of the previous year.
func PrevMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, time.UTC)
}
