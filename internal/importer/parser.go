package importer

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// productRow is one normalized row from a prices or price-history
// sheet. Year/Month are zero for current-price rows; the reconciler
// then dates the price to the first of next month.
type productRow struct {
	Code           string
	Status         string
	Title          string
	Size           string
	BottlesPerCase int
	Price          decimal.Decimal
	Year           int
	Month          int
	Age            decimal.Decimal
	Proof          decimal.Decimal
}

// storeRow is one normalized row from a store-directory sheet.
type storeRow struct {
	Key     int
	Name    string
	Phone   string
	Address string
	Hours   string
	County  string
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// parseInt tolerates spreadsheet numerics arriving as "6" or "6.0".
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parsePricesRow maps a current-price-list row:
// code, status, title, size, bottles per case, price.
// Header rows and anything without a parseable price are skipped.
func parsePricesRow(cells []string) (*productRow, bool) {
	row := &productRow{
		Code:   cell(cells, 0),
		Status: cell(cells, 1),
		Title:  cell(cells, 2),
		Size:   cell(cells, 3),
	}

	if n, ok := parseInt(cell(cells, 4)); ok {
		row.BottlesPerCase = n
	}

	price, ok := parseDecimal(cell(cells, 5))
	if !ok {
		return nil, false
	}
	row.Price = price

	return row, true
}

// parseHistoryRow maps a price-history row:
// year, month, code, title, size, age, age unit, proof,
// bottles per case, price. Age arrives in months when the unit
// column is "M" and is converted to years here.
func parseHistoryRow(cells []string) (*productRow, bool) {
	row := &productRow{
		Code:  cell(cells, 2),
		Title: cell(cells, 3),
		Size:  cell(cells, 4),
	}

	year, ok := parseInt(cell(cells, 0))
	if !ok {
		return nil, false
	}
	month, ok := parseInt(cell(cells, 1))
	if !ok || month < 1 || month > 12 {
		return nil, false
	}
	row.Year = year
	row.Month = month

	if age, ok := parseDecimal(cell(cells, 5)); ok {
		if cell(cells, 6) == "M" {
			age = age.Div(decimal.NewFromInt(12)).Round(2)
		}
		row.Age = age
	}
	if proof, ok := parseDecimal(cell(cells, 7)); ok {
		row.Proof = proof
	}
	if n, ok := parseInt(cell(cells, 8)); ok {
		row.BottlesPerCase = n
	}

	price, ok := parseDecimal(cell(cells, 9))
	if !ok {
		return nil, false
	}
	row.Price = price

	return row, true
}

// parseStoreRow maps a store-directory row:
// key, name, phone, address, hours, county.
// A row only counts as a store when the key column is numeric.
func parseStoreRow(cells []string) (*storeRow, bool) {
	key, ok := parseInt(cell(cells, 0))
	if !ok {
		return nil, false
	}

	return &storeRow{
		Key:     key,
		Name:    cell(cells, 1),
		Phone:   cell(cells, 2),
		Address: cell(cells, 3),
		Hours:   cell(cells, 4),
		County:  cell(cells, 5),
	}, true
}
