package importer

import (
	"fmt"
	"time"
)

// ImportType selects the spreadsheet layout being imported.
type ImportType string

const (
	TypePrices       ImportType = "prices"
	TypePriceHistory ImportType = "price_history"
	TypeStores       ImportType = "stores"
)

// ImportTypes lists every recognized import type.
var ImportTypes = []ImportType{TypePrices, TypePriceHistory, TypeStores}

// ParseImportType validates a user-supplied import type string.
func ParseImportType(s string) (ImportType, error) {
	for _, t := range ImportTypes {
		if s == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("import type %q not implemented", s)
}

// ImportRecord is one append-only audit row per fetched file. The most
// recent record for a URL holds the change-detection token the next
// fetch compares against.
type ImportRecord struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	ETag      string    `json:"etag"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary reports what one import run did.
type Summary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
