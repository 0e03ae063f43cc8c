package importer

import (
	"context"
	"errors"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/twaddington/olccprices/internal/product"
)

var titleCaser = cases.Title(language.English)

// reconcileProduct upserts a product and its dated price from one
// normalized row. It handles rows from both the current price list
// and the price-history file.
//
// Returns (nil, nil) when the row's code is not a valid item code;
// those rows carry no product data (headers, footers) and are skipped
// without side effects.
func (im *Importer) reconcileProduct(ctx context.Context, row *productRow, kind ImportType) (*product.Product, error) {
	if !product.IsCodeValid(row.Code) {
		return nil, nil
	}

	created := false
	p, err := im.products.FindByCode(ctx, row.Code)
	if errors.Is(err, product.ErrNotFound) {
		p = &product.Product{Code: row.Code}
		created = true
	} else if err != nil {
		return nil, err
	}

	// History rows arrive out of chronological order, so they only
	// fill descriptive fields on first creation. Clobbering a live
	// product with stale titles or sizes is worse than missing data.
	if created || kind != TypePriceHistory {
		p.Title = titleCaser.String(row.Title)
		p.Slug = product.Slugify(p.Title)

		if row.Status != "" {
			p.Status = row.Status
		}
		if row.Size != "" {
			p.Size = row.Size
		}
		if row.BottlesPerCase > 0 {
			p.BottlesPerCase = row.BottlesPerCase
		}
		if !row.Proof.IsZero() {
			p.Proof = row.Proof
		}
		if !row.Age.IsZero() {
			p.Age = row.Age
		}

		if err := im.products.Save(ctx, p); err != nil {
			return nil, err
		}
	}

	var effectiveDate time.Time
	if row.Year > 0 && row.Month > 0 {
		effectiveDate = time.Date(row.Year, time.Month(row.Month), 1, 0, 0, 0, 0, time.UTC)
	} else {
		// Current price lists take effect on the first of next month.
		effectiveDate = product.NextMonth(im.now())
	}

	// First write wins for a given (product, month); re-running the
	// same import is a no-op here.
	if _, err := im.products.CreatePrice(ctx, p.ID, row.Price, effectiveDate); err != nil {
		return nil, err
	}

	return p, nil
}
