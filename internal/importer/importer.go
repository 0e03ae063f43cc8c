package importer

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/twaddington/olccprices/internal/geocode"
	"github.com/twaddington/olccprices/internal/product"
	"github.com/twaddington/olccprices/internal/store"
)

const defaultGeocodeDelay = 350 * time.Millisecond

// Importer walks a price-list workbook and reconciles each row into
// the product or store tables. Row-level failures are logged and
// skipped; only configuration problems (bad path, unknown type) abort
// the run.
type Importer struct {
	products product.Repository
	stores   store.Repository
	geocoder geocode.Geocoder // nil disables geocoding
	quiet    bool

	geocodeDelay time.Duration
	now          func() time.Time
}

func NewImporter(products product.Repository, stores store.Repository, geocoder geocode.Geocoder, quiet bool) *Importer {
	return &Importer{
		products:     products,
		stores:       stores,
		geocoder:     geocoder,
		quiet:        quiet,
		geocodeDelay: defaultGeocodeDelay,
		now:          time.Now,
	}
}

func (im *Importer) uprint(format string, args ...interface{}) {
	if !im.quiet {
		log.Printf(format, args...)
	}
}

// Import opens the workbook at path and imports every row of sheet 0
// as the given type. Best effort per row: the returned Summary counts
// rows that produced a product or store, and rows that were skipped.
func (im *Importer) Import(ctx context.Context, path string, kind ImportType) (Summary, error) {
	var summary Summary

	if path == "" {
		return summary, fmt.Errorf("you must specify a filename")
	}
	if _, err := os.Stat(path); err != nil {
		return summary, fmt.Errorf("no such file: %q", path)
	}
	if _, err := ParseImportType(string(kind)); err != nil {
		return summary, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return summary, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return summary, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return summary, fmt.Errorf("reading rows: %w", err)
	}

	im.uprint("Importing %q from %s", kind, path)

	for _, cells := range rows {
		switch kind {
		case TypePrices, TypePriceHistory:
			im.importProductRow(ctx, cells, kind, &summary)
		case TypeStores:
			im.importStoreRow(ctx, cells, &summary)
		}
	}

	im.uprint("Imported %d new product/store records and/or prices (%d rows skipped)",
		summary.Imported, summary.Skipped)
	if summary.Imported < 1 {
		im.uprint("Did you specify the correct import type?")
	}

	return summary, nil
}

func (im *Importer) importProductRow(ctx context.Context, cells []string, kind ImportType, summary *Summary) {
	var row *productRow
	var ok bool

	if kind == TypePriceHistory {
		row, ok = parseHistoryRow(cells)
	} else {
		row, ok = parsePricesRow(cells)
	}
	if !ok {
		summary.Skipped++
		return
	}

	p, err := im.reconcileProduct(ctx, row, kind)
	if err != nil {
		log.Printf("Product code %q: %v", row.Code, err)
		summary.Skipped++
		return
	}
	if p == nil {
		summary.Skipped++
		return
	}

	summary.Imported++
	im.uprint("[%s]: %s", p.Code, p.Title)
}

func (im *Importer) importStoreRow(ctx context.Context, cells []string, summary *Summary) {
	row, ok := parseStoreRow(cells)
	if !ok {
		summary.Skipped++
		return
	}

	s, err := im.reconcileStore(ctx, row)
	if err != nil {
		log.Printf("Store %d: %v", row.Key, err)
		summary.Skipped++
		return
	}

	summary.Imported++
	im.uprint("[%d]: %s", s.Key, s.Name)
}
