package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/twaddington/olccprices/internal/db"
	"github.com/twaddington/olccprices/internal/geocode"
	"github.com/twaddington/olccprices/internal/importer"
	"github.com/twaddington/olccprices/internal/product"
	"github.com/twaddington/olccprices/internal/storage"
	"github.com/twaddington/olccprices/internal/store"
)

// fetch-worker stands in for the cron entries that drove the old
// system: every interval it fetches each configured price list (the
// ETag check makes unchanged files cheap) and then recomputes the
// on-sale flags.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using environment variables")
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	interval := 24 * time.Hour
	if v := os.Getenv("FETCH_INTERVAL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours < 1 {
			log.Fatalf("Bad FETCH_INTERVAL_HOURS: %q", v)
		}
		interval = time.Duration(hours) * time.Hour
	}

	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	productRepo := product.NewPostgresRepository(pgDB)
	storeRepo := store.NewPostgresRepository(pgDB)
	recordRepo := importer.NewPostgresRecordRepository(pgDB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var archive importer.Archiver
	if storage.Enabled() {
		r2, err := storage.NewR2Client(ctx)
		if err != nil {
			log.Fatal("R2 init failed:", err)
		}
		archive = r2
	}

	// The geocoder is only consulted for store rows, so wiring it in
	// unconditionally costs nothing on the price-list fetches.
	im := importer.NewImporter(productRepo, storeRepo, geocode.NewNominatimClient(), false)
	fetcher := importer.NewFetcher(recordRepo, im, archive, false)
	recalc := product.NewRecalculator(productRepo, false)

	log.Printf("fetch-worker started, interval %v", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// One pass right away, then on every tick.
	runOnce(ctx, fetcher, recalc)

	for {
		select {
		case <-ctx.Done():
			log.Println("fetch-worker stopping")
			return
		case <-ticker.C:
			runOnce(ctx, fetcher, recalc)
		}
	}
}

func runOnce(ctx context.Context, fetcher *importer.Fetcher, recalc *product.Recalculator) {
	for _, kind := range importer.ImportTypes {
		outcome, err := fetcher.Fetch(ctx, "", kind, false)
		if err != nil {
			// No URL configured for this type; nothing to poll.
			log.Printf("fetch %q skipped: %v", kind, err)
			continue
		}
		log.Printf("fetch %q: %s %s", kind, outcome.Status, outcome.Reason)
	}

	count, err := recalc.Run(ctx, false)
	if err != nil {
		log.Printf("sale recompute failed: %v", err)
		return
	}
	log.Printf("sale recompute: %d items flagged", count)
}
