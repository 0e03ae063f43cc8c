package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/twaddington/olccprices/internal/db"
	"github.com/twaddington/olccprices/internal/geocode"
	"github.com/twaddington/olccprices/internal/importer"
	"github.com/twaddington/olccprices/internal/product"
	"github.com/twaddington/olccprices/internal/storage"
	"github.com/twaddington/olccprices/internal/store"
)

// deps holds everything the subcommands share. The database pool is
// opened lazily so `olcc --help` works without one.
type deps struct {
	products product.Repository
	stores   store.Repository
	records  importer.RecordRepository
	close    func()
}

func connect() *deps {
	pgDB := db.ConnectPostgres()
	return &deps{
		products: product.NewPostgresRepository(pgDB),
		stores:   store.NewPostgresRepository(pgDB),
		records:  importer.NewPostgresRecordRepository(pgDB),
		close:    pgDB.Close,
	}
}

func newFetchCmd() *cobra.Command {
	var (
		url        string
		importType string
		force      bool
		geocodeOn  bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the price list if it changed and import it",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := importer.ParseImportType(importType)
			if err != nil {
				return err
			}

			d := connect()
			defer d.close()

			var geocoder geocode.Geocoder
			if geocodeOn && kind == importer.TypeStores {
				geocoder = geocode.NewNominatimClient()
			}

			im := importer.NewImporter(d.products, d.stores, geocoder, quiet)

			var archive importer.Archiver
			if storage.Enabled() {
				r2, err := storage.NewR2Client(cmd.Context())
				if err != nil {
					return err
				}
				archive = r2
			}

			fetcher := importer.NewFetcher(d.records, im, archive, quiet)
			outcome, err := fetcher.Fetch(cmd.Context(), url, kind, force)
			if err != nil {
				return err
			}

			switch outcome.Status {
			case importer.OutcomeImported:
				log.Printf("Imported %d records (%d skipped)",
					outcome.Summary.Imported, outcome.Summary.Skipped)
			case importer.OutcomeSkipped:
				log.Printf("Skipped: %s", outcome.Reason)
			case importer.OutcomeFailed:
				log.Printf("Request failed! %s", outcome.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "The URL from where to fetch the file (default from env)")
	cmd.Flags().StringVar(&importType, "import-type", string(importer.TypePrices),
		fmt.Sprintf("One of: %v", importer.ImportTypes))
	cmd.Flags().BoolVar(&force, "force", false, "Ignore any ETag and force the import")
	cmd.Flags().BoolVar(&geocodeOn, "geocode", true, "Geocode store addresses")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress all output except errors")

	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		importType string
		geocodeOn  bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "import <filename>",
		Short: "Import an Excel workbook of OLCC price or store data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := importer.ParseImportType(importType)
			if err != nil {
				return err
			}

			d := connect()
			defer d.close()

			var geocoder geocode.Geocoder
			if geocodeOn && kind == importer.TypeStores {
				geocoder = geocode.NewNominatimClient()
			}

			im := importer.NewImporter(d.products, d.stores, geocoder, quiet)
			summary, err := im.Import(cmd.Context(), args[0], kind)
			if err != nil {
				return err
			}

			log.Printf("Imported %d records (%d skipped)", summary.Imported, summary.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&importType, "import-type", string(importer.TypePrices),
		fmt.Sprintf("One of: %v", importer.ImportTypes))
	cmd.Flags().BoolVar(&geocodeOn, "geocode", true, "Geocode store addresses")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress all output except errors")

	return cmd
}

func newPeriodicCmd() *cobra.Command {
	var (
		force bool
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "periodic",
		Short: "Recompute the on-sale flag from this month's and last month's prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := connect()
			defer d.close()

			count, err := product.NewRecalculator(d.products, quiet).Run(cmd.Context(), force)
			if err != nil {
				return err
			}

			log.Printf("%d items have dropped in price", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Run even when it is not the first of the month")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress all output except errors")

	return cmd
}

func main() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	root := &cobra.Command{
		Use:   "olcc",
		Short: "OLCC price list pipeline",
	}
	root.AddCommand(newFetchCmd(), newImportCmd(), newPeriodicCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
