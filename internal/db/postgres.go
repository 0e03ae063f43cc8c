package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("Connected to PostgreSQL")

	// Initialize schema
	if err := initSchema(db); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return db
}

// initSchema creates or updates the database schema
func initSchema(db *pgxpool.Pool) error {
	ctx := context.Background()

	// -------------------------------
	// PRODUCTS
	// -------------------------------
	productTableSQL := `
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			code VARCHAR(10) UNIQUE NOT NULL,
			slug VARCHAR(60) NOT NULL,
			title VARCHAR(200) NOT NULL DEFAULT '',
			status VARCHAR(10) NOT NULL DEFAULT '',
			size VARCHAR(20) NOT NULL DEFAULT '',
			bottles_per_case INTEGER NOT NULL DEFAULT 0,
			proof NUMERIC(6,2) NOT NULL DEFAULT 0,
			age NUMERIC(5,2) NOT NULL DEFAULT 0,
			on_sale BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			modified_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, productTableSQL); err != nil {
		return err
	}

	productIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_products_title ON products (title);
		CREATE INDEX IF NOT EXISTS idx_products_slug ON products (slug);
	`
	if _, err := db.Exec(ctx, productIndexSQL); err != nil {
		return err
	}

	// -------------------------------
	// PRODUCT PRICES
	// -------------------------------
	// Append-only: one row per (product, effective month), never updated.
	priceTableSQL := `
		CREATE TABLE IF NOT EXISTS product_prices (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id),
			amount NUMERIC(7,2) NOT NULL,
			effective_date DATE NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (product_id, effective_date)
		)
	`
	if _, err := db.Exec(ctx, priceTableSQL); err != nil {
		return err
	}

	// -------------------------------
	// STORES
	// -------------------------------
	storeTableSQL := `
		CREATE TABLE IF NOT EXISTS stores (
			id BIGSERIAL PRIMARY KEY,
			key INTEGER UNIQUE NOT NULL,
			name VARCHAR(200) NOT NULL DEFAULT '',
			address VARCHAR(200) NOT NULL DEFAULT '',
			address_raw VARCHAR(200) NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			county VARCHAR(50) NOT NULL DEFAULT '',
			phone VARCHAR(20) NOT NULL DEFAULT '',
			hours_raw VARCHAR(200) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			modified_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, storeTableSQL); err != nil {
		return err
	}

	countyIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_stores_county ON stores (county)
	`
	if _, err := db.Exec(ctx, countyIndexSQL); err != nil {
		return err
	}

	// -------------------------------
	// IMPORT RECORDS
	// -------------------------------
	importTableSQL := `
		CREATE TABLE IF NOT EXISTS import_records (
			id BIGSERIAL PRIMARY KEY,
			url VARCHAR(500) NOT NULL,
			etag VARCHAR(200) NOT NULL DEFAULT '',
			checksum VARCHAR(64) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, importTableSQL); err != nil {
		return err
	}

	importIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_import_records_url ON import_records (url, created_at DESC)
	`
	if _, err := db.Exec(ctx, importIndexSQL); err != nil {
		return err
	}

	log.Println("Schema initialized successfully")
	return nil
}
