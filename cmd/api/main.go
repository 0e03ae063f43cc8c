package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/twaddington/olccprices/internal/db"
	"github.com/twaddington/olccprices/internal/importer"
	"github.com/twaddington/olccprices/internal/product"
	"github.com/twaddington/olccprices/internal/router"
	"github.com/twaddington/olccprices/internal/store"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("Missing env var: DATABASE_URL")
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── REPOS ─────────────────────────
	productRepo := product.NewPostgresRepository(pgDB)
	storeRepo := store.NewPostgresRepository(pgDB)
	recordRepo := importer.NewPostgresRecordRepository(pgDB)

	// ───────────────────────── HANDLERS ─────────────────────────
	productHandler := product.NewHandler(product.NewService(productRepo))
	storeHandler := store.NewHandler(store.NewService(storeRepo))

	// ───────────────────────── ROUTES ─────────────────────────
	r := router.NewRouter(productHandler, storeHandler, recordRepo)

	// ───────────────────────── START ─────────────────────────
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("API running at http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
