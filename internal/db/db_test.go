package db

import (
	"os"
	"testing"
)

// ConnectPostgres log.Fatals on misconfiguration, so only the happy
// path is exercisable here, and only against a live database.
func TestConnectPostgres(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool := ConnectPostgres()
	defer pool.Close()

	// Schema init is idempotent; a second connect must not fail.
	if err := initSchema(pool); err != nil {
		t.Fatalf("schema re-init: %v", err)
	}
}
