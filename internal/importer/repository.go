package importer

import (
	"context"
	"errors"
)

// ErrNoRecord is returned when no import record exists for a URL.
var ErrNoRecord = errors.New("no import record")

// RecordRepository is the append-only audit log of fetched files.
type RecordRepository interface {
	Create(ctx context.Context, record *ImportRecord) error

	// Latest returns the most recent record for url.
	Latest(ctx context.Context, url string) (*ImportRecord, error)

	// LatestAny returns the most recent record for any URL; the
	// serving layer shows it as the "last updated" time.
	LatestAny(ctx context.Context) (*ImportRecord, error)
}
