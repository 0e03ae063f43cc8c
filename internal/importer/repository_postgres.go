package importer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRecordRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRecordRepository(db *pgxpool.Pool) *PostgresRecordRepository {
	return &PostgresRecordRepository{db: db}
}

func (r *PostgresRecordRepository) Create(ctx context.Context, record *ImportRecord) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO import_records (url, etag, checksum)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, record.URL, record.ETag, record.Checksum).Scan(&record.ID, &record.CreatedAt)
}

func (r *PostgresRecordRepository) Latest(ctx context.Context, url string) (*ImportRecord, error) {
	var record ImportRecord
	err := r.db.QueryRow(ctx, `
		SELECT id, url, etag, checksum, created_at
		FROM import_records
		WHERE url = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, url).Scan(&record.ID, &record.URL, &record.ETag, &record.Checksum, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRecordRepository) LatestAny(ctx context.Context) (*ImportRecord, error) {
	var record ImportRecord
	err := r.db.QueryRow(ctx, `
		SELECT id, url, etag, checksum, created_at
		FROM import_records
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&record.ID, &record.URL, &record.ETag, &record.Checksum, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
