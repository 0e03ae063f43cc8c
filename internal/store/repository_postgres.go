package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const storeColumns = `
	id,
	key,
	name,
	address,
	address_raw,
	latitude,
	longitude,
	county,
	phone,
	hours_raw,
	created_at,
	modified_at
`

func scanStore(row pgx.Row) (*Store, error) {
	var s Store
	if err := row.Scan(
		&s.ID,
		&s.Key,
		&s.Name,
		&s.Address,
		&s.AddressRaw,
		&s.Latitude,
		&s.Longitude,
		&s.County,
		&s.Phone,
		&s.HoursRaw,
		&s.CreatedAt,
		&s.ModifiedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) FindByKey(ctx context.Context, key int) (*Store, error) {
	s, err := scanStore(r.db.QueryRow(ctx, `
		SELECT `+storeColumns+`
		FROM stores
		WHERE key = $1
	`, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// --------------------------------------------------
// Upsert a store by key
// --------------------------------------------------
func (r *PostgresRepository) Save(ctx context.Context, s *Store) error {
	query := `
		INSERT INTO stores (
			key,
			name,
			address,
			address_raw,
			latitude,
			longitude,
			county,
			phone,
			hours_raw
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			address_raw = EXCLUDED.address_raw,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			county = EXCLUDED.county,
			phone = EXCLUDED.phone,
			hours_raw = EXCLUDED.hours_raw,
			modified_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, modified_at
	`

	return r.db.QueryRow(
		ctx,
		query,
		s.Key,
		s.Name,
		s.Address,
		s.AddressRaw,
		s.Latitude,
		s.Longitude,
		s.County,
		s.Phone,
		s.HoursRaw,
	).Scan(&s.ID, &s.CreatedAt, &s.ModifiedAt)
}

func (r *PostgresRepository) List(ctx context.Context, county string) ([]*Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores`
	args := []interface{}{}

	if county != "" {
		query += ` WHERE LOWER(county) = LOWER($1)`
		args = append(args, county)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}

	return stores, rows.Err()
}
