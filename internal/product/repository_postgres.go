package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `
	id,
	code,
	slug,
	title,
	status,
	size,
	bottles_per_case,
	proof::text,
	age::text,
	on_sale,
	created_at,
	modified_at
`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var proof, age string
	if err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Slug,
		&p.Title,
		&p.Status,
		&p.Size,
		&p.BottlesPerCase,
		&proof,
		&age,
		&p.OnSale,
		&p.CreatedAt,
		&p.ModifiedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if p.Proof, err = decimal.NewFromString(proof); err != nil {
		return nil, err
	}
	if p.Age, err = decimal.NewFromString(age); err != nil {
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Find a product by its natural key
// --------------------------------------------------
func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE code = $1`, productColumns)

	rows, err := r.db.Query(ctx, query, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(products) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return products[0], nil
	default:
		return nil, ErrAmbiguous
	}
}

func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1 LIMIT 1`, productColumns)

	p, err := scanProduct(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// --------------------------------------------------
// Upsert a product by code
// --------------------------------------------------
func (r *PostgresRepository) Save(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (
			code,
			slug,
			title,
			status,
			size,
			bottles_per_case,
			proof,
			age,
			on_sale
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO UPDATE SET
			slug = EXCLUDED.slug,
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			size = EXCLUDED.size,
			bottles_per_case = EXCLUDED.bottles_per_case,
			proof = EXCLUDED.proof,
			age = EXCLUDED.age,
			on_sale = EXCLUDED.on_sale,
			modified_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, modified_at
	`

	return r.db.QueryRow(
		ctx,
		query,
		p.Code,
		p.Slug,
		p.Title,
		p.Status,
		p.Size,
		p.BottlesPerCase,
		p.Proof,
		p.Age,
		p.OnSale,
	).Scan(&p.ID, &p.CreatedAt, &p.ModifiedAt)
}

// --------------------------------------------------
// Paginated + filtered listing (API)
// --------------------------------------------------
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]*Product, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	n := 0

	arg := func(v interface{}) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if filter.Title != "" {
		where += " AND title ILIKE " + arg("%"+filter.Title+"%")
	}
	if filter.Code != "" {
		where += " AND code = " + arg(filter.Code)
	}
	if filter.Size != "" {
		where += " AND size = " + arg(filter.Size)
	}
	if filter.Status != "" {
		where += " AND status = " + arg(filter.Status)
	}
	if filter.Proof != nil {
		where += " AND proof = " + arg(*filter.Proof)
	}
	if filter.OnSale != nil {
		where += " AND on_sale = " + arg(*filter.OnSale)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM products%s ORDER BY title LIMIT %s OFFSET %s`,
		productColumns, where, arg(limit), arg(offset),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY title`, productColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *PostgresRepository) SetOnSale(ctx context.Context, productID int64, onSale bool) error {
	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET on_sale = $2, modified_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`, productID, onSale)
	return err
}

// --------------------------------------------------
// Price rows (append-only, first write wins per month)
// --------------------------------------------------
func (r *PostgresRepository) CreatePrice(ctx context.Context, productID int64, amount decimal.Decimal, effectiveDate time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO product_prices (product_id, amount, effective_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, effective_date) DO NOTHING
	`, productID, amount, effectiveDate)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const priceColumns = `id, product_id, amount::text, effective_date, created_at`

func scanPrice(row pgx.Row) (*ProductPrice, error) {
	var pp ProductPrice
	var amount string
	if err := row.Scan(&pp.ID, &pp.ProductID, &amount, &pp.EffectiveDate, &pp.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if pp.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	return &pp, nil
}

func (r *PostgresRepository) PriceAt(ctx context.Context, productID int64, date time.Time) (*ProductPrice, error) {
	pp, err := scanPrice(r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM product_prices
		WHERE product_id = $1 AND effective_date = $2
	`, priceColumns), productID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return pp, err
}

func (r *PostgresRepository) CurrentPrice(ctx context.Context, productID int64, asOf time.Time) (*ProductPrice, error) {
	pp, err := scanPrice(r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM product_prices
		WHERE product_id = $1 AND effective_date <= $2
		ORDER BY effective_date DESC
		LIMIT 1
	`, priceColumns), productID, asOf))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return pp, err
}

func (r *PostgresRepository) ListPrices(ctx context.Context, productID int64) ([]*ProductPrice, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM product_prices
		WHERE product_id = $1
		ORDER BY effective_date DESC
	`, priceColumns), productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []*ProductPrice
	for rows.Next() {
		pp, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		prices = append(prices, pp)
	}

	return prices, rows.Err()
}
