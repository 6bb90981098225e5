package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-faster/errors"

	"github.com/productos/catalog-api/internal/models"
	"github.com/productos/catalog-api/internal/query"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS productos (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(100) NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS productos_category_idx ON productos (category)`,
	`CREATE INDEX IF NOT EXISTS productos_price_idx ON productos (price)`,
}

// SeedRepository holds the write statements used by the offline seeder.
type SeedRepository struct {
	db Querier
}

func NewSeedRepository(db Querier) *SeedRepository {
	return &SeedRepository{db: db}
}

// EnsureSchema creates the products table and its indexes if absent.
func (r *SeedRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "create schema")
		}
	}
	return nil
}

func (r *SeedRepository) Truncate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "TRUNCATE TABLE productos RESTART IDENTITY"); err != nil {
		return errors.Wrap(err, "truncate productos")
	}
	return nil
}

// InsertBatch writes all products with a single multi-row INSERT.
func (r *SeedRepository) InsertBatch(ctx context.Context, products []models.NewProduct) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	stmt, err := insertBatchStatement(products)
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, errors.Wrapf(err, "insert batch of %d", len(products))
	}
	return tag.RowsAffected(), nil
}

func insertBatchStatement(products []models.NewProduct) (query.Statement, error) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(query.ProductsTable).
		Columns("name", "category", "price")
	for _, p := range products {
		b = b.Values(p.Name, p.Category, p.Price)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return query.Statement{}, errors.Wrap(err, "build insert")
	}
	return query.Statement{SQL: sql, Args: args}, nil
}

func (r *SeedRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, "SELECT COUNT(*) FROM productos")
}

func (r *SeedRepository) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := r.db.Query(ctx, "SELECT category, COUNT(*) AS total FROM productos GROUP BY category ORDER BY total DESC")
	if err != nil {
		return nil, errors.Wrap(err, "query category counts")
	}
	defer rows.Close()

	var counts []models.CategoryCount
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, errors.Wrap(err, "scan category count")
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate category counts")
	}

	return counts, nil
}
