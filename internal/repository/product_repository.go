package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/productos/catalog-api/internal/models"
	"github.com/productos/catalog-api/internal/query"
)

const (
	categoryStatsSQL = `
		SELECT category,
			COUNT(*) AS total,
			MIN(price) AS min_price,
			MAX(price) AS max_price,
			ROUND(AVG(price), 2) AS average_price,
			SUM(price) AS total_value
		FROM productos
		GROUP BY category
		ORDER BY total DESC`

	summarySQL = `
		SELECT COUNT(*) AS total_products,
			ROUND(AVG(price), 2) AS average_price,
			MIN(price) AS min_price,
			MAX(price) AS max_price,
			SUM(price) AS inventory_value
		FROM productos`

	// No secondary sort: rows with equal prices come back in storage order.
	topByPriceSQL = `
		SELECT id, name, category, price
		FROM productos
		ORDER BY price DESC
		LIMIT $1`

	getByIDSQL = `
		SELECT id, name, category, price, created_at
		FROM productos
		WHERE id = $1`
)

type ProductRepository struct {
	db Querier
}

func NewProductRepository(db Querier) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListWithFilters runs the page query and the count query concurrently.
// If either fails the whole call fails and no partial result is returned.
func (r *ProductRepository) ListWithFilters(ctx context.Context, params models.ListProductsParams) (*models.ListProductsResult, error) {
	dataStmt, countStmt, err := query.BuildProductList(params)
	if err != nil {
		return nil, err
	}

	var (
		products []*models.Product
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.Query(gctx, dataStmt.SQL, dataStmt.Args...)
		if err != nil {
			return errors.Wrap(err, "query products")
		}
		products, err = scanProducts(rows, params.Pagination.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = countRows(gctx, r.db, countStmt.SQL, countStmt.Args...)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.ListProductsResult{
		Products: products,
		Total:    total,
	}, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRow(ctx, getByIDSQL, id).Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &p, nil
}

func (r *ProductRepository) CategoryStats(ctx context.Context) ([]*models.CategoryStats, error) {
	rows, err := r.db.Query(ctx, categoryStatsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query category stats")
	}
	defer rows.Close()

	var stats []*models.CategoryStats
	for rows.Next() {
		var s models.CategoryStats
		if err := rows.Scan(&s.Category, &s.Total, &s.MinPrice, &s.MaxPrice, &s.AveragePrice, &s.TotalValue); err != nil {
			return nil, errors.Wrap(err, "scan category stats")
		}
		stats = append(stats, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate category stats")
	}

	return stats, nil
}

func (r *ProductRepository) Summary(ctx context.Context) (*models.Summary, error) {
	var s models.Summary
	err := r.db.QueryRow(ctx, summarySQL).Scan(&s.TotalProducts, &s.AveragePrice, &s.MinPrice, &s.MaxPrice, &s.InventoryValue)
	if err != nil {
		return nil, errors.Wrap(err, "query summary")
	}
	return &s, nil
}

// TopByPrice returns the n most expensive products. CreatedAt is left zero.
func (r *ProductRepository) TopByPrice(ctx context.Context, n int) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, topByPriceSQL, n)
	if err != nil {
		return nil, errors.Wrap(err, "query top products")
	}
	defer rows.Close()

	products := make([]*models.Product, 0, n)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price); err != nil {
			return nil, errors.Wrap(err, "scan top product")
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate top products")
	}

	return products, nil
}

// PriceDistribution counts products per half-open range, one concurrent
// count query per range. Results keep the order of ranges.
func (r *ProductRepository) PriceDistribution(ctx context.Context, ranges []models.PriceRange) ([]models.PriceRangeCount, error) {
	counts := make([]models.PriceRangeCount, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	for i, rng := range ranges {
		counts[i].Range = rng
		g.Go(func() error {
			stmt, err := query.BuildPriceRangeCount(rng)
			if err != nil {
				return err
			}
			total, err := countRows(gctx, r.db, stmt.SQL, stmt.Args...)
			if err != nil {
				return errors.Wrapf(err, "count range %s", rangeName(rng))
			}
			counts[i].Total = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return counts, nil
}

func rangeName(rng models.PriceRange) string {
	if rng.Label != "" {
		return strconv.Quote(rng.Label)
	}
	if rng.Max == nil {
		return fmt.Sprintf("[%s,inf)", rng.Min)
	}
	return fmt.Sprintf("[%s,%s)", rng.Min, rng.Max)
}
