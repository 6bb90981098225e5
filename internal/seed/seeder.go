package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/productos/catalog-api/internal/models"
)

type Repository interface {
	EnsureSchema(ctx context.Context) error
	Truncate(ctx context.Context) error
	InsertBatch(ctx context.Context, products []models.NewProduct) (int64, error)
	Count(ctx context.Context) (int64, error)
	CategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
}

type Options struct {
	Total     int
	BatchSize int
	Truncate  bool
}

type Report struct {
	Inserted   int64
	Total      int64
	Categories []models.CategoryCount
	Elapsed    time.Duration
}

type Seeder struct {
	repo   Repository
	gen    *Generator
	logger *slog.Logger
}

func NewSeeder(repo Repository, gen *Generator, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{repo: repo, gen: gen, logger: logger}
}

// Run creates the table if needed, optionally empties it, and inserts
// opts.Total products in batches. It stops at the first failed batch.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Total < 0 {
		return nil, fmt.Errorf("total must not be negative: %d", opts.Total)
	}
	if opts.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be at least 1: %d", opts.BatchSize)
	}

	start := time.Now()
	s.logger.Info("seeding products", "total", opts.Total, "batch_size", opts.BatchSize)

	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	if opts.Truncate {
		if err := s.repo.Truncate(ctx); err != nil {
			return nil, err
		}
		s.logger.Info("products table truncated")
	}

	var inserted int64
	for done := 0; done < opts.Total; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := min(opts.BatchSize, opts.Total-done)
		affected, err := s.repo.InsertBatch(ctx, s.gen.Batch(n))
		if err != nil {
			return nil, fmt.Errorf("after %d of %d products: %w", done, opts.Total, err)
		}
		inserted += affected
		done += n

		s.logger.Info("seed progress",
			"inserted", done,
			"total", opts.Total,
			"percent", fmt.Sprintf("%.2f", float64(done)/float64(opts.Total)*100),
		)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Inserted:   inserted,
		Total:      total,
		Categories: categories,
		Elapsed:    time.Since(start),
	}

	s.logger.Info("seeding complete", "inserted", report.Inserted, "total", report.Total, "elapsed", report.Elapsed)
	for _, c := range categories {
		s.logger.Info("category distribution", "category", c.Category, "total", c.Total)
	}

	return report, nil
}
