package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/productos/catalog-api/internal/apperrors"
	"github.com/productos/catalog-api/internal/models"
	"github.com/productos/catalog-api/internal/repository"
)

// TopProductsLimit is the size of the most-expensive listing in statistics.
const TopProductsLimit = 5

type ProductRepository interface {
	ListWithFilters(ctx context.Context, params models.ListProductsParams) (*models.ListProductsResult, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	CategoryStats(ctx context.Context) ([]*models.CategoryStats, error)
	Summary(ctx context.Context) (*models.Summary, error)
	TopByPrice(ctx context.Context, n int) ([]*models.Product, error)
	PriceDistribution(ctx context.Context, ranges []models.PriceRange) ([]models.PriceRangeCount, error)
}

type ProductService struct {
	repo ProductRepository
}

func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// PriceRanges are exhaustive and non-overlapping over non-negative prices.
func PriceRanges() []models.PriceRange {
	bound := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	return []models.PriceRange{
		{Label: "Bajo costo (0-50)", Min: decimal.NewFromInt(0), Max: bound(50)},
		{Label: "Costo medio (50-200)", Min: decimal.NewFromInt(50), Max: bound(200)},
		{Label: "Costo alto (200-500)", Min: decimal.NewFromInt(200), Max: bound(500)},
		{Label: "Premium (500+)", Min: decimal.NewFromInt(500)},
	}
}

func (s *ProductService) ListProducts(ctx context.Context, params models.ListProductsParams) (*models.ListProductsResult, error) {
	result, err := s.repo.ListWithFilters(ctx, params)
	if err != nil {
		return nil, apperrors.NewInternalError("list products", err)
	}
	return result, nil
}

func (s *ProductService) GetProduct(ctx context.Context, params models.GetProductParams) (*models.Product, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(params.ProductID), 10, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("id", "invalid product id")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("product", params.ProductID)
		}
		return nil, apperrors.NewInternalError("get product", err)
	}

	return product, nil
}

// Statistics runs the summary, per-category and top-price queries. Any
// failure discards the other results.
func (s *ProductService) Statistics(ctx context.Context) (*models.Statistics, error) {
	categories, err := s.repo.CategoryStats(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("category statistics", err)
	}

	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("summary statistics", err)
	}

	top, err := s.repo.TopByPrice(ctx, TopProductsLimit)
	if err != nil {
		return nil, apperrors.NewInternalError("top products", err)
	}

	return &models.Statistics{
		Summary:     *summary,
		Categories:  categories,
		TopProducts: top,
	}, nil
}

func (s *ProductService) PriceDistribution(ctx context.Context) ([]models.PriceRangeCount, error) {
	counts, err := s.repo.PriceDistribution(ctx, PriceRanges())
	if err != nil {
		return nil, apperrors.NewInternalError("price distribution", err)
	}
	return counts, nil
}
