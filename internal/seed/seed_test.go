package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/productos/catalog-api/internal/models"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) EnsureSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRepository) Truncate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRepository) InsertBatch(ctx context.Context, products []models.NewProduct) (int64, error) {
	args := m.Called(ctx, products)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CategoryCount), args.Error(1)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func batchOf(n int) any {
	return mock.MatchedBy(func(p []models.NewProduct) bool { return len(p) == n })
}

func TestGenerator_Product(t *testing.T) {
	gen := NewGenerator(42)
	low, high := decimal.NewFromInt(1), decimal.NewFromInt(1001)

	for range 500 {
		p := gen.Product()
		assert.True(t, slices.Contains(Categories, p.Category), p.Category)
		assert.NotEmpty(t, p.Name)
		assert.True(t, p.Price.GreaterThanOrEqual(low), p.Price.String())
		assert.True(t, p.Price.LessThan(high), p.Price.String())
		assert.True(t, p.Price.Equal(p.Price.Round(2)), p.Price.String())
	}
}

func TestRoundPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.345, "12.35"},
		{12.344, "12.34"},
		{1.005001, "1.01"},
		{1000.996, "1000.99"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundPrice(tt.in).StringFixed(2), "%v", tt.in)
	}
}

func TestGenerator_SameSeedSameProducts(t *testing.T) {
	a := NewGenerator(7).Batch(20)
	b := NewGenerator(7).Batch(20)
	assert.Equal(t, a, b)
}

func TestSeeder_Run(t *testing.T) {
	repo := new(mockRepository)
	repo.On("EnsureSchema", mock.Anything).Return(nil).Once()
	repo.On("Truncate", mock.Anything).Return(nil).Once()
	repo.On("InsertBatch", mock.Anything, batchOf(4)).Return(int64(4), nil).Twice()
	repo.On("InsertBatch", mock.Anything, batchOf(2)).Return(int64(2), nil).Once()
	repo.On("Count", mock.Anything).Return(int64(10), nil)
	repo.On("CategoryCounts", mock.Anything).Return([]models.CategoryCount{{Category: "Ropa", Total: 10}}, nil)

	report, err := NewSeeder(repo, NewGenerator(1), quietLogger()).
		Run(context.Background(), Options{Total: 10, BatchSize: 4, Truncate: true})
	require.NoError(t, err)

	assert.Equal(t, int64(10), report.Inserted)
	assert.Equal(t, int64(10), report.Total)
	assert.Len(t, report.Categories, 1)
	repo.AssertExpectations(t)
}

func TestSeeder_RunWithoutTruncate(t *testing.T) {
	repo := new(mockRepository)
	repo.On("EnsureSchema", mock.Anything).Return(nil)
	repo.On("InsertBatch", mock.Anything, batchOf(3)).Return(int64(3), nil).Once()
	repo.On("Count", mock.Anything).Return(int64(13), nil)
	repo.On("CategoryCounts", mock.Anything).Return([]models.CategoryCount{}, nil)

	report, err := NewSeeder(repo, NewGenerator(1), quietLogger()).
		Run(context.Background(), Options{Total: 3, BatchSize: 1000})
	require.NoError(t, err)

	assert.Equal(t, int64(13), report.Total)
	repo.AssertNotCalled(t, "Truncate", mock.Anything)
}

func TestSeeder_StopsOnBatchFailure(t *testing.T) {
	repo := new(mockRepository)
	repo.On("EnsureSchema", mock.Anything).Return(nil)
	repo.On("InsertBatch", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full")).Once()

	_, err := NewSeeder(repo, NewGenerator(1), quietLogger()).
		Run(context.Background(), Options{Total: 10, BatchSize: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 0 of 10 products")
	repo.AssertNumberOfCalls(t, "InsertBatch", 1)
	repo.AssertNotCalled(t, "Count", mock.Anything)
}

func TestSeeder_RejectsBadOptions(t *testing.T) {
	s := NewSeeder(new(mockRepository), NewGenerator(1), quietLogger())

	_, err := s.Run(context.Background(), Options{Total: 10, BatchSize: 0})
	assert.Error(t, err)

	_, err = s.Run(context.Background(), Options{Total: -1, BatchSize: 10})
	assert.Error(t, err)
}
