package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int64
	Name      string
	Category  string
	Price     decimal.Decimal
	CreatedAt time.Time
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Pagination is the effective page window of a list request.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// Sort holds a column that already passed an allow-list check.
type Sort struct {
	Field     string
	Direction SortDirection
}

// ProductFilter narrows a product listing. Nil fields add no predicate.
type ProductFilter struct {
	Category *string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Search   *string
}

type ListProductsParams struct {
	Pagination Pagination
	Sort       Sort
	Filter     ProductFilter
}

type ListProductsResult struct {
	Products []*Product
	Total    int64
}

type GetProductParams struct {
	ProductID string
}

type CategoryStats struct {
	Category     string
	Total        int64
	MinPrice     decimal.Decimal
	MaxPrice     decimal.Decimal
	AveragePrice decimal.Decimal
	TotalValue   decimal.Decimal
}

// Summary aggregates the whole table. Price fields are invalid when the table is empty.
type Summary struct {
	TotalProducts  int64
	AveragePrice   decimal.NullDecimal
	MinPrice       decimal.NullDecimal
	MaxPrice       decimal.NullDecimal
	InventoryValue decimal.NullDecimal
}

type Statistics struct {
	Summary     Summary
	Categories  []*CategoryStats
	TopProducts []*Product
}

// PriceRange is the half-open interval [Min, Max). A nil Max means unbounded.
type PriceRange struct {
	Label string
	Min   decimal.Decimal
	Max   *decimal.Decimal
}

type PriceRangeCount struct {
	Range PriceRange
	Total int64
}

// NewProduct is a row to insert; id and created_at are assigned by storage.
type NewProduct struct {
	Name     string
	Category string
	Price    decimal.Decimal
}

type CategoryCount struct {
	Category string
	Total    int64
}
