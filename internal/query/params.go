// Package query turns untrusted list parameters into bounded, allow-listed
// values and builds the parameterized SQL that serves them.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/productos/catalog-api/internal/models"
)

// Options carries the configured bounds for parameter parsing.
type Options struct {
	DefaultPageSize  int
	MaxPageSize      int
	DefaultSortField string
	// SortableFields maps accepted orderBy values to column names.
	SortableFields map[string]string
}

// ProductSortFields is the orderBy allow-list for product listings. Both the
// column names and the public Spanish names are accepted.
var ProductSortFields = map[string]string{
	"id":             "id",
	"name":           "name",
	"nombre":         "name",
	"category":       "category",
	"categoria":      "category",
	"price":          "price",
	"precio":         "price",
	"created_at":     "created_at",
	"fecha_creacion": "created_at",
}

// ParsePagination never fails: malformed values fall back to defaults and
// limit is clamped to MaxPageSize. Huge pages yield an offset of math.MaxInt.
func ParsePagination(values url.Values, opts Options) models.Pagination {
	page := 1
	if p, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil && p > 1 {
		page = p
	}

	limit := opts.DefaultPageSize
	if l, err := strconv.Atoi(strings.TrimSpace(values.Get("limit"))); err == nil && l > 0 {
		limit = l
	}
	if limit > opts.MaxPageSize {
		limit = opts.MaxPageSize
	}
	if limit < 1 {
		limit = 1
	}

	// Offsets past the end of any table saturate instead of overflowing.
	offset := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		offset = (page - 1) * limit
	}

	return models.Pagination{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}

// ParseSort resolves orderBy through the allow-list. The returned Field is a
// column name and is safe to interpolate into SQL.
func ParseSort(values url.Values, opts Options) models.Sort {
	field, ok := opts.SortableFields[values.Get("orderBy")]
	if !ok {
		field, ok = opts.SortableFields[opts.DefaultSortField]
		if !ok {
			field = "id"
		}
	}

	direction := models.SortAsc
	if strings.EqualFold(values.Get("orderDir"), "desc") {
		direction = models.SortDesc
	}

	return models.Sort{Field: field, Direction: direction}
}

// ParseProductFilter reads the optional product filters. Empty strings and
// unparsable prices are treated as absent.
func ParseProductFilter(values url.Values) models.ProductFilter {
	var filter models.ProductFilter

	if c := values.Get("categoria"); c != "" {
		filter.Category = &c
	}
	filter.PriceMin = parsePrice(values.Get("precioMin"))
	filter.PriceMax = parsePrice(values.Get("precioMax"))
	if s := values.Get("busqueda"); s != "" {
		filter.Search = &s
	}

	return filter
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// ParseListProductsParams combines the three parsers for the product listing.
func ParseListProductsParams(values url.Values, opts Options) models.ListProductsParams {
	return models.ListProductsParams{
		Pagination: ParsePagination(values, opts),
		Sort:       ParseSort(values, opts),
		Filter:     ParseProductFilter(values),
	}
}
