package query

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-faster/errors"

	"github.com/productos/catalog-api/internal/models"
)

// ProductsTable is the single table served by the API.
const ProductsTable = "productos"

// ProductColumns is the column list selected for a product row, in scan order.
var ProductColumns = []string{"id", "name", "category", "price", "created_at"}

// Statement is a SQL string with its positional ($n) arguments.
type Statement struct {
	SQL  string
	Args []any
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching term as a literal substring.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func sortColumn(field string) string {
	for _, c := range ProductColumns {
		if c == field {
			return c
		}
	}
	return "id"
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// filtered applies the AND-combined filter predicates to b. Prices are bound
// as their exact decimal text.
func filtered(b sq.SelectBuilder, filter models.ProductFilter) sq.SelectBuilder {
	if filter.Category != nil {
		b = b.Where(sq.Eq{"category": *filter.Category})
	}
	if filter.PriceMin != nil {
		b = b.Where(sq.GtOrEq{"price": filter.PriceMin.String()})
	}
	if filter.PriceMax != nil {
		b = b.Where(sq.LtOrEq{"price": filter.PriceMax.String()})
	}
	if filter.Search != nil {
		b = b.Where(sq.Like{"name": ContainsPattern(*filter.Search)})
	}
	return b
}

func toStatement(b sq.SelectBuilder) (Statement, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return Statement{}, errors.Wrap(err, "build statement")
	}
	return Statement{SQL: sql, Args: args}, nil
}

// BuildProductList returns the page query and the count query for the same
// filter. Both statements carry identical predicates and predicate arguments;
// the page query additionally binds LIMIT and OFFSET.
func BuildProductList(params models.ListProductsParams) (data Statement, count Statement, err error) {
	direction := models.SortAsc
	if params.Sort.Direction == models.SortDesc {
		direction = models.SortDesc
	}

	dataQuery := filtered(psql.Select(ProductColumns...).From(ProductsTable), params.Filter).
		OrderBy(sortColumn(params.Sort.Field)+" "+string(direction)).
		Suffix("LIMIT ? OFFSET ?", params.Pagination.Limit, params.Pagination.Offset)
	if data, err = toStatement(dataQuery); err != nil {
		return Statement{}, Statement{}, err
	}

	countQuery := filtered(psql.Select("COUNT(*)").From(ProductsTable), params.Filter)
	if count, err = toStatement(countQuery); err != nil {
		return Statement{}, Statement{}, err
	}

	return data, count, nil
}

// BuildPriceRangeCount counts products with Min <= price < Max. A nil Max
// leaves the range open above.
func BuildPriceRangeCount(rng models.PriceRange) (Statement, error) {
	b := psql.Select("COUNT(*)").From(ProductsTable).Where(sq.GtOrEq{"price": rng.Min.String()})
	if rng.Max != nil {
		b = b.Where(sq.Lt{"price": rng.Max.String()})
	}
	return toStatement(b)
}
