package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/productos/catalog-api/internal/models"
)

// fakeDB evaluates the small SQL dialect the repositories emit against an
// in-memory product slice.
type fakeDB struct {
	mu       sync.Mutex
	products []models.Product
	failOn   string
	queries  []string
	execs    []string
	execArgs [][]any
}

var errFake = errors.New("fake storage failure")

func newFakeDB(products ...models.Product) *fakeDB {
	return &fakeDB{products: products}
}

func normalize(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

func (f *fakeDB) record(sql string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, sql)
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return errFake
	}
	return nil
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	sql = normalize(sql)
	if err := f.record(sql); err != nil {
		return nil, err
	}
	rows, err := f.eval(sql, args)
	if err != nil {
		return nil, err
	}
	return &fakeRows{rows: rows}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	sql = normalize(sql)
	if err := f.record(sql); err != nil {
		return &fakeRow{err: err}
	}
	rows, err := f.eval(sql, args)
	if err != nil {
		return &fakeRow{err: err}
	}
	if len(rows) == 0 {
		return &fakeRow{err: pgx.ErrNoRows}
	}
	return &fakeRow{vals: rows[0]}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	sql = normalize(sql)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)
	f.execArgs = append(f.execArgs, args)
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errFake
	}
	if strings.HasPrefix(sql, "INSERT") {
		return pgconn.NewCommandTag(fmt.Sprintf("INSERT 0 %d", len(args)/3)), nil
	}
	return pgconn.NewCommandTag("OK"), nil
}

func (f *fakeDB) eval(sql string, args []any) ([][]any, error) {
	switch {
	case strings.HasPrefix(sql, "SELECT COUNT(*) AS total_products"):
		return [][]any{f.summaryRow()}, nil
	case strings.HasPrefix(sql, "SELECT category, COUNT(*) AS total, MIN"):
		return f.categoryStatsRows(), nil
	case strings.HasPrefix(sql, "SELECT category, COUNT(*) AS total FROM"):
		return f.categoryCountRows(), nil
	}

	where, rest := splitWhere(sql)
	matched, err := f.matching(where, args)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(sql, "SELECT COUNT(*)") {
		return [][]any{{int64(len(matched))}}, nil
	}

	if strings.HasPrefix(rest, "ORDER BY ") {
		fields := strings.Fields(rest)
		orderBy(matched, fields[2], fields[3] == "DESC")
		limit, offset := len(matched), 0
		for i := 4; i+1 < len(fields); i += 2 {
			v := argAt(args, fields[i+1]).(int)
			switch fields[i] {
			case "LIMIT":
				limit = v
			case "OFFSET":
				offset = v
			}
		}
		if offset > len(matched) {
			offset = len(matched)
		}
		matched = matched[offset:]
		if limit < len(matched) {
			matched = matched[:limit]
		}
	}

	out := make([][]any, 0, len(matched))
	topOnly := strings.HasPrefix(sql, "SELECT id, name, category, price FROM")
	for _, p := range matched {
		if topOnly {
			out = append(out, []any{p.ID, p.Name, p.Category, p.Price})
			continue
		}
		out = append(out, []any{p.ID, p.Name, p.Category, p.Price, p.CreatedAt})
	}
	return out, nil
}

// splitWhere returns the WHERE predicate text and whatever follows it.
func splitWhere(sql string) (string, string) {
	_, after, ok := strings.Cut(sql, " FROM productos")
	if !ok {
		return "", ""
	}
	after = strings.TrimSpace(after)
	if !strings.HasPrefix(after, "WHERE ") {
		return "", after
	}
	after = strings.TrimPrefix(after, "WHERE ")
	if where, rest, ok := strings.Cut(after, " ORDER BY "); ok {
		return where, "ORDER BY " + rest
	}
	return after, ""
}

func argAt(args []any, placeholder string) any {
	idx, err := strconv.Atoi(strings.TrimPrefix(placeholder, "$"))
	if err != nil || idx < 1 || idx > len(args) {
		panic("bad placeholder " + placeholder)
	}
	return args[idx-1]
}

func (f *fakeDB) matching(where string, args []any) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		ok, err := matches(p, where, args)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func matches(p models.Product, where string, args []any) (bool, error) {
	if where == "" {
		return true, nil
	}
	for _, cond := range strings.Split(where, " AND ") {
		parts := strings.Fields(cond)
		if len(parts) != 3 {
			return false, fmt.Errorf("unsupported predicate %q", cond)
		}
		arg := argAt(args, parts[2])

		var ok bool
		switch parts[0] {
		case "id":
			ok = p.ID == arg.(int64)
		case "category":
			ok = p.Category == arg.(string)
		case "name":
			ok = strings.Contains(p.Name, unlike(arg.(string)))
		case "price":
			bound, err := decimal.NewFromString(arg.(string))
			if err != nil {
				return false, err
			}
			cmp := p.Price.Cmp(bound)
			switch parts[1] {
			case ">=":
				ok = cmp >= 0
			case "<=":
				ok = cmp <= 0
			case "<":
				ok = cmp < 0
			default:
				return false, fmt.Errorf("unsupported operator %q", parts[1])
			}
		default:
			return false, fmt.Errorf("unsupported column %q", parts[0])
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func unlike(pattern string) string {
	pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "%"), "%")
	return strings.NewReplacer(`\\`, `\`, `\%`, `%`, `\_`, `_`).Replace(pattern)
}

func orderBy(products []models.Product, column string, desc bool) {
	less := func(a, b models.Product) bool {
		switch column {
		case "price":
			return a.Price.LessThan(b.Price)
		case "name":
			return a.Name < b.Name
		case "category":
			return a.Category < b.Category
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.ID < b.ID
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func (f *fakeDB) summaryRow() []any {
	if len(f.products) == 0 {
		return []any{int64(0), decimal.NullDecimal{}, decimal.NullDecimal{}, decimal.NullDecimal{}, decimal.NullDecimal{}}
	}
	minPrice, maxPrice, sum := f.products[0].Price, f.products[0].Price, decimal.Zero
	for _, p := range f.products {
		minPrice = decimal.Min(minPrice, p.Price)
		maxPrice = decimal.Max(maxPrice, p.Price)
		sum = sum.Add(p.Price)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(f.products)))).Round(2)
	return []any{
		int64(len(f.products)),
		decimal.NewNullDecimal(avg),
		decimal.NewNullDecimal(minPrice),
		decimal.NewNullDecimal(maxPrice),
		decimal.NewNullDecimal(sum),
	}
}

func (f *fakeDB) groups() (map[string][]models.Product, []string) {
	groups := map[string][]models.Product{}
	var order []string
	for _, p := range f.products {
		if _, ok := groups[p.Category]; !ok {
			order = append(order, p.Category)
		}
		groups[p.Category] = append(groups[p.Category], p)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(groups[order[i]]) > len(groups[order[j]])
	})
	return groups, order
}

func (f *fakeDB) categoryStatsRows() [][]any {
	groups, order := f.groups()
	rows := make([][]any, 0, len(order))
	for _, c := range order {
		ps := groups[c]
		minPrice, maxPrice, sum := ps[0].Price, ps[0].Price, decimal.Zero
		for _, p := range ps {
			minPrice = decimal.Min(minPrice, p.Price)
			maxPrice = decimal.Max(maxPrice, p.Price)
			sum = sum.Add(p.Price)
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(ps)))).Round(2)
		rows = append(rows, []any{c, int64(len(ps)), minPrice, maxPrice, avg, sum})
	}
	return rows
}

func (f *fakeDB) categoryCountRows() [][]any {
	groups, order := f.groups()
	rows := make([][]any, 0, len(order))
	for _, c := range order {
		rows = append(rows, []any{c, int64(len(groups[c]))})
	}
	return rows
}

func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(vals), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		v := reflect.ValueOf(vals[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan: cannot assign %s to %s", v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

type fakeRow struct {
	vals []any
	err  error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.vals, dest)
}

type fakeRows struct {
	rows   [][]any
	pos    int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(r.rows[r.pos-1], dest)
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.pos-1], nil
}
