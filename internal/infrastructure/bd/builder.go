package db

import (
	"fmt"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/types"
)

const dateLayout = "2006-01-02"

// Direction decides ASC/DESC from the raw sort_order value.
type Direction int

const (
	// DescUnlessAsc: "asc" sorts ascending, anything else descending.
	DescUnlessAsc Direction = iota
	// AscUnlessDesc: "desc" sorts descending, anything else ascending.
	AscUnlessDesc
)

func (d Direction) resolve(order string) string {
	switch d {
	case AscUnlessDesc:
		if strings.EqualFold(order, "desc") {
			return "DESC"
		}
		return "ASC"
	default:
		if strings.EqualFold(order, "asc") {
			return "ASC"
		}
		return "DESC"
	}
}

// PredicateFunc turns an option value into a condition; false means "no filter".
type PredicateFunc func(value string) (sq.Sqlizer, bool)

// ListSpec describes how one table is listed. Every column name and ORDER BY
// fragment in it is a literal; request values only ever become bind args.
type ListSpec struct {
	From          string
	Columns       []string
	SearchColumns []string
	// option name -> column, exact match
	Filters map[string]string
	// option name -> custom predicate
	Predicates map[string]PredicateFunc
	// dateRange BETWEEN column
	DateColumn string
	// startDate/endDate bounds; empty disables them
	BoundColumn string
	// keyset cursor column
	CreatedColumn string

	SortColumns       map[string]string
	DefaultSortColumn string
	DefaultOrder      []string
	Direction         Direction
	TieBreaker        string
}

type ListQuery struct {
	SQL       string
	Args      []interface{}
	CountSQL  string
	CountArgs []interface{}
	// WHERE body shared by both statements, "" when unfiltered
	WhereSQL string
	Limit    uint64
	Keyset   bool
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Build returns the page query and, outside keyset mode, the count query.
// Both are built from the same predicate value.
func Build(spec ListSpec, opts types.ListOptions) (ListQuery, error) {
	pred, err := spec.Predicate(opts)
	if err != nil {
		return ListQuery{}, err
	}

	q := ListQuery{Limit: opts.Limit, Keyset: opts.Keyset()}

	if len(pred) > 0 {
		whereSQL, _, err := pred.ToSql()
		if err != nil {
			return ListQuery{}, fmt.Errorf("build predicate: %w", err)
		}
		if q.WhereSQL, err = sq.Dollar.ReplacePlaceholders(whereSQL); err != nil {
			return ListQuery{}, err
		}
	}

	data := psql.Select(spec.Columns...).From(spec.From)
	if len(pred) > 0 {
		data = data.Where(pred)
	}
	data = data.OrderBy(spec.OrderBy(opts)...).Limit(opts.Limit)
	if !q.Keyset {
		data = data.Offset(opts.Offset)
	}
	if q.SQL, q.Args, err = data.ToSql(); err != nil {
		return ListQuery{}, fmt.Errorf("build list query: %w", err)
	}

	if q.Keyset {
		return q, nil
	}

	count := psql.Select("COUNT(*)").From(spec.From)
	if len(pred) > 0 {
		count = count.Where(pred)
	}
	if q.CountSQL, q.CountArgs, err = count.ToSql(); err != nil {
		return ListQuery{}, fmt.Errorf("build count query: %w", err)
	}

	return q, nil
}

// Predicate collects the WHERE conditions for opts in a fixed order.
func (spec ListSpec) Predicate(opts types.ListOptions) (sq.And, error) {
	var pred sq.And

	if opts.Search != "" && len(spec.SearchColumns) > 0 {
		term := "%" + opts.Search + "%"
		or := make(sq.Or, 0, len(spec.SearchColumns))
		for _, col := range spec.SearchColumns {
			or = append(or, sq.ILike{col: term})
		}
		pred = append(pred, or)
	}

	for _, name := range sortedKeys(spec.Filters) {
		if v, ok := opts.Filters[name]; ok && v != "" {
			pred = append(pred, sq.Eq{spec.Filters[name]: v})
		}
	}

	for _, name := range sortedKeys(spec.Predicates) {
		v, ok := opts.Filters[name]
		if !ok || v == "" {
			continue
		}
		if cond, apply := spec.Predicates[name](v); apply {
			pred = append(pred, cond)
		}
	}

	if spec.DateColumn != "" {
		if start, end, ok := SplitDateRange(opts.DateRange); ok {
			pred = append(pred, sq.Expr(spec.DateColumn+" BETWEEN ?::date AND ?::date", start, end))
		}
	}

	if spec.BoundColumn != "" {
		if isDate(opts.StartDate) {
			pred = append(pred, sq.Expr(spec.BoundColumn+" >= ?::date", opts.StartDate[:len(dateLayout)]))
		}
		if isDate(opts.EndDate) {
			pred = append(pred, sq.Expr(spec.BoundColumn+" <= ?::date", opts.EndDate[:len(dateLayout)]))
		}
	}

	if opts.Keyset() {
		if spec.CreatedColumn == "" {
			return nil, apperrors.NewInvalidInputError("lastDate is not supported for this list")
		}
		if !isDate(opts.LastDate) {
			return nil, apperrors.NewInvalidInputError("lastDate must be YYYY-MM-DD, got %q", opts.LastDate)
		}
		pred = append(pred, sq.Expr("date("+spec.CreatedColumn+") < ?::date", opts.LastDate[:len(dateLayout)]))
	}

	return pred, nil
}

// OrderBy returns literal ORDER BY fragments. Unknown sort_by values fall
// back to DefaultSortColumn.
func (spec ListSpec) OrderBy(opts types.ListOptions) []string {
	if opts.Keyset() {
		return []string{spec.CreatedColumn + " DESC"}
	}
	if opts.SortBy == "" {
		return spec.DefaultOrder
	}

	col, ok := spec.SortColumns[opts.SortBy]
	if !ok {
		col = spec.DefaultSortColumn
	}
	order := []string{col + " " + spec.Direction.resolve(opts.SortOrder)}
	if spec.TieBreaker != "" {
		order = append(order, spec.TieBreaker)
	}
	return order
}

// SplitDateRange splits "start,end". Both halves must be non-empty dates.
// Parts after the second are ignored.
func SplitDateRange(raw string) (string, string, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) < 2 {
		return "", "", false
	}
	start, end := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if start == "" || end == "" || !isDate(start) || !isDate(end) {
		return "", "", false
	}
	return start[:len(dateLayout)], end[:len(dateLayout)], true
}

func isDate(s string) bool {
	if len(s) < len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, s[:len(dateLayout)])
	return err == nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
