package table

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Errors returned by Apply.
var (
	ErrUnknownFilter = errors.New("unknown filter field")
	ErrUnknownSort   = errors.New("unknown sort field")
	ErrInvalidPage   = errors.New("page must be >= 1")
)

// Kind selects how a column's values compare when sorting.
type Kind int

const (
	Text Kind = iota
	Numeric
)

// SortDir is the direction of a single-column sort.
type SortDir string

const (
	NoSort SortDir = ""
	Asc    SortDir = "asc"
	Desc   SortDir = "desc"
)

// Column describes one field of a row type.
type Column[T any] struct {
	Name  string
	Kind  Kind
	Value func(T) string
}

// Table is a list view definition: its columns, which of them are searched
// and filterable, and its fixed page size.
type Table[T any] struct {
	columns    map[string]Column[T]
	searchable []string
	filterable map[string]bool
	pageSize   int
}

// New creates a Table. searchable and filterable name columns by Name.
func New[T any](pageSize int, columns []Column[T], searchable, filterable []string) *Table[T] {
	t := &Table[T]{
		columns:    make(map[string]Column[T], len(columns)),
		searchable: searchable,
		filterable: make(map[string]bool, len(filterable)),
		pageSize:   pageSize,
	}
	for _, c := range columns {
		t.columns[c.Name] = c
	}
	for _, f := range filterable {
		t.filterable[f] = true
	}
	if t.pageSize <= 0 {
		t.pageSize = 10
	}
	return t
}

// PageSize returns the table's fixed page size.
func (t *Table[T]) PageSize() int { return t.pageSize }

// Query is the state of a list view: search text, one categorical filter,
// one sort column and the current page.
type Query struct {
	Search      string
	FilterField string
	FilterValue string
	SortField   string
	SortDir     SortDir
	Page        int
}

// ParseQuery reads a Query from URL parameters. Missing or malformed page
// values default to the first page.
func ParseQuery(v url.Values) Query {
	q := Query{
		Search:      strings.TrimSpace(v.Get("search")),
		FilterField: v.Get("filter_field"),
		FilterValue: v.Get("filter_value"),
		SortField:   v.Get("sort"),
		Page:        1,
	}
	if q.SortField != "" {
		q.SortDir = Asc
		if strings.EqualFold(v.Get("order"), string(Desc)) {
			q.SortDir = Desc
		}
	}
	if s := v.Get("page"); s != "" {
		if p, err := strconv.Atoi(s); err == nil {
			q.Page = p
		}
	}
	return q
}

// ToggleSort returns the sort that results from clicking field's header.
// The same field cycles asc -> desc -> asc; a new field starts ascending.
func ToggleSort(q Query, field string) Query {
	if q.SortField != field || q.SortDir == NoSort {
		q.SortField = field
		q.SortDir = Asc
	} else if q.SortDir == Asc {
		q.SortDir = Desc
	} else {
		q.SortDir = Asc
	}
	q.Page = 1
	return q
}

// Page is one page of a derived list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Apply derives a page from rows. rows is not modified.
func (t *Table[T]) Apply(rows []T, q Query) (Page[T], error) {
	if q.Page < 1 {
		return Page[T]{}, ErrInvalidPage
	}

	var filterCol Column[T]
	if q.FilterField != "" {
		if !t.filterable[q.FilterField] {
			return Page[T]{}, fmt.Errorf("%w: %s", ErrUnknownFilter, q.FilterField)
		}
		filterCol = t.columns[q.FilterField]
	}

	var sortCol Column[T]
	if q.SortField != "" {
		c, ok := t.columns[q.SortField]
		if !ok {
			return Page[T]{}, fmt.Errorf("%w: %s", ErrUnknownSort, q.SortField)
		}
		sortCol = c
	}

	search := strings.ToLower(q.Search)
	derived := make([]T, 0, len(rows))
	for _, row := range rows {
		if search != "" && !t.matches(row, search) {
			continue
		}
		if q.FilterField != "" && q.FilterValue != "" && !strings.EqualFold(filterCol.Value(row), q.FilterValue) {
			continue
		}
		derived = append(derived, row)
	}

	if q.SortField != "" && q.SortDir != NoSort {
		sortRows(derived, sortCol, q.SortDir)
	}

	return paginate(derived, q.Page, t.pageSize), nil
}

func (t *Table[T]) matches(row T, search string) bool {
	for _, name := range t.searchable {
		c, ok := t.columns[name]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(c.Value(row)), search) {
			return true
		}
	}
	return false
}

func sortRows[T any](rows []T, col Column[T], dir SortDir) {
	sort.SliceStable(rows, func(i, j int) bool { return compare(col, rows[i], rows[j], dir) < 0 })
}

// compare orders two rows by col in direction dir. In Numeric columns a
// value that fails to parse sorts after every parseable value in both
// directions.
func compare[T any](col Column[T], a, b T, dir SortDir) int {
	sign := 1
	if dir == Desc {
		sign = -1
	}
	va, vb := col.Value(a), col.Value(b)
	if col.Kind == Numeric {
		da, errA := parseNumber(va)
		db, errB := parseNumber(vb)
		switch {
		case errA == nil && errB == nil:
			return sign * da.Cmp(db)
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		}
	}
	return sign * strings.Compare(strings.ToLower(va), strings.ToLower(vb))
}

// parseNumber accepts plain numbers as well as formatted currency like "€1,250.00".
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "€$£")
	s = strings.ReplaceAll(s, ",", "")
	return decimal.NewFromString(s)
}

func paginate[T any](rows []T, page, size int) Page[T] {
	total := len(rows)
	pages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	items := make([]T, end-start)
	copy(items, rows[start:end])

	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
	}
}

// View binds a Table to a fixed row set and caches the last derived page.
type View[T any] struct {
	table *Table[T]
	rows  []T

	mu      sync.Mutex
	last    Query
	page    Page[T]
	hasPage bool
}

// NewView creates a View over rows.
func (t *Table[T]) NewView(rows []T) *View[T] {
	return &View[T]{table: t, rows: rows}
}

// Apply returns the page for q, reusing the cached page when q is unchanged.
func (v *View[T]) Apply(q Query) (Page[T], error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.hasPage && v.last == q {
		return v.page.clone(), nil
	}
	p, err := v.table.Apply(v.rows, q)
	if err != nil {
		return Page[T]{}, err
	}
	v.last, v.page, v.hasPage = q, p.clone(), true
	return p, nil
}

func (p Page[T]) clone() Page[T] {
	items := make([]T, len(p.Items))
	copy(items, p.Items)
	p.Items = items
	return p
}
