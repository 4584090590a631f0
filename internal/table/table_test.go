package table

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name     string
	Category string
	Price    string
}

func testTable(pageSize int) *Table[row] {
	return New(pageSize, []Column[row]{
		{Name: "name", Value: func(r row) string { return r.Name }},
		{Name: "category", Value: func(r row) string { return r.Category }},
		{Name: "price", Kind: Numeric, Value: func(r row) string { return r.Price }},
	}, []string{"name", "category"}, []string{"category"})
}

func sampleRows() []row {
	return []row{
		{"Espresso Cup", "Kitchen", "12.50"},
		{"Silk Scarf", "Fashion", "89"},
		{"Olive Oil", "Kitchen", "9.99"},
		{"Leather Bag", "Fashion", "250"},
		{"Candle", "Home", "€1,000.00"},
	}
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestApply_EmptySearchReturnsOriginalOrder(t *testing.T) {
	rows := sampleRows()
	p, err := testTable(50).Apply(rows, Query{Page: 1})
	require.NoError(t, err)

	assert.Equal(t, names(rows), names(p.Items))
	assert.Equal(t, 5, p.TotalItems)
	assert.Equal(t, 1, p.TotalPages)
}

func TestApply_SearchIsCaseInsensitiveAcrossSearchableColumns(t *testing.T) {
	p, err := testTable(10).Apply(sampleRows(), Query{Search: "KITCH", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Espresso Cup", "Olive Oil"}, names(p.Items))

	// price is not searchable
	p, err = testTable(10).Apply(sampleRows(), Query{Search: "250", Page: 1})
	require.NoError(t, err)
	assert.Empty(t, p.Items)
}

func TestApply_Filter(t *testing.T) {
	p, err := testTable(10).Apply(sampleRows(), Query{FilterField: "category", FilterValue: "fashion", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Silk Scarf", "Leather Bag"}, names(p.Items))
}

func TestApply_UnknownFields(t *testing.T) {
	_, err := testTable(10).Apply(sampleRows(), Query{FilterField: "price", FilterValue: "1", Page: 1})
	assert.True(t, errors.Is(err, ErrUnknownFilter))

	_, err = testTable(10).Apply(sampleRows(), Query{SortField: "colour", SortDir: Asc, Page: 1})
	assert.True(t, errors.Is(err, ErrUnknownSort))

	_, err = testTable(10).Apply(sampleRows(), Query{Page: 0})
	assert.True(t, errors.Is(err, ErrInvalidPage))
}

func TestApply_NumericSort(t *testing.T) {
	p, err := testTable(10).Apply(sampleRows(), Query{SortField: "price", SortDir: Asc, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Olive Oil", "Espresso Cup", "Silk Scarf", "Leather Bag", "Candle"}, names(p.Items))

	p, err = testTable(10).Apply(sampleRows(), Query{SortField: "price", SortDir: Desc, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Candle", "Leather Bag", "Silk Scarf", "Espresso Cup", "Olive Oil"}, names(p.Items))
}

func TestApply_NumericSortPutsUnparseableLast(t *testing.T) {
	rows := []row{{"a", "", "n/a"}, {"b", "", "3"}, {"c", "", "1"}}
	p, err := testTable(10).Apply(rows, Query{SortField: "price", SortDir: Asc, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, names(p.Items))

	p, err = testTable(10).Apply(rows, Query{SortField: "price", SortDir: Desc, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, names(p.Items))
}

func TestApply_TextSortIsStable(t *testing.T) {
	rows := sampleRows()
	p, err := testTable(10).Apply(rows, Query{SortField: "category", SortDir: Asc, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Silk Scarf", "Leather Bag", "Candle", "Espresso Cup", "Olive Oil"}, names(p.Items))
	assert.Equal(t, "Espresso Cup", rows[0].Name, "input must not be reordered")
}

func TestToggleSortTwiceRestoresOrder(t *testing.T) {
	tbl := testTable(10)
	q := ToggleSort(Query{Page: 1}, "name")
	require.Equal(t, Asc, q.SortDir)
	first, err := tbl.Apply(sampleRows(), q)
	require.NoError(t, err)

	q = ToggleSort(q, "name")
	require.Equal(t, Desc, q.SortDir)
	q = ToggleSort(q, "name")
	require.Equal(t, Asc, q.SortDir)

	again, err := tbl.Apply(sampleRows(), q)
	require.NoError(t, err)
	assert.Equal(t, names(first.Items), names(again.Items))
}

func TestToggleSortNewFieldStartsAscending(t *testing.T) {
	q := Query{SortField: "name", SortDir: Desc, Page: 3}
	q = ToggleSort(q, "price")
	assert.Equal(t, "price", q.SortField)
	assert.Equal(t, Asc, q.SortDir)
	assert.Equal(t, 1, q.Page)
}

func TestPagination(t *testing.T) {
	tests := []struct {
		n, size       int
		wantPages     int
		wantLastItems int
	}{
		{n: 0, size: 10, wantPages: 0, wantLastItems: 0},
		{n: 1, size: 10, wantPages: 1, wantLastItems: 1},
		{n: 10, size: 10, wantPages: 1, wantLastItems: 10},
		{n: 23, size: 10, wantPages: 3, wantLastItems: 3},
		{n: 30, size: 10, wantPages: 3, wantLastItems: 10},
		{n: 7, size: 3, wantPages: 3, wantLastItems: 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.n, tt.size), func(t *testing.T) {
			rows := make([]row, tt.n)
			for i := range rows {
				rows[i] = row{Name: fmt.Sprintf("r%02d", i)}
			}
			tbl := testTable(tt.size)

			first, err := tbl.Apply(rows, Query{Page: 1})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, first.TotalPages)
			assert.Equal(t, tt.n, first.TotalItems)

			if tt.wantPages == 0 {
				assert.Empty(t, first.Items)
				return
			}
			last, err := tbl.Apply(rows, Query{Page: tt.wantPages})
			require.NoError(t, err)
			assert.Len(t, last.Items, tt.wantLastItems)
		})
	}
}

func TestPaginationPastEndIsEmpty(t *testing.T) {
	p, err := testTable(2).Apply(sampleRows(), Query{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.Equal(t, 3, p.TotalPages)
}

func TestParseQuery(t *testing.T) {
	v := url.Values{}
	v.Set("search", "  scarf ")
	v.Set("filter_field", "category")
	v.Set("filter_value", "Fashion")
	v.Set("sort", "price")
	v.Set("order", "DESC")
	v.Set("page", "2")

	q := ParseQuery(v)
	assert.Equal(t, Query{
		Search:      "scarf",
		FilterField: "category",
		FilterValue: "Fashion",
		SortField:   "price",
		SortDir:     Desc,
		Page:        2,
	}, q)

	q = ParseQuery(url.Values{"page": {"abc"}})
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, NoSort, q.SortDir)
}

func TestViewCachesLastPage(t *testing.T) {
	calls := 0
	tbl := New(10, []Column[row]{
		{Name: "name", Value: func(r row) string { calls++; return r.Name }},
	}, []string{"name"}, nil)

	v := tbl.NewView(sampleRows())
	q := Query{Search: "o", Page: 1}

	first, err := v.Apply(q)
	require.NoError(t, err)
	after := calls

	second, err := v.Apply(q)
	require.NoError(t, err)
	assert.Equal(t, after, calls, "unchanged query must not recompute")
	assert.Equal(t, first, second)

	second.Items[0].Name = "changed"
	third, err := v.Apply(q)
	require.NoError(t, err)
	assert.Equal(t, first.Items[0].Name, third.Items[0].Name, "cached page must not share items with callers")

	_, err = v.Apply(Query{Search: "silk", Page: 1})
	require.NoError(t, err)
	assert.Greater(t, calls, after)
}
