package listquery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMapper(f string) (string, bool) {
	switch f {
	case "createdAt":
		return "created_at", true
	case "secret":
		return "", false
	default:
		return "doc->>'" + f + "'", true
	}
}

func TestParseDefaults(t *testing.T) {
	o := Parse(url.Values{}, []string{"name"})
	assert.Equal(t, 1, o.Page)
	assert.Equal(t, DefaultLimit, o.Limit)
	require.Len(t, o.Sort, 1)
	assert.Equal(t, SortField{Field: "createdAt", Desc: true}, o.Sort[0])
	assert.Empty(t, o.Fields)
	assert.Empty(t, o.Ranges)
}

func TestParseSortAndFields(t *testing.T) {
	q := url.Values{
		"sort":   {"-testDate,propertyName"},
		"fields": {"propertyName, testDate"},
	}
	o := Parse(q, nil)
	require.Len(t, o.Sort, 2)
	assert.Equal(t, SortField{Field: "testDate", Desc: true}, o.Sort[0])
	assert.Equal(t, SortField{Field: "propertyName", Desc: false}, o.Sort[1])
	assert.Equal(t, []string{"propertyName", "testDate"}, o.Fields)
}

func TestParseRejectsUnsafeIdentifiers(t *testing.T) {
	q := url.Values{
		"sort":   {"name;DROP TABLE users"},
		"fields": {"a'b"},
	}
	o := Parse(q, nil)
	// falls back to the default sort, drops the bad projection
	require.Len(t, o.Sort, 1)
	assert.Equal(t, "createdAt", o.Sort[0].Field)
	assert.Empty(t, o.Fields)
}

func TestParseRangeOperators(t *testing.T) {
	q := url.Values{
		"laborHours[gte]": {"2"},
		"testDate[gt]":    {"2024-01-01"},
	}
	o := Parse(q, nil)
	require.Len(t, o.Ranges, 2)
	ops := map[string]string{}
	for _, r := range o.Ranges {
		ops[r.Field] = r.Op
	}
	assert.Equal(t, "gte", ops["laborHours"])
	assert.Equal(t, "gt", ops["testDate"])
}

func TestLTEOnBareDateIncludesWholeDay(t *testing.T) {
	q := url.Values{"testDate[lte]": {"2024-01-15"}}
	o := Parse(q, nil)
	require.Len(t, o.Ranges, 1)
	r := o.Ranges[0]
	// rewritten to a strict bound on the next calendar day
	assert.Equal(t, "lt", r.Op)
	assert.Equal(t, "2024-01-16", r.Value)
}

func TestLTEWithTimeOfDayIsUntouched(t *testing.T) {
	q := url.Values{"testDate[lte]": {"2024-01-15T10:30:00Z"}}
	o := Parse(q, nil)
	require.Len(t, o.Ranges, 1)
	assert.Equal(t, "lte", o.Ranges[0].Op)
	assert.Equal(t, "2024-01-15T10:30:00Z", o.Ranges[0].Value)
}

func TestWhereSearchORsAcrossFields(t *testing.T) {
	o := Options{Search: "main st", SearchFields: []string{"siteAddress", "customerName"}}
	conds, args := o.Where(testMapper, 0)
	require.Len(t, conds, 1)
	assert.Equal(t, "(doc->>'siteAddress' ILIKE $1 OR doc->>'customerName' ILIKE $2)", conds[0])
	assert.Equal(t, []any{"%main st%", "%main st%"}, args)
}

func TestWhereSearchEscapesLikeWildcards(t *testing.T) {
	o := Options{Search: `50%_done\`, SearchFields: []string{"name"}}
	conds, args := o.Where(testMapper, 0)
	require.Len(t, conds, 1)
	require.Len(t, args, 1)
	assert.Equal(t, `%50\%\_done\\%`, args[0])
}

func TestWhereRangeTyping(t *testing.T) {
	o := Options{Ranges: []Range{
		{Field: "createdAt", Op: "gte", Value: "2024-01-01"},
		{Field: "laborHours", Op: "lt", Value: "8"},
		{Field: "status", Op: "gt", Value: "draft"},
	}}
	conds, args := o.Where(testMapper, 0)
	require.Len(t, conds, 3)
	assert.Equal(t, "(created_at)::timestamptz >= $1", conds[0])
	assert.Equal(t, "(doc->>'laborHours')::numeric < $2", conds[1])
	assert.Equal(t, "doc->>'status' > $3", conds[2])
	require.Len(t, args, 3)
}

func TestWhereRespectsArgOffset(t *testing.T) {
	o := Options{Search: "x", SearchFields: []string{"name"}}
	conds, _ := o.Where(testMapper, 3)
	require.Len(t, conds, 1)
	assert.Equal(t, "(doc->>'name' ILIKE $4)", conds[0])
}

func TestOrderBy(t *testing.T) {
	o := Options{Sort: []SortField{{Field: "createdAt", Desc: true}, {Field: "jobNumber"}}}
	assert.Equal(t, "ORDER BY created_at DESC, doc->>'jobNumber' ASC", o.OrderBy(testMapper))
}

func TestOrderByDropsUnmappedFields(t *testing.T) {
	o := Options{Sort: []SortField{{Field: "secret", Desc: true}}}
	assert.Equal(t, "", o.OrderBy(testMapper))
}

func TestLimitOffset(t *testing.T) {
	o := Options{Page: 3, Limit: 10}
	limit, offset, paged := o.LimitOffset()
	assert.True(t, paged)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)
}

func TestPageZeroIsUnpaginated(t *testing.T) {
	o := Options{Page: PageAll, Limit: 10}
	_, _, paged := o.LimitOffset()
	assert.False(t, paged)

	meta := Paginate(37, o)
	assert.Equal(t, 37, meta.TotalItems)
	assert.Equal(t, 1, meta.TotalPages)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 37, meta.ItemsPerPage)
}

func TestPaginateMetadata(t *testing.T) {
	meta := Paginate(25, Options{Page: 2, Limit: 10})
	assert.Equal(t, Pagination{TotalItems: 25, TotalPages: 3, CurrentPage: 2, ItemsPerPage: 10}, meta)
}

func TestTotalItemsInvariantUnderPaging(t *testing.T) {
	for _, page := range []int{1, 2, 5} {
		for _, limit := range []int{1, 10, 100} {
			meta := Paginate(42, Options{Page: page, Limit: limit})
			assert.Equal(t, 42, meta.TotalItems)
		}
	}
}
