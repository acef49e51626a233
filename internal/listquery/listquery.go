// Package listquery turns an HTTP query string into a bounded, paginated read
// over one table: free-text search across a caller-chosen field list, range
// filters, sort order, field projection and pagination metadata.
package listquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

const (
	DefaultLimit = 10

	// PageAll is the page=0 sentinel: return every matching document,
	// unpaginated, with metadata reporting one page holding everything.
	PageAll = 0
)

var (
	rangeKeyRe = regexp.MustCompile(`^([A-Za-z0-9_]+)\[(gte|gt|lte|lt)\]$`)
	identRe    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

var opSQL = map[string]string{"gte": ">=", "gt": ">", "lte": "<=", "lt": "<"}

// likeEscaper neutralizes LIKE metacharacters so search is a plain substring
// match, never a caller-controlled pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Range is a single field[op]=value filter.
type Range struct {
	Field string
	Op    string // gte | gt | lte | lt
	Value string
}

// SortField is one element of the sort specification.
type SortField struct {
	Field string
	Desc  bool
}

// Options is the parsed query string.
type Options struct {
	Search       string
	SearchFields []string
	Sort         []SortField
	Fields       []string // projection; empty means everything
	Page         int      // 1-based; PageAll means no pagination
	Limit        int
	Ranges       []Range
}

// Parse reads the recognized parameters out of q. searchFields is the list of
// payload fields the search parameter matches against for this collection.
// Unknown parameters and malformed range keys are ignored.
func Parse(q url.Values, searchFields []string) Options {
	o := Options{
		Search:       strings.TrimSpace(q.Get("search")),
		SearchFields: searchFields,
		Page:         1,
		Limit:        DefaultLimit,
	}

	if s := q.Get("sort"); s != "" {
		for _, f := range strings.Split(s, ",") {
			f = strings.TrimSpace(f)
			desc := strings.HasPrefix(f, "-")
			f = strings.TrimPrefix(f, "-")
			if identRe.MatchString(f) {
				o.Sort = append(o.Sort, SortField{Field: f, Desc: desc})
			}
		}
	}
	if len(o.Sort) == 0 {
		o.Sort = []SortField{{Field: "createdAt", Desc: true}}
	}

	if s := q.Get("fields"); s != "" {
		for _, f := range strings.Split(s, ",") {
			f = strings.TrimSpace(f)
			if identRe.MatchString(f) {
				o.Fields = append(o.Fields, f)
			}
		}
	}

	if n := utils.QueryInt(q, "page", 1); n >= 0 {
		o.Page = n
	}
	if n := utils.QueryInt(q, "limit", DefaultLimit); n > 0 {
		o.Limit = n
	}

	for key, vals := range q {
		m := rangeKeyRe.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		o.Ranges = append(o.Ranges, normalizeRange(Range{Field: m[1], Op: m[2], Value: vals[0]}))
	}

	return o
}

// normalizeRange makes lte on a bare date inclusive of the whole day: stored
// values carry time-of-day, so "on or before day D" becomes "< D+1".
func normalizeRange(r Range) Range {
	if r.Op != "lte" {
		return r
	}
	d, err := time.Parse("2006-01-02", r.Value)
	if err != nil {
		return r
	}
	r.Op = "lt"
	r.Value = d.AddDate(0, 0, 1).Format("2006-01-02")
	return r
}

// ColumnMapper translates an API field name into a SQL expression. The
// expression must be safe to interpolate (mappers only see identifier-safe
// names). Returning ok=false drops the field.
type ColumnMapper func(field string) (expr string, ok bool)

// Where renders the search and range filters as SQL conditions. Argument
// placeholders start at argOffset+1.
func (o Options) Where(mapper ColumnMapper, argOffset int) ([]string, []any) {
	var conds []string
	var args []any

	if o.Search != "" && len(o.SearchFields) > 0 {
		needle := "%" + likeEscaper.Replace(o.Search) + "%"
		var ors []string
		for _, f := range o.SearchFields {
			expr, ok := mapper(f)
			if !ok {
				continue
			}
			args = append(args, needle)
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", expr, argOffset+len(args)))
		}
		if len(ors) > 0 {
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}

	for _, r := range o.Ranges {
		expr, ok := mapper(r.Field)
		if !ok {
			continue
		}
		op, ok := opSQL[r.Op]
		if !ok {
			continue
		}
		if t, err := parseTime(r.Value); err == nil {
			args = append(args, t)
			conds = append(conds, fmt.Sprintf("(%s)::timestamptz %s $%d", expr, op, argOffset+len(args)))
		} else if n, err := strconv.ParseFloat(r.Value, 64); err == nil {
			args = append(args, n)
			conds = append(conds, fmt.Sprintf("(%s)::numeric %s $%d", expr, op, argOffset+len(args)))
		} else {
			args = append(args, r.Value)
			conds = append(conds, fmt.Sprintf("%s %s $%d", expr, op, argOffset+len(args)))
		}
	}

	return conds, args
}

// OrderBy renders the sort specification. Ties are left to natural storage
// order.
func (o Options) OrderBy(mapper ColumnMapper) string {
	var parts []string
	for _, s := range o.Sort {
		expr, ok := mapper(s.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, expr+" "+dir)
	}
	if len(parts) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

// LimitOffset reports the pagination window. paged=false means page=0 was
// requested and everything should be returned.
func (o Options) LimitOffset() (limit, offset int, paged bool) {
	if o.Page == PageAll {
		return 0, 0, false
	}
	page := o.Page
	if page < 1 {
		page = 1
	}
	return o.Limit, (page - 1) * o.Limit, true
}

func parseTime(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a time: %q", v)
}
