package view

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// filterSet is the active filter predicate and the absolute indices of the
// records that satisfy it. The zero value is "filtering inactive".
type filterSet struct {
	active  bool
	filters Record
	indices []int
}

// activeField is one filter entry whose field exists in the schema.
type activeField struct {
	field string
	typ   ColumnType
	value any
	date  time.Time
}

// applyFilters evaluates filters over records and returns the matching
// indices in store order. Filter keys that are not schema fields are
// ignored; if none remain the result is inactive, which is distinct from an
// active result with zero matches.
//
// A date filter value that does not parse fails the whole call. A record
// whose own date value does not parse never matches.
func applyFilters(records []Record, columns []ColumnSpec, filters Record) (filterSet, error) {
	var fields []activeField
	for _, col := range columns {
		v, ok := filters[col.Field]
		if !ok {
			continue
		}
		af := activeField{field: col.Field, typ: col.Type, value: v}
		if col.Type == TypeDate {
			t, present, err := dateValue(col.Field, v)
			if err != nil {
				return filterSet{}, err
			}
			if !present {
				return filterSet{}, dateError(col.Field, v)
			}
			af.date = t
		}
		fields = append(fields, af)
	}

	if len(fields) == 0 {
		return filterSet{}, nil
	}

	fs := filterSet{
		active:  true,
		filters: cloneRecord(filters),
		indices: []int{},
	}
	fold := cases.Fold()
	for i, r := range records {
		if matchesAll(r, fields, fold) {
			fs.indices = append(fs.indices, i)
		}
	}
	return fs, nil
}

// matchesAll reports whether r satisfies every field predicate. It stops at
// the first failure.
func matchesAll(r Record, fields []activeField, fold cases.Caser) bool {
	for _, f := range fields {
		if !matchField(r[f.field], f, fold) {
			return false
		}
	}
	return true
}

func matchField(item any, f activeField, fold cases.Caser) bool {
	switch {
	case f.typ.IsNumeric():
		want, ok := numericValue(f.value)
		if !ok {
			return false
		}
		got, ok := numericValue(item)
		return ok && got == want
	case f.typ == TypeDate:
		got, present, err := dateValue(f.field, item)
		if err != nil || !present {
			return false
		}
		return got.Equal(f.date)
	default:
		got, ok := stringValue(item)
		if !ok {
			return false
		}
		want, _ := stringValue(f.value)
		return matchString(got, want, fold)
	}
}

// matchString is a case-insensitive match. It succeeds when query is a
// substring of item, or when every whitespace-separated word of query
// appears somewhere in item, in any order.
func matchString(item, query string, fold cases.Caser) bool {
	item = fold.String(item)
	query = fold.String(query)
	if strings.Contains(item, query) {
		return true
	}
	for _, word := range strings.Fields(query) {
		if !strings.Contains(item, word) {
			return false
		}
	}
	return true
}

// removeIndex drops abs from the filtered sequence and shifts every later
// absolute index down by one to follow the store splice.
func (fs *filterSet) removeIndex(abs int) {
	if !fs.active {
		return
	}
	out := fs.indices[:0]
	for _, i := range fs.indices {
		switch {
		case i == abs:
			continue
		case i > abs:
			out = append(out, i-1)
		default:
			out = append(out, i)
		}
	}
	fs.indices = out
}
