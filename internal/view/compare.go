package view

import (
	"cmp"
	"slices"
	"strings"
)

// RecordComparator orders two records. It returns an error when a value
// cannot be turned into a comparison key.
type RecordComparator func(a, b Record) (int, error)

// IndexComparator orders two absolute store indices.
type IndexComparator func(a, b int) (int, error)

// sortKey is the comparable form of one field value.
type sortKey struct {
	present bool
	num     float64
	ts      int64
	str     string
}

// keyOf extracts the comparison key of col from r. Absent fields produce a
// key that orders before every present value.
func keyOf(r Record, col ColumnSpec) (sortKey, error) {
	v := r[col.Field]
	switch {
	case col.Type.IsNumeric():
		f, ok := numericValue(v)
		return sortKey{present: ok, num: f}, nil
	case col.Type == TypeDate:
		t, ok, err := dateValue(col.Field, v)
		if err != nil {
			return sortKey{}, err
		}
		return sortKey{present: ok, ts: t.UnixNano()}, nil
	default:
		s, ok := stringValue(v)
		return sortKey{present: ok, str: s}, nil
	}
}

func compareKeys(t ColumnType, a, b sortKey) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return -1
	case !b.present:
		return 1
	}

	switch {
	case t.IsNumeric():
		return cmp.Compare(a.num, b.num)
	case t == TypeDate:
		return cmp.Compare(a.ts, b.ts)
	default:
		return strings.Compare(a.str, b.str)
	}
}

// NewRecordComparator builds the comparator used when sorting the store
// itself. Strings compare case-sensitively on their raw value.
func NewRecordComparator(col ColumnSpec, order Order) RecordComparator {
	return func(a, b Record) (int, error) {
		ka, err := keyOf(a, col)
		if err != nil {
			return 0, err
		}
		kb, err := keyOf(b, col)
		if err != nil {
			return 0, err
		}
		return compareKeys(col.Type, ka, kb) * int(order), nil
	}
}

// NewIndexComparator builds the comparator used when sorting a sequence of
// absolute indices into records. It orders exactly like NewRecordComparator.
func NewIndexComparator(records []Record, col ColumnSpec, order Order) IndexComparator {
	byRecord := NewRecordComparator(col, order)
	return func(a, b int) (int, error) {
		return byRecord(records[a], records[b])
	}
}

// sortStable sorts items in place with a fallible comparator. If any
// comparison fails, items is left untouched and the first error returned.
func sortStable[T any](items []T, compare func(a, b T) (int, error)) error {
	var firstErr error
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		if firstErr != nil {
			return 0
		}
		c, err := compare(a, b)
		if err != nil {
			firstErr = err
			return 0
		}
		return c
	})
	if firstErr != nil {
		return firstErr
	}
	copy(items, sorted)
	return nil
}
