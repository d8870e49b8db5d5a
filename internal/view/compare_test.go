package view

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordComparator(t *testing.T) {
	tests := []struct {
		name  string
		col   ColumnSpec
		order Order
		a, b  Record
		want  int
	}{
		{"number ascending", ColumnSpec{Field: "n", Type: TypeNumber}, AscendingOrder, Record{"n": 1}, Record{"n": 2}, -1},
		{"number descending", ColumnSpec{Field: "n", Type: TypeNumber}, DescendingOrder, Record{"n": 1}, Record{"n": 2}, 1},
		{"double mixed types", ColumnSpec{Field: "n", Type: TypeDouble}, AscendingOrder, Record{"n": 2.5}, Record{"n": "2.5"}, 0},
		{"float equal", ColumnSpec{Field: "n", Type: TypeFloat}, AscendingOrder, Record{"n": float32(3)}, Record{"n": int64(3)}, 0},
		{"string case sensitive", ColumnSpec{Field: "s", Type: TypeString}, AscendingOrder, Record{"s": "Zed"}, Record{"s": "apple"}, -1},
		{"untyped column is string", ColumnSpec{Field: "s"}, AscendingOrder, Record{"s": "b"}, Record{"s": "a"}, 1},
		{"date ascending", ColumnSpec{Field: "d", Type: TypeDate}, AscendingOrder, Record{"d": "2024-01-15"}, Record{"d": "2024-02-01"}, -1},
		{"date descending", ColumnSpec{Field: "d", Type: TypeDate}, DescendingOrder, Record{"d": "2024-01-15"}, Record{"d": "2024-02-01"}, 1},
		{"date formats agree", ColumnSpec{Field: "d", Type: TypeDate}, AscendingOrder, Record{"d": "2024-03-05"}, Record{"d": "March 5, 2024"}, 0},
		{"missing sorts first", ColumnSpec{Field: "n", Type: TypeNumber}, AscendingOrder, Record{}, Record{"n": 0}, -1},
		{"both missing equal", ColumnSpec{Field: "s", Type: TypeString}, AscendingOrder, Record{}, Record{"s": nil}, 0},
		{"blank date is missing", ColumnSpec{Field: "d", Type: TypeDate}, AscendingOrder, Record{"d": ""}, Record{"d": "2024-01-01"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRecordComparator(tt.col, tt.order)(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordComparator_InvalidDate(t *testing.T) {
	compare := NewRecordComparator(ColumnSpec{Field: "d", Type: TypeDate}, AscendingOrder)

	_, err := compare(Record{"d": "not a date"}, Record{"d": "2024-01-01"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDateValue))
	assert.Contains(t, err.Error(), `"d"`)
}

func TestComparatorFlavorsAgree(t *testing.T) {
	records := []Record{
		{"n": 3, "s": "c"},
		{"n": 1, "s": "a"},
		{"n": 2, "s": "b"},
		{"n": 1, "s": "z"},
	}
	col := ColumnSpec{Field: "n", Type: TypeNumber}

	for _, order := range []Order{AscendingOrder, DescendingOrder} {
		byRecord := NewRecordComparator(col, order)
		byIndex := NewIndexComparator(records, col, order)
		for i := range records {
			for j := range records {
				want, err := byRecord(records[i], records[j])
				require.NoError(t, err)
				got, err := byIndex(i, j)
				require.NoError(t, err)
				assert.Equal(t, want, got, "order %v, i=%d j=%d", order, i, j)
			}
		}
	}
}

func TestSortStable_KeepsEqualKeysInOrder(t *testing.T) {
	records := []Record{
		{"k": 2, "id": "a"},
		{"k": 1, "id": "b"},
		{"k": 2, "id": "c"},
		{"k": 1, "id": "d"},
		{"k": 2, "id": "e"},
	}
	compare := NewRecordComparator(ColumnSpec{Field: "k", Type: TypeNumber}, AscendingOrder)

	require.NoError(t, sortStable(records, compare))

	var ids []string
	for _, r := range records {
		ids = append(ids, r["id"].(string))
	}
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids)
}

func TestSortStable_ErrorLeavesInputUntouched(t *testing.T) {
	records := []Record{
		{"d": "2024-05-01"},
		{"d": "garbage"},
		{"d": "2023-01-01"},
	}
	compare := NewRecordComparator(ColumnSpec{Field: "d", Type: TypeDate}, AscendingOrder)

	err := sortStable(records, compare)
	require.ErrorIs(t, err, ErrInvalidDateValue)
	assert.Equal(t, "2024-05-01", records[0]["d"])
	assert.Equal(t, "garbage", records[1]["d"])
	assert.Equal(t, "2023-01-01", records[2]["d"])
}
