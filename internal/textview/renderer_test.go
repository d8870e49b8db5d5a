package textview

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tableview/internal/view"
)

var columns = []view.ColumnSpec{
	{Field: "id", Type: view.TypeNumber, Label: "ID"},
	{Field: "name", Type: view.TypeString},
}

func records(n int) []view.Record {
	out := make([]view.Record, n)
	for i := range out {
		out[i] = view.Record{"id": float64(i + 1), "name": fmt.Sprintf("item %02d", i+1)}
	}
	return out
}

func draw(t *testing.T, recs []view.Record, opts view.Options, fn func(e *view.Engine)) []string {
	t.Helper()
	var buf bytes.Buffer
	r := New(&buf)
	opts.Renderer = r
	e := view.New(recs, columns, opts)
	e.Render()
	if fn != nil {
		fn(e)
	}
	require.NoError(t, r.Print(e.State()))
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func lineWith(lines []string, s string) string {
	for _, l := range lines {
		if strings.Contains(l, s) {
			return l
		}
	}
	return ""
}

func TestPrintRows(t *testing.T) {
	lines := draw(t, records(3), view.Options{}, nil)

	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "name")
	assert.Contains(t, lines[1], "item 01")
	assert.Contains(t, lines[4], "3 of 3 records")
}

func TestPrintSelection(t *testing.T) {
	lines := draw(t, records(3), view.Options{}, func(e *view.Engine) {
		e.SelectRow(1)
	})

	assert.True(t, strings.HasPrefix(lineWith(lines, "item 02"), "> "))
	assert.True(t, strings.HasPrefix(lineWith(lines, "item 01"), "  "))
}

func TestPrintSortArrow(t *testing.T) {
	lines := draw(t, records(3), view.Options{}, func(e *view.Engine) {
		require.NoError(t, e.SortByField("id"))
		require.NoError(t, e.SortByField("id"))
	})

	assert.Contains(t, lines[0], "ID ▼")
	assert.Contains(t, lines[1], "item 03")
}

func TestPrintPager(t *testing.T) {
	lines := draw(t, records(30), view.Options{Paginate: true}, func(e *view.Engine) {
		e.GoToPage(2)
	})

	pager := lineWith(lines, "page size:")
	assert.Contains(t, pager, "[first] [previous] 1")
	assert.Contains(t, pager, "(2)")
	assert.Contains(t, pager, "[next] [last]")
	assert.Contains(t, pager, "5 (10) 25 All")
	assert.Contains(t, lineWith(lines, "records"), "30 of 30 records")
}

func TestPrintFiltered(t *testing.T) {
	lines := draw(t, records(12), view.Options{}, func(e *view.Engine) {
		require.NoError(t, e.FilterData(view.Record{"name": "ITEM 11"}))
	})

	assert.Contains(t, lineWith(lines, "records"), "1 of 12 records (filtered)")
}

func TestPrintEmpty(t *testing.T) {
	lines := draw(t, nil, view.Options{}, nil)

	assert.NotEmpty(t, lineWith(lines, "No records"))
	assert.NotEmpty(t, lineWith(lines, "0 of 0 records"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
