package web

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/tableview/internal/dataset"
	"github.com/JonMunkholm/tableview/internal/view"
)

// HTMLRenderer keeps the last state the engine drew and turns it into an
// htmx table partial. Every interaction swaps the whole partial, so the
// partial redraws (RenderRow, MarkSelected) only update the kept state.
type HTMLRenderer struct {
	viewID   string
	columns  []view.ColumnSpec
	sort     view.SortState
	rows     []view.Record
	selected int
	control  *view.PageControl
}

// NewHTMLRenderer creates a renderer for the view with the given id.
func NewHTMLRenderer(viewID string) *HTMLRenderer {
	return &HTMLRenderer{viewID: viewID, selected: view.UndefinedIndex}
}

func (r *HTMLRenderer) RenderHeader(columns []view.ColumnSpec, sort view.SortState) {
	r.columns, r.sort = columns, sort
}

func (r *HTMLRenderer) RenderRows(rows []view.Record) {
	r.rows = rows
	r.selected = view.UndefinedIndex
}

func (r *HTMLRenderer) RenderRow(position int, row view.Record) {
	if position >= 0 && position < len(r.rows) {
		r.rows[position] = row
	}
}

func (r *HTMLRenderer) MarkSelected(position int, selected bool) {
	switch {
	case selected:
		r.selected = position
	case r.selected == position:
		r.selected = view.UndefinedIndex
	}
}

func (r *HTMLRenderer) RenderPagination(control view.PageControl) {
	r.control = &control
}

// Selected returns the highlighted display position.
func (r *HTMLRenderer) Selected() int { return r.selected }

// Rows returns the rows currently drawn.
func (r *HTMLRenderer) Rows() []view.Record { return slices.Clone(r.rows) }

// Table renders the partial: filter form, table and pager. The component
// reads the renderer when rendered, so render it while holding the session.
func (r *HTMLRenderer) Table(state view.Snapshot, highlight string) templ.Component {
	base := "/views/" + r.viewID
	return component(func(h *htmlWriter) {
		h.raw(`<div class="tableview"`)
		h.attr("id", "view-"+r.viewID)
		h.raw(` hx-target="this" hx-swap="outerHTML">`)

		r.writeFilters(h, base, state)
		r.writeTable(h, base, highlight)
		if r.control != nil {
			r.writePager(h, base)
		}

		h.rawf(`<p class="summary">%d of %d records`, state.ItemCount, state.RecordCount)
		if state.Filtering {
			h.raw(" (filtered)")
		}
		h.raw("</p></div>")
	})
}

func (r *HTMLRenderer) writeFilters(h *htmlWriter, base string, state view.Snapshot) {
	h.raw(`<form class="filters"`)
	h.attr("hx-post", base+"/filter")
	h.raw(">")
	for _, col := range r.columns {
		h.raw("<label>")
		h.text(columnLabel(col))
		h.raw(` <input type="text"`)
		h.attr("name", col.Field)
		if v, ok := state.ActiveFilters[col.Field]; ok {
			h.attr("value", dataset.FormatCell(v))
		}
		h.raw("></label>")
	}
	h.raw(`<button type="submit">Filter</button><button type="button"`)
	h.attr("hx-delete", base+"/filter")
	h.raw(">Clear</button></form>")
}

func (r *HTMLRenderer) writeTable(h *htmlWriter, base, highlight string) {
	h.raw("<table><thead><tr>")
	for i, col := range r.columns {
		h.raw("<th")
		h.attr("hx-post", base+"/sort/"+strconv.Itoa(i))
		if col.Width != "" {
			h.attr("style", "width: "+col.Width)
		}
		if r.sort.Field == col.Field {
			h.attr("class", "sorted-"+r.sort.Order.String())
		}
		h.raw(">")
		h.text(columnLabel(col))
		if r.sort.Field == col.Field {
			if r.sort.Order == view.DescendingOrder {
				h.raw(" &#9660;")
			} else {
				h.raw(" &#9650;")
			}
		}
		h.raw("</th>")
	}
	h.raw("</tr></thead><tbody>")

	if len(r.rows) == 0 {
		h.rawf(`<tr class="empty"><td colspan="%d">No records</td></tr>`, max(1, len(r.columns)))
	}
	for pos, row := range r.rows {
		h.raw("<tr")
		h.attr("hx-post", fmt.Sprintf("%s/rows/%d/select", base, pos))
		if pos == r.selected {
			h.attr("class", highlight)
		}
		h.raw(">")
		for _, col := range r.columns {
			h.raw("<td>")
			h.text(dataset.FormatCell(row[col.Field]))
			h.raw("</td>")
		}
		h.raw("</tr>")
	}
	h.raw("</tbody></table>")
}

func (r *HTMLRenderer) writePager(h *htmlWriter, base string) {
	c := r.control
	button := func(action view.PageActionKind, n int, label string, current bool) {
		h.raw("<button")
		h.attr("hx-post", base+"/page")
		h.attr("hx-vals", fmt.Sprintf(`{"action":%q,"n":%d}`, action, n))
		if current {
			h.raw(` class="current" disabled`)
		}
		h.raw(">")
		h.text(label)
		h.raw("</button>")
	}

	h.raw(`<nav class="pager"><select name="n"`)
	h.attr("hx-post", base+"/page")
	h.attr("hx-vals", fmt.Sprintf(`{"action":%q}`, view.PageSizeChange))
	h.raw(` hx-trigger="change">`)
	for _, opt := range c.PageSizes {
		h.raw("<option")
		h.attr("value", strconv.Itoa(opt.Size))
		if opt.Selected {
			h.raw(" selected")
		}
		h.raw(">")
		h.text(opt.Label)
		h.raw("</option>")
	}
	h.raw("</select>")

	if c.ShowFirst {
		button(view.PageFirst, 0, "first", false)
		button(view.PagePrevious, 0, "previous", false)
	}
	if c.ShowNumbers {
		if c.WindowStart > 1 {
			button(view.WindowLeft, 0, "...", false)
		}
		for p := c.WindowStart; p <= c.WindowEnd; p++ {
			button(view.PageNumber, p, strconv.Itoa(p), p == c.CurrentPage)
		}
		if c.WindowEnd < c.TotalPages {
			button(view.WindowRight, 0, "...", false)
		}
	}
	if c.ShowLast {
		button(view.PageNext, 0, "next", false)
		button(view.PageLast, 0, "last", false)
	}
	h.raw("</nav>")
}

func columnLabel(col view.ColumnSpec) string {
	if col.Label != "" {
		return col.Label
	}
	return col.Field
}
