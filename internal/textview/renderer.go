// Package textview draws table views as plain text for terminals.
package textview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/tableview/internal/dataset"
	"github.com/JonMunkholm/tableview/internal/view"
)

// maxCellWidth caps a column; longer values are cut with an ellipsis.
const maxCellWidth = 40

// Renderer implements view.Renderer by keeping the last drawn state. Print
// writes it out. Styles degrade to plain text when w is not a terminal.
type Renderer struct {
	w        io.Writer
	columns  []view.ColumnSpec
	sort     view.SortState
	rows     []view.Record
	selected int
	control  *view.PageControl

	headerStyle    lipgloss.Style
	highlightStyle lipgloss.Style
	dimStyle       lipgloss.Style
	currentStyle   lipgloss.Style
}

// New creates a renderer that prints to w.
func New(w io.Writer) *Renderer {
	lr := lipgloss.NewRenderer(w)
	return &Renderer{
		w:              w,
		selected:       view.UndefinedIndex,
		headerStyle:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8")),
		highlightStyle: lr.NewStyle().Reverse(true),
		dimStyle:       lr.NewStyle().Foreground(lipgloss.Color("8")),
		currentStyle:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
}

// SetHighlight picks the style of the selected row: "bold", "underline" or
// anything else for reverse video.
func (r *Renderer) SetHighlight(name string) {
	s := r.highlightStyle.UnsetReverse()
	switch name {
	case "bold":
		s = s.Bold(true)
	case "underline":
		s = s.Underline(true)
	default:
		s = s.Reverse(true)
	}
	r.highlightStyle = s
}

func (r *Renderer) RenderHeader(columns []view.ColumnSpec, sort view.SortState) {
	r.columns, r.sort = columns, sort
}

func (r *Renderer) RenderRows(rows []view.Record) {
	r.rows = rows
	r.selected = view.UndefinedIndex
}

func (r *Renderer) RenderRow(position int, row view.Record) {
	if position >= 0 && position < len(r.rows) {
		r.rows[position] = row
	}
}

func (r *Renderer) MarkSelected(position int, selected bool) {
	switch {
	case selected:
		r.selected = position
	case r.selected == position:
		r.selected = view.UndefinedIndex
	}
}

func (r *Renderer) RenderPagination(control view.PageControl) {
	r.control = &control
}

// Print writes the table, the pager when one was drawn, and a summary line.
func (r *Renderer) Print(state view.Snapshot) error {
	_, err := io.WriteString(r.w, r.String(state))
	return err
}

// String returns what Print would write.
func (r *Renderer) String(state view.Snapshot) string {
	var b strings.Builder
	widths := r.columnWidths()

	b.WriteString("  ")
	for i, col := range r.columns {
		label := columnLabel(col)
		if r.sort.Field == col.Field {
			if r.sort.Order == view.DescendingOrder {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		b.WriteString(r.headerStyle.Width(widths[i]).Render(truncate(label, widths[i])))
		if i < len(r.columns)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	if len(r.rows) == 0 {
		b.WriteString(r.dimStyle.Render("  No records"))
		b.WriteString("\n")
	}
	for pos, row := range r.rows {
		cells := make([]string, len(r.columns))
		for i, col := range r.columns {
			cell := truncate(dataset.FormatCell(row[col.Field]), widths[i])
			cells[i] = lipgloss.NewStyle().Width(widths[i]).Render(cell)
		}
		line := strings.Join(cells, "  ")
		if pos == r.selected {
			b.WriteString("> " + r.highlightStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if r.control != nil {
		b.WriteString(r.pager())
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("%d of %d records", state.ItemCount, state.RecordCount)
	if state.Filtering {
		summary += " (filtered)"
	}
	b.WriteString(r.dimStyle.Render(summary))
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) pager() string {
	c := r.control
	var parts []string
	if c.ShowFirst {
		parts = append(parts, "[first]", "[previous]")
	}
	if c.ShowNumbers {
		if c.WindowStart > 1 {
			parts = append(parts, "...")
		}
		for p := c.WindowStart; p <= c.WindowEnd; p++ {
			if p == c.CurrentPage {
				parts = append(parts, r.currentStyle.Render(fmt.Sprintf("(%d)", p)))
			} else {
				parts = append(parts, fmt.Sprint(p))
			}
		}
		if c.WindowEnd < c.TotalPages {
			parts = append(parts, "...")
		}
	}
	if c.ShowLast {
		parts = append(parts, "[next]", "[last]")
	}

	sizes := make([]string, 0, len(c.PageSizes))
	for _, opt := range c.PageSizes {
		if opt.Selected {
			sizes = append(sizes, "("+opt.Label+")")
		} else {
			sizes = append(sizes, opt.Label)
		}
	}
	parts = append(parts, r.dimStyle.Render("page size: "+strings.Join(sizes, " ")))
	return strings.Join(parts, " ")
}

// columnWidths sizes each column to its widest label or drawn cell.
func (r *Renderer) columnWidths() []int {
	widths := make([]int, len(r.columns))
	for i, col := range r.columns {
		w := lipgloss.Width(columnLabel(col)) + 2
		for _, row := range r.rows {
			w = max(w, lipgloss.Width(dataset.FormatCell(row[col.Field])))
		}
		widths[i] = min(w, maxCellWidth)
	}
	return widths
}

func columnLabel(col view.ColumnSpec) string {
	if col.Label != "" {
		return col.Label
	}
	return col.Field
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
