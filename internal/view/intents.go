package view

// PageActionKind names a pager interaction.
type PageActionKind string

const (
	PageFirst      PageActionKind = "first"
	PagePrevious   PageActionKind = "previous"
	PageNumber     PageActionKind = "page"
	PageNext       PageActionKind = "next"
	PageLast       PageActionKind = "last"
	PageSizeChange PageActionKind = "page_size"
	WindowLeft     PageActionKind = "shift_left"
	WindowRight    PageActionKind = "shift_right"
)

// Valid reports whether k is a known action.
func (k PageActionKind) Valid() bool {
	switch k {
	case PageFirst, PagePrevious, PageNumber, PageNext, PageLast,
		PageSizeChange, WindowLeft, WindowRight:
		return true
	}
	return false
}

// PageAction is a pager interaction relayed by a renderer. Value carries the
// page number for PageNumber and the size for PageSizeChange.
type PageAction struct {
	Kind  PageActionKind `json:"kind"`
	Value int            `json:"value,omitempty"`
}

// OnHeaderClick sorts by the column at columnIndex. Clicking the same column
// twice in a row flips the order.
func (e *Engine) OnHeaderClick(columnIndex int) error {
	if e.opts.DisableSorting || columnIndex < 0 || columnIndex >= len(e.columns) {
		return nil
	}
	return e.SortBy(e.columns[columnIndex])
}

// OnRowClick toggles the selection of the row at position.
func (e *Engine) OnRowClick(position int) {
	e.SelectRow(position)
}

// OnPageControlClick applies a pager interaction.
func (e *Engine) OnPageControlClick(a PageAction) {
	p := e.page
	switch a.Kind {
	case PageFirst:
		e.goToPage(1)
	case PagePrevious:
		e.goToPage(p.CurrentPage - 1)
	case PageNumber:
		if a.Value != p.CurrentPage {
			e.goToPage(a.Value)
		}
	case PageNext:
		e.goToPage(p.CurrentPage + 1)
	case PageLast:
		e.goToPage(p.TotalPages)
	case PageSizeChange:
		e.setPageSize(a.Value)
	case WindowLeft:
		e.ShiftWindow(-1)
	case WindowRight:
		e.ShiftWindow(1)
	}
}
