package view

// selection remembers the selected record by store index together with the
// page it was selected on.
type selection struct {
	abs  int
	page int
}

func noSelection() selection {
	return selection{abs: UndefinedIndex, page: UndefinedIndex}
}

func (s selection) empty() bool {
	return s.abs == UndefinedIndex
}

// SelectRow selects the record drawn at position. Selecting the row that is
// already selected clears it; selecting another row moves the selection.
// Out-of-range positions and views built with DisableSelection ignore the
// call.
func (e *Engine) SelectRow(position int) {
	if e.opts.DisableSelection {
		return
	}
	abs, ok := e.resolve(position)
	if !ok {
		return
	}

	current := e.page.CurrentPage
	if e.sel.abs == abs && e.sel.page == current {
		e.sel = noSelection()
		e.renderer.MarkSelected(position, false)
		return
	}

	prev := UndefinedIndex
	if !e.sel.empty() && e.sel.page == current {
		prev = e.positionOf(e.sel.abs)
	}
	e.sel = selection{abs: abs, page: current}
	if prev != UndefinedIndex {
		e.renderer.MarkSelected(prev, false)
	}
	e.renderer.MarkSelected(position, true)
	e.log.Debug("row selected", "position", position, "index", abs)
}

// reconcileSelection keeps the selection only if it is on the page about to
// be drawn and returns its display position.
func (e *Engine) reconcileSelection() int {
	if e.sel.empty() {
		return UndefinedIndex
	}
	if e.sel.page == e.page.CurrentPage {
		if pos := e.positionOf(e.sel.abs); pos != UndefinedIndex {
			return pos
		}
	}
	e.sel = noSelection()
	return UndefinedIndex
}

// selectionRemoved follows a store splice at abs.
func (e *Engine) selectionRemoved(abs int) {
	switch {
	case e.sel.empty():
	case e.sel.abs == abs:
		e.sel = noSelection()
	case e.sel.abs > abs:
		e.sel.abs--
	}
}

// SelectedRowIndex returns the display position of the selected row on the
// current page, or UndefinedIndex.
func (e *Engine) SelectedRowIndex() int {
	if e.sel.empty() || e.sel.page != e.page.CurrentPage {
		return UndefinedIndex
	}
	return e.positionOf(e.sel.abs)
}

// SelectedRowValue returns the selected record, or an empty record when
// nothing visible is selected.
func (e *Engine) SelectedRowValue() Record {
	pos := e.SelectedRowIndex()
	if pos == UndefinedIndex {
		return Record{}
	}
	return e.records[e.sel.abs]
}
