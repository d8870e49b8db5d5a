package view

// itemCount is the length of the active sequence: the filtered indices when
// filtering is active, otherwise the whole store.
func (e *Engine) itemCount() int {
	if e.filter.active {
		return len(e.filter.indices)
	}
	return len(e.records)
}

// offsetOnPage maps a display position to an offset in the active sequence.
func (e *Engine) offsetOnPage(position int) int {
	return (e.page.CurrentPage-1)*e.page.PageSize + position
}

// toAbsolute maps an offset in the active sequence to a store index. Without
// filtering, or for an offset outside the filtered bounds, the offset is
// returned unchanged.
func (e *Engine) toAbsolute(offset int) int {
	if e.filter.active && offset >= 0 && offset < len(e.filter.indices) {
		return e.filter.indices[offset]
	}
	return offset
}

// validOffset reports whether offset addresses an item of the active sequence.
func (e *Engine) validOffset(offset int) bool {
	return offset >= 0 && offset < e.itemCount()
}

// resolve maps a display position on the current page to a store index.
// ok is false for positions outside the rows currently drawn.
func (e *Engine) resolve(position int) (abs int, ok bool) {
	if position < 0 || position >= e.page.end-e.page.start {
		return UndefinedIndex, false
	}
	offset := e.offsetOnPage(position)
	if !e.validOffset(offset) {
		return UndefinedIndex, false
	}
	abs = e.toAbsolute(offset)
	if abs < 0 || abs >= len(e.records) {
		return UndefinedIndex, false
	}
	return abs, true
}

// pageIndices returns the store indices drawn on the current page, in
// display order.
func (e *Engine) pageIndices() []int {
	out := make([]int, 0, e.page.end-e.page.start)
	for offset := e.page.start; offset < e.page.end; offset++ {
		out = append(out, e.toAbsolute(offset))
	}
	return out
}

// positionOf is the inverse of resolve: the display position of abs on the
// current page, or UndefinedIndex when it is not drawn.
func (e *Engine) positionOf(abs int) int {
	if abs == UndefinedIndex {
		return UndefinedIndex
	}
	for pos, i := range e.pageIndices() {
		if i == abs {
			return pos
		}
	}
	return UndefinedIndex
}
