package view

import "strconv"

// PageSizeOption is one entry of the page-size selector.
type PageSizeOption struct {
	Size     int    `json:"size"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// PageControl is everything a renderer needs to draw the pager.
type PageControl struct {
	PageSizes   []PageSizeOption `json:"page_sizes"`
	PageSize    int              `json:"page_size"`
	CurrentPage int              `json:"current_page"`
	TotalPages  int              `json:"total_pages"`
	WindowStart int              `json:"window_start"`
	WindowEnd   int              `json:"window_end"`

	// ShowFirst offers first/previous, ShowLast offers next/last.
	ShowFirst   bool `json:"show_first"`
	ShowLast    bool `json:"show_last"`
	ShowNumbers bool `json:"show_numbers"`
}

// updatePagination recomputes the page count from the active item count and
// re-syncs the end of the page window with it.
func (e *Engine) updatePagination() {
	p := &e.page
	n := e.itemCount()
	p.TotalPages = 1
	if n > p.PageSize {
		p.TotalPages = (n + p.PageSize - 1) / p.PageSize
	}
	p.WindowEnd = p.TotalPages
	if p.WindowStart < 1 {
		p.WindowStart = 1
	}
	if p.WindowStart > p.WindowEnd {
		p.WindowStart = p.WindowEnd
	}
}

// setBounds moves to page and computes the slice of the active sequence it
// covers. The page is clamped to [1, TotalPages].
func (e *Engine) setBounds(page int) {
	p := &e.page
	if page > p.TotalPages {
		page = p.TotalPages
	}
	if page < 1 {
		page = 1
	}
	p.CurrentPage = page

	end := page * p.PageSize
	start := end - p.PageSize
	if n := e.itemCount(); end > n {
		end = n
	}
	if start > end {
		start = end
	}
	p.start, p.end = start, end
}

// goToPage shows page and redraws the body.
func (e *Engine) goToPage(page int) {
	e.setBounds(page)
	e.refreshBody()
}

// setPageSize changes the page size, drops the selection and returns to the
// first page. Sizes below one are ignored.
func (e *Engine) setPageSize(size int) {
	if size < 1 {
		return
	}
	e.page.PageSize = size
	e.page.CurrentPage = 1
	e.sel = noSelection()
	e.updatePagination()
	e.page.WindowStart = 1
	e.goToPage(1)
}

// shiftWindow moves the visible page numbers by size*direction and snaps
// the window back inside [1, TotalPages]. It does not redraw.
func (e *Engine) shiftWindow(size, direction int) {
	if size <= 0 || (direction != 1 && direction != -1) {
		return
	}
	p := &e.page
	shift := size * direction
	p.WindowStart += shift
	p.WindowEnd += shift
	switch {
	case p.WindowStart < 1:
		p.WindowStart = 1
		p.WindowEnd = min(p.WindowSize, p.TotalPages)
	case p.WindowEnd > p.TotalPages:
		p.WindowEnd = p.TotalPages
		p.WindowStart = max(1, p.TotalPages-p.WindowSize)
	}
}

// PageSizeOptions lists the configured sizes smaller than the record count,
// followed by an "All" entry covering every record.
func (e *Engine) PageSizeOptions() []PageSizeOption {
	n := len(e.records)
	var opts []PageSizeOption
	for _, size := range e.opts.PageSizes {
		if size >= n {
			break
		}
		opts = append(opts, PageSizeOption{
			Size:     size,
			Label:    strconv.Itoa(size),
			Selected: size == e.page.PageSize,
		})
	}
	return append(opts, PageSizeOption{
		Size:     max(n, 1),
		Label:    "All",
		Selected: e.page.PageSize >= n,
	})
}

func (e *Engine) pageControl() PageControl {
	p := e.page
	return PageControl{
		PageSizes:   e.PageSizeOptions(),
		PageSize:    p.PageSize,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		WindowStart: p.WindowStart,
		WindowEnd:   p.WindowEnd,
		ShowFirst:   p.CurrentPage != 1,
		ShowLast:    p.CurrentPage != p.TotalPages,
		ShowNumbers: p.TotalPages > 1,
	}
}

// GoToPage shows page, clamped to the valid range.
func (e *Engine) GoToPage(page int) {
	e.goToPage(page)
}

// SetPageSize changes the number of rows per page. The selection is dropped
// because row positions no longer line up.
func (e *Engine) SetPageSize(size int) {
	e.setPageSize(size)
}

// ShiftWindow moves the pager's page numbers one window left (-1) or right
// (+1) and redraws the pager.
func (e *Engine) ShiftWindow(direction int) {
	e.shiftWindow(e.page.WindowSize, direction)
	e.renderPager()
}
