package view

import (
	"fmt"
	"log/slog"
	"slices"
)

// Options configures an Engine. The zero value gives a selectable, sortable,
// unpaginated view with DefaultPageSize rows per page.
type Options struct {
	// ContainerID identifies the table to the renderer.
	ContainerID string

	// HighlightStyle is the style a renderer applies to the selected row.
	HighlightStyle string

	DisableSelection bool
	DisableSorting   bool

	// Paginate enables drawing of the pager.
	Paginate bool

	PageSize   int
	WindowSize int
	PageSizes  []int

	// Renderer receives draw calls. Defaults to NopRenderer.
	Renderer Renderer
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.WindowSize < 1 {
		o.WindowSize = DefaultWindowSize
	}
	if len(o.PageSizes) == 0 {
		o.PageSizes = DefaultPageSizes
	}
	o.PageSizes = slices.Clone(o.PageSizes)
	slices.Sort(o.PageSizes)
	if o.Renderer == nil {
		o.Renderer = NopRenderer{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Engine is the view state over one record collection.
type Engine struct {
	columns []ColumnSpec
	records []Record

	filter filterSet
	sort   SortState
	page   Pagination
	sel    selection

	opts     Options
	renderer Renderer
	log      *slog.Logger
}

// New builds an engine over copies of records. Empty input is valid and
// yields a single empty page. Nothing is drawn until Render is called.
func New(records []Record, columns []ColumnSpec, opts Options) *Engine {
	opts = opts.withDefaults()

	e := &Engine{
		columns:  slices.Clone(columns),
		records:  make([]Record, 0, len(records)),
		sort:     SortState{Order: AscendingOrder},
		sel:      noSelection(),
		opts:     opts,
		renderer: opts.Renderer,
		log:      opts.Logger.With("view", opts.ContainerID),
	}
	for _, r := range records {
		if r == nil {
			r = Record{}
		}
		e.records = append(e.records, cloneRecord(r))
	}

	e.page = Pagination{
		PageSize:    opts.PageSize,
		CurrentPage: 1,
		WindowStart: 1,
		WindowSize:  opts.WindowSize,
	}
	e.updatePagination()
	e.setBounds(1)
	return e
}

// ContainerID returns the identifier the engine was created with.
func (e *Engine) ContainerID() string { return e.opts.ContainerID }

// HighlightStyle returns the style for the selected row.
func (e *Engine) HighlightStyle() string { return e.opts.HighlightStyle }

// Paginated reports whether the pager is drawn.
func (e *Engine) Paginated() bool { return e.opts.Paginate }

// Columns returns a copy of the column schema.
func (e *Engine) Columns() []ColumnSpec {
	return slices.Clone(e.columns)
}

// State returns a copy of the current view state.
func (e *Engine) State() Snapshot {
	s := Snapshot{
		Pagination:  e.page,
		Sort:        e.sort,
		Filtering:   e.filter.active,
		ItemCount:   e.itemCount(),
		RecordCount: len(e.records),
		SelectedRow: e.SelectedRowIndex(),
	}
	if e.filter.active {
		s.ActiveFilters = cloneRecord(e.filter.filters)
	}
	return s
}

// Render draws the header and the first page.
func (e *Engine) Render() {
	e.renderHeader()
	e.goToPage(1)
}

// PageRows returns copies of the records on the current page.
func (e *Engine) PageRows() []Record {
	idx := e.pageIndices()
	rows := make([]Record, 0, len(idx))
	for _, abs := range idx {
		rows = append(rows, cloneRecord(e.records[abs]))
	}
	return rows
}

// Values returns the store itself, not a copy. Callers must not modify it;
// every change has to go through the engine.
func (e *Engine) Values() []Record {
	return e.records
}

// ValueAt returns the record drawn at position, or an empty record when the
// position is not on the current page.
func (e *Engine) ValueAt(position int) Record {
	abs, ok := e.resolve(position)
	if !ok {
		return Record{}
	}
	return e.records[abs]
}

// AppendData adds a record at the end of the store. Any filter is cleared
// so the new record is part of the view.
func (e *Engine) AppendData(r Record) {
	if r == nil {
		return
	}
	e.records = append(e.records, cloneRecord(r))
	e.filter = filterSet{}
	e.updatePagination()
	e.log.Debug("record appended", "index", len(e.records)-1, "records", len(e.records))
	e.goToPage(e.page.CurrentPage)
}

// RemoveData deletes the record drawn at position. If that empties the last
// page the view steps back one page.
func (e *Engine) RemoveData(position int) {
	abs, ok := e.resolve(position)
	if !ok {
		return
	}

	e.records = slices.Delete(e.records, abs, abs+1)
	e.filter.removeIndex(abs)
	e.selectionRemoved(abs)
	e.updatePagination()
	e.log.Debug("record removed", "position", position, "index", abs, "records", len(e.records))

	if e.page.CurrentPage > e.page.TotalPages {
		e.goToPage(e.page.CurrentPage - 1)
	} else {
		e.goToPage(e.page.CurrentPage)
	}
}

// UpdateData overwrites the schema fields present in patch on the record
// drawn at position and redraws that row only. Keys outside the schema are
// ignored.
func (e *Engine) UpdateData(position int, patch Record) {
	abs, ok := e.resolve(position)
	if !ok || patch == nil {
		return
	}

	target := e.records[abs]
	changed := 0
	for _, col := range e.columns {
		if v, ok := patch[col.Field]; ok {
			target[col.Field] = v
			changed++
		}
	}
	if changed == 0 {
		return
	}
	e.log.Debug("record updated", "position", position, "index", abs, "fields", changed)
	e.renderer.RenderRow(position, cloneRecord(target))
}

// SortBy sorts the view on column. Sorting the column that is already the
// sort column flips the order; any other column starts ascending. When a
// date value cannot be parsed the view is left unchanged and an error
// wrapping ErrInvalidDateValue is returned.
func (e *Engine) SortBy(column ColumnSpec) error {
	i := e.columnIndex(column.Field)
	if i < 0 {
		return fmt.Errorf("sort %q: %w", column.Field, ErrUnknownColumn)
	}
	col := e.columns[i]

	order := AscendingOrder
	if e.sort.Field == col.Field {
		order = e.sort.Order * DescendingOrder
	}

	if err := e.sortByField(col, order); err != nil {
		e.log.Warn("sort failed", "field", col.Field, "error", err)
		return fmt.Errorf("sort %q: %w", col.Field, err)
	}
	e.sort = SortState{Field: col.Field, Order: order}
	e.log.Debug("sorted", "field", col.Field, "order", order.String(), "filtering", e.filter.active)

	e.renderHeader()
	if e.filter.active {
		e.setPageSize(e.page.PageSize)
	} else {
		e.goToPage(e.page.CurrentPage)
	}
	return nil
}

// SortByField is SortBy for a field name.
func (e *Engine) SortByField(field string) error {
	return e.SortBy(ColumnSpec{Field: field})
}

// sortByField reorders either the filtered indices or the store itself. A
// store sort carries the selection along to the record's new position.
func (e *Engine) sortByField(col ColumnSpec, order Order) error {
	if e.filter.active {
		return sortStable(e.filter.indices, NewIndexComparator(e.records, col, order))
	}

	perm := make([]int, len(e.records))
	for i := range perm {
		perm[i] = i
	}
	if err := sortStable(perm, NewIndexComparator(e.records, col, order)); err != nil {
		return err
	}

	sorted := make([]Record, len(e.records))
	moved := e.sel.abs
	for to, from := range perm {
		sorted[to] = e.records[from]
		if from == e.sel.abs {
			moved = to
		}
	}
	e.records = sorted
	e.sel.abs = moved
	return nil
}

// FilterData narrows the view to the records matching every filter whose key
// is a schema field. If no key is a schema field filtering becomes inactive.
// The view returns to the first page either way.
func (e *Engine) FilterData(filters Record) error {
	fs, err := applyFilters(e.records, e.columns, filters)
	if err != nil {
		e.log.Warn("filter rejected", "error", err)
		return fmt.Errorf("filter: %w", err)
	}
	e.filter = fs
	e.log.Debug("filtered", "active", fs.active, "matches", len(fs.indices))
	e.setPageSize(e.page.PageSize)
	return nil
}

// ClearFilters shows the whole store again.
func (e *Engine) ClearFilters() {
	e.filter = filterSet{}
	e.setPageSize(e.page.PageSize)
}

// RemoveAll empties the store and returns the view to its initial state.
func (e *Engine) RemoveAll() {
	e.records = []Record{}
	e.filter = filterSet{}
	e.sort = SortState{Order: AscendingOrder}
	e.sel = noSelection()
	e.page.CurrentPage = 1
	e.page.WindowStart = 1
	e.updatePagination()
	e.log.Debug("all records removed")
	e.renderHeader()
	e.goToPage(1)
}

func (e *Engine) columnIndex(field string) int {
	for i, col := range e.columns {
		if col.Field == field {
			return i
		}
	}
	return -1
}

func (e *Engine) renderHeader() {
	e.renderer.RenderHeader(slices.Clone(e.columns), e.sort)
}

// refreshBody redraws the current page. The selection is reconciled first
// so the renderer never sees a highlight for a row that is not drawn.
func (e *Engine) refreshBody() {
	selected := e.reconcileSelection()
	e.renderer.RenderRows(e.PageRows())
	if selected != UndefinedIndex {
		e.renderer.MarkSelected(selected, true)
	}
	e.renderPager()
}

func (e *Engine) renderPager() {
	if e.opts.Paginate {
		e.renderer.RenderPagination(e.pageControl())
	}
}
