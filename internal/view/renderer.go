package view

// Renderer draws the view. The engine only calls it once its own state is
// consistent, and never expects a return value: a renderer cannot veto or
// fail an operation.
//
// Renderers must not call back into mutating Engine methods from inside
// these calls.
type Renderer interface {
	// RenderHeader draws the column headers.
	RenderHeader(columns []ColumnSpec, sort SortState)

	// RenderRows replaces the body with rows, in display order.
	RenderRows(rows []Record)

	// RenderRow redraws the cells of a single row after an update.
	RenderRow(position int, row Record)

	// MarkSelected highlights or clears the row at position.
	MarkSelected(position int, selected bool)

	// RenderPagination draws the pager. Only called for paginated views.
	RenderPagination(control PageControl)
}

// NopRenderer discards every call.
type NopRenderer struct{}

func (NopRenderer) RenderHeader([]ColumnSpec, SortState) {}
func (NopRenderer) RenderRows([]Record)                  {}
func (NopRenderer) RenderRow(int, Record)                {}
func (NopRenderer) MarkSelected(int, bool)               {}
func (NopRenderer) RenderPagination(PageControl)         {}
