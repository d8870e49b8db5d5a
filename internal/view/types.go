package view

// Exported constants mirrored by every renderer.
const (
	UndefinedIndex  = -1
	DefaultPageSize = 10

	// DefaultWindowSize is the number of page numbers shown by the pager.
	DefaultWindowSize = 10
)

// DefaultPageSizes are the page sizes offered by the pager.
var DefaultPageSizes = []int{5, 10, 25, 50, 100, 250, 500, 1000, 5000}

// Order multiplies the natural comparison of two values.
type Order int

const (
	AscendingOrder  Order = 1
	DescendingOrder Order = -1
)

// String returns "asc" or "desc".
func (o Order) String() string {
	if o == DescendingOrder {
		return "desc"
	}
	return "asc"
}

// Record is one item of the collection. Identity is positional: a record is
// addressed by its index in the store, never by a stored key.
type Record map[string]any

// ColumnType is the value type held by a column.
type ColumnType string

const (
	TypeNumber ColumnType = "number"
	TypeDouble ColumnType = "double"
	TypeFloat  ColumnType = "float"
	TypeDate   ColumnType = "date"
	TypeString ColumnType = "string"
)

// IsNumeric reports whether values of the type compare as floating point.
func (t ColumnType) IsNumeric() bool {
	switch t {
	case TypeNumber, TypeDouble, TypeFloat:
		return true
	}
	return false
}

// Valid reports whether t is a known column type. The empty type is treated
// as string.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeNumber, TypeDouble, TypeFloat, TypeDate, TypeString, "":
		return true
	}
	return false
}

// ColumnSpec maps a record field to a display column. Column order drives
// header order.
type ColumnSpec struct {
	Field string     `json:"field" yaml:"field"`
	Type  ColumnType `json:"type" yaml:"type"`
	Label string     `json:"label" yaml:"label"`
	Width string     `json:"width,omitempty" yaml:"width"`
}

// SortState is the active sort. An empty Field means insertion order.
type SortState struct {
	Field string `json:"field,omitempty"`
	Order Order  `json:"order"`
}

// Pagination is the paging state of the view.
type Pagination struct {
	PageSize    int `json:"page_size"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	WindowStart int `json:"window_start"`
	WindowEnd   int `json:"window_end"`
	WindowSize  int `json:"window_size"`

	// start and end bound the current page within the active sequence.
	start int
	end   int
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Pagination    Pagination `json:"pagination"`
	Sort          SortState  `json:"sort"`
	Filtering     bool       `json:"filtering"`
	ItemCount     int        `json:"item_count"`
	RecordCount   int        `json:"record_count"`
	SelectedRow   int        `json:"selected_row"`
	ActiveFilters Record     `json:"active_filters,omitempty"`
}

// cloneRecord returns a shallow copy of r.
func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
