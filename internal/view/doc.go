// Package view implements the state engine behind a paginated, sortable,
// filterable table.
//
// The engine owns an in-memory collection of records and a column schema and
// keeps a consistent view over them. It does no drawing itself; every change
// is pushed to a [Renderer] once the engine state is consistent again.
//
// # Coordinate Spaces
//
// Three index spaces are involved in every row operation:
//
//   - Display position: the 0-based row offset within the current page.
//   - Filtered offset: the position within the filtered sequence, computed
//     as (CurrentPage-1)*PageSize + position.
//   - Absolute index: the position within the underlying record store.
//
// Public operations that accept a row index always take a display position
// and resolve it through both steps before touching the store:
//
//	offset := e.offsetOnPage(position)
//	abs := e.toAbsolute(offset)
//
// # Filtering
//
// A filter set is either inactive (the view is the whole store) or active
// with zero or more matching absolute indices. "Active with no matches" is
// a distinct state and renders an empty page.
//
// # Selection
//
// At most one record is selected. The selection is remembered by absolute
// index and survives sorts and removals of other records, but it is dropped
// when the page it was made on is no longer the one being drawn.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Callers that share one across
// goroutines must serialize access, and must not call mutating operations
// from inside a Renderer callback.
package view
