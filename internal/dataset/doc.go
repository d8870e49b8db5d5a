// Package dataset loads record collections and their column schemas from
// disk and keeps them in a process-wide registry.
//
// A dataset is a schema file (<key>.yaml) next to a data file (<key>.csv or
// <key>.json). The schema lists the columns in display order:
//
//	label: Customers
//	group: Sales
//	columns:
//	  - field: name
//	    type: string
//	    label: Name
//	  - field: joined
//	    type: date
//
// Records are returned as view.Record values ready to hand to view.New.
package dataset
