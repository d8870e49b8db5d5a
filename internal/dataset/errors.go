package dataset

import "errors"

var (
	ErrInvalidSchema  = errors.New("invalid schema")
	ErrUnknownType    = errors.New("unknown column type")
	ErrDuplicateField = errors.New("duplicate column field")
	ErrEmptyFile      = errors.New("empty file")
	ErrInvalidCSV     = errors.New("invalid csv")
	ErrInvalidJSON    = errors.New("invalid json")
	ErrNotFound       = errors.New("dataset not found")
	ErrNoDataFile     = errors.New("no data file")
)
