package dataset

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/tableview/internal/view"
)

// Schema is the parsed contents of a schema file.
type Schema struct {
	Label   string            `yaml:"label"`
	Group   string            `yaml:"group"`
	Columns []view.ColumnSpec `yaml:"columns"`
}

// LoadSchema decodes a YAML schema and validates its columns. Columns
// without a label are labelled with their field name.
func LoadSchema(r io.Reader) (Schema, error) {
	var s Schema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Schema{}, fmt.Errorf("%w: schema", ErrEmptyFile)
		}
		return Schema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if err := ValidateColumns(s.Columns); err != nil {
		return Schema{}, err
	}
	for i := range s.Columns {
		if s.Columns[i].Label == "" {
			s.Columns[i].Label = s.Columns[i].Field
		}
		if s.Columns[i].Type == "" {
			s.Columns[i].Type = view.TypeString
		}
	}
	return s, nil
}

// ValidateColumns checks that every column has a unique, non-empty field
// and a known type.
func ValidateColumns(columns []view.ColumnSpec) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}
	seen := make(map[string]bool, len(columns))
	for i, col := range columns {
		if col.Field == "" {
			return fmt.Errorf("%w: column %d has no field", ErrInvalidSchema, i+1)
		}
		if seen[col.Field] {
			return fmt.Errorf("%w: %q", ErrDuplicateField, col.Field)
		}
		seen[col.Field] = true
		if !col.Type.Valid() {
			return fmt.Errorf("%w: %q on column %q", ErrUnknownType, col.Type, col.Field)
		}
	}
	return nil
}
