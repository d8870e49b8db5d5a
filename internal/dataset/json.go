package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/tableview/internal/view"
)

// ReadJSON reads a JSON array of objects. Numbers are kept as json.Number
// so integer ids survive unchanged.
func ReadJSON(r io.Reader) ([]view.Record, error) {
	dec := json.NewDecoder(NewBOMSkippingReader(r))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: json", ErrEmptyFile)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	records := make([]view.Record, 0, len(raw))
	for _, obj := range raw {
		if obj == nil {
			obj = map[string]any{}
		}
		records = append(records, view.Record(obj))
	}
	return records, nil
}
