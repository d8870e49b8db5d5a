package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tableview/internal/view"
)

// HeaderIndex maps lower-cased header names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a CSV header row.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}

// CleanCell trims whitespace, an Excel formula prefix (="...") and
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}
	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// ReadCSV reads a CSV file whose header names the schema fields
// (case-insensitive). Columns missing from the file and empty cells leave
// the field absent. Numeric columns hold float64 when the cell parses and
// the cleaned string otherwise, so a bad cell is still visible. Rows with
// only empty cells are skipped.
func ReadCSV(r io.Reader, columns []view.ColumnSpec) ([]view.Record, error) {
	cr := csv.NewReader(NewBOMSkippingReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: csv", ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidCSV, err)
	}
	idx := MakeHeaderIndex(header)

	records := []view.Record{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidCSV, line, err)
		}

		rec := make(view.Record, len(columns))
		for _, col := range columns {
			pos, ok := idx[strings.ToLower(col.Field)]
			if !ok || pos >= len(row) {
				continue
			}
			cell := CleanCell(row[pos])
			if cell == "" {
				continue
			}
			rec[col.Field] = coerce(cell, col.Type)
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}

func coerce(cell string, typ view.ColumnType) any {
	if !typ.IsNumeric() {
		return cell
	}
	clean := strings.NewReplacer(",", "", "$", "").Replace(cell)
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		return f
	}
	return cell
}

// WriteCSV writes a header of field names followed by one row per record,
// so its output reads back with ReadCSV.
// Missing fields become empty cells.
func WriteCSV(w io.Writer, columns []view.ColumnSpec, records []view.Record) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Field
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = FormatCell(rec[col.Field])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatCell renders a record value as cell text. Missing values are empty.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
