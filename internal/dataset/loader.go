package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/tableview/internal/view"
)

// Open reads the schema at schemaPath and the data file at dataPath. The
// data format is chosen by extension: .json, anything else is CSV.
func Open(key, schemaPath, dataPath string) (Dataset, error) {
	sf, err := os.Open(schemaPath)
	if err != nil {
		return Dataset{}, err
	}
	defer sf.Close()

	schema, err := LoadSchema(sf)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", schemaPath, err)
	}

	df, err := os.Open(dataPath)
	if err != nil {
		return Dataset{}, err
	}
	defer df.Close()

	var records []view.Record
	if strings.EqualFold(filepath.Ext(dataPath), ".json") {
		records, err = ReadJSON(df)
	} else {
		records, err = ReadCSV(df, schema.Columns)
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", dataPath, err)
	}

	label := schema.Label
	if label == "" {
		label = titleCase(key)
	}
	return Dataset{
		Key:     key,
		Label:   label,
		Group:   schema.Group,
		Source:  dataPath,
		Columns: schema.Columns,
		Records: records,
	}, nil
}

// LoadDir registers every dataset in dir and returns the number loaded. A
// dataset is a <key>.yaml (or .yml) schema with a <key>.csv or <key>.json
// next to it. Keys that are already registered are skipped.
func LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read dataset dir: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if _, exists := Get(key); exists {
			continue
		}

		dataPath, err := findDataFile(dir, key)
		if err != nil {
			return loaded, fmt.Errorf("dataset %q: %w", key, err)
		}
		ds, err := Open(key, filepath.Join(dir, entry.Name()), dataPath)
		if err != nil {
			return loaded, fmt.Errorf("dataset %q: %w", key, err)
		}
		Register(ds)
		loaded++
	}
	return loaded, nil
}

func findDataFile(dir, key string) (string, error) {
	for _, ext := range []string{".csv", ".json"} {
		path := filepath.Join(dir, key+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", ErrNoDataFile
}

func titleCase(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}
