package dataset

import (
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/tableview/internal/view"
)

// Dataset is a named record collection with its column schema.
type Dataset struct {
	Key     string            `json:"key"`
	Label   string            `json:"label"`
	Group   string            `json:"group"`
	Source  string            `json:"source,omitempty"`
	Columns []view.ColumnSpec `json:"columns"`
	Records []view.Record     `json:"-"`
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.Records) }

var (
	registry   = make(map[string]Dataset)
	registryMu sync.RWMutex
)

// Register adds a dataset to the registry.
// Panics if a dataset with the same key is already registered.
func Register(ds Dataset) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[ds.Key]; exists {
		panic(fmt.Sprintf("dataset already registered: %s", ds.Key))
	}
	if ds.Label == "" {
		ds.Label = ds.Key
	}
	registry[ds.Key] = ds
}

// Get returns a dataset by key.
// Returns false if not found.
func Get(key string) (Dataset, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ds, ok := registry[key]
	return ds, ok
}

// All returns all registered datasets, sorted by group then key.
func All() []Dataset {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Dataset, 0, len(registry))
	for _, ds := range registry {
		result = append(result, ds)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].Key < result[j].Key
	})
	return result
}

// Groups returns all unique group names, sorted.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, ds := range registry {
		seen[ds.Group] = true
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Count returns the number of registered datasets.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered datasets.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Dataset)
}
