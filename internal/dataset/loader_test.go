package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	dir := t.TempDir()
	writeFile(t, dir, "sales_orders.yaml", "group: sales\ncolumns:\n  - field: id\n    type: number\n  - field: customer\n")
	writeFile(t, dir, "sales_orders.csv", "id,customer\n1,Acme\n2,Globex\n")
	writeFile(t, dir, "hosts.yml", "label: Hosts\ncolumns:\n  - field: host\n")
	writeFile(t, dir, "hosts.json", `[{"host": "a", "cpu": 4}]`)
	writeFile(t, dir, "README.md", "ignored")

	n, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	orders, ok := Get("sales_orders")
	require.True(t, ok)
	assert.Equal(t, "Sales Orders", orders.Label)
	assert.Equal(t, "sales", orders.Group)
	require.Equal(t, 2, orders.Len())
	assert.Equal(t, 1.0, orders.Records[0]["id"])
	assert.Equal(t, "Globex", orders.Records[1]["customer"])

	hosts, ok := Get("hosts")
	require.True(t, ok)
	assert.Equal(t, "Hosts", hosts.Label)
	assert.Equal(t, json.Number("4"), hosts.Records[0]["cpu"])

	n, err = LoadDir(dir)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadDir_MissingData(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	dir := t.TempDir()
	writeFile(t, dir, "lonely.yaml", "columns:\n  - field: a\n")

	_, err := LoadDir(dir)
	assert.ErrorIs(t, err, ErrNoDataFile)
}

func TestLoadDir_BadSchema(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "columns:\n  - field: a\n    type: money\n")
	writeFile(t, dir, "bad.csv", "a\n1\n")

	_, err := LoadDir(dir)
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Zero(t, Count())
}

func TestLoadDir_NoDir(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
