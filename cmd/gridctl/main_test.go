package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const testConfig = `
[grid]
id = "orders"
selection_mode = "MultiRange"

[grid.new_item]
name = "new"
qty = 0

[[grid.columns]]
binding = "name"

[[grid.columns]]
binding = "qty"
type = "Number"

[metrics]
enabled = %s
`

const testRows = `[
  {"name": "a", "qty": 1},
  {"name": "b", "qty": 2},
  {"name": "c", "qty": 3}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setup(t *testing.T, metrics bool) (cfgPath, dataPath string) {
	t.Helper()
	dir := t.TempDir()
	enabled := "false"
	if metrics {
		enabled = "true"
	}
	cfgPath = writeFile(t, dir, "grid.toml", strings.Replace(testConfig, "%s", enabled, 1))
	dataPath = writeFile(t, dir, "rows.json", testRows)
	return cfgPath, dataPath
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gridctl dev")
	assert.Contains(t, out, "Commit: unknown")
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err)
}

func TestRunWithoutScript(t *testing.T) {
	cfgPath, dataPath := setup(t, false)

	out, err := execute(t, "run", "--config", cfgPath, "--data", dataPath)
	require.NoError(t, err)

	require.True(t, gjson.Valid(out), out)
	assert.Equal(t, "orders", gjson.Get(out, "grid").String())
	assert.Equal(t, int64(3), gjson.Get(out, "rowCount").Int())
	assert.True(t, gjson.Get(out, "selections.isSuccess").Bool())
	assert.Equal(t, int64(0), gjson.Get(out, "selections.value.#").Int())
	assert.Equal(t, int64(0), gjson.Get(out, "metrics.#").Int())
}

func TestRunScript(t *testing.T) {
	cfgPath, dataPath := setup(t, true)
	scriptPath := writeFile(t, filepath.Dir(cfgPath), "page.lua", `
grid.select(1, 0, 1, 1)
local res = grid.add_rows()
assert(grid.json(res, "code") == 200, res)
grid.select(1, 0, 1, 1)
grid.set_row_selected({0}, true)
`)

	out, err := execute(t, "run", "-c", cfgPath, "-d", dataPath, "-s", scriptPath)
	require.NoError(t, err)

	require.True(t, gjson.Valid(out), out)
	assert.Equal(t, int64(4), gjson.Get(out, "rowCount").Int())
	assert.True(t, gjson.Get(out, "canUndo").Bool())
	assert.Equal(t, "new", gjson.Get(out, "selectedRows.value.0.dataItem.name").String())
	assert.Equal(t, "a", gjson.Get(out, "checkedRows.value.0.dataItem.name").String())

	added := gjson.Get(out, `metrics.#(name=="gridkit_rows_added_total").value`)
	assert.Equal(t, 1.0, added.Float())
	ops := gjson.Get(out, `metrics.#(labels.op=="add_rows")#`)
	assert.Len(t, ops.Array(), 2, "counter and histogram series")
}

func TestRunScriptError(t *testing.T) {
	cfgPath, dataPath := setup(t, false)
	scriptPath := writeFile(t, filepath.Dir(cfgPath), "bad.lua", `error("page failed")`)

	_, err := execute(t, "run", "-c", cfgPath, "-d", dataPath, "-s", scriptPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page failed")
}

func TestRunPretty(t *testing.T) {
	cfgPath, dataPath := setup(t, false)

	out, err := execute(t, "run", "-c", cfgPath, "-d", dataPath, "--pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"grid\": \"orders\"")
}

func TestRunDataPath(t *testing.T) {
	cfgPath, _ := setup(t, false)
	dataPath := writeFile(t, t.TempDir(), "export.json", `{"result": {"rows": `+testRows+`}}`)

	out, err := execute(t, "run", "-c", cfgPath, "-d", dataPath, "--data-path", "result.rows")
	require.NoError(t, err)
	assert.Equal(t, int64(3), gjson.Get(out, "rowCount").Int())
}

func TestParseItems(t *testing.T) {
	items, err := parseItems([]byte(testRows), "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[1].Fields["name"])
	assert.Equal(t, 2.0, items[1].Fields["qty"])

	_, err = parseItems([]byte(`{"a": 1}`), "")
	assert.ErrorIs(t, err, errDataShape)

	_, err = parseItems([]byte(`[1, 2]`), "")
	assert.ErrorIs(t, err, errDataShape)

	_, err = parseItems([]byte(`[`), "")
	assert.Error(t, err)
}
