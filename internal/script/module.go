package script

import (
	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridkit/internal/grid"
	"github.com/dshills/gridkit/internal/grid/cellrange"
	"github.com/dshills/gridkit/internal/grid/result"
	"github.com/dshills/gridkit/internal/logging"
)

// rangeAdder is implemented by surfaces that support ctrl-click selection.
type rangeAdder interface {
	AddSelection(r cellrange.CellRange)
}

// module implements the grid table.
type module struct {
	grid *grid.Grid
	log  *logging.Logger
}

func newModule(g *grid.Grid, log *logging.Logger) *module {
	return &module{grid: g, log: log}
}

func (m *module) register(L *lua.LState) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add_rows":            m.addRows,
		"remove_rows":         m.removeRows,
		"add_class":           m.addClass,
		"remove_class":        m.removeClass,
		"clear_classes":       m.clearClasses,
		"classes":             m.classes,
		"all_selections":      m.query("all_selections", m.grid.Selection().GetAllSelections),
		"all_selections_data": m.query("all_selections_data", m.grid.Selection().GetAllSelectionsData),
		"selected_rows":       m.query("selected_rows", m.grid.Selection().GetSelectedRowsData),
		"selected_rows_count": m.query("selected_rows_count", m.grid.Selection().GetSelectedRowsCount),
		"has_selected_rows":   m.query("has_selected_rows", m.grid.Selection().HasSelectedRows),
		"selection_count":     m.query("selection_count", m.grid.Selection().GetSelectionCount),
		"selection_sum":       m.query("selection_sum", m.grid.Selection().GetSelectionSum),
		"selection_average":   m.query("selection_average", m.grid.Selection().GetSelectionAverage),
		"selection_max":       m.query("selection_max", func() result.ReturnMessage { return m.grid.Selection().GetSelectionMaxMin(true) }),
		"selection_min":       m.query("selection_min", func() result.ReturnMessage { return m.grid.Selection().GetSelectionMaxMin(false) }),
		"checked_rows":        m.query("checked_rows", m.grid.Selection().GetCheckedRowsData),
		"set_row_selected":    m.setRowSelected,
		"set_new_item":        m.setNewItem,
		"row_data":            m.rowData,
		"select":              m.selectRange,
		"add_selection":       m.addSelection,
		"undo":                m.undo,
		"redo":                m.redo,
		"row_count":           m.rowCount,
		"json":                m.json,
	})
	L.SetGlobal("grid", mod)
}

// query wraps an envelope-returning call as a Lua function.
func (m *module) query(op string, fn func() result.ReturnMessage) lua.LGFunction {
	return func(L *lua.LState) int {
		var rm result.ReturnMessage
		m.grid.Track(op, func() bool {
			rm = fn()
			return rm.IsSuccess
		})
		L.Push(lua.LString(rm.JSON()))
		return 1
	}
}

// add_rows() -> envelope
func (m *module) addRows(L *lua.LState) int {
	L.Push(lua.LString(m.grid.AddNewRows().JSON()))
	return 1
}

// remove_rows() -> envelope
func (m *module) removeRows(L *lua.LState) int {
	L.Push(lua.LString(m.grid.RemoveSelectedRows().JSON()))
	return 1
}

// add_class(row, cls, refresh?) -> nil
func (m *module) addClass(L *lua.LState) int {
	row := L.CheckInt(1)
	cls := L.CheckString(2)
	refresh := L.OptBool(3, true)
	if row < 0 {
		L.ArgError(1, "row must be non-negative")
		return 0
	}
	m.grid.Rows().AddClass(row, cls, refresh)
	return 0
}

// remove_class(row, cls, refresh?) -> nil
func (m *module) removeClass(L *lua.LState) int {
	row := L.CheckInt(1)
	cls := L.CheckString(2)
	refresh := L.OptBool(3, true)
	m.grid.Rows().RemoveClass(row, cls, refresh)
	return 0
}

// clear_classes(row) -> nil
func (m *module) clearClasses(L *lua.LState) int {
	m.grid.Rows().ClearClasses(L.CheckInt(1))
	return 0
}

// classes(row) -> {cls, ...}
func (m *module) classes(L *lua.LState) int {
	tbl := L.NewTable()
	for _, cls := range m.grid.Rows().Classes(L.CheckInt(1)) {
		tbl.Append(lua.LString(cls))
	}
	L.Push(tbl)
	return 1
}

// set_row_selected({rows}, on) -> envelope
func (m *module) setRowSelected(L *lua.LState) int {
	tbl := L.CheckTable(1)
	on := L.CheckBool(2)

	var rows []int
	tbl.ForEach(func(_, v lua.LValue) {
		if n, ok := v.(lua.LNumber); ok {
			rows = append(rows, int(n))
		}
	})

	var rm result.ReturnMessage
	m.grid.Track("set_row_selected", func() bool {
		rm = m.grid.Selection().SetRowAsSelected(rows, on)
		return rm.IsSuccess
	})
	L.Push(lua.LString(rm.JSON()))
	return 1
}

// set_new_item(tbl | nil) -> nil
func (m *module) setNewItem(L *lua.LState) int {
	if L.Get(1) == lua.LNil {
		m.grid.Rows().SetNewItem(nil)
		return 0
	}
	fields, _ := fromLua(L.CheckTable(1)).(map[string]any)
	if fields == nil {
		fields = map[string]any{}
	}
	m.grid.Rows().SetNewItem(fields)
	return 0
}

// row_data(index) -> envelope
func (m *module) rowData(L *lua.LState) int {
	index := L.CheckInt(1)
	return m.query("row_data", func() result.ReturnMessage {
		return m.grid.Rows().GetRowData(index)
	})(L)
}

func checkRange(L *lua.LState) cellrange.CellRange {
	row := L.CheckInt(1)
	col := L.CheckInt(2)
	return cellrange.New(row, col, L.OptInt(3, row), L.OptInt(4, col))
}

// select(row, col, row2?, col2?) -> nil
func (m *module) selectRange(L *lua.LState) int {
	m.grid.Surface().Select(checkRange(L), true)
	return 0
}

// add_selection(row, col, row2?, col2?) -> nil
func (m *module) addSelection(L *lua.LState) int {
	r := checkRange(L)
	adder, ok := m.grid.Surface().(rangeAdder)
	if !ok {
		L.RaiseError("add_selection: %v", ErrNoSurface)
		return 0
	}
	adder.AddSelection(r)
	return 0
}

// undo() -> ok, err?
func (m *module) undo(L *lua.LState) int {
	return pushResult(L, m.grid.Undo())
}

// redo() -> ok, err?
func (m *module) redo(L *lua.LState) int {
	return pushResult(L, m.grid.Redo())
}

func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// row_count() -> number
func (m *module) rowCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.grid.Surface().RowTotal()))
	return 1
}

// json(text, path) -> value
func (m *module) json(L *lua.LState) int {
	text := L.CheckString(1)
	path := L.CheckString(2)
	if !gjson.Valid(text) {
		L.ArgError(1, "invalid JSON")
		return 0
	}
	L.Push(toLua(L, gjson.Get(text, path)))
	return 1
}

// toLua converts a gjson result. Arrays become sequences, objects become
// keyed tables, and missing values become nil.
func toLua(L *lua.LState, r gjson.Result) lua.LValue {
	switch r.Type {
	case gjson.True:
		return lua.LTrue
	case gjson.False:
		return lua.LFalse
	case gjson.Number:
		return lua.LNumber(r.Num)
	case gjson.String:
		return lua.LString(r.Str)
	case gjson.JSON:
		tbl := L.NewTable()
		if r.IsArray() {
			for _, v := range r.Array() {
				tbl.Append(toLua(L, v))
			}
			return tbl
		}
		r.ForEach(func(k, v gjson.Result) bool {
			tbl.RawSetString(k.String(), toLua(L, v))
			return true
		})
		return tbl
	default:
		return lua.LNil
	}
}

// fromLua converts a Lua value to plain Go data. Sequences become []any,
// other tables become map[string]any keyed by the string form of the key.
func fromLua(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if n := v.MaxN(); n > 0 && n == v.Len() && countKeys(v) == n {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, fromLua(v.RawGetInt(i)))
			}
			return out
		}
		out := make(map[string]any)
		v.ForEach(func(k, val lua.LValue) {
			out[k.String()] = fromLua(val)
		})
		return out
	default:
		return nil
	}
}

func countKeys(t *lua.LTable) int {
	n := 0
	t.ForEach(func(lua.LValue, lua.LValue) { n++ })
	return n
}
