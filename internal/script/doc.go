// Package script runs page scripts written in Lua against a grid.
//
// Scripts see a global "grid" table whose functions map onto the selection
// and row features:
//
//	grid.add_rows()                   -> envelope JSON
//	grid.remove_rows()                -> envelope JSON
//	grid.add_class(row, cls [, refresh])
//	grid.remove_class(row, cls [, refresh])
//	grid.clear_classes(row)
//	grid.classes(row)                 -> {cls, ...}
//	grid.all_selections()             -> envelope JSON
//	grid.all_selections_data()        -> envelope JSON
//	grid.selected_rows()              -> envelope JSON
//	grid.selected_rows_count()        -> envelope JSON
//	grid.has_selected_rows()          -> envelope JSON
//	grid.selection_count()            -> envelope JSON
//	grid.selection_sum()              -> envelope JSON
//	grid.selection_average()          -> envelope JSON
//	grid.selection_max()              -> envelope JSON
//	grid.selection_min()              -> envelope JSON
//	grid.checked_rows()               -> envelope JSON
//	grid.set_row_selected({rows}, on) -> envelope JSON
//	grid.set_new_item(tbl | nil)
//	grid.row_data(index)              -> envelope JSON
//	grid.select(row, col, row2, col2)
//	grid.add_selection(row, col, row2, col2)
//	grid.undo()                       -> ok [, err]
//	grid.redo()                       -> ok [, err]
//	grid.row_count()                  -> number
//	grid.json(text, path)             -> value at path
//
// Envelopes are {"value", "isSuccess", "message", "code"} objects, or
// {"code", "message"} for row mutations. grid.json reads them with gjson
// path syntax, e.g. grid.json(grid.selection_sum(), "value").
//
// The Lua state opens only the base, table, string and math libraries and
// removes the base functions that load code or modules.
package script
