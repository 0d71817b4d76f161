// Package config loads the grid configuration.
//
// Configuration is layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← GRIDKIT_* (highest priority)
//	├─────────────────────────────┤
//	│  2. Config File             │  ← grid.toml / grid.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// Each layer is read into a nested map by the loader sub-package, the maps
// are deep-merged, and the result is decoded into Config and validated.
//
// # Environment Variables
//
// Short names cover the common settings:
//
//	GRIDKIT_LOG_LEVEL            logging.level
//	GRIDKIT_LOG_JSON             logging.json
//	GRIDKIT_SELECTION_MODE       grid.selection_mode
//	GRIDKIT_ROW_HEADER_CHECKBOX  grid.row_header_checkbox
//	GRIDKIT_PAGE_SIZE            grid.page_size
//	GRIDKIT_MAX_UNDO_ENTRIES     grid.max_undo_entries
//
// Any other GRIDKIT_SECTION_KEY variable sets section.key, for example
// GRIDKIT_GRID_ID sets grid.id.
package config
