package rows

import (
	"fmt"

	"github.com/dshills/gridkit/internal/grid/metadata"
	"github.com/dshills/gridkit/internal/grid/surface"
)

// insertState is the state of an insert-rows action. Remove marks the undo
// direction.
type insertState struct {
	Remove          bool
	DatasourceIndex int
	Items           []*surface.Item
}

// applyInsertState removes or re-splices the inserted items, then moves the
// selection to the insertion point.
func (e *Engine) applyInsertState(state insertState) error {
	coll := e.surface.Collection()

	if state.Remove {
		for _, it := range state.Items {
			if coll.IndexOf(it) < 0 {
				return fmt.Errorf("%w: %s", surface.ErrItemNotFound, it.ID)
			}
		}
	}

	coll.DeferUpdate(func() {
		if state.Remove {
			for _, it := range state.Items {
				coll.Remove(it)
			}
			e.store.ShiftRows(state.DatasourceIndex, -len(state.Items))
			return
		}
		coll.Insert(state.DatasourceIndex, state.Items...)
		e.store.ShiftRows(state.DatasourceIndex, len(state.Items))
	})

	row := state.DatasourceIndex - e.surface.PageOffset()
	if row >= 0 && row < len(e.surface.PageRows()) {
		e.selection.SelectAndFocusFirstCell(row)
	} else {
		e.surface.Focus()
	}
	return nil
}

// removeState is the state of a single-row removal. Restore marks the undo
// direction.
type removeState struct {
	Restore         bool
	DatasourceIndex int
	Item            *surface.Item
	Classes         *metadata.CSSClass
	Identity        map[string]any
}

// applyRemoveState re-inserts a removed row with its metadata, or removes it
// again.
func (e *Engine) applyRemoveState(state removeState) error {
	coll := e.surface.Collection()
	at := coll.IndexOf(state.Item)

	if state.Restore {
		if at >= 0 {
			return fmt.Errorf("%w: %s", ErrRowPresent, state.Item.ID)
		}
		if state.DatasourceIndex > coll.Len() {
			return fmt.Errorf("%w: %d", surface.ErrRowOutOfRange, state.DatasourceIndex)
		}
		coll.DeferUpdate(func() {
			e.store.ShiftRows(state.DatasourceIndex, 1)
			if state.Classes != nil {
				e.store.Set(state.DatasourceIndex, metadata.LabelCSSClass, state.Classes)
			}
			e.store.RestoreIdentity(state.Item.ID, state.Identity)
			coll.Insert(state.DatasourceIndex, state.Item)
		})
		e.surface.Focus()
		return nil
	}

	if at < 0 {
		return fmt.Errorf("%w: %s", surface.ErrItemNotFound, state.Item.ID)
	}
	coll.DeferUpdate(func() {
		coll.Remove(state.Item)
		e.store.ShiftRows(at, -1)
		e.store.DeleteIdentity(state.Item.ID)
	})
	e.surface.Focus()
	return nil
}
