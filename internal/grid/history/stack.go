package history

import (
	"errors"
	"sync"
	"time"
)

// DefaultMaxEntries is used when a non-positive limit is supplied.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

type entry struct {
	action    Action
	timestamp time.Time
}

// History manages the undo/redo stacks of a grid.
type History struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	grouping  bool
	groupName string
	groupActs []Action

	maxEntries int
}

// NewHistory creates a history holding at most maxEntries undo units.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records an already-applied action and clears the redo stack.
func (h *History) Push(a Action) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupActs = append(h.groupActs, a)
		return
	}
	h.pushLocked(a)
}

func (h *History) pushLocked(a Action) {
	h.undoStack = append(h.undoStack, &entry{action: a, timestamp: time.Now()})
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the most recent action.
// The lock is released while the action runs so that it may inspect the log.
func (h *History) Undo() error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := e.action.Undo(); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, e)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, e)
	h.mu.Unlock()
	return nil
}

// Redo re-applies the most recently undone action.
func (h *History) Redo() error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := e.action.Redo(); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, e)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, e)
	h.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo units available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo units available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// PeekUndo returns info about the next undo unit without removing it.
func (h *History) PeekUndo() (ActionInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return ActionInfo{}, false
	}
	e := h.undoStack[len(h.undoStack)-1]
	return ActionInfo{Description: e.action.Description(), Timestamp: e.timestamp}, true
}

// BeginGroup starts collecting pushed actions into one undo unit.
// Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupActs = nil
}

// EndGroup closes the group and pushes a CompoundAction if anything was collected.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false

	if len(h.groupActs) > 0 {
		h.pushLocked(&CompoundAction{Name: h.groupName, Actions: h.groupActs})
	}
	h.groupActs = nil
}

// GroupScope is a defer-friendly wrapper around BeginGroup/EndGroup.
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a group and returns its scope.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{history: h, active: true}
}

// End closes the scope. Only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Clear removes all undo/redo state.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupActs = nil
}

// MaxEntries returns the undo limit.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
