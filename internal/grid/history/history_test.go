package history

import (
	"errors"
	"testing"
)

// counterAction flips a shared integer between two states.
func counterAction(target *int, from, to int) *StateAction[int] {
	return NewStateAction("set counter", from, to, func(state int) error {
		*target = state
		return nil
	})
}

func TestStateActionUndoRedo(t *testing.T) {
	v := 2
	a := counterAction(&v, 1, 2)

	if err := a.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if v != 1 {
		t.Errorf("after Undo v = %d, want 1", v)
	}

	if err := a.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if v != 2 {
		t.Errorf("after Redo v = %d, want 2", v)
	}
}

func TestStateActionWrapsError(t *testing.T) {
	sentinel := errors.New("boom")
	a := NewStateAction("insert rows", 0, 1, func(int) error { return sentinel })

	err := a.Undo()
	if !errors.Is(err, sentinel) {
		t.Errorf("Undo error = %v, want wrapped sentinel", err)
	}
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory(10)
	v := 0

	v = 1
	h.Push(counterAction(&v, 0, 1))
	v = 2
	h.Push(counterAction(&v, 1, 2))

	if h.UndoCount() != 2 {
		t.Fatalf("UndoCount = %d, want 2", h.UndoCount())
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Errorf("v = %d after first undo", v)
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("v = %d after second undo", v)
	}
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}

	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Errorf("v = %d after redo", v)
	}
	if !h.CanRedo() || !h.CanUndo() {
		t.Error("both stacks should be non-empty")
	}
}

func TestHistoryPushClearsRedo(t *testing.T) {
	h := NewHistory(10)
	v := 1
	h.Push(counterAction(&v, 0, 1))
	_ = h.Undo()

	h.Push(counterAction(&v, 0, 5))

	if h.CanRedo() {
		t.Error("push should clear redo stack")
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestHistoryFailedUndoKeepsEntry(t *testing.T) {
	h := NewHistory(10)
	h.Push(NewStateAction("broken", 0, 1, func(int) error { return errors.New("fail") }))

	if err := h.Undo(); err == nil {
		t.Fatal("expected error")
	}
	if h.UndoCount() != 1 {
		t.Errorf("entry should be restored, UndoCount = %d", h.UndoCount())
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := NewHistory(3)
	v := 0
	for i := 0; i < 5; i++ {
		h.Push(counterAction(&v, i, i+1))
	}

	if h.UndoCount() != 3 {
		t.Errorf("UndoCount = %d, want 3", h.UndoCount())
	}
	if NewHistory(0).MaxEntries() != DefaultMaxEntries {
		t.Error("non-positive limit should fall back to default")
	}
}

func TestHistoryGroup(t *testing.T) {
	h := NewHistory(10)
	a, b := 1, 1

	func() {
		defer h.GroupScope("both").End()
		h.Push(counterAction(&a, 0, 1))
		h.Push(counterAction(&b, 0, 1))
	}()

	if h.UndoCount() != 1 {
		t.Fatalf("group should be one unit, UndoCount = %d", h.UndoCount())
	}
	info, ok := h.PeekUndo()
	if !ok || info.Description != "both" {
		t.Errorf("PeekUndo = %+v, %v", info, ok)
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if a != 0 || b != 0 {
		t.Errorf("group undo left a=%d b=%d", a, b)
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(10)
	v := 1
	h.Push(counterAction(&v, 0, 1))
	h.Clear()

	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
}
