package history

import (
	"fmt"
	"time"
)

// Action is a reversible mutation recorded after it was applied.
type Action interface {
	// Undo reverts the mutation.
	Undo() error

	// Redo re-applies the mutation after an Undo.
	Redo() error

	// Description returns a human-readable description of the action.
	Description() string
}

// StateAction reverts and re-applies a mutation by handing a state value to a
// single apply function.
type StateAction[S any] struct {
	Name     string
	OldState S
	NewState S

	apply func(state S) error
}

// NewStateAction creates a state action.
func NewStateAction[S any](name string, oldState, newState S, apply func(state S) error) *StateAction[S] {
	return &StateAction[S]{
		Name:     name,
		OldState: oldState,
		NewState: newState,
		apply:    apply,
	}
}

// Undo applies the old state.
func (a *StateAction[S]) Undo() error {
	if err := a.apply(a.OldState); err != nil {
		return fmt.Errorf("undo %s: %w", a.Name, err)
	}
	return nil
}

// Redo applies the new state.
func (a *StateAction[S]) Redo() error {
	if err := a.apply(a.NewState); err != nil {
		return fmt.Errorf("redo %s: %w", a.Name, err)
	}
	return nil
}

// Description returns the action name.
func (a *StateAction[S]) Description() string {
	return a.Name
}

// CompoundAction groups several actions into one undo unit.
type CompoundAction struct {
	Name    string
	Actions []Action
}

// Undo reverts the grouped actions in reverse order.
func (c *CompoundAction) Undo() error {
	for i := len(c.Actions) - 1; i >= 0; i-- {
		if err := c.Actions[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

// Redo re-applies the grouped actions in order.
func (c *CompoundAction) Redo() error {
	for _, a := range c.Actions {
		if err := a.Redo(); err != nil {
			return err
		}
	}
	return nil
}

// Description returns the group name.
func (c *CompoundAction) Description() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%d actions", len(c.Actions))
}

// ActionInfo provides read-only info about a logged action.
type ActionInfo struct {
	Description string
	Timestamp   time.Time
}
