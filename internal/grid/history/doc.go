// Package history provides the undoable action log used by grid mutations.
//
// Mutations that change the data source record an Action describing how to
// revert and re-apply them. Actions are pushed onto the History after the
// mutation has already happened; undo and redo are triggered later by the
// host (keyboard shortcut, page script, etc).
//
// # Actions
//
// StateAction is the common shape: it holds an old and a new state value and
// a single apply function. Undo applies the old state, Redo the new one.
//
// # History Stack
//
//	log := history.NewHistory(1000)
//	log.Push(action)
//	log.Undo()
//	log.Redo()
//
// # Grouping
//
// Several actions can be combined into one undo unit:
//
//	scope := log.GroupScope("remove rows")
//	// push one action per removed row
//	scope.End()
//
// Pushing a new action clears the redo stack.
package history
