// Package event provides synchronous, typed notifications for the grid.
//
// An Event[T] is a list of handlers invoked in registration order on the
// caller's goroutine. It mirrors the notification streams a grid rendering
// surface exposes (selection changed, updating view, format item, deleting
// row) and the ones the grid features raise themselves (row added).
//
// Delivery rules:
//
//   - Handlers run synchronously, in the order they were added.
//   - A handler that triggers the same event again is not re-entered: the
//     nested Trigger is dropped and counted. This keeps the single-writer
//     per turn guarantee of the grid features.
//   - A paused event drops triggers until resumed, which lets bulk
//     mutations detach handlers for their duration.
//   - A panicking handler is recovered, reported to the panic handler and
//     does not stop delivery to the remaining handlers.
//
// Basic usage:
//
//	var changed event.Event[RangeArgs]
//	h := changed.AddHandler(func(e RangeArgs) { ... })
//	changed.Trigger(RangeArgs{Row: 3})
//	changed.RemoveHandler(h)
//
// Event is not thread-safe.
package event
