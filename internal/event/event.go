package event

// HandlerID identifies a registered handler.
type HandlerID uint64

// PanicHandler receives recovered handler panics.
type PanicHandler func(err *PanicError)

type handler[T any] struct {
	id HandlerID
	fn func(T)
}

// Event is a synchronous notification with payload T.
// The zero value is ready to use.
type Event[T any] struct {
	// Name is used in panic reports.
	Name string

	handlers []handler[T]
	nextID   HandlerID

	firing  bool
	paused  bool
	dropped uint64

	onPanic PanicHandler
}

// New creates a named event.
func New[T any](name string) *Event[T] {
	return &Event[T]{Name: name}
}

// SetPanicHandler sets the callback for recovered handler panics.
func (e *Event[T]) SetPanicHandler(h PanicHandler) {
	e.onPanic = h
}

// AddHandler registers fn and returns its id.
func (e *Event[T]) AddHandler(fn func(T)) HandlerID {
	e.nextID++
	e.handlers = append(e.handlers, handler[T]{id: e.nextID, fn: fn})
	return e.nextID
}

// RemoveHandler unregisters a handler. Returns false if it was not registered.
func (e *Event[T]) RemoveHandler(id HandlerID) bool {
	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll unregisters every handler.
func (e *Event[T]) RemoveAll() {
	e.handlers = nil
}

// HasHandlers returns true if at least one handler is registered.
func (e *Event[T]) HasHandlers() bool {
	return len(e.handlers) > 0
}

// Pause drops triggers until Resume is called.
func (e *Event[T]) Pause() {
	e.paused = true
}

// Resume re-enables delivery after Pause.
func (e *Event[T]) Resume() {
	e.paused = false
}

// IsPaused returns true while triggers are dropped.
func (e *Event[T]) IsPaused() bool {
	return e.paused
}

// Dropped returns the number of triggers dropped because the event was
// paused or already firing.
func (e *Event[T]) Dropped() uint64 {
	return e.dropped
}

// Trigger delivers args to every handler.
// It returns false when the trigger was dropped.
func (e *Event[T]) Trigger(args T) bool {
	if e.paused || e.firing {
		e.dropped++
		return false
	}

	e.firing = true
	defer func() { e.firing = false }()

	// Handlers may remove themselves while running.
	snapshot := make([]handler[T], len(e.handlers))
	copy(snapshot, e.handlers)

	for _, h := range snapshot {
		e.invoke(h, args)
	}
	return true
}

// Suspend pauses the event for the duration of fn.
func (e *Event[T]) Suspend(fn func()) {
	wasPaused := e.paused
	e.paused = true
	defer func() { e.paused = wasPaused }()
	fn()
}

func (e *Event[T]) invoke(h handler[T], args T) {
	defer func() {
		if r := recover(); r != nil && e.onPanic != nil {
			e.onPanic(&PanicError{Event: e.Name, Recovered: r})
		}
	}()
	h.fn(args)
}
