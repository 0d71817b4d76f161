package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridkit/internal/grid"
	"github.com/dshills/gridkit/internal/logging"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// Runtime is a sandboxed Lua state bound to one grid. It is not safe to
// run scripts from several goroutines at once; calls are serialized.
type Runtime struct {
	mu      sync.Mutex
	L       *lua.LState
	grid    *grid.Grid
	out     io.Writer
	timeout time.Duration
	log     *logging.Logger
	closed  bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithOutput sets the destination of print.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.out = w
	}
}

// WithTimeout sets the run timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// WithLogger sets the runtime logger.
func WithLogger(log *logging.Logger) Option {
	return func(r *Runtime) {
		r.log = log
	}
}

// New creates a runtime for g with the grid module installed.
func New(g *grid.Grid, opts ...Option) *Runtime {
	r := &Runtime{
		grid:    g,
		out:     io.Discard,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(r.L)
	lua.OpenTable(r.L)
	lua.OpenString(r.L)
	lua.OpenMath(r.L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		r.L.SetGlobal(name, lua.LNil)
	}
	r.L.SetGlobal("print", r.L.NewFunction(r.print))

	newModule(g, r.log).register(r.L)
	return r
}

// Run executes code.
func (r *Runtime) Run(ctx context.Context, code string) error {
	return r.run(ctx, "<string>", code)
}

// RunFile executes the script at path.
func (r *Runtime) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}
	return r.run(ctx, path, string(data))
}

func (r *Runtime) run(ctx context.Context, name, code string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script %s: lua panic: %v", name, p)
		}
	}()

	start := time.Now()
	if err := r.L.DoString(code); err != nil {
		r.log.Warn("script failed", "script", name, "error", err)
		return fmt.Errorf("script %s: %w", name, err)
	}
	r.log.Debug("script finished", "script", name, "elapsed", time.Since(start))
	return nil
}

// Global returns a global variable of the state.
func (r *Runtime) Global(name string) lua.LValue {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return lua.LNil
	}
	return r.L.GetGlobal(name)
}

// Close releases the Lua state.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.L.Close()
	r.closed = true
}

// print writes its arguments tab-separated to the output.
func (r *Runtime) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}
