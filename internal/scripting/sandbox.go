// Package scripting evaluates the numeric formulas that attribute
// definitions use for their base values, in a sandboxed GopherLua VM.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes a single
// formula may execute.
const DefaultInstructionLimit = 10_000

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's mainLoopWithContext calls Done() once per opcode, making this
// an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done returns the underlying cancellation channel, cancelling once the
// budget is spent.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newCountingContext returns a context that cancels after limit calls to
// Done(), or earlier when parent is cancelled.
//
// Precondition: limit > 0.
func newCountingContext(parent context.Context, limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(parent)
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{
		Context:   base,
		cancel:    cancel,
		remaining: rem,
	}, cancel
}

// NewSandboxedState creates a GopherLua LState with:
//   - only the base and math libraries loaded
//   - dofile, loadfile, load, collectgarbage, require and print removed
//   - execution limited to at most instLimit opcodes
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: the caller owns the LState and must call Close.
func NewSandboxedState(instLimit int) *lua.LState {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require", "print"} {
		L.SetGlobal(name, lua.LNil)
	}

	ctx, _ := newCountingContext(context.Background(), limit) //nolint:govet // cancel fires when the limit is reached
	L.SetContext(ctx)
	return L
}
