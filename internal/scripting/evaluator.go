package scripting

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"go.uber.org/zap"

	"github.com/raianasancho/gcsga/internal/game/fxp"
)

// ErrNotNumeric is returned when a formula evaluates to a non-number.
var ErrNotNumeric = errors.New("scripting: formula did not produce a number")

// Resolver supplies the values of identifiers used in formulas.
type Resolver interface {
	Resolve(name string) (float64, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (float64, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(name string) (float64, bool) {
	return f(name)
}

// Evaluator compiles and runs formulas such as "st", "(dx + ht) / 4" or
// "math.floor(basic_speed)". Compiled chunks are cached by source text.
//
// Evaluator is safe for concurrent use; each evaluation gets its own VM.
type Evaluator struct {
	logger    *zap.Logger
	instLimit int

	mu    sync.Mutex
	cache map[string]*lua.FunctionProto
}

// NewEvaluator creates an Evaluator.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 selects the default).
func NewEvaluator(logger *zap.Logger, instLimit int) *Evaluator {
	if logger == nil {
		panic("scripting.NewEvaluator: logger must not be nil")
	}
	return &Evaluator{logger: logger, instLimit: instLimit, cache: make(map[string]*lua.FunctionProto)}
}

// Evaluate computes expr, looking up free identifiers through vars. Plain
// numbers are returned without starting a VM.
//
// Postcondition: returns an error for syntax errors, unknown identifiers,
// runaway formulas and non-numeric results.
func (e *Evaluator) Evaluate(expr string, vars Resolver) (fxp.Int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, nil
	}
	if v, err := fxp.FromString(expr); err == nil {
		return v, nil
	}
	proto, err := e.compile(expr)
	if err != nil {
		return 0, err
	}

	L := NewSandboxedState(e.instLimit)
	defer L.Close()

	mt := L.NewTable()
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(2)
		if vars != nil {
			if v, ok := vars.Resolve(name); ok {
				L.Push(lua.LNumber(v))
				return 1
			}
		}
		L.RaiseError("unknown identifier %q", name)
		return 0
	}))
	L.SetMetatable(L.Get(lua.GlobalsIndex), mt)

	L.Push(L.NewFunctionFromProto(proto))
	if err := L.PCall(0, 1, nil); err != nil {
		e.logger.Debug("formula evaluation failed", zap.String("formula", expr), zap.Error(err))
		return 0, fmt.Errorf("evaluating %q: %w", expr, err)
	}
	ret := L.Get(-1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("evaluating %q: %w (got %s)", expr, ErrNotNumeric, ret.Type())
	}
	return fxp.FromFloat(float64(n)), nil
}

func (e *Evaluator) compile(expr string) (*lua.FunctionProto, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if proto, ok := e.cache[expr]; ok {
		return proto, nil
	}
	chunk, err := parse.Parse(strings.NewReader("return "+expr), expr)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", expr, err)
	}
	proto, err := lua.Compile(chunk, expr)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", expr, err)
	}
	e.cache[expr] = proto
	return proto, nil
}
