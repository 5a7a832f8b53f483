package scripting_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/scripting"
)

func vars(m map[string]float64) scripting.Resolver {
	return scripting.ResolverFunc(func(name string) (float64, bool) {
		v, ok := m[name]
		return v, ok
	})
}

func TestEvaluate_PlainNumber(t *testing.T) {
	e := scripting.NewEvaluator(zap.NewNop(), 0)
	v, err := e.Evaluate(" 10 ", nil)
	require.NoError(t, err)
	assert.Equal(t, fxp.FromInteger(10), v)

	v, err = e.Evaluate("", nil)
	require.NoError(t, err)
	assert.Equal(t, fxp.Int(0), v)
}

func TestEvaluate_Identifiers(t *testing.T) {
	e := scripting.NewEvaluator(zap.NewNop(), 0)
	env := vars(map[string]float64{"dx": 12, "ht": 11, "basic_speed": 5.75})

	v, err := e.Evaluate("(dx + ht) / 4", env)
	require.NoError(t, err)
	assert.Equal(t, fxp.FromFloat(5.75), v)

	v, err = e.Evaluate("math.floor(basic_speed)", env)
	require.NoError(t, err)
	assert.Equal(t, fxp.FromInteger(5), v)
}

func TestEvaluate_Errors(t *testing.T) {
	e := scripting.NewEvaluator(zap.NewNop(), 0)
	_, err := e.Evaluate("st +", nil)
	assert.Error(t, err, "syntax error")

	_, err = e.Evaluate("missing * 2", vars(nil))
	assert.Error(t, err, "unknown identifier")

	_, err = e.Evaluate("math", nil)
	assert.ErrorIs(t, err, scripting.ErrNotNumeric)
}

func TestNewEvaluator_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() { scripting.NewEvaluator(nil, 0) })
}

func TestEvaluate_ConcurrentUse(t *testing.T) {
	e := scripting.NewEvaluator(zap.NewNop(), 0)
	env := vars(map[string]float64{"st": 10})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := e.Evaluate("st * 2", env)
			assert.NoError(t, err)
			assert.Equal(t, fxp.FromInteger(20), v)
		}()
	}
	wg.Wait()
}

// TestEvaluate_IntegerArithmetic_Property verifies integer sums agree with Go.
func TestEvaluate_IntegerArithmetic_Property(t *testing.T) {
	e := scripting.NewEvaluator(zap.NewNop(), 0)
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(-1000, 1000).Draw(rt, "a")
		b := rapid.IntRange(-1000, 1000).Draw(rt, "b")
		v, err := e.Evaluate("a + b", vars(map[string]float64{"a": float64(a), "b": float64(b)}))
		require.NoError(rt, err)
		assert.Equal(rt, fxp.FromInteger(a+b), v)
	})
}
