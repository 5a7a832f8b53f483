package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/raianasancho/gcsga/internal/config"
	"github.com/raianasancho/gcsga/internal/engine"
	"github.com/raianasancho/gcsga/internal/game/roll"
)

const knightYAML = `
name: Sir Kay
attributes:
  - {attr_id: st, adj: 2}
  - {attr_id: dx, adj: 3}
traits:
  - name: Bad Temper
    points: -10
    cr: 12
skills:
  - {kind: skill, name: Broadsword, attribute: dx, difficulty: a, points: 4}
equipment:
  - name: Broadsword
    quantity: 1
    weight: 3 lb
    equipped: true
    weapons:
      - type: melee_weapon
        usage: Swung
        damage: 2d+1 cut
        parry: "0"
        defaults:
          - {type: skill, name: Broadsword}
conditions:
  - {id: blinded}
`

const blindedYAML = `
- id: blinded
  name: Blinded
  duration_type: until_removed
  attribute_penalties: {dx: 1}
`

type fixedFace int

func (f fixedFace) Intn(int) int { return int(f) - 1 }

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blinded.yaml"), []byte(blindedYAML), 0644))
	cfg.Rules.ConditionsDir = dir
	cfg.Metrics.Enabled = true
	return cfg
}

func newEngine(t *testing.T, cfg config.Config, opts ...engine.Option) *engine.Engine {
	t.Helper()
	opts = append([]engine.Option{engine.WithDiceSource(fixedFace(3))}, opts...)
	e, err := engine.New(context.Background(), cfg, zaptest.NewLogger(t), opts...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func writeKnight(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(knightYAML), 0644))
	return path
}

func TestEngine_SkillRollWithModifiers(t *testing.T) {
	e := newEngine(t, testConfig(t))
	ctx := context.Background()
	c, err := e.LoadCharacter(writeKnight(t))
	require.NoError(t, err)

	res, err := e.Roll(ctx, c, engine.Target{Type: roll.Skill, Name: "broadsword", UserID: "u1"}, "+2 aim")
	require.NoError(t, err)
	require.NotNil(t, res)
	// DX+1, less 1 for the blinded condition.
	assert.Equal(t, 13, res.Level)
	assert.Equal(t, 9, res.Total)
	assert.Equal(t, roll.Succeeded, res.Outcome.Success)
	assert.Equal(t, 15, res.Outcome.EffectiveLevel)
	require.Len(t, res.Modifiers, 1)
	assert.Equal(t, "aim", res.Modifiers[0].Name)

	sum, err := e.MetricsSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum["gcsga.rolls{success=success,type=skill}"])
	assert.Equal(t, int64(1), sum["gcsga.modifiers.claimed"])
}

func TestEngine_ExtraConditionsApply(t *testing.T) {
	e := newEngine(t, testConfig(t))
	c, err := e.LoadCharacter(writeKnight(t))
	require.NoError(t, err)
	dx, ok := c.AttributeEffective("dx")
	require.True(t, ok)
	assert.Equal(t, 12, dx)

	res, err := e.Roll(context.Background(), c, engine.Target{Type: roll.Attribute, Name: "DX"})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Level)
}

func TestEngine_WeaponAndControlRolls(t *testing.T) {
	e := newEngine(t, testConfig(t))
	ctx := context.Background()
	c, err := e.LoadCharacter(writeKnight(t))
	require.NoError(t, err)

	res, err := e.Roll(ctx, c, engine.Target{Type: roll.Damage, Name: "Broadsword/Swung"})
	require.NoError(t, err)
	require.NotNil(t, res.Damage)
	assert.Equal(t, "cut", res.Damage.DamageType)
	assert.Equal(t, "Torso", res.Location)
	assert.Equal(t, 7, res.Total)

	res, err = e.Roll(ctx, c, engine.Target{Type: roll.ControlRoll, Name: "Bad Temper"})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Level)
}

func TestRequest_Errors(t *testing.T) {
	e := newEngine(t, testConfig(t))
	c, err := e.LoadCharacter(writeKnight(t))
	require.NoError(t, err)

	_, err = engine.Request(c, engine.Target{Type: roll.Skill, Name: "Juggling"})
	assert.ErrorIs(t, err, engine.ErrNoTarget)
	_, err = engine.Request(c, engine.Target{Type: roll.Attack, Name: "Axe"})
	assert.ErrorIs(t, err, engine.ErrNoTarget)
	_, err = engine.Request(c, engine.Target{Type: roll.Attribute, Name: "luck"})
	assert.ErrorIs(t, err, engine.ErrNoTarget)
	_, err = engine.Request(nil, engine.Target{Type: roll.Parry, Name: "Broadsword"})
	assert.ErrorIs(t, err, engine.ErrNeedsCharacter)
	_, err = engine.Request(nil, engine.Target{Type: roll.Modifier, Name: "aim"})
	assert.ErrorIs(t, err, engine.ErrNoTarget)

	r, err := engine.Request(nil, engine.Target{Type: roll.Generic, Formula: "1d6"})
	require.NoError(t, err)
	assert.Nil(t, r.Actor)
}

func TestEngine_GenericRollWithoutCharacter(t *testing.T) {
	e := newEngine(t, testConfig(t), engine.WithClock(func() time.Time { return time.Unix(0, 0) }))
	res, err := e.Roll(context.Background(), nil, engine.Target{Type: roll.Generic, Formula: "2d6+1"})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Total)
	assert.True(t, res.CreatedAt.Equal(time.Unix(0, 0)))
}

func TestEngine_RedisBackedStack(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cfg := testConfig(t)

	var published []*roll.Result
	e := newEngine(t, cfg,
		engine.WithRedisClient(client),
		engine.WithPublisher(roll.PublisherFunc(func(_ context.Context, r *roll.Result) error {
			published = append(published, r)
			return nil
		})),
	)
	ctx := context.Background()

	res, err := e.Roll(ctx, nil, engine.Target{Type: roll.Modifier, Name: "-3 darkness", UserID: "u9"})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.True(t, mr.Exists(cfg.Redis.KeyPrefix+"modifiers:u9"))

	res, err = e.Roll(ctx, nil, engine.Target{Type: roll.Generic, Formula: "3d6", UserID: "u9"})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.False(t, mr.Exists(cfg.Redis.KeyPrefix+"modifiers:u9"))
	assert.Len(t, published, 1)
}

func TestEngine_BadConditionsDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rules.ConditionsDir = filepath.Join(t.TempDir(), "missing")
	_, err := engine.New(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
