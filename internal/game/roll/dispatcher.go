package roll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raianasancho/gcsga/internal/game/dice"
	"github.com/raianasancho/gcsga/internal/game/hitlocation"
	"github.com/raianasancho/gcsga/internal/game/modifier"
)

// DefaultFormula is the success roll formula.
const DefaultFormula = "3d6"

// ErrUnknownType is returned for a roll type with no handler.
var ErrUnknownType = errors.New("roll: unknown roll type")

// Roller rolls dice expressions.
type Roller interface {
	Roll(ctx context.Context, expr dice.Expression) (dice.RollResult, error)
	RollExpr(ctx context.Context, expr string) (dice.RollResult, error)
}

// Options tunes a Dispatcher. Zero values select the defaults.
type Options struct {
	// Formula is used when a request names none.
	Formula string
	// DefaultDamageLocation is the hit-location id reported for damage.
	DefaultDamageLocation string
	Recorder              Recorder
	Handlers              map[Type]Handler
	Now                   func() time.Time
}

// Dispatcher resolves roll requests through the handler table.
//
// Precondition: all fields are non-nil after construction.
type Dispatcher struct {
	roller                Roller
	store                 modifier.Store
	publisher             Publisher
	recorder              Recorder
	logger                *zap.Logger
	handlers              map[Type]Handler
	formula               string
	defaultDamageLocation string
	now                   func() time.Time
}

// NewDispatcher wires a Dispatcher.
//
// Precondition: roller, store, publisher and logger must be non-nil.
// Postcondition: Returns a Dispatcher with a handler for every Type.
func NewDispatcher(roller Roller, store modifier.Store, publisher Publisher, logger *zap.Logger, opts Options) *Dispatcher {
	if roller == nil || store == nil || publisher == nil || logger == nil {
		panic("roll: NewDispatcher requires non-nil roller, store, publisher and logger")
	}
	d := &Dispatcher{
		roller:                roller,
		store:                 store,
		publisher:             publisher,
		recorder:              opts.Recorder,
		logger:                logger,
		handlers:              DefaultHandlers(),
		formula:               opts.Formula,
		defaultDamageLocation: opts.DefaultDamageLocation,
		now:                   opts.Now,
	}
	for t, h := range opts.Handlers {
		d.handlers[t] = h
	}
	if d.recorder == nil {
		d.recorder = nopRecorder{}
	}
	if d.formula == "" {
		d.formula = DefaultFormula
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// Dispatch resolves r and publishes the result.
//
// Precondition: ctx must be non-nil.
// Postcondition: An invalid request returns (nil, nil) without touching the
// modifier stack. A Modifier request returns (nil, nil) after pushing onto
// the stack. Otherwise the published result is returned and the modifiers
// it used are consumed; when rolling or publishing fails the stack is left
// as it was.
func (d *Dispatcher) Dispatch(ctx context.Context, r Request) (*Result, error) {
	h, ok := d.handlers[r.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	}
	if h.Handle != nil {
		return h.Handle(ctx, d, &r)
	}
	return d.handleSuccessRoll(ctx, h, &r)
}

// handleSuccessRoll is the shared template for rolls against a level.
func (d *Dispatcher) handleSuccessRoll(ctx context.Context, h Handler, r *Request) (*Result, error) {
	if !h.isValid(r) {
		d.logger.Debug("ignoring invalid roll", zap.String("type", string(r.Type)), zap.String("user", r.UserID))
		d.recorder.RecordInvalid(ctx, r.Type)
		return nil, nil
	}
	level := h.level(r)
	name := h.name(r)

	expr, err := d.parseFormula(r)
	if err != nil {
		return nil, err
	}
	stacked, err := d.pending(ctx, r.UserID)
	if err != nil {
		return nil, err
	}

	enc := 0
	if r.Actor != nil {
		enc = r.Actor.EncumbranceLevel(true)
	}
	mods, level := h.modifyForEncumbrance(r, enc, stacked, level)
	effective := level + modifier.Total(mods)

	rolled, err := d.roller.Roll(ctx, expr)
	if err != nil {
		return nil, fmt.Errorf("rolling %s: %w", expr, err)
	}
	success, margin := GetMargin(name, effective, rolled.Total())

	res := d.newResult(r, h.rollType(r), name)
	res.DisplayName = h.displayName(name, level)
	res.Formula = expr.String()
	res.Level = level
	res.Outcome = &Outcome{Success: success, Margin: margin.Value, EffectiveLevel: effective}
	res.Margin = &margin
	res.Roll = &rolled
	res.Total = rolled.Total()
	res.Modifiers = displayModifiers(mods)
	res.Item = h.itemData(r)
	res.Extra = h.extraData(r, res)

	d.logger.Debug("roll resolved",
		zap.String("type", string(res.Type)),
		zap.String("name", name),
		zap.Int("level", level),
		zap.Int("effective_level", effective),
		zap.Int("total", rolled.Total()),
		zap.String("success", string(success)),
	)
	d.recorder.RecordRoll(ctx, res.Type, success)
	return d.publish(ctx, res, stacked)
}

func (d *Dispatcher) parseFormula(r *Request) (dice.Expression, error) {
	formula := r.Formula
	if formula == "" {
		formula = d.formula
	}
	expr, err := dice.Parse(formula)
	if err != nil {
		return dice.Expression{}, fmt.Errorf("parsing roll formula: %w", err)
	}
	return expr, nil
}

// pending reads the user's modifiers without consuming them. They are
// consumed by publish once the result is out.
func (d *Dispatcher) pending(ctx context.Context, userID string) ([]modifier.Modifier, error) {
	mods, err := d.store.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading modifiers for %q: %w", userID, err)
	}
	return mods, nil
}

func (d *Dispatcher) newResult(r *Request, t Type, name string) *Result {
	return &Result{
		ID:        uuid.NewString(),
		UserID:    r.UserID,
		ActorID:   r.actorID(),
		Type:      t,
		Name:      name,
		Hidden:    r.Hidden,
		Modifiers: []DisplayModifier{},
		CreatedAt: d.now().UTC(),
	}
}

// publish delivers res and then consumes mods from the user's stack, so a
// failed delivery leaves the stack as it was.
func (d *Dispatcher) publish(ctx context.Context, res *Result, mods []modifier.Modifier) (*Result, error) {
	if err := d.publisher.Publish(ctx, res); err != nil {
		return nil, fmt.Errorf("publishing %s roll: %w", res.Type, err)
	}
	if err := d.store.Consume(ctx, res.UserID, mods); err != nil {
		return nil, fmt.Errorf("consuming modifiers for %q: %w", res.UserID, err)
	}
	d.recorder.RecordClaim(ctx, len(mods))
	return res, nil
}

// handleDamage rolls the weapon's damage r.Times times. Stack modifiers add
// to every repetition.
func handleDamage(ctx context.Context, d *Dispatcher, r *Request) (*Result, error) {
	if r.Weapon == nil || r.Weapon.Damage == "" {
		d.logger.Debug("ignoring damage roll without damage", zap.String("user", r.UserID))
		d.recorder.RecordInvalid(ctx, r.Type)
		return nil, nil
	}
	dmg, err := dice.ParseDamage(dice.D6ify(r.Weapon.Damage))
	if err != nil {
		return nil, fmt.Errorf("parsing damage: %w", err)
	}
	mods, err := d.pending(ctx, r.UserID)
	if err != nil {
		return nil, err
	}
	modTotal := modifier.Total(mods)
	times := r.Times
	if times < 1 {
		times = 1
	}

	var table *hitlocation.Table
	if r.Actor != nil {
		table = r.Actor.HitLocationTable()
	}
	location := table.TableName(d.defaultDamageLocation)

	payload := &DamagePayload{ModifierTotal: modTotal}
	for i := 0; i < times; i++ {
		rolled, err := d.roller.Roll(ctx, dmg.Dice)
		if err != nil {
			return nil, fmt.Errorf("rolling damage %s: %w", dmg.Dice, err)
		}
		if i == 0 {
			payload.Damage = dmg.String()
			payload.Dice = dmg.Dice.String()
			payload.DamageType = dmg.Type
			payload.ArmorDivisor = dmg.ArmorDivisor
			payload.DamageModifier = dmg.Dice.Modifier
		}
		payload.Rolls = append(payload.Rolls, DamageRoll{Roll: rolled, Total: rolled.Total() + modTotal, HitLocation: location})
	}

	res := d.newResult(r, Damage, weaponName(r))
	res.Formula = dmg.Dice.String()
	res.Total = payload.Rolls[0].Total
	res.Modifiers = displayModifiers(mods)
	res.Item = weaponItemData(r)
	res.Damage = payload
	res.Location = location
	d.logger.Debug("damage resolved", zap.String("name", res.Name), zap.Int("times", times), zap.Int("first_total", res.Total))
	d.recorder.RecordRoll(ctx, Damage, "")
	return d.publish(ctx, res, mods)
}

// handleLocation rolls a random hit location on the actor's table, or the
// humanoid table when there is no actor. Pending modifiers are consumed but
// not applied.
func handleLocation(ctx context.Context, d *Dispatcher, r *Request) (*Result, error) {
	var table *hitlocation.Table
	if r.Actor != nil {
		table = r.Actor.HitLocationTable()
	}
	if table == nil {
		table = hitlocation.Humanoid()
	}
	located, err := table.RollRandom(ctx, d.roller)
	if err != nil {
		return nil, err
	}
	mods, err := d.pending(ctx, r.UserID)
	if err != nil {
		return nil, err
	}
	res := d.newResult(r, Location, "Random Hit Location")
	res.Formula = table.Roll
	res.Roll = &located.Roll
	res.Total = located.Roll.Total()
	res.Location = located.Name()
	d.recorder.RecordRoll(ctx, Location, "")
	return d.publish(ctx, res, mods)
}

// handleGeneric evaluates a free formula and adds the stack to its total.
// It has no level and no success tiers.
func handleGeneric(ctx context.Context, d *Dispatcher, r *Request) (*Result, error) {
	expr, err := d.parseFormula(r)
	if err != nil {
		return nil, err
	}
	mods, err := d.pending(ctx, r.UserID)
	if err != nil {
		return nil, err
	}
	rolled, err := d.roller.Roll(ctx, expr)
	if err != nil {
		return nil, fmt.Errorf("rolling %s: %w", expr, err)
	}
	res := d.newResult(r, Generic, expr.String())
	res.Formula = expr.String()
	res.Roll = &rolled
	res.Total = rolled.Total() + modifier.Total(mods)
	res.Modifiers = displayModifiers(mods)
	d.recorder.RecordRoll(ctx, Generic, "")
	return d.publish(ctx, res, mods)
}

// handleModifier pushes a modifier onto the user's stack. No result is
// produced.
func handleModifier(ctx context.Context, d *Dispatcher, r *Request) (*Result, error) {
	m := modifier.Modifier{Name: r.Comment, Modifier: r.Modifier, Tags: []string{}}
	if err := d.store.Push(ctx, r.UserID, m); err != nil {
		return nil, fmt.Errorf("pushing modifier for %q: %w", r.UserID, err)
	}
	return nil, nil
}
