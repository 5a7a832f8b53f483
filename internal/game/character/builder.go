package character

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/raianasancho/gcsga/internal/game/attribute"
	"github.com/raianasancho/gcsga/internal/game/condition"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/hitlocation"
	"github.com/raianasancho/gcsga/internal/game/measure"
	"github.com/raianasancho/gcsga/internal/game/roll"
	"github.com/raianasancho/gcsga/internal/scripting"
)

// ErrUnknownCondition is returned for condition ids missing from the
// registry.
var ErrUnknownCondition = errors.New("unknown condition")

// Rules are the shared definitions a character is built against.
type Rules struct {
	Attributes   []*attribute.Def
	Evaluator    *scripting.Evaluator
	Conditions   *condition.Registry
	HitLocations *hitlocation.Table
	// WeightUnits applies to characters that name no unit of their own.
	WeightUnits measure.WeightUnit
}

// Build wires c to rules: it resolves attributes, applies the stored
// conditions, assigns missing IDs and computes skill levels.
//
// Precondition: c must be non-nil with a non-empty Name; rules.Evaluator
// must be non-nil.
// Postcondition: Returns c ready for rolls, or a non-nil error.
func Build(c *Character, rules Rules) (*Character, error) {
	if c == nil {
		return nil, errors.New("character must not be nil")
	}
	if c.Name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if rules.Evaluator == nil {
		return nil, errors.New("evaluator must not be nil")
	}
	defs := rules.Attributes
	if defs == nil {
		defs = attribute.DefaultDefs()
	}
	c.registry = rules.Conditions
	if c.registry == nil {
		c.registry = condition.Standard()
	}
	c.hitTable = rules.HitLocations
	if c.hitTable == nil {
		c.hitTable = hitlocation.Humanoid()
	}
	if c.WeightUnits == "" {
		c.WeightUnits = rules.WeightUnits
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.assignIDs()

	c.active = condition.NewActiveSet()
	for _, ac := range c.Conditions {
		if err := c.applyCondition(ac); err != nil {
			return nil, err
		}
	}

	c.attrs = attribute.NewSet(defs, c.Attributes, rules.Evaluator)
	c.attrs.Bonus = func(id string) fxp.Int {
		return c.Features().AttributeBonusFor(id, nil)
	}
	c.attrs.Effective = func(id string) fxp.Int {
		return -fxp.FromInteger(condition.AttributePenalty(c.active, id))
	}
	for _, d := range defs {
		if _, err := c.attrs.Current(d.ID); err != nil {
			return nil, fmt.Errorf("character %q: %w", c.Name, err)
		}
	}
	c.UpdateLevels()
	return c, nil
}

func (c *Character) assignIDs() {
	for _, t := range c.Traits {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		for _, w := range t.Weapons {
			if w.ID == "" {
				w.ID = uuid.NewString()
			}
			w.OwnerID = t.ID
			w.OwnerName = t.Name
		}
	}
	for _, s := range c.Skills {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
	}
	for _, it := range c.Equipment {
		it.AssignIDs()
	}
}

func (c *Character) applyCondition(ac AppliedCondition) error {
	def, ok := c.registry.Get(ac.ID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCondition, ac.ID)
	}
	stacks := ac.Stacks
	if stacks < 1 {
		stacks = 1
	}
	return c.active.Apply(def, stacks, ac.Rounds)
}

// ApplyCondition adds a condition by id.
//
// Precondition: c must have been built.
func (c *Character) ApplyCondition(id string, stacks, rounds int) error {
	return c.applyCondition(AppliedCondition{ID: id, Stacks: stacks, Rounds: rounds})
}

// Parse decodes a YAML character file and builds it against rules.
func Parse(data []byte, rules Rules) (*Character, error) {
	var c Character
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing character: %w", err)
	}
	for _, it := range c.Equipment {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("character %q: %w", c.Name, err)
		}
	}
	return Build(&c, rules)
}

// Load reads and builds the character file at path.
//
// Precondition: path names a readable YAML file.
func Load(path string, rules Rules) (*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading character %q: %w", path, err)
	}
	return Parse(data, rules)
}

// AttributeRef builds the target of an attribute roll.
//
// Postcondition: Returns an error wrapping attribute.ErrUnknownAttribute
// when id has no definition.
func (c *Character) AttributeRef(id string) (*roll.AttributeRef, error) {
	d, ok := c.attrs.Def(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", attribute.ErrUnknownAttribute, id)
	}
	v, err := c.attrs.EffectiveValue(id)
	if err != nil {
		return nil, err
	}
	return &roll.AttributeRef{ID: id, Name: d.CombinedName(), Effective: v.AsInt()}, nil
}

// ControlRef builds the target of a self-control roll for the named trait.
//
// Postcondition: Returns false when no enabled trait of that name has a
// self-control number.
func (c *Character) ControlRef(name string) (*roll.ControlRef, bool) {
	t, ok := c.Trait(name)
	if !ok || t.Disabled || t.CR <= 0 {
		return nil, false
	}
	return &roll.ControlRef{ID: t.ID, Name: t.Name, CR: t.CR}, true
}
