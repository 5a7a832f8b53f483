// Package character defines the character model the rules resolvers run
// against: attributes, traits, skills, equipment and weapons.
package character

import (
	"strings"

	"github.com/raianasancho/gcsga/internal/game/attribute"
	"github.com/raianasancho/gcsga/internal/game/condition"
	"github.com/raianasancho/gcsga/internal/game/equipment"
	"github.com/raianasancho/gcsga/internal/game/feature"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/hitlocation"
	"github.com/raianasancho/gcsga/internal/game/measure"
	"github.com/raianasancho/gcsga/internal/game/skill"
	"github.com/raianasancho/gcsga/internal/game/tooltip"
	"github.com/raianasancho/gcsga/internal/game/weapon"
)

// Trait is an advantage, disadvantage or quirk.
type Trait struct {
	ID       string           `yaml:"id,omitempty"`
	Name     string           `yaml:"name"`
	Levels   fxp.Int          `yaml:"levels,omitempty"`
	Points   int              `yaml:"points,omitempty"`
	CR       int              `yaml:"cr,omitempty"` // self-control number; 0 when none
	Disabled bool             `yaml:"disabled,omitempty"`
	Features feature.List     `yaml:"features,omitempty"`
	Weapons  []*weapon.Weapon `yaml:"weapons,omitempty"`
	// Reference is a page reference such as "B123".
	Reference string `yaml:"reference,omitempty"`
}

// AppliedCondition records a condition on the character file.
type AppliedCondition struct {
	ID     string `yaml:"id"`
	Stacks int    `yaml:"stacks,omitempty"`
	Rounds int    `yaml:"rounds,omitempty"`
}

// Character is a GURPS character. Only the stored fields are persisted;
// levels, bonuses and encumbrance are recomputed on demand.
//
// A Character is not safe for concurrent use.
type Character struct {
	ID          string                 `yaml:"id,omitempty"`
	Name        string                 `yaml:"name"`
	Player      string                 `yaml:"player,omitempty"`
	WeightUnits measure.WeightUnit     `yaml:"weight_units,omitempty"`
	Attributes  []*attribute.Attribute `yaml:"attributes,omitempty"`
	Traits      []*Trait               `yaml:"traits,omitempty"`
	Skills      []*skill.Skill         `yaml:"skills,omitempty"`
	Equipment   []*equipment.Item      `yaml:"equipment,omitempty"`
	Conditions  []AppliedCondition     `yaml:"conditions,omitempty"`

	attrs    *attribute.Set
	active   *condition.ActiveSet
	registry *condition.Registry
	hitTable *hitlocation.Table
}

// ActorID returns the character's ID.
func (c *Character) ActorID() string {
	return c.ID
}

// HitLocationTable returns the body the character uses.
func (c *Character) HitLocationTable() *hitlocation.Table {
	return c.hitTable
}

// AttributeSet returns the resolved attribute set.
func (c *Character) AttributeSet() *attribute.Set {
	return c.attrs
}

// ActiveConditions returns the conditions currently affecting the character.
func (c *Character) ActiveConditions() *condition.ActiveSet {
	return c.active
}

// Features collects the features of enabled traits and equipped items,
// stamping each with its owner and level. The list is rebuilt on every call.
func (c *Character) Features() feature.List {
	var out feature.List
	for _, t := range c.Traits {
		if t.Disabled {
			continue
		}
		for _, f := range t.Features {
			f.Owner = t.Name
			f.OwnerID = t.ID
			f.Level = t.Levels
			out = append(out, f)
		}
	}
	for _, top := range c.Equipment {
		if !top.Equipped || top.Quantity <= 0 {
			continue
		}
		top.Walk(func(it *equipment.Item) {
			for _, f := range it.Features {
				f.Owner = it.Name
				f.OwnerID = it.ID
				out = append(out, f)
			}
		})
	}
	return out
}

// AttributeCurrent returns the current value of attribute id.
func (c *Character) AttributeCurrent(id string) (int, bool) {
	if c.attrs == nil {
		return 0, false
	}
	v, err := c.attrs.Current(id)
	if err != nil {
		return 0, false
	}
	return v.AsInt(), true
}

// AttributeEffective returns the current value of attribute id less the
// penalties of active conditions.
func (c *Character) AttributeEffective(id string) (int, bool) {
	if c.attrs == nil {
		return 0, false
	}
	v, err := c.attrs.EffectiveValue(id)
	if err != nil {
		return 0, false
	}
	return v.AsInt(), true
}

// AttributeName returns the short name of attribute id, or id itself when
// it has no definition.
func (c *Character) AttributeName(id string) string {
	if c.attrs != nil {
		if d, ok := c.attrs.Def(id); ok {
			return d.Name
		}
	}
	return id
}

func (c *Character) attributeBonus(id string) int {
	return c.Features().AttributeBonusFor(id, nil).Trunc().AsInt()
}

// StrikingStrength is ST plus striking-ST bonuses.
func (c *Character) StrikingStrength() int {
	st, _ := c.AttributeCurrent("st")
	return st + c.attributeBonus("striking_st")
}

// LiftingStrength is ST plus lifting-ST bonuses.
func (c *Character) LiftingStrength() int {
	st, _ := c.AttributeCurrent("st")
	return st + c.attributeBonus("lifting_st")
}

// ParryBonus is the total of parry attribute bonuses.
func (c *Character) ParryBonus() int {
	return c.attributeBonus("parry")
}

// BlockBonus is the total of block attribute bonuses.
func (c *Character) BlockBonus() int {
	return c.attributeBonus("block")
}

// BestSkill returns the highest-level skill matching name and, when given,
// specialization. Spells are not considered.
func (c *Character) BestSkill(name, specialization string) (*skill.Skill, skill.Level) {
	var best *skill.Skill
	bestLevel := skill.Undefined()
	for _, s := range c.Skills {
		if s.Kind.IsSpell() || !strings.EqualFold(s.Name, name) {
			continue
		}
		if specialization != "" && !strings.EqualFold(s.Specialization, specialization) {
			continue
		}
		lvl := s.CalculateLevel(c)
		if best == nil || lvl.Compare(bestLevel) > 0 {
			best, bestLevel = s, lvl
		}
	}
	return best, bestLevel
}

// SkillRelativeLevel is the relative level of the best matching skill.
func (c *Character) SkillRelativeLevel(name, specialization string) (int, bool) {
	s, lvl := c.BestSkill(name, specialization)
	if s == nil || !lvl.Defined {
		return 0, false
	}
	return lvl.RelativeLevel, true
}

// Skill returns the first skill or spell whose formatted name or plain name
// matches name, ignoring case.
func (c *Character) Skill(name string) (*skill.Skill, bool) {
	for _, s := range c.Skills {
		if strings.EqualFold(s.FormattedName(), name) || strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}

// DefaultLevel resolves a weapon default. Skill, block and parry defaults
// take the best matching skill level, the "10" default is a flat 10, and
// anything else is an attribute id.
func (c *Character) DefaultLevel(d weapon.Default, tt *tooltip.Tooltip) (int, bool) {
	if d.Type == weapon.DefaultTen {
		return 10 + d.Modifier, true
	}
	if d.IsSkillBased() {
		s, lvl := c.BestSkill(d.Name, d.Specialization)
		if s == nil || !lvl.Defined {
			return 0, false
		}
		tt.Push(s.FormattedName(), " [", fxp.FromInteger(lvl.Level).String(), "]")
		return lvl.Level + d.Modifier, true
	}
	v, ok := c.AttributeCurrent(d.Type)
	if !ok {
		return 0, false
	}
	return v + d.Modifier, true
}

// Weapons returns the weapon usages of enabled traits and of all carried
// equipment.
func (c *Character) Weapons() []*weapon.Weapon {
	var out []*weapon.Weapon
	for _, t := range c.Traits {
		if !t.Disabled {
			out = append(out, t.Weapons...)
		}
	}
	for _, top := range c.Equipment {
		top.Walk(func(it *equipment.Item) {
			if it.Quantity > 0 {
				out = append(out, it.Weapons...)
			}
		})
	}
	return out
}

// Weapon finds a usage by owner name and usage, ignoring case. An empty
// usage matches the owner's first usage.
func (c *Character) Weapon(owner, usage string) (*weapon.Weapon, bool) {
	for _, w := range c.Weapons() {
		if !strings.EqualFold(w.FormattedName(), owner) {
			continue
		}
		if usage == "" || strings.EqualFold(w.Usage, usage) {
			return w, true
		}
	}
	return nil, false
}

// Trait returns the first trait named name, ignoring case.
func (c *Character) Trait(name string) (*Trait, bool) {
	for _, t := range c.Traits {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return nil, false
}

// UpdateLevels refreshes every skill's cached level and reports whether any
// changed.
func (c *Character) UpdateLevels() bool {
	changed := false
	for _, s := range c.Skills {
		if s.UpdateLevel(c) {
			changed = true
		}
	}
	return changed
}
