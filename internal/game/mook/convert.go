package mook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raianasancho/gcsga/internal/game/attribute"
	"github.com/raianasancho/gcsga/internal/game/character"
	"github.com/raianasancho/gcsga/internal/game/equipment"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/skill"
	"github.com/raianasancho/gcsga/internal/game/weapon"
)

// Skill converts the entry into a skill for a. Entries without a point
// cost are given the points that reach their listed level; when no amount
// of points can reach it the skill gets a single point.
func (s Skill) Skill(kind skill.Kind, a skill.Actor) *skill.Skill {
	defAttr, defDiff := "dx", skill.Average
	if kind.IsSpell() {
		defAttr, defDiff = "iq", skill.Hard
	}
	attr := s.Attribute
	if attr == "" {
		attr = defAttr
	}
	attr, diff := skill.ParseDifficulty(attr+"/"+s.Difficulty, defAttr, defDiff)
	out := &skill.Skill{
		ID:                s.ID,
		Kind:              kind,
		Name:              s.Name,
		Specialization:    s.Specialization,
		TechLevel:         s.TechLevel,
		TechLevelRequired: s.TechLevel != "",
		Attribute:         attr,
		Difficulty:        diff,
		Notes:             strings.Join(s.Notes, "; "),
	}
	if s.HasPoints {
		out.Points = s.Points
		out.UpdateLevel(a)
		return out
	}
	out.SetLevel(a, s.Level)
	if !out.Level.Defined {
		out.Points = 1
		out.UpdateLevel(a)
	}
	return out
}

// Item converts the entry into a carried, equipped item.
func (it Item) Item() *equipment.Item {
	return &equipment.Item{
		ID:       it.ID,
		Name:     it.Name,
		Quantity: it.Quantity,
		Value:    it.Value,
		Weight:   it.Weight,
		Equipped: true,
		Notes:    strings.Join(it.Notes, "; "),
	}
}

// Weapon converts the attack into a weapon usage whose skill is fixed at
// the listed level. Listed Parry and Block values are final, so they are
// turned back into modifiers over 3 + level/2.
func (a Attack) Weapon(kind weapon.Kind) *weapon.Weapon {
	return &weapon.Weapon{
		ID:         a.ID,
		Kind:       kind,
		Damage:     a.Damage,
		Strength:   a.Strength,
		Reach:      a.Reach,
		Parry:      defenseModifier(weapon.ParryTrait, a.Parry, a.Level),
		Block:      defenseModifier(weapon.BlockTrait, a.Block, a.Level),
		Accuracy:   a.Accuracy,
		Range:      a.Range,
		RateOfFire: a.RateOfFire,
		Shots:      a.Shots,
		Bulk:       a.Bulk,
		Recoil:     a.Recoil,
		Defaults:   []weapon.Default{{Type: weapon.DefaultTen, Modifier: a.Level - 10}},
	}
}

func defenseModifier(kind weapon.TraitKind, text string, level int) string {
	if text == "" {
		return "No"
	}
	t := weapon.ParseTrait(kind, text)
	if t.No {
		return "No"
	}
	out := fmt.Sprintf("%+d", t.Modifier-3-level/2)
	if t.Fencing {
		out += "F"
	}
	if t.Unbalanced {
		out += "U"
	}
	return out
}

// Character builds a character from the record. Attribute values are
// matched by adjusting each attribute in definition order, so derived
// scores such as Will see the final IQ first.
//
// Precondition: rules.Evaluator must be non-nil.
// Postcondition: Returns a built character or a non-nil error.
func (r *Record) Character(name string, rules character.Rules) (*character.Character, error) {
	if name == "" {
		name = r.Name
	}
	if name == "" {
		return nil, errors.New("mook needs a name")
	}
	if rules.Attributes == nil {
		rules.Attributes = attribute.DefaultDefs()
	}
	c := &character.Character{Name: name}
	for _, d := range rules.Attributes {
		c.Attributes = append(c.Attributes, &attribute.Attribute{ID: d.ID})
	}
	for _, t := range r.Traits {
		c.Traits = append(c.Traits, &character.Trait{
			ID: t.ID, Name: t.Name, Levels: fxp.FromInteger(t.Levels),
			Points: t.Points, CR: t.CR,
		})
	}
	for _, it := range r.Equipment {
		c.Equipment = append(c.Equipment, it.Item())
	}
	r.attachWeapons(c)
	if _, err := character.Build(c, rules); err != nil {
		return nil, fmt.Errorf("building mook %q: %w", name, err)
	}

	set := c.AttributeSet()
	for _, stored := range c.Attributes {
		want, ok := r.Attribute(stored.ID)
		if !ok {
			continue
		}
		current, err := set.Current(stored.ID)
		if err != nil {
			return nil, fmt.Errorf("mook %q: %w", name, err)
		}
		stored.Adj += want - current
	}

	for _, s := range r.Skills {
		c.Skills = append(c.Skills, s.Skill(skill.KindSkill, c))
	}
	for _, s := range r.Spells {
		c.Skills = append(c.Skills, s.Skill(skill.KindSpell, c))
	}
	c.UpdateLevels()
	return c, nil
}

// attachWeapons hangs each attack on the equipment item of the same name,
// or on a zero-point trait when the mook carries no such item.
func (r *Record) attachWeapons(c *character.Character) {
	attach := func(a Attack, kind weapon.Kind) {
		w := a.Weapon(kind)
		for _, it := range c.Equipment {
			if strings.EqualFold(it.Name, a.Name) {
				it.Weapons = append(it.Weapons, w)
				return
			}
		}
		for _, t := range c.Traits {
			if strings.EqualFold(t.Name, a.Name) {
				t.Weapons = append(t.Weapons, w)
				return
			}
		}
		c.Traits = append(c.Traits, &character.Trait{Name: a.Name, Weapons: []*weapon.Weapon{w}})
	}
	for _, a := range r.Melee {
		attach(a, weapon.Melee)
	}
	for _, a := range r.Ranged {
		attach(a, weapon.Ranged)
	}
}
