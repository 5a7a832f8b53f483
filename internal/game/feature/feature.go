// Package feature models the bonuses that traits and equipment grant, and
// aggregates them for a given skill, spell, attribute or weapon.
package feature

import (
	"fmt"
	"strings"

	"github.com/raianasancho/gcsga/internal/game/criteria"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/measure"
	"github.com/raianasancho/gcsga/internal/game/tooltip"
)

// Type discriminates features.
type Type string

const (
	AttributeBonus           Type = "attribute_bonus"
	SkillBonus               Type = "skill_bonus"
	SkillPointBonus          Type = "skill_point_bonus"
	SpellBonus               Type = "spell_bonus"
	SpellPointBonus          Type = "spell_point_bonus"
	WeaponSkillBonus         Type = "weapon_bonus"
	WeaponBlockBonus         Type = "weapon_block_bonus"
	WeaponParryBonus         Type = "weapon_parry_bonus"
	ContainedWeightReduction Type = "contained_weight_reduction"
)

// SkillSelection chooses which skills a skill bonus applies to.
type SkillSelection string

const (
	SkillsWithName SkillSelection = "skills_with_name"
)

// WeaponSelection chooses which weapons a weapon bonus applies to.
type WeaponSelection string

const (
	WeaponsWithRequiredSkill WeaponSelection = "weapons_with_required_skill"
	WeaponsWithName          WeaponSelection = "weapons_with_name"
	ThisWeapon               WeaponSelection = "this_weapon"
)

// SpellMatch chooses which spells a spell bonus applies to.
type SpellMatch string

const (
	AllColleges     SpellMatch = "all_colleges"
	CollegeName     SpellMatch = "college_name"
	PowerSourceName SpellMatch = "power_source_name"
	SpellName       SpellMatch = "spell_name"
)

// MatchForType applies m using name criteria against the spell's name,
// power source or colleges.
func (m SpellMatch) MatchForType(c criteria.StringCriteria, name, powerSource string, colleges []string) bool {
	switch m {
	case AllColleges:
		return true
	case SpellName:
		return c.Matches(name)
	case PowerSourceName:
		return c.Matches(powerSource)
	case CollegeName:
		return c.MatchesList(colleges...)
	default:
		return true
	}
}

// LeveledAmount is a bonus that is either flat or scales with its owner's
// level.
type LeveledAmount struct {
	Amount   fxp.Int `yaml:"amount"`
	PerLevel bool    `yaml:"per_level,omitempty"`
	// Level is the owner's level, filled in when features are collected.
	Level fxp.Int `yaml:"-"`
}

// AdjustedAmount returns Amount, multiplied by Level when PerLevel is set.
// Negative levels contribute nothing.
func (l LeveledAmount) AdjustedAmount() fxp.Int {
	if !l.PerLevel {
		return l.Amount
	}
	if l.Level < 0 {
		return 0
	}
	return l.Amount.Mul(l.Level)
}

// Feature is a single bonus. Which fields are read depends on Type.
type Feature struct {
	Type          Type `yaml:"type"`
	LeveledAmount `yaml:",inline"`

	// Owner names the trait or item granting the feature; OwnerID
	// identifies it for this-weapon selection.
	Owner   string `yaml:"-"`
	OwnerID string `yaml:"-"`

	Attribute       string                   `yaml:"attribute,omitempty"`
	SkillSelection  SkillSelection           `yaml:"selection_type,omitempty"`
	WeaponSelection WeaponSelection          `yaml:"weapon_selection,omitempty"`
	SpellMatch      SpellMatch               `yaml:"match,omitempty"`
	Name            criteria.StringCriteria  `yaml:"name,omitempty"`
	Specialization  criteria.StringCriteria  `yaml:"specialization,omitempty"`
	Tags            criteria.StringCriteria  `yaml:"tags,omitempty"`
	Usage           criteria.StringCriteria  `yaml:"usage,omitempty"`
	RelativeLevel   criteria.NumericCriteria `yaml:"level,omitempty"`
	Reduction       string                   `yaml:"reduction,omitempty"`
	// PerDie scales a weapon bonus by the weapon's damage dice.
	PerDie bool `yaml:"per_die,omitempty"`
}

// AddToTooltip records the feature's contribution.
func (f *Feature) AddToTooltip(tt *tooltip.Tooltip) {
	tt.Push(f.Owner, " [", f.AdjustedAmount().StringWithSign(), "]")
}

// IsPercentageReduction reports whether a contained weight reduction is a
// percentage of the contents rather than a fixed weight.
func (f *Feature) IsPercentageReduction() bool {
	return strings.HasSuffix(strings.TrimSpace(f.Reduction), "%")
}

// PercentageReduction returns the reduction percentage, or 0 for fixed
// reductions.
func (f *Feature) PercentageReduction() fxp.Int {
	if !f.IsPercentageReduction() {
		return 0
	}
	return fxp.Extract(f.Reduction)
}

// FixedReduction returns the reduction in pounds, or 0 for percentage
// reductions.
func (f *Feature) FixedReduction(defUnits measure.WeightUnit) fxp.Int {
	if f.IsPercentageReduction() {
		return 0
	}
	return measure.ParseWeight(f.Reduction, defUnits).Pounds()
}

// String summarises the feature for logs and CLI output.
func (f *Feature) String() string {
	return fmt.Sprintf("%s %s (%s)", f.Type, f.AdjustedAmount().StringWithSign(), f.Name.Describe())
}
