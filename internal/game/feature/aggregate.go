package feature

import (
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/tooltip"
)

// List is the set of features active on a character. It is rebuilt on every
// pass; nothing here caches totals.
type List []*Feature

// SkillRef identifies a skill by name and specialization. RelativeLevel is
// the wielder's level in it relative to its attribute, 0 when unknown.
type SkillRef struct {
	Name           string
	Specialization string
	RelativeLevel  fxp.Int
}

// WeaponTarget describes the weapon a weapon bonus is tested against.
// DieCount is the number of dice in the weapon's base damage.
type WeaponTarget struct {
	OwnerID        string
	Name           string
	Usage          string
	Tags           []string
	DieCount       int
	RequiredSkills []SkillRef
}

// AttributeBonusFor sums the attribute bonuses for attrID.
func (l List) AttributeBonusFor(attrID string, tt *tooltip.Tooltip) fxp.Int {
	var total fxp.Int
	for _, f := range l {
		if f.Type != AttributeBonus || f.Attribute != attrID {
			continue
		}
		total += f.AdjustedAmount()
		f.AddToTooltip(tt)
	}
	return total
}

// SkillBonusFor sums bonuses of type t (SkillBonus or SkillPointBonus) that
// accept the skill's name, specialization and tags.
func (l List) SkillBonusFor(t Type, name, specialization string, tags []string, tt *tooltip.Tooltip) fxp.Int {
	var total fxp.Int
	for _, f := range l {
		if f.Type != t {
			continue
		}
		if f.SkillSelection != "" && f.SkillSelection != SkillsWithName {
			continue
		}
		if !f.Name.Matches(name) || !f.Specialization.Matches(specialization) || !f.Tags.MatchesList(tags...) {
			continue
		}
		total += f.AdjustedAmount()
		f.AddToTooltip(tt)
	}
	return total
}

// SpellBonusFor sums bonuses of type t (SpellBonus or SpellPointBonus) whose
// match rule accepts the spell and whose tag criteria accept its tags.
func (l List) SpellBonusFor(t Type, name, powerSource string, colleges, tags []string, tt *tooltip.Tooltip) fxp.Int {
	var total fxp.Int
	for _, f := range l {
		if f.Type != t {
			continue
		}
		if !f.Tags.MatchesList(tags...) || !f.SpellMatch.MatchForType(f.Name, name, powerSource, colleges) {
			continue
		}
		total += f.AdjustedAmount()
		f.AddToTooltip(tt)
	}
	return total
}

// WeaponBonusesFor returns the bonuses of type t that apply to w, tracing
// each one at its amount for w.
func (l List) WeaponBonusesFor(t Type, w WeaponTarget, tt *tooltip.Tooltip) List {
	var out List
	for _, f := range l {
		if f.Type != t || !f.matchesWeapon(w) {
			continue
		}
		out = append(out, f)
		tt.Push(f.Owner, " [", f.AdjustedAmountForWeapon(w).StringWithSign(), "]")
	}
	return out
}

// AdjustedAmountForWeapon is the adjusted amount, multiplied by the
// weapon's die count when PerDie is set.
func (f *Feature) AdjustedAmountForWeapon(w WeaponTarget) fxp.Int {
	amt := f.AdjustedAmount()
	if f.PerDie && w.DieCount > 0 {
		amt = amt.Mul(fxp.FromInteger(w.DieCount))
	}
	return amt
}

func (f *Feature) matchesWeapon(w WeaponTarget) bool {
	if !f.Tags.MatchesList(w.Tags...) {
		return false
	}
	switch f.WeaponSelection {
	case ThisWeapon:
		return f.OwnerID != "" && f.OwnerID == w.OwnerID && f.Usage.Matches(w.Usage)
	case WeaponsWithName:
		return f.Name.Matches(w.Name) && f.Usage.Matches(w.Usage)
	default:
		for _, s := range w.RequiredSkills {
			if f.Name.Matches(s.Name) && f.Specialization.Matches(s.Specialization) && f.RelativeLevel.Matches(s.RelativeLevel) {
				return true
			}
		}
		return false
	}
}

// SumForWeapon totals the amounts of l for w.
func (l List) SumForWeapon(w WeaponTarget) fxp.Int {
	var total fxp.Int
	for _, f := range l {
		total += f.AdjustedAmountForWeapon(w)
	}
	return total
}

// OfType returns the features of type t.
func (l List) OfType(t Type) List {
	var out List
	for _, f := range l {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}
