// Package weapon models melee and ranged weapon usages and resolves their
// Block and Parry values against the wielder.
package weapon

import (
	"strconv"
	"strings"

	"github.com/raianasancho/gcsga/internal/game/dice"
	"github.com/raianasancho/gcsga/internal/game/feature"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/tooltip"
)

// Kind distinguishes melee from ranged usages.
type Kind string

const (
	Melee  Kind = "melee_weapon"
	Ranged Kind = "ranged_weapon"
)

// Switch names a boolean weapon property that features or the weapon
// itself can override.
type Switch string

const (
	CanBlock Switch = "can_block"
	CanParry Switch = "can_parry"
)

// Default types other than attribute ids.
const (
	DefaultSkill = "skill"
	DefaultBlock = "block"
	DefaultParry = "parry"
	// DefaultTen is a flat base of 10, used for attacks with a known level
	// but no backing skill.
	DefaultTen = "10"
)

// Default is one way to derive the weapon's skill level: from a skill,
// from an attribute, or from the Block or Parry of a skill.
type Default struct {
	Type           string `yaml:"type"`
	Name           string `yaml:"name,omitempty"`
	Specialization string `yaml:"specialization,omitempty"`
	Modifier       int    `yaml:"modifier,omitempty"`
}

// IsSkillBased reports whether the default names a skill.
func (d Default) IsSkillBased() bool {
	return d.Type == DefaultSkill || d.Type == DefaultBlock || d.Type == DefaultParry
}

// Actor is the character wielding the weapon.
type Actor interface {
	// DefaultLevel resolves a default to a level, or false when the actor
	// cannot use it.
	DefaultLevel(d Default, tt *tooltip.Tooltip) (int, bool)
	StrikingStrength() int
	EncumbranceLevel(forSkills bool) int
	ParryBonus() int
	Features() feature.List
}

// Weapon is one usage of a weapon, e.g. "Swung" or "Thrust" for a sword.
type Weapon struct {
	ID         string          `yaml:"id,omitempty"`
	OwnerID    string          `yaml:"-"`
	OwnerName  string          `yaml:"-"`
	Kind       Kind            `yaml:"type"`
	Usage      string          `yaml:"usage,omitempty"`
	Tags       []string        `yaml:"tags,omitempty"`
	Damage     string          `yaml:"damage,omitempty"`
	Strength   string          `yaml:"strength,omitempty"`
	Reach      string          `yaml:"reach,omitempty"`
	Parry      string          `yaml:"parry,omitempty"`
	Block      string          `yaml:"block,omitempty"`
	Accuracy   string          `yaml:"accuracy,omitempty"`
	Range      string          `yaml:"range,omitempty"`
	RateOfFire string          `yaml:"rate_of_fire,omitempty"`
	Shots      string          `yaml:"shots,omitempty"`
	Bulk       string          `yaml:"bulk,omitempty"`
	Recoil     string          `yaml:"recoil,omitempty"`
	Defaults   []Default       `yaml:"defaults,omitempty"`
	Switches   map[Switch]bool `yaml:"switches,omitempty"`
}

// FormattedName is the owner's name, or the usage when there is no owner.
func (w *Weapon) FormattedName() string {
	if w.OwnerName != "" {
		return w.OwnerName
	}
	return w.Usage
}

// ResolveSwitch returns the weapon's setting for sw, or def when unset.
func (w *Weapon) ResolveSwitch(sw Switch, def bool) bool {
	if v, ok := w.Switches[sw]; ok {
		return v
	}
	return def
}

// RelativeLeveler is implemented by actors that can report their level in
// a skill relative to the skill's attribute.
type RelativeLeveler interface {
	SkillRelativeLevel(name, specialization string) (int, bool)
}

// Target describes the weapon for feature matching. When a implements
// RelativeLeveler, each required skill carries a's relative level in it.
func (w *Weapon) Target(a Actor) feature.WeaponTarget {
	t := feature.WeaponTarget{OwnerID: w.OwnerID, Name: w.OwnerName, Usage: w.Usage, Tags: w.Tags}
	if dmg, err := dice.ParseDamage(dice.D6ify(w.Damage)); err == nil {
		t.DieCount = dmg.Dice.Count
	}
	rl, _ := a.(RelativeLeveler)
	for _, d := range w.Defaults {
		if !d.IsSkillBased() {
			continue
		}
		ref := feature.SkillRef{Name: d.Name, Specialization: d.Specialization}
		if rl != nil {
			if lvl, ok := rl.SkillRelativeLevel(d.Name, d.Specialization); ok {
				ref.RelativeLevel = fxp.FromInteger(lvl)
			}
		}
		t.RequiredSkills = append(t.RequiredSkills, ref)
	}
	return t
}

// SkillLevelBaseAdjustment is the adjustment applied before a default
// level is halved: the minimum-strength penalty and weapon skill bonuses.
func (w *Weapon) SkillLevelBaseAdjustment(a Actor, tt *tooltip.Tooltip) int {
	adj := 0
	if minST := fxp.Extract(w.Strength).AsInt(); minST > 0 {
		if st := a.StrikingStrength(); st < minST {
			adj -= minST - st
			tt.Push("Strength below minimum [", strconv.Itoa(st-minST), "]")
		}
	}
	target := w.Target(a)
	adj += a.Features().WeaponBonusesFor(feature.WeaponSkillBonus, target, tt).SumForWeapon(target).Trunc().AsInt()
	return adj
}

// SkillLevelPostAdjustment is the adjustment applied after a default level
// is halved: fencing weapons lose their encumbrance level.
func (w *Weapon) SkillLevelPostAdjustment(a Actor, tt *tooltip.Tooltip) int {
	if w.Kind != Melee || !ParseParry(w.Parry).Fencing {
		return 0
	}
	enc := a.EncumbranceLevel(true)
	if enc <= 0 {
		return 0
	}
	tt.Push("Encumbrance [", strconv.Itoa(-enc), "]")
	return -enc
}

// SkillLevel is the best level among the weapon's defaults, adjusted.
// Returns false when no default is usable.
func (w *Weapon) SkillLevel(a Actor, tt *tooltip.Tooltip) (int, bool) {
	if a == nil {
		return 0, false
	}
	best, found := 0, false
	for _, d := range w.Defaults {
		level, ok := a.DefaultLevel(d, nil)
		if !ok {
			continue
		}
		if !found || level > best {
			best, found = level, true
		}
	}
	if !found {
		return 0, false
	}
	best += w.SkillLevelBaseAdjustment(a, tt) + w.SkillLevelPostAdjustment(a, tt)
	if best < 0 {
		best = 0
	}
	return best, true
}

// EffectiveRateOfFire reads a rate of fire. Shotgun notation "3x9" yields
// shots times projectiles; unparseable text yields 0.
func EffectiveRateOfFire(rof string) int {
	rof = strings.ToLower(strings.TrimSpace(rof))
	if shots, projectiles, ok := strings.Cut(rof, "x"); ok {
		return leadingInt(shots) * leadingInt(projectiles)
	}
	return leadingInt(rof)
}

func leadingInt(s string) int {
	return fxp.Extract(s).Trunc().AsInt()
}
