package weapon

import (
	"strconv"
	"strings"

	"github.com/raianasancho/gcsga/internal/game/feature"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/tooltip"
)

// TraitKind selects between the Block and Parry fields.
type TraitKind int

const (
	BlockTrait TraitKind = iota
	ParryTrait
)

func (k TraitKind) defaultType() string {
	if k == ParryTrait {
		return DefaultParry
	}
	return DefaultBlock
}

func (k TraitKind) bonusType() feature.Type {
	if k == ParryTrait {
		return feature.WeaponParryBonus
	}
	return feature.WeaponBlockBonus
}

func (k TraitKind) switchType() Switch {
	if k == ParryTrait {
		return CanParry
	}
	return CanBlock
}

// Trait is a Block or Parry value: either "No" or a modifier. Parry values
// may also be marked fencing (F) or unbalanced (U).
//
// Invariant: No implies Modifier == 0.
type Trait struct {
	Kind       TraitKind
	No         bool
	Modifier   int
	Fencing    bool
	Unbalanced bool
}

// ParseTrait reads a Block or Parry field. Any text containing "no"
// disables the trait; otherwise the leading signed integer is the modifier.
func ParseTrait(kind TraitKind, s string) Trait {
	s = strings.ToLower(strings.TrimSpace(s))
	t := Trait{Kind: kind, No: strings.Contains(s, "no")}
	if !t.No {
		t.Modifier = leadingInt(s)
		if kind == ParryTrait {
			t.Fencing = strings.Contains(s, "f")
			t.Unbalanced = strings.Contains(s, "u")
		}
	}
	t.validate()
	return t
}

// ParseBlock reads a Block field such as "No", "+1" or "0". Unparseable
// modifiers read as 0.
func ParseBlock(s string) Trait {
	return ParseTrait(BlockTrait, s)
}

// ParseParry reads a Parry field such as "No", "0F" or "-1U".
func ParseParry(s string) Trait {
	return ParseTrait(ParryTrait, s)
}

func (t *Trait) validate() {
	if t.No {
		t.Modifier = 0
		t.Fencing = false
		t.Unbalanced = false
	}
}

// String renders the trait: "No", the modifier, and any parry flags. A zero
// Block modifier renders as the empty string.
func (t Trait) String() string {
	if t.No {
		return "No"
	}
	var b strings.Builder
	if t.Modifier != 0 || t.Kind == ParryTrait {
		b.WriteString(strconv.Itoa(t.Modifier))
	}
	if t.Fencing {
		b.WriteString("F")
	}
	if t.Unbalanced {
		b.WriteString("U")
	}
	return b.String()
}

// Resolve turns the weapon's relative Block or Parry field into the final
// defense value for a.
//
// The best default level is taken after adding the base adjustment, halving
// (truncating) any default that is not itself a Block or Parry default, and
// adding the post adjustment. The final value is 3 + best + the actor's
// parry bonus + weapon bonuses, truncated and floored at 0. With no usable
// default the value is 0. A nil actor leaves the field as parsed.
func Resolve(kind TraitKind, w *Weapon, a Actor, tt *tooltip.Tooltip) Trait {
	field := w.Block
	if kind == ParryTrait {
		field = w.Parry
	}
	result := ParseTrait(kind, field)
	result.No = !w.ResolveSwitch(kind.switchType(), !result.No)
	if !result.No && a != nil {
		var primary *tooltip.Tooltip
		if tt != nil {
			primary = tooltip.New()
		}
		preAdj := w.SkillLevelBaseAdjustment(a, primary)
		postAdj := w.SkillLevelPostAdjustment(a, primary)
		best, found := 0, false
		for _, d := range w.Defaults {
			level, ok := a.DefaultLevel(d, nil)
			if !ok {
				continue
			}
			level += preAdj
			if d.Type != kind.defaultType() {
				level /= 2
			}
			level += postAdj
			if !found || level > best {
				best, found = level, true
			}
		}
		if found {
			for _, line := range primary.Lines() {
				tt.Push(line)
			}
			target := w.Target(a)
			bonus := a.Features().WeaponBonusesFor(kind.bonusType(), target, tt).SumForWeapon(target)
			total := fxp.FromInteger(result.Modifier+3+best+a.ParryBonus()) + bonus
			result.Modifier = total.Max(0).Trunc().AsInt()
		} else {
			result.Modifier = 0
		}
	}
	result.validate()
	return result
}

// ResolvedBlock resolves the weapon's Block field.
func (w *Weapon) ResolvedBlock(a Actor, tt *tooltip.Tooltip) Trait {
	return Resolve(BlockTrait, w, a, tt)
}

// ResolvedParry resolves the weapon's Parry field.
func (w *Weapon) ResolvedParry(a Actor, tt *tooltip.Tooltip) Trait {
	return Resolve(ParryTrait, w, a, tt)
}
