package roll

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/hitlocation"
	"github.com/raianasancho/gcsga/internal/game/modifier"
	"github.com/raianasancho/gcsga/internal/game/skill"
	"github.com/raianasancho/gcsga/internal/game/weapon"
)

// Actor is the character making a roll.
type Actor interface {
	skill.Actor
	weapon.Actor
	ActorID() string
	HitLocationTable() *hitlocation.Table
}

// AttributeRef is an attribute roll target.
type AttributeRef struct {
	ID        string
	Name      string // combined display name, e.g. "Strength (ST)"
	Effective int
}

// ControlRef is a self-control roll target.
type ControlRef struct {
	ID   string
	Name string
	CR   int
}

// LevelFunc supplies a level, or false when none can be computed.
type LevelFunc func() (int, bool)

// FixedLevel returns a LevelFunc that always yields n.
func FixedLevel(n int) LevelFunc {
	return func() (int, bool) { return n, true }
}

// Request asks the dispatcher for one roll. Which target field is read
// depends on Type.
type Request struct {
	UserID  string
	Actor   Actor
	Type    Type
	Formula string
	Hidden  bool
	// Times repeats a damage roll; values below 1 mean once.
	Times int

	// Comment and Modifier describe the entry pushed by a Modifier request.
	Comment  string
	Modifier int

	Attribute *AttributeRef
	Skill     *skill.Skill
	Control   *ControlRef
	Weapon    *weapon.Weapon
	// Level overrides the weapon's computed skill level for attacks.
	Level LevelFunc
}

func (r *Request) actorID() string {
	if r.Actor == nil {
		return ""
	}
	return r.Actor.ActorID()
}

// Handler is the per-type behaviour of the shared success-roll template.
// Nil fields fall back to the defaults; a non-nil Handle replaces the
// template entirely.
type Handler struct {
	IsValid              func(r *Request) bool
	Level                func(r *Request) int
	Name                 func(r *Request) string
	Type                 func(r *Request) Type
	ModifyForEncumbrance func(r *Request, enc int, mods []modifier.Modifier, level int) ([]modifier.Modifier, int)
	ItemData             func(r *Request) ItemData
	ExtraData            func(r *Request, res *Result) *Extra
	// DisplayName formats the name and level for the result header.
	DisplayName func(name string, level int) string

	Handle func(ctx context.Context, d *Dispatcher, r *Request) (*Result, error)
}

func (h Handler) isValid(r *Request) bool {
	if h.IsValid == nil {
		return true
	}
	return h.IsValid(r)
}

func (h Handler) level(r *Request) int {
	if h.Level == nil {
		return 0
	}
	return h.Level(r)
}

func (h Handler) name(r *Request) string {
	if h.Name == nil {
		return string(r.Type)
	}
	return h.Name(r)
}

func (h Handler) rollType(r *Request) Type {
	if h.Type == nil {
		return r.Type
	}
	return h.Type(r)
}

func (h Handler) modifyForEncumbrance(r *Request, enc int, mods []modifier.Modifier, level int) ([]modifier.Modifier, int) {
	if h.ModifyForEncumbrance == nil {
		return mods, level
	}
	return h.ModifyForEncumbrance(r, enc, mods, level)
}

func (h Handler) itemData(r *Request) ItemData {
	if h.ItemData == nil {
		return ItemData{}
	}
	return h.ItemData(r)
}

func (h Handler) extraData(r *Request, res *Result) *Extra {
	if h.ExtraData == nil {
		return nil
	}
	return h.ExtraData(r, res)
}

func (h Handler) displayName(name string, level int) string {
	if h.DisplayName == nil {
		return fmt.Sprintf("%s - %d", name, level)
	}
	return h.DisplayName(name, level)
}

// DefaultHandlers returns the handler table for every roll type.
func DefaultHandlers() map[Type]Handler {
	skillHandler := Handler{
		IsValid: func(r *Request) bool {
			return r.Skill != nil && r.Skill.EffectiveLevel(r.Actor).Defined
		},
		Level: func(r *Request) int {
			return r.Skill.EffectiveLevel(r.Actor).Level
		},
		Name: func(r *Request) string { return r.Skill.FormattedName() },
		Type: func(r *Request) Type {
			if r.Skill.Kind.IsSpell() {
				return Spell
			}
			return Skill
		},
		ModifyForEncumbrance: func(r *Request, enc int, mods []modifier.Modifier, level int) ([]modifier.Modifier, int) {
			if !r.Skill.Kind.IsPlainSkill() || r.Skill.EncumbrancePenaltyMultiplier <= 0 || enc <= 0 {
				return mods, level
			}
			penalty := -enc * r.Skill.EncumbrancePenaltyMultiplier
			encMod := modifier.Modifier{Name: "Encumbrance: " + EncumbranceName(enc), Modifier: penalty, Tags: []string{}}
			return append([]modifier.Modifier{encMod}, mods...), level - penalty
		},
		ItemData: func(r *Request) ItemData {
			return ItemData{ID: r.Skill.ID, Name: r.Skill.Name, Specialization: r.Skill.Specialization, Kind: string(r.Skill.Kind)}
		},
	}

	return map[Type]Handler{
		Attribute: {
			IsValid: func(r *Request) bool { return r.Attribute != nil },
			Level:   func(r *Request) int { return r.Attribute.Effective },
			Name:    func(r *Request) string { return r.Attribute.Name },
			ItemData: func(r *Request) ItemData {
				return ItemData{ID: r.Attribute.ID}
			},
		},
		Skill:         skillHandler,
		SkillRelative: skillHandler,
		Spell:         skillHandler,
		SpellRelative: skillHandler,
		ControlRoll: {
			IsValid: func(r *Request) bool { return r.Control != nil },
			Level:   func(r *Request) int { return r.Control.CR },
			Name:    func(r *Request) string { return r.Control.Name },
			ItemData: func(r *Request) ItemData {
				return ItemData{ID: r.Control.ID, Name: r.Control.Name}
			},
			DisplayName: func(name string, level int) string {
				return fmt.Sprintf("%s - CR: %d", name, level)
			},
		},
		Attack: {
			IsValid: func(r *Request) bool {
				if r.Weapon == nil {
					return false
				}
				_, ok := attackLevel(r)
				return ok
			},
			Level: func(r *Request) int {
				level, _ := attackLevel(r)
				return level
			},
			Name:      weaponName,
			ItemData:  weaponItemData,
			ExtraData: attackExtra,
		},
		Parry: {
			IsValid: func(r *Request) bool {
				_, ok := defenseLevel(r, weapon.ParryTrait)
				return ok
			},
			Level: func(r *Request) int {
				level, _ := defenseLevel(r, weapon.ParryTrait)
				return level
			},
			Name:     func(r *Request) string { return "Parry (" + r.Weapon.FormattedName() + ")" },
			Type:     func(*Request) Type { return Attack },
			ItemData: weaponItemData,
		},
		Block: {
			IsValid: func(r *Request) bool {
				_, ok := defenseLevel(r, weapon.BlockTrait)
				return ok
			},
			Level: func(r *Request) int {
				level, _ := defenseLevel(r, weapon.BlockTrait)
				return level
			},
			Name:     func(r *Request) string { return "Block (" + r.Weapon.FormattedName() + ")" },
			Type:     func(*Request) Type { return Attack },
			ItemData: weaponItemData,
		},
		Damage:   {Handle: handleDamage},
		Location: {Handle: handleLocation},
		Generic:  {Handle: handleGeneric},
		Modifier: {Handle: handleModifier},
	}
}

func attackLevel(r *Request) (int, bool) {
	if r.Level != nil {
		return r.Level()
	}
	if r.Weapon == nil {
		return 0, false
	}
	return r.Weapon.SkillLevel(r.Actor, nil)
}

// defenseLevel reads the resolved Block or Parry text the way a sheet
// shows it. "No" and an empty value are not rollable.
func defenseLevel(r *Request, kind weapon.TraitKind) (int, bool) {
	if r.Weapon == nil || r.Actor == nil {
		return 0, false
	}
	current := weapon.Resolve(kind, r.Weapon, r.Actor, nil).String()
	if current == "" {
		return 0, false
	}
	digits := strings.TrimRight(current, "FU")
	level, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return level, true
}

func weaponName(r *Request) string {
	name := r.Weapon.FormattedName()
	if r.Weapon.OwnerName != "" && r.Weapon.Usage != "" {
		name += " - " + r.Weapon.Usage
	}
	return name
}

func weaponItemData(r *Request) ItemData {
	w := r.Weapon
	d := ItemData{ID: w.ID, Name: w.FormattedName(), Usage: w.Usage, Damage: w.Damage, Kind: string(w.Kind)}
	if w.Kind == weapon.Ranged {
		d.RateOfFire = w.RateOfFire
		d.Recoil = w.Recoil
	}
	return d
}

// attackExtra reports potential hits for rapid-fire ranged attacks and a
// reference for the follow-up damage roll. Potential hits follow the size
// of the margin whether the attack hit or missed.
func attackExtra(r *Request, res *Result) *Extra {
	w := r.Weapon
	extra := &Extra{Damage: &DamageRef{WeaponID: w.ID, Attacker: res.ActorID, Damage: w.Damage}}
	if w.Kind != weapon.Ranged || res.Outcome == nil {
		return extra
	}
	recoil := fxp.Extract(w.Recoil).Trunc().AsInt()
	rof := weapon.EffectiveRateOfFire(w.RateOfFire)
	if res.Outcome.Margin <= 0 || recoil <= 0 || rof <= 0 {
		return extra
	}
	hits := min(res.Outcome.Margin/recoil+1, rof)
	if hits > 1 {
		extra.Ranged = &RangedExtra{RateOfFire: w.RateOfFire, Recoil: w.Recoil, PotentialHits: hits}
	}
	return extra
}
