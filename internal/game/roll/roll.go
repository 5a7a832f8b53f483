// Package roll resolves GURPS rolls: success rolls against a level, damage
// rolls, random hit locations and free dice formulas. Each roll type is
// handled by a Handler record looked up in a fixed table.
package roll

import (
	"fmt"

	"github.com/raianasancho/gcsga/internal/game/modifier"
)

// Type tags a roll request and selects its handler.
type Type string

const (
	Attribute     Type = "attribute"
	Skill         Type = "skill"
	SkillRelative Type = "skill_rsl"
	Spell         Type = "spell"
	SpellRelative Type = "spell_rsl"
	ControlRoll   Type = "control_roll"
	Attack        Type = "attack"
	Parry         Type = "parry"
	Block         Type = "block"
	Damage        Type = "damage"
	Location      Type = "location"
	Generic       Type = "generic"
	Modifier      Type = "modifier"
)

// Types lists every roll type in display order.
var Types = []Type{
	Attribute, Skill, SkillRelative, Spell, SpellRelative, ControlRoll,
	Attack, Parry, Block, Damage, Location, Generic, Modifier,
}

// ParseType validates a roll type name.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Success is the tier of a success roll.
type Success string

const (
	Succeeded       Success = "success"
	Failed          Success = "failure"
	CriticalSuccess Success = "critical_success"
	CriticalFailure Success = "critical_failure"
)

// IsSuccess reports whether s is a (critical) success.
func (s Success) IsSuccess() bool {
	return s == Succeeded || s == CriticalSuccess
}

// Label is the display text for s.
func (s Success) Label() string {
	switch s {
	case Succeeded:
		return "Success"
	case Failed:
		return "Failure"
	case CriticalSuccess:
		return "Critical Success"
	case CriticalFailure:
		return "Critical Failure"
	default:
		return ""
	}
}

// GetSuccess classifies a 3d6 roll total against level. The first matching
// rule wins:
//
//  1. 18 is a critical failure.
//  2. 3 or 4 is a critical success.
//  3. 5 is a critical success at level 15+.
//  4. 6 is a critical success at level 16+.
//  5. 17 is a critical failure at level 15 or less.
//  6. Missing by 10 or more is a critical failure.
//  7. Rolling level or less is a success.
//  8. Anything else is a failure.
func GetSuccess(level, total int) Success {
	switch {
	case total == 18:
		return CriticalFailure
	case total <= 4:
		return CriticalSuccess
	case level >= 15 && total <= 5:
		return CriticalSuccess
	case level >= 16 && total <= 6:
		return CriticalSuccess
	case level <= 15 && total == 17:
		return CriticalFailure
	case total-level >= 10:
		return CriticalFailure
	case level >= total:
		return Succeeded
	default:
		return Failed
	}
}

// Margin describes how far a roll landed from its level.
//
// Invariant: Value >= 0; the sign lives in Class and Modifier.
type Margin struct {
	Value int    `json:"value"`
	Class string `json:"class"`
	Text  string `json:"text"`
	// Modifier is the margin as a modifier that can be dragged onto the
	// stack for a follow-up roll, e.g. a quick contest.
	Modifier modifier.Modifier `json:"modifier"`
}

// GetMargin classifies the roll and describes its margin. name labels the
// margin modifier.
//
// Postcondition: the returned Margin.Value == |level - total|.
func GetMargin(name string, level, total int) (Success, Margin) {
	success := GetSuccess(level, total)
	value := level - total
	if value < 0 {
		value = -value
	}
	m := Margin{
		Value:    value,
		Class:    modifier.ClassZero,
		Text:     "Just made it",
		Modifier: modifier.Modifier{Name: "Success from " + name, Modifier: value},
	}
	switch {
	case !success.IsSuccess():
		m.Class = modifier.ClassNegative
		m.Text = fmt.Sprintf("Failed by %d", value)
		m.Modifier = modifier.Modifier{Name: "Failure from " + name, Modifier: -value}
	case value > 0:
		m.Class = modifier.ClassPositive
		m.Text = fmt.Sprintf("Succeeded by %d", value)
	}
	return success, m
}

// Outcome is the result of a success roll.
type Outcome struct {
	Success        Success `json:"success"`
	Margin         int     `json:"margin"`
	EffectiveLevel int     `json:"effective_level"`
}

// EncumbranceName names an encumbrance level.
func EncumbranceName(level int) string {
	switch {
	case level <= 0:
		return "None"
	case level == 1:
		return "Light"
	case level == 2:
		return "Medium"
	case level == 3:
		return "Heavy"
	default:
		return "Extra-Heavy"
	}
}
