package skill

import (
	"fmt"
	"strconv"

	"github.com/raianasancho/gcsga/internal/game/feature"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/tooltip"
)

// MaxPointsSearch caps the upward search in PointsForLevel.
const MaxPointsSearch = 100

// Kind distinguishes skill-like items. Techniques behave as skills and
// ritual magic spells as spells.
type Kind string

const (
	KindSkill            Kind = "skill"
	KindTechnique        Kind = "technique"
	KindSpell            Kind = "spell"
	KindRitualMagicSpell Kind = "ritual_magic_spell"
)

// IsPlainSkill reports whether k is an ordinary skill. An unset kind is a
// skill.
func (k Kind) IsPlainSkill() bool {
	return k == KindSkill || k == ""
}

// IsSpell reports whether k takes spell bonuses.
func (k Kind) IsSpell() bool {
	return k == KindSpell || k == KindRitualMagicSpell
}

// Actor is the character a skill belongs to.
type Actor interface {
	// AttributeCurrent returns the current value of attribute id, or false
	// when the actor has no such attribute.
	AttributeCurrent(id string) (int, bool)
	// AttributeEffective returns the effective value of attribute id.
	AttributeEffective(id string) (int, bool)
	// AttributeName returns the short display name of attribute id.
	AttributeName(id string) string
	// EncumbranceLevel returns the encumbrance level, 0 (None) to 4
	// (Extra-Heavy).
	EncumbranceLevel(forSkills bool) int
	// Features returns the actor's active features.
	Features() feature.List
}

// Skill is a skill, technique or spell. Only Points is authoritative; Level
// is a cache of CalculateLevel.
type Skill struct {
	ID                           string     `yaml:"id,omitempty"`
	Kind                         Kind       `yaml:"kind"`
	Name                         string     `yaml:"name"`
	Specialization               string     `yaml:"specialization,omitempty"`
	TechLevel                    string     `yaml:"tech_level,omitempty"`
	TechLevelRequired            bool       `yaml:"tech_level_required,omitempty"`
	Attribute                    string     `yaml:"attribute"`
	Difficulty                   Difficulty `yaml:"difficulty"`
	Points                       int        `yaml:"points"`
	EncumbrancePenaltyMultiplier int        `yaml:"encumbrance_penalty_multiplier,omitempty"`
	Tags                         []string   `yaml:"tags,omitempty"`
	Colleges                     []string   `yaml:"college,omitempty"`
	PowerSource                  string     `yaml:"power_source,omitempty"`
	SpellClass                   string     `yaml:"spell_class,omitempty"`
	Notes                        string     `yaml:"notes,omitempty"`
	Studies                      []Study    `yaml:"study,omitempty"`
	StudyHoursNeeded             int        `yaml:"study_hours_needed,omitempty"`

	Level Level `yaml:"-"`
}

// FormattedName returns the name with its tech level and specialization,
// e.g. "Guns/TL8 (Pistol)".
func (s *Skill) FormattedName() string {
	name := s.Name
	if s.TechLevelRequired {
		name += "/TL" + s.TechLevel
	}
	if s.Specialization != "" {
		name += " (" + s.Specialization + ")"
	}
	return name
}

// levelAt computes the level s would have with points invested.
//
// Postcondition: points < 1 (after the wildcard division) or a nil actor
// yields an undefined level.
func (s *Skill) levelAt(a Actor, points int, tt *tooltip.Tooltip) Level {
	relative := s.Difficulty.BaseRelativeLevel()
	if a == nil {
		return Level{RelativeLevel: relative, Tooltip: tt}
	}
	attr, ok := a.AttributeCurrent(s.Attribute)
	if !ok {
		return Level{Tooltip: tt}
	}
	if s.Difficulty == Wildcard {
		points /= 3
	}
	switch {
	case points == 1:
	case points > 1 && points < 4:
		relative++
	case points >= 4:
		relative += 1 + points/4
	default:
		return Level{Tooltip: tt}
	}
	relative = (fxp.FromInteger(relative) + s.bonus(a, tt)).Trunc().AsInt()
	return Level{Level: attr + relative + s.EncumbrancePenalty(a, tt), RelativeLevel: relative, Defined: true, Tooltip: tt}
}

// EncumbrancePenalty is the level penalty for skills hampered by
// encumbrance: the encumbrance level times the skill's multiplier, negated.
// Techniques and spells never pay it.
func (s *Skill) EncumbrancePenalty(a Actor, tt *tooltip.Tooltip) int {
	if !s.Kind.IsPlainSkill() || s.EncumbrancePenaltyMultiplier <= 0 || a == nil {
		return 0
	}
	enc := a.EncumbranceLevel(true)
	if enc <= 0 {
		return 0
	}
	penalty := -enc * s.EncumbrancePenaltyMultiplier
	tt.Push("Encumbrance [", strconv.Itoa(penalty), "]")
	return penalty
}

func (s *Skill) bonus(a Actor, tt *tooltip.Tooltip) fxp.Int {
	features := a.Features()
	if s.Kind.IsSpell() {
		return features.SpellBonusFor(feature.SpellBonus, s.Name, s.PowerSource, s.Colleges, s.Tags, tt)
	}
	return features.SkillBonusFor(feature.SkillBonus, s.Name, s.Specialization, s.Tags, tt)
}

// CalculateLevel computes the level from the current points, tracing every
// bonus that contributed.
func (s *Skill) CalculateLevel(a Actor) Level {
	return s.levelAt(a, s.Points, tooltip.New())
}

// UpdateLevel refreshes the cached Level and reports whether it changed.
func (s *Skill) UpdateLevel(a Actor) bool {
	saved := s.Level
	s.Level = s.CalculateLevel(a)
	return saved.Compare(s.Level) != 0
}

// EffectiveLevel adjusts the level for the difference between the
// attribute's current and effective values.
//
// Postcondition: undefined levels stay undefined.
func (s *Skill) EffectiveLevel(a Actor) Level {
	lvl := s.CalculateLevel(a)
	if !lvl.Defined {
		return lvl
	}
	current, ok := a.AttributeCurrent(s.Attribute)
	if !ok {
		return Undefined()
	}
	effective, ok := a.AttributeEffective(s.Attribute)
	if !ok {
		return Undefined()
	}
	lvl.Level = lvl.Level - current + effective
	return lvl
}

// RelativeLevelText renders the level relative to the attribute, e.g.
// "DX+2", or "-" when undefined.
func (s *Skill) RelativeLevelText(a Actor) string {
	lvl := s.CalculateLevel(a)
	if !lvl.Defined {
		return "-"
	}
	return fmt.Sprintf("%s%+d", a.AttributeName(s.Attribute), lvl.RelativeLevel)
}

// AdjustedPoints adds point bonuses from features, clamped at zero.
func (s *Skill) AdjustedPoints(a Actor, tt *tooltip.Tooltip) int {
	points := s.Points
	if a == nil {
		return points
	}
	features := a.Features()
	var bonus fxp.Int
	if s.Kind.IsSpell() {
		bonus = features.SpellBonusFor(feature.SpellPointBonus, s.Name, s.PowerSource, s.Colleges, s.Tags, tt)
	} else {
		bonus = features.SkillBonusFor(feature.SkillPointBonus, s.Name, s.Specialization, s.Tags, tt)
	}
	points += bonus.AsInt()
	if points < 0 {
		points = 0
	}
	return points
}

// IncrementLevel raises Points to the smallest value within the search
// window that yields a higher level.
//
// Postcondition: returns true iff Points changed; Level is refreshed on
// change.
func (s *Skill) IncrementLevel(a Actor) bool {
	base := s.Points + 1
	limit := base + s.Difficulty.searchWindow()
	old := s.levelAt(a, s.Points, nil)
	for points := base; points < limit; points++ {
		if s.levelAt(a, points, nil).Compare(old) > 0 {
			s.Points = points
			s.UpdateLevel(a)
			return true
		}
	}
	return false
}

// DecrementLevel lowers Points to the smallest value that still yields the
// next lower level.
//
// The first pass walks down through the search window until the level
// drops. The second pass keeps walking down while the level holds, then
// steps back up one. When the first pass reaches zero points the second
// pass does not run and Points stays at zero.
//
// Postcondition: returns true iff Points changed.
func (s *Skill) DecrementLevel(a Actor) bool {
	if s.Points <= 0 {
		return false
	}
	original := s.Points
	minPoints := s.Points - s.Difficulty.searchWindow()
	if minPoints < 0 {
		minPoints = 0
	}

	old := s.levelAt(a, s.Points, nil)
	points := s.Points
	for ; points >= minPoints; points-- {
		if s.levelAt(a, points, nil).Compare(old) < 0 {
			break
		}
	}
	if points < minPoints {
		points = minPoints
	}

	if points > 0 {
		held := s.levelAt(a, points, nil)
		for points > 0 {
			points--
			if s.levelAt(a, points, nil).Compare(held) != 0 {
				points++
				break
			}
		}
	}

	s.Points = points
	s.UpdateLevel(a)
	return s.Points != original
}

// PointsForLevel finds the point value that yields target. Searching down
// stops at 0 and returns 0 when nothing matches; searching up is capped at
// MaxPointsSearch.
func (s *Skill) PointsForLevel(a Actor, target int) int {
	current := s.levelAt(a, s.Points, nil)
	if current.Defined && current.Level > target {
		for points := s.Points; points > 0; points-- {
			if s.levelAt(a, points, nil).Is(target) {
				return points
			}
		}
		return 0
	}
	for points := s.Points; points < MaxPointsSearch; points++ {
		if s.levelAt(a, points, nil).Is(target) {
			return points
		}
	}
	return MaxPointsSearch
}

// SetLevel sets Points to PointsForLevel(target) and refreshes Level.
func (s *Skill) SetLevel(a Actor, target int) {
	s.Points = s.PointsForLevel(a, target)
	s.UpdateLevel(a)
}
