package skill

import (
	"fmt"
	"math"
	"strings"
)

// Rituals describes what casting the spell requires at its current level.
// Non-spells and spells without an actor have no ritual text.
func (s *Skill) Rituals(a Actor) string {
	if a == nil || !s.Kind.IsSpell() {
		return ""
	}
	lvl := s.CalculateLevel(a)
	level := 0
	if lvl.Defined {
		level = lvl.Level
	}
	class := strings.ToLower(s.SpellClass)
	switch {
	case level < 10:
		return "Ritual: need both hands and both feet free and must speak; Time: 2x"
	case level < 15:
		return "Ritual: speak quietly and make a gesture"
	case level < 20:
		ritual := "Ritual: speak a word or make a gesture"
		if class == "blocking" {
			return ritual
		}
		return ritual + "; Cost: -1"
	default:
		adj := (level - 15) / 5
		ritual := "Ritual: none"
		if !strings.Contains(class, "missile") {
			ritual += fmt.Sprintf("; Time: x1/%d", int(math.Pow(2, float64(adj))))
		}
		if !strings.Contains(class, "blocking") {
			ritual += fmt.Sprintf("; Cost: -%d", adj+1)
		}
		return ritual
	}
}
