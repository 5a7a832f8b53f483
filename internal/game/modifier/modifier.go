// Package modifier holds roll modifiers and the per-user modifier stack
// that is applied to, and cleared by, the next roll.
package modifier

import (
	"regexp"
	"strconv"
	"strings"
)

// Display classes for a modifier or margin.
const (
	ClassPositive = "pos"
	ClassNegative = "neg"
	ClassZero     = "zero"
)

// ClassOf returns the display class for the signed value n.
func ClassOf(n int) string {
	switch {
	case n > 0:
		return ClassPositive
	case n < 0:
		return ClassNegative
	default:
		return ClassZero
	}
}

// Cost is a resource spent when the modifier is used, e.g. fatigue points.
type Cost struct {
	ID    string `yaml:"id" json:"id"`
	Value int    `yaml:"value" json:"value"`
}

// Modifier is a named signed adjustment to a roll.
type Modifier struct {
	Name      string   `yaml:"name" json:"name"`
	Modifier  int      `yaml:"modifier" json:"modifier"`
	Max       int      `yaml:"max,omitempty" json:"max,omitempty"`
	Tags      []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Cost      *Cost    `yaml:"cost,omitempty" json:"cost,omitempty"`
	Reference string   `yaml:"reference,omitempty" json:"reference,omitempty"`
}

// Class is the modifier's display class.
func (m Modifier) Class() string {
	return ClassOf(m.Modifier)
}

// String renders "+2 Aim".
func (m Modifier) String() string {
	s := strconv.Itoa(m.Modifier)
	if m.Modifier > 0 {
		s = "+" + s
	}
	if m.Name != "" {
		s += " " + m.Name
	}
	return s
}

var customPrefix = regexp.MustCompile(`^[-+]?[0-9]+\s*`)

// ParseCustom reads free text such as "+2 aim" or "-4 darkness". The
// leading signed integer is the modifier and the remainder its name.
// Returns false when the text has no leading number or the number is 0.
func ParseCustom(text string) (Modifier, bool) {
	loc := customPrefix.FindStringIndex(text)
	if loc == nil {
		return Modifier{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(text[loc[0]:loc[1]]))
	if err != nil || n == 0 {
		return Modifier{}, false
	}
	return Modifier{Name: text[loc[1]:], Modifier: n, Tags: []string{}}, true
}

// Total sums the modifiers.
func Total(mods []Modifier) int {
	total := 0
	for _, m := range mods {
		total += m.Modifier
	}
	return total
}

// Merge returns list with m added. A modifier with the same name as an
// existing entry is folded into it; an entry whose value reaches 0 is
// dropped. Max, when set, caps the magnitude of the folded value.
//
// Postcondition: list is not modified; order of surviving entries is kept.
func Merge(list []Modifier, m Modifier) []Modifier {
	out := make([]Modifier, 0, len(list)+1)
	merged := false
	for _, e := range list {
		if !merged && strings.EqualFold(e.Name, m.Name) {
			merged = true
			e.Modifier = clampMax(e.Modifier+m.Modifier, e.Max)
			if e.Modifier == 0 {
				continue
			}
		}
		out = append(out, e)
	}
	if !merged && m.Modifier != 0 {
		m.Modifier = clampMax(m.Modifier, m.Max)
		out = append(out, m)
	}
	return out
}

// Consume takes the amounts in used back out of list, matching entries by
// name. Entries that reach 0 are dropped and names no longer in list are
// skipped.
//
// Postcondition: list is not modified.
func Consume(list, used []Modifier) []Modifier {
	out := append([]Modifier(nil), list...)
	for _, u := range used {
		for i, e := range out {
			if !strings.EqualFold(e.Name, u.Name) {
				continue
			}
			out[i].Modifier -= u.Modifier
			if out[i].Modifier == 0 {
				out = append(out[:i:i], out[i+1:]...)
			}
			break
		}
	}
	return out
}

func clampMax(v, max int) int {
	if max <= 0 {
		return v
	}
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}
