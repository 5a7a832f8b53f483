// Package mook parses free-text GURPS stat blocks ("mooks") into
// structured traits, skills, spells, equipment and attacks.
package mook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raianasancho/gcsga/internal/game/fxp"
)

// Section names a part of a stat block.
type Section string

const (
	Traits    Section = "traits"
	Skills    Section = "skills"
	Spells    Section = "spells"
	Equipment Section = "equipment"
	Melee     Section = "melee"
	Ranged    Section = "ranged"
	Catchall  Section = "catchall"
)

// Sections lists every section in display order.
var Sections = []Section{Traits, Skills, Spells, Equipment, Melee, Ranged, Catchall}

// Trait is a parsed advantage or disadvantage, e.g. "Bad Temper (12) [-10]".
type Trait struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Levels    int      `yaml:"levels,omitempty"`
	CR        int      `yaml:"cr,omitempty"`
	Points    int      `yaml:"points,omitempty"`
	HasPoints bool     `yaml:"-"`
	Notes     []string `yaml:"notes,omitempty"`
}

func (t Trait) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	if t.Levels > 0 {
		fmt.Fprintf(&b, " %d", t.Levels)
	}
	var paren []string
	if t.CR > 0 {
		paren = append(paren, strconv.Itoa(t.CR))
	}
	paren = append(paren, t.Notes...)
	if len(paren) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(paren, "; "))
	}
	if t.HasPoints {
		fmt.Fprintf(&b, " [%d]", t.Points)
	}
	return b.String()
}

// Skill is a parsed skill or spell, e.g. "Guns/TL8 (Pistol) (DX/E) [2]-13".
type Skill struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	TechLevel      string   `yaml:"tech_level,omitempty"`
	Specialization string   `yaml:"specialization,omitempty"`
	Attribute      string   `yaml:"attribute,omitempty"`
	Difficulty     string   `yaml:"difficulty,omitempty"`
	Relative       string   `yaml:"relative,omitempty"`
	Points         int      `yaml:"points,omitempty"`
	HasPoints      bool     `yaml:"-"`
	Level          int      `yaml:"level"`
	Notes          []string `yaml:"notes,omitempty"`
}

func (s Skill) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	if s.TechLevel != "" {
		b.WriteString("/TL" + s.TechLevel)
	}
	if s.Specialization != "" {
		fmt.Fprintf(&b, " (%s)", s.Specialization)
	}
	if s.Difficulty != "" {
		if s.Attribute != "" {
			fmt.Fprintf(&b, " (%s/%s)", strings.ToUpper(s.Attribute), strings.ToUpper(s.Difficulty))
		} else {
			fmt.Fprintf(&b, " (%s)", strings.ToUpper(s.Difficulty))
		}
	}
	if s.Relative != "" {
		b.WriteString(" " + s.Relative)
	}
	if s.HasPoints {
		fmt.Fprintf(&b, " [%d]", s.Points)
	}
	fmt.Fprintf(&b, "-%d", s.Level)
	return b.String()
}

// Item is a parsed piece of equipment, e.g. "Rope, 10 yd., $5, 1.5 lb.".
type Item struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Quantity int      `yaml:"quantity"`
	Value    fxp.Int  `yaml:"value,omitempty"`
	Weight   string   `yaml:"weight,omitempty"`
	Notes    []string `yaml:"notes,omitempty"`
}

func (it Item) String() string {
	parts := []string{it.Name}
	if it.Quantity > 1 {
		parts[0] = fmt.Sprintf("%s ×%d", it.Name, it.Quantity)
	}
	parts = append(parts, it.Notes...)
	if it.Value != 0 {
		parts = append(parts, "$"+it.Value.String())
	}
	if it.Weight != "" {
		parts = append(parts, it.Weight)
	}
	return strings.Join(parts, ", ")
}

// Attack is a parsed melee or ranged attack, e.g.
// "Broadsword (14): 2d+1 cut, Reach 1, Parry 10".
type Attack struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Level      int      `yaml:"level"`
	Damage     string   `yaml:"damage"`
	Reach      string   `yaml:"reach,omitempty"`
	Parry      string   `yaml:"parry,omitempty"`
	Block      string   `yaml:"block,omitempty"`
	Accuracy   string   `yaml:"accuracy,omitempty"`
	Range      string   `yaml:"range,omitempty"`
	RateOfFire string   `yaml:"rate_of_fire,omitempty"`
	Shots      string   `yaml:"shots,omitempty"`
	Bulk       string   `yaml:"bulk,omitempty"`
	Recoil     string   `yaml:"recoil,omitempty"`
	Strength   string   `yaml:"strength,omitempty"`
	Notes      []string `yaml:"notes,omitempty"`
}

func (a Attack) String() string {
	parts := []string{fmt.Sprintf("%s (%d): %s", a.Name, a.Level, a.Damage)}
	for _, kv := range a.fields() {
		if kv.value != "" {
			parts = append(parts, kv.key+" "+kv.value)
		}
	}
	parts = append(parts, a.Notes...)
	return strings.Join(parts, ", ")
}

type attackField struct {
	key   string
	value string
}

func (a Attack) fields() []attackField {
	return []attackField{
		{"Reach", a.Reach}, {"Parry", a.Parry}, {"Block", a.Block},
		{"Acc", a.Accuracy}, {"Range", a.Range}, {"RoF", a.RateOfFire},
		{"Shots", a.Shots}, {"Bulk", a.Bulk}, {"Rcl", a.Recoil}, {"ST", a.Strength},
	}
}

// Record is a parsed stat block.
type Record struct {
	Name string `yaml:"name,omitempty"`
	// Attributes holds the numeric scores keyed by attribute id, in the
	// order they appeared.
	Attributes []AttributeValue `yaml:"attributes,omitempty"`
	Traits     []Trait          `yaml:"traits,omitempty"`
	Skills     []Skill          `yaml:"skills,omitempty"`
	Spells     []Skill          `yaml:"spells,omitempty"`
	Equipment  []Item           `yaml:"equipment,omitempty"`
	Melee      []Attack         `yaml:"melee,omitempty"`
	Ranged     []Attack         `yaml:"ranged,omitempty"`
	Catchall   []string         `yaml:"catchall,omitempty"`
}

// AttributeValue is one score from the attribute lines.
type AttributeValue struct {
	ID    string  `yaml:"id"`
	Value fxp.Int `yaml:"value"`
}

// Attribute returns the parsed value of id.
func (r *Record) Attribute(id string) (fxp.Int, bool) {
	for _, a := range r.Attributes {
		if a.ID == id {
			return a.Value, true
		}
	}
	return 0, false
}

// Text renders each section back to text, one entry per line.
func (r *Record) Text() map[Section]string {
	out := make(map[Section]string, len(Sections))
	out[Traits] = joinLines(r.Traits)
	out[Skills] = joinLines(r.Skills)
	out[Spells] = joinLines(r.Spells)
	out[Equipment] = joinLines(r.Equipment)
	out[Melee] = joinLines(r.Melee)
	out[Ranged] = joinLines(r.Ranged)
	out[Catchall] = strings.Join(r.Catchall, "\n")
	return out
}

func joinLines[T fmt.Stringer](entries []T) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
