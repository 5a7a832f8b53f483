// Package attribute defines character attributes and resolves their values
// from definitions whose base is a formula.
package attribute

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raianasancho/gcsga/internal/game/fxp"
)

// Type is how an attribute's value is stored and shown.
type Type string

const (
	Integer Type = "integer"
	Decimal Type = "decimal"
	Pool    Type = "pool"
)

// ReservedIDs cannot be used as attribute ids because formulas and weapon
// defaults already give them meaning.
var ReservedIDs = []string{"skill", "parry", "block", "dodge", "sm", "10"}

// Def describes an attribute.
type Def struct {
	ID           string `yaml:"id"`
	Type         Type   `yaml:"type"`
	Name         string `yaml:"name"`
	FullName     string `yaml:"full_name,omitempty"`
	Base         string `yaml:"base"`
	CostPerPoint int    `yaml:"cost_per_point,omitempty"`
}

// CombinedName returns "Full Name (Name)", or whichever of the two is set.
func (d *Def) CombinedName() string {
	switch {
	case d.FullName == "":
		return d.Name
	case d.Name == "" || d.Name == d.FullName:
		return d.FullName
	default:
		return fmt.Sprintf("%s (%s)", d.FullName, d.Name)
	}
}

// Validate checks the definition's invariants.
//
// Postcondition: returns nil iff ID is a sanitized, unreserved id, Name is
// set and Type is known.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" || SanitizeID(d.ID, false, ReservedIDs) != d.ID {
		errs = append(errs, fmt.Errorf("id %q is not a valid attribute id", d.ID))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch d.Type {
	case Integer, Decimal, Pool:
	default:
		errs = append(errs, fmt.Errorf("type must be one of integer, decimal, pool; got %q", d.Type))
	}
	if len(errs) > 0 {
		return fmt.Errorf("attribute %q validation failed: %v", d.ID, errs)
	}
	return nil
}

// SanitizeID lowercases id and strips everything but letters, digits and
// underscores. Leading digits are dropped unless permitLeadingDigits is
// set. Underscores are appended until the result is not reserved.
func SanitizeID(id string, permitLeadingDigits bool, reserved []string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(id) {
		switch {
		case ch == '_' || (ch >= 'a' && ch <= 'z'):
			b.WriteRune(ch)
		case ch >= '0' && ch <= '9' && (permitLeadingDigits || b.Len() > 0):
			b.WriteRune(ch)
		}
	}
	out := b.String()
	if out == "" {
		out = "_"
	}
	for isReserved(out, reserved) {
		out += "_"
	}
	return out
}

func isReserved(id string, reserved []string) bool {
	for _, r := range reserved {
		if r == id {
			return true
		}
	}
	return false
}

// Attribute is a character's stored adjustment to an attribute.
type Attribute struct {
	ID     string  `yaml:"attr_id"`
	Adj    fxp.Int `yaml:"adj"`
	Damage fxp.Int `yaml:"damage,omitempty"`
}

//go:embed defaults.yaml
var defaultDefs []byte

// DefaultDefs returns the standard attribute set.
func DefaultDefs() []*Def {
	defs, err := ParseDefs(defaultDefs)
	if err != nil {
		panic("attribute: embedded defaults are invalid: " + err.Error())
	}
	return defs
}

// ParseDefs decodes and validates a YAML list of definitions.
func ParseDefs(data []byte) ([]*Def, error) {
	var defs []*Def
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("ParseDefs: %w", err)
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("ParseDefs: %w", err)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("ParseDefs: duplicate attribute id %q", d.ID)
		}
		seen[d.ID] = true
	}
	return defs, nil
}
