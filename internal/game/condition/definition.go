// Package condition tracks temporary states, such as shock or pain, that
// lower a character's effective attributes without touching their scores.
package condition

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Duration types.
const (
	DurationRounds       = "rounds"
	DurationPermanent    = "permanent"
	DurationUntilRemoved = "until_removed"
)

//go:embed data/conditions.yaml
var standardConditions []byte

// Def is the static definition of a condition.
type Def struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	DurationType string `yaml:"duration_type"`
	// MaxStacks of 0 means the condition does not stack.
	MaxStacks int `yaml:"max_stacks"`
	// AttributePenalties is subtracted from each named attribute's
	// effective value once per stack.
	AttributePenalties map[string]int `yaml:"attribute_penalties"`
	Reference          string         `yaml:"reference"`
}

// Validate checks required fields.
func (d *Def) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	switch d.DurationType {
	case DurationRounds, DurationPermanent, DurationUntilRemoved:
	default:
		errs = append(errs, fmt.Sprintf("duration_type %q is not one of rounds, permanent, until_removed", d.DurationType))
	}
	if d.MaxStacks < 0 {
		errs = append(errs, "max_stacks must be >= 0")
	}
	for id, p := range d.AttributePenalties {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("attribute_penalties[%s] must be >= 0", id))
		}
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("condition %q validation failed: %s", d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Registry holds condition definitions keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def, replacing any definition with the same ID.
//
// Precondition: def must not be nil.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the definition for id.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns the definitions sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Parse decodes a YAML list of definitions into a Registry.
//
// Postcondition: Returns a Registry or the first decode/validation error.
func Parse(data []byte) (*Registry, error) {
	var defs []*Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing conditions: %w", err)
	}
	reg := NewRegistry()
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		reg.Register(d)
	}
	return reg, nil
}

// Standard returns the built-in conditions.
func Standard() *Registry {
	reg, err := Parse(standardConditions)
	if err != nil {
		panic("condition: embedded definitions invalid: " + err.Error())
	}
	return reg
}

// LoadDirectory reads every *.yaml file in dir as a list of definitions
// and merges them into one Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		part, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		for _, d := range part.All() {
			reg.Register(d)
		}
	}
	return reg, nil
}
