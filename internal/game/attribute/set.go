package attribute

import (
	"errors"
	"fmt"

	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/scripting"
)

// ErrUnknownAttribute is returned for ids with no definition.
var ErrUnknownAttribute = errors.New("unknown attribute")

// ErrCircularFormula is returned when base formulas reference each other.
var ErrCircularFormula = errors.New("circular attribute formula")

// BonusFunc returns the feature bonus for an attribute id.
type BonusFunc func(id string) fxp.Int

// Set resolves a character's attribute values. It is not safe for
// concurrent use.
type Set struct {
	defs      []*Def
	byID      map[string]*Def
	values    map[string]*Attribute
	evaluator *scripting.Evaluator

	// Bonus adds feature bonuses to the maximum; Effective adds temporary
	// adjustments to the effective value. Either may be nil.
	Bonus     BonusFunc
	Effective BonusFunc

	resolving map[string]bool
}

// NewSet pairs defs with the stored values. Definitions without a stored
// value get a zero adjustment.
//
// Precondition: evaluator must be non-nil.
func NewSet(defs []*Def, values []*Attribute, evaluator *scripting.Evaluator) *Set {
	s := &Set{
		defs:      defs,
		byID:      make(map[string]*Def, len(defs)),
		values:    make(map[string]*Attribute, len(defs)),
		evaluator: evaluator,
		resolving: make(map[string]bool),
	}
	for _, d := range defs {
		s.byID[d.ID] = d
		s.values[d.ID] = &Attribute{ID: d.ID}
	}
	for _, v := range values {
		if _, ok := s.byID[v.ID]; ok {
			s.values[v.ID] = v
		}
	}
	return s
}

// Defs returns the definitions in order.
func (s *Set) Defs() []*Def {
	return s.defs
}

// Def returns the definition for id.
func (s *Set) Def(id string) (*Def, bool) {
	d, ok := s.byID[id]
	return d, ok
}

// Attribute returns the stored value for id.
func (s *Set) Attribute(id string) (*Attribute, bool) {
	a, ok := s.values[id]
	return a, ok
}

// Base evaluates the definition's base formula.
func (s *Set) Base(id string) (fxp.Int, error) {
	d, ok := s.byID[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, id)
	}
	if s.resolving[id] {
		return 0, fmt.Errorf("%w: %q", ErrCircularFormula, id)
	}
	s.resolving[id] = true
	defer delete(s.resolving, id)
	v, err := s.evaluator.Evaluate(d.Base, s)
	if err != nil {
		return 0, fmt.Errorf("attribute %q base: %w", id, err)
	}
	return v, nil
}

// Max is base + adjustment + feature bonus. Integer and pool attributes are
// truncated.
func (s *Set) Max(id string) (fxp.Int, error) {
	base, err := s.Base(id)
	if err != nil {
		return 0, err
	}
	v := base + s.values[id].Adj
	if s.Bonus != nil {
		v += s.Bonus(id)
	}
	if s.byID[id].Type != Decimal {
		v = v.Trunc()
	}
	return v, nil
}

// Current is Max less damage for pools, or Max otherwise.
func (s *Set) Current(id string) (fxp.Int, error) {
	v, err := s.Max(id)
	if err != nil {
		return 0, err
	}
	if s.byID[id].Type == Pool {
		v -= s.values[id].Damage
	}
	return v, nil
}

// EffectiveValue is Current plus temporary adjustments.
func (s *Set) EffectiveValue(id string) (fxp.Int, error) {
	v, err := s.Current(id)
	if err != nil {
		return 0, err
	}
	if s.Effective != nil {
		v += s.Effective(id)
	}
	return v, nil
}

// Resolve implements scripting.Resolver over attribute maxima so that
// formulas can reference other attributes by id.
func (s *Set) Resolve(name string) (float64, bool) {
	if _, ok := s.byID[name]; !ok {
		return 0, false
	}
	v, err := s.Max(name)
	if err != nil {
		return 0, false
	}
	return v.AsFloat(), true
}
