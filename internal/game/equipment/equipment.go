// Package equipment resolves the value and weight of equipment trees,
// including cost/weight modifier chains and container weight reduction.
package equipment

import (
	"github.com/raianasancho/gcsga/internal/game/feature"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/measure"
	"github.com/raianasancho/gcsga/internal/game/weapon"
)

// Item is a piece of equipment. An item with children is a container.
type Item struct {
	ID                    string           `yaml:"id,omitempty"`
	Name                  string           `yaml:"name"`
	Quantity              int              `yaml:"quantity"`
	Value                 fxp.Int          `yaml:"value,omitempty"`
	Weight                string           `yaml:"weight,omitempty"`
	IgnoreWeightForSkills bool             `yaml:"ignore_weight_for_skills,omitempty"`
	Equipped              bool             `yaml:"equipped,omitempty"`
	TechLevel             string           `yaml:"tech_level,omitempty"`
	Tags                  []string         `yaml:"tags,omitempty"`
	Notes                 string           `yaml:"notes,omitempty"`
	Modifiers             []*Modifier      `yaml:"modifiers,omitempty"`
	Features              feature.List     `yaml:"features,omitempty"`
	Weapons               []*weapon.Weapon `yaml:"weapons,omitempty"`
	Children              []*Item          `yaml:"children,omitempty"`
}

// IsContainer reports whether it holds other items.
func (it *Item) IsContainer() bool {
	return len(it.Children) > 0
}

// DeepModifiers returns the enabled leaf modifiers, descending into
// modifier containers.
func (it *Item) DeepModifiers() []*Modifier {
	return deepModifiers(it.Modifiers)
}

// AdjustedValue is the value of one unit after cost modifiers.
func (it *Item) AdjustedValue() fxp.Int {
	return ValueAdjustedForModifiers(it.Value, it.DeepModifiers())
}

// ExtendedValue is the value of the whole stack including contents.
//
// Postcondition: returns 0 when Quantity <= 0.
func (it *Item) ExtendedValue() fxp.Int {
	if it.Quantity <= 0 {
		return 0
	}
	value := it.AdjustedValue()
	for _, ch := range it.Children {
		value += ch.ExtendedValue()
	}
	return value.Mul(fxp.FromInteger(it.Quantity))
}

// AdjustedWeight is the weight of one unit after weight modifiers. It is
// zero when forSkills is set and the item's weight is ignored for skills.
func (it *Item) AdjustedWeight(forSkills bool, defUnits measure.WeightUnit) measure.Weight {
	if forSkills && it.IgnoreWeightForSkills {
		return 0
	}
	return WeightAdjustedForModifiers(measure.ParseWeight(it.Weight, defUnits), it.DeepModifiers(), defUnits)
}

// ExtendedWeight is the weight of the whole stack including contents, after
// the item's contained weight reductions.
//
// Postcondition: returns 0 when Quantity <= 0; a percentage reduction of
// 100 or more zeroes the contents; fixed reductions never make the contents
// negative; the ignore-for-skills flag (which only counts while equipped)
// zeroes only the item's own weight, never its contents.
func (it *Item) ExtendedWeight(forSkills bool, defUnits measure.WeightUnit) measure.Weight {
	if it.Quantity <= 0 {
		return 0
	}
	var base fxp.Int
	if !forSkills || !(it.IgnoreWeightForSkills && it.Equipped) {
		base = WeightAdjustedForModifiers(measure.ParseWeight(it.Weight, defUnits), it.DeepModifiers(), defUnits).Pounds()
	}
	if len(it.Children) > 0 {
		var contained fxp.Int
		for _, ch := range it.Children {
			contained += ch.ExtendedWeight(forSkills, defUnits).Pounds()
		}
		var percentage, reduction fxp.Int
		for _, f := range it.Features.OfType(feature.ContainedWeightReduction) {
			if f.IsPercentageReduction() {
				percentage += f.PercentageReduction()
			} else {
				reduction += f.FixedReduction(defUnits)
			}
		}
		if percentage >= fxp.Hundred {
			contained = 0
		} else if percentage > 0 {
			contained -= contained.Mul(percentage).Div(fxp.Hundred)
		}
		base += (contained - reduction).Max(0)
	}
	return measure.Weight(base.Mul(fxp.FromInteger(it.Quantity)))
}

// Walk visits it and every descendant depth first.
func (it *Item) Walk(fn func(*Item)) {
	fn(it)
	for _, ch := range it.Children {
		ch.Walk(fn)
	}
}
