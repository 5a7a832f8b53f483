package character

import (
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/measure"
)

// Encumbrance levels.
const (
	EncumbranceNone = iota
	EncumbranceLight
	EncumbranceMedium
	EncumbranceHeavy
	EncumbranceExtraHeavy
)

// encumbranceMultipliers are the Basic Lift multiples that bound each level.
var encumbranceMultipliers = []int64{1, 2, 3, 6, 10}

// BasicLift is (lifting ST)²/5 pounds, rounded once it reaches 10.
func (c *Character) BasicLift() measure.Weight {
	st := c.LiftingStrength()
	if st < 0 {
		st = 0
	}
	bl := fxp.FromInteger(st * st).Div(fxp.FromInteger(5))
	if bl >= fxp.FromInteger(10) {
		bl = bl.Round()
	}
	return measure.Weight(bl)
}

// CarriedWeight is the extended weight of everything the character holds.
func (c *Character) CarriedWeight(forSkills bool) measure.Weight {
	var total fxp.Int
	for _, it := range c.Equipment {
		total += it.ExtendedWeight(forSkills, c.units()).Pounds()
	}
	return measure.Weight(total)
}

// EncumbranceLevel maps carried weight onto None through Extra-Heavy.
// Loads past ten times Basic Lift stay Extra-Heavy.
func (c *Character) EncumbranceLevel(forSkills bool) int {
	carried := c.CarriedWeight(forSkills).Pounds()
	bl := c.BasicLift().Pounds()
	for level, mult := range encumbranceMultipliers {
		if carried <= bl.Mul(fxp.FromInteger(int(mult))) {
			return level
		}
	}
	return EncumbranceExtraHeavy
}

func (c *Character) units() measure.WeightUnit {
	if c.WeightUnits == "" {
		return measure.Pound
	}
	return c.WeightUnits
}
