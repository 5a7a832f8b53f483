// Package measure converts weights between the units used on character
// sheets. Internally every weight is carried in pounds.
package measure

import (
	"fmt"
	"strings"

	"github.com/raianasancho/gcsga/internal/game/fxp"
)

// WeightUnit names a unit of weight.
type WeightUnit string

const (
	Pound    WeightUnit = "lb"
	PoundAlt WeightUnit = "#"
	Ounce    WeightUnit = "oz"
	Ton      WeightUnit = "tn"
	TonAlt   WeightUnit = "t"
	Kilogram WeightUnit = "kg"
	Gram     WeightUnit = "g"
)

// Units lists every unit in match order. Longer keys come before their
// prefixes so that "tn" is tried before "t".
var Units = []WeightUnit{Pound, PoundAlt, Ounce, Ton, TonAlt, Kilogram, Gram}

// Conversion factors use the game convention of 1 kg = 2 lb.
var toPounds = map[WeightUnit]fxp.Int{
	Pound:    fxp.One,
	PoundAlt: fxp.One,
	Ounce:    fxp.One / 16,
	Ton:      fxp.FromInteger(2000),
	TonAlt:   fxp.FromInteger(2000),
	Kilogram: fxp.FromInteger(2),
	Gram:     fxp.One / 500,
}

// ParseWeightUnit resolves a unit key, defaulting to Pound for unknown keys.
func ParseWeightUnit(s string) WeightUnit {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range Units {
		if string(u) == s {
			return u
		}
	}
	return Pound
}

// ToPounds converts amount in unit to pounds.
func (u WeightUnit) ToPounds(amount fxp.Int) fxp.Int {
	f, ok := toPounds[u]
	if !ok {
		return amount
	}
	return amount.Mul(f)
}

// FromPounds converts pounds to unit.
func (u WeightUnit) FromPounds(pounds fxp.Int) fxp.Int {
	f, ok := toPounds[u]
	if !ok {
		return pounds
	}
	return pounds.Div(f)
}

// Weight is an amount in pounds.
type Weight fxp.Int

// Pounds returns w as a fixed-point pound amount.
func (w Weight) Pounds() fxp.Int {
	return fxp.Int(w)
}

// Format renders w in unit, e.g. "2.5 lb".
func (w Weight) Format(unit WeightUnit) string {
	return fmt.Sprintf("%s %s", unit.FromPounds(fxp.Int(w)), unit)
}

// ParseWeight reads strings such as "3", "2.5 lb", "500g" or "1 tn".
// A missing unit means defUnits. Unparseable numbers yield zero.
func ParseWeight(s string, defUnits WeightUnit) Weight {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	unit := defUnits
	for _, u := range Units {
		if strings.HasSuffix(s, string(u)) {
			unit = u
			s = strings.TrimSpace(strings.TrimSuffix(s, string(u)))
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	amount, err := fxp.FromString(s)
	if err != nil {
		return 0
	}
	return Weight(unit.ToPounds(amount))
}
