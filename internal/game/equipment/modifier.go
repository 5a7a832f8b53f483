package equipment

import (
	"strings"

	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/measure"
)

// AdjustmentClass is how a modifier's cost or weight amount combines with
// the base value.
type AdjustmentClass int

const (
	Addition AdjustmentClass = iota
	PercentageAddition
	Multiplier
	PercentageMultiplier
)

// String returns the stable key for c.
func (c AdjustmentClass) String() string {
	switch c {
	case PercentageAddition:
		return "percentage_addition"
	case Multiplier:
		return "multiplier"
	case PercentageMultiplier:
		return "percentage_multiplier"
	default:
		return "addition"
	}
}

// ClassifyAmount determines the adjustment class of amount text:
// "x50%" is a percentage multiplier, "+25%" a percentage addition, "x2" or
// "2x" a multiplier and anything else an addition.
func ClassifyAmount(s string) AdjustmentClass {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "%") {
		if strings.HasPrefix(s, "x") {
			return PercentageMultiplier
		}
		return PercentageAddition
	}
	if strings.HasPrefix(s, "x") || strings.HasSuffix(s, "x") {
		return Multiplier
	}
	return Addition
}

// Fraction is a numerator over a denominator, as in "x1/2".
type Fraction struct {
	Numerator   fxp.Int
	Denominator fxp.Int
}

// Value returns the fraction as a single number.
func (f Fraction) Value() fxp.Int {
	if f.Denominator == 0 {
		return f.Numerator
	}
	return f.Numerator.Div(f.Denominator)
}

// ExtractFraction reads the numeric part of amount text. Multipliers with a
// missing or non-positive numerator default to x1; percentage multipliers
// default to x100%.
func ExtractFraction(s string) Fraction {
	class := ClassifyAmount(s)
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "x")
	v = strings.TrimSuffix(v, "%")
	v = strings.TrimSuffix(v, "x")
	num, den, _ := strings.Cut(v, "/")
	f := Fraction{Numerator: fxp.Extract(num), Denominator: fxp.Extract(den)}
	if f.Denominator <= 0 {
		f.Denominator = fxp.One
	}
	switch class {
	case PercentageMultiplier:
		if f.Numerator <= 0 {
			f = Fraction{Numerator: fxp.Hundred, Denominator: fxp.One}
		}
	case Multiplier:
		if f.Numerator <= 0 {
			f = Fraction{Numerator: fxp.One, Denominator: fxp.One}
		}
	}
	return f
}

// Modifier adjusts an item's cost and weight. A modifier with children is a
// container; only its enabled descendants take effect.
type Modifier struct {
	ID           string      `yaml:"id,omitempty"`
	Name         string      `yaml:"name"`
	Disabled     bool        `yaml:"disabled,omitempty"`
	CostAmount   string      `yaml:"cost,omitempty"`
	WeightAmount string      `yaml:"weight,omitempty"`
	Notes        string      `yaml:"notes,omitempty"`
	Children     []*Modifier `yaml:"children,omitempty"`
}

// IsContainer reports whether m groups other modifiers.
func (m *Modifier) IsContainer() bool {
	return len(m.Children) > 0
}

// deepModifiers flattens mods into their enabled leaves.
func deepModifiers(mods []*Modifier) []*Modifier {
	var out []*Modifier
	for _, m := range mods {
		if m == nil || m.Disabled {
			continue
		}
		if m.IsContainer() {
			out = append(out, deepModifiers(m.Children)...)
			continue
		}
		out = append(out, m)
	}
	return out
}

// adjust applies amounts to base: additions are summed, then percentage
// additions are summed and applied against base, then multipliers chain in
// order. The result is clamped at zero.
func adjust(base fxp.Int, amounts []string, addition func(string) fxp.Int) fxp.Int {
	var additions, percentages fxp.Int
	for _, a := range amounts {
		switch ClassifyAmount(a) {
		case Addition:
			additions += addition(a)
		case PercentageAddition:
			percentages += fxp.Extract(a)
		}
	}
	result := base + additions
	if percentages != 0 {
		result += base.Mul(percentages).Div(fxp.Hundred)
	}
	for _, a := range amounts {
		switch ClassifyAmount(a) {
		case Multiplier:
			result = result.Mul(ExtractFraction(a).Value())
		case PercentageMultiplier:
			result = result.Mul(ExtractFraction(a).Value()).Div(fxp.Hundred)
		}
	}
	return result.Max(0)
}

// ValueAdjustedForModifiers applies the cost amounts of mods to value.
func ValueAdjustedForModifiers(value fxp.Int, mods []*Modifier) fxp.Int {
	amounts := make([]string, 0, len(mods))
	for _, m := range mods {
		if strings.TrimSpace(m.CostAmount) != "" {
			amounts = append(amounts, m.CostAmount)
		}
	}
	return adjust(value, amounts, fxp.Extract)
}

// WeightAdjustedForModifiers applies the weight amounts of mods to weight.
// Additions carry their own units, defaulting to defUnits.
func WeightAdjustedForModifiers(weight measure.Weight, mods []*Modifier, defUnits measure.WeightUnit) measure.Weight {
	amounts := make([]string, 0, len(mods))
	for _, m := range mods {
		if strings.TrimSpace(m.WeightAmount) != "" {
			amounts = append(amounts, m.WeightAmount)
		}
	}
	return measure.Weight(adjust(weight.Pounds(), amounts, func(s string) fxp.Int {
		return measure.ParseWeight(strings.TrimPrefix(strings.TrimSpace(s), "+"), defUnits).Pounds()
	}))
}
