package feature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/raianasancho/gcsga/internal/game/criteria"
	"github.com/raianasancho/gcsga/internal/game/feature"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/measure"
	"github.com/raianasancho/gcsga/internal/game/tooltip"
)

func is(q string) criteria.StringCriteria {
	return criteria.StringCriteria{Compare: criteria.Is, Qualifier: q}
}

func TestLeveledAmount_AdjustedAmount(t *testing.T) {
	flat := feature.LeveledAmount{Amount: fxp.FromInteger(2), Level: fxp.FromInteger(3)}
	assert.Equal(t, fxp.FromInteger(2), flat.AdjustedAmount())

	perLevel := feature.LeveledAmount{Amount: fxp.FromInteger(2), PerLevel: true, Level: fxp.FromInteger(3)}
	assert.Equal(t, fxp.FromInteger(6), perLevel.AdjustedAmount())

	fractional := feature.LeveledAmount{Amount: fxp.FromFloat(0.3333), PerLevel: true, Level: fxp.FromInteger(3)}
	assert.Equal(t, fxp.FromFloat(0.9999), fractional.AdjustedAmount(), "scaling truncates")

	negative := feature.LeveledAmount{Amount: fxp.FromInteger(2), PerLevel: true, Level: fxp.FromInteger(-1)}
	assert.Equal(t, fxp.Int(0), negative.AdjustedAmount())
}

func TestSkillBonusFor_OnlyMatchingFeaturesContribute(t *testing.T) {
	features := feature.List{
		{Type: feature.SkillBonus, Owner: "Weapon Master", LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(2)}, Name: is("Broadsword")},
		{Type: feature.SkillBonus, Owner: "Gunslinger", LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(3)}, Name: is("Guns")},
		{Type: feature.SkillPointBonus, Owner: "Talent", LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(1)}, Name: is("Broadsword")},
		{Type: feature.SkillBonus, Owner: "Tagged", LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(1)},
			Tags: criteria.StringCriteria{Compare: criteria.Contains, Qualifier: "melee"}},
	}
	tt := tooltip.New()
	total := features.SkillBonusFor(feature.SkillBonus, "broadsword", "", []string{"Melee Combat"}, tt)
	assert.Equal(t, fxp.FromInteger(3), total)
	assert.Equal(t, []string{"Weapon Master [+2]", "Tagged [+1]"}, tt.Lines())
}

func TestSpellBonusFor_MatchRules(t *testing.T) {
	amount := feature.LeveledAmount{Amount: fxp.FromInteger(1)}
	features := feature.List{
		{Type: feature.SpellBonus, Owner: "Magery", LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(1), PerLevel: true, Level: fxp.FromInteger(3)}, SpellMatch: feature.AllColleges},
		{Type: feature.SpellBonus, Owner: "Fire Talent", LeveledAmount: amount, SpellMatch: feature.CollegeName, Name: is("Fire")},
		{Type: feature.SpellBonus, Owner: "Air Talent", LeveledAmount: amount, SpellMatch: feature.CollegeName, Name: is("Air")},
		{Type: feature.SpellBonus, Owner: "Clerical", LeveledAmount: amount, SpellMatch: feature.PowerSourceName, Name: is("Divine")},
		{Type: feature.SpellBonus, Owner: "Fireball Focus", LeveledAmount: amount, SpellMatch: feature.SpellName, Name: is("Fireball")},
	}
	total := features.SpellBonusFor(feature.SpellBonus, "Fireball", "Arcane", []string{"Fire", "Meta"}, nil, nil)
	assert.Equal(t, fxp.FromInteger(5), total)
}

func TestWeaponBonusesFor_Selections(t *testing.T) {
	amount := feature.LeveledAmount{Amount: fxp.FromInteger(1)}
	features := feature.List{
		{Type: feature.WeaponParryBonus, Owner: "Shield Boss", OwnerID: "item-1", LeveledAmount: amount, WeaponSelection: feature.ThisWeapon},
		{Type: feature.WeaponParryBonus, Owner: "Other Item", OwnerID: "item-2", LeveledAmount: amount, WeaponSelection: feature.ThisWeapon},
		{Type: feature.WeaponParryBonus, Owner: "Sword Style", LeveledAmount: amount, WeaponSelection: feature.WeaponsWithRequiredSkill, Name: is("Broadsword")},
		{Type: feature.WeaponParryBonus, Owner: "Named", LeveledAmount: amount, WeaponSelection: feature.WeaponsWithName,
			Name: criteria.StringCriteria{Compare: criteria.StartsWith, Qualifier: "long"}},
		{Type: feature.WeaponBlockBonus, Owner: "Block", LeveledAmount: amount, WeaponSelection: feature.ThisWeapon, OwnerID: "item-1"},
	}
	target := feature.WeaponTarget{
		OwnerID:        "item-1",
		Name:           "Longsword",
		Usage:          "Swung",
		RequiredSkills: []feature.SkillRef{{Name: "Broadsword"}},
	}
	tt := tooltip.New()
	got := features.WeaponBonusesFor(feature.WeaponParryBonus, target, tt)
	require.Len(t, got, 3)
	assert.Equal(t, fxp.FromInteger(3), got.SumForWeapon(target))
	assert.Equal(t, 3, tt.Len())
}

func TestWeaponBonusesFor_PerDieAndRelativeLevel(t *testing.T) {
	features := feature.List{
		{Type: feature.WeaponParryBonus, Owner: "Per Die", LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(1)}, PerDie: true,
			WeaponSelection: feature.WeaponsWithName, Name: is("Greatsword")},
		{Type: feature.WeaponParryBonus, Owner: "Master", LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(2)},
			WeaponSelection: feature.WeaponsWithRequiredSkill, Name: is("Two-Handed Sword"),
			RelativeLevel: criteria.NumericCriteria{Compare: criteria.AtLeast, Qualifier: fxp.FromInteger(2)}},
	}
	expert := feature.WeaponTarget{
		Name:           "Greatsword",
		DieCount:       3,
		RequiredSkills: []feature.SkillRef{{Name: "Two-Handed Sword", RelativeLevel: fxp.FromInteger(3)}},
	}
	tt := tooltip.New()
	got := features.WeaponBonusesFor(feature.WeaponParryBonus, expert, tt)
	require.Len(t, got, 2)
	assert.Equal(t, fxp.FromInteger(5), got.SumForWeapon(expert))
	assert.Equal(t, []string{"Per Die [+3]", "Master [+2]"}, tt.Lines())

	novice := expert
	novice.DieCount = 1
	novice.RequiredSkills = []feature.SkillRef{{Name: "Two-Handed Sword", RelativeLevel: fxp.FromInteger(1)}}
	got = features.WeaponBonusesFor(feature.WeaponParryBonus, novice, nil)
	require.Len(t, got, 1)
	assert.Equal(t, fxp.FromInteger(1), got.SumForWeapon(novice))
}

func TestContainedWeightReduction(t *testing.T) {
	pct := feature.Feature{Type: feature.ContainedWeightReduction, Reduction: "50%"}
	assert.True(t, pct.IsPercentageReduction())
	assert.Equal(t, fxp.FromInteger(50), pct.PercentageReduction())
	assert.Equal(t, fxp.Int(0), pct.FixedReduction(measure.Pound))

	fixed := feature.Feature{Type: feature.ContainedWeightReduction, Reduction: "5 lb"}
	assert.False(t, fixed.IsPercentageReduction())
	assert.Equal(t, fxp.FromInteger(5), fixed.FixedReduction(measure.Pound))
	assert.Equal(t, fxp.Int(0), fixed.PercentageReduction())
}

func TestFeature_YAML(t *testing.T) {
	src := `
type: skill_bonus
amount: 2
per_level: true
selection_type: skills_with_name
name:
  compare: starts_with
  qualifier: Broad
`
	var f feature.Feature
	require.NoError(t, yaml.Unmarshal([]byte(src), &f))
	assert.Equal(t, feature.SkillBonus, f.Type)
	assert.True(t, f.PerLevel)
	assert.Equal(t, fxp.FromInteger(2), f.Amount)
	assert.True(t, f.Name.Matches("Broadsword"))
}

// TestSkillBonusTrace_Property verifies the trace gets exactly one line per
// contributing feature and the total equals the sum of contributions.
func TestSkillBonusTrace_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 10).Draw(rt, "n")
		var features feature.List
		var want fxp.Int
		contributing := 0
		for i := 0; i < n; i++ {
			amt := fxp.FromInteger(rapid.IntRange(-5, 5).Draw(rt, "amount"))
			match := rapid.Bool().Draw(rt, "match")
			name := "Other"
			if match {
				name = "Stealth"
				want += amt
				contributing++
			}
			features = append(features, &feature.Feature{
				Type: feature.SkillBonus, Owner: "f", LeveledAmount: feature.LeveledAmount{Amount: amt}, Name: is(name),
			})
		}
		tt := tooltip.New()
		got := features.SkillBonusFor(feature.SkillBonus, "Stealth", "", nil, tt)
		assert.Equal(rt, want, got)
		assert.Equal(rt, contributing, tt.Len())
	})
}
