package weapon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/raianasancho/gcsga/internal/game/criteria"
	"github.com/raianasancho/gcsga/internal/game/feature"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/tooltip"
	"github.com/raianasancho/gcsga/internal/game/weapon"
)

type fakeActor struct {
	levels     map[string]int
	st         int
	enc        int
	parryBonus int
	features   feature.List
}

func (a *fakeActor) DefaultLevel(d weapon.Default, _ *tooltip.Tooltip) (int, bool) {
	v, ok := a.levels[d.Type+":"+d.Name]
	if !ok {
		return 0, false
	}
	return v + d.Modifier, true
}

func (a *fakeActor) StrikingStrength() int     { return a.st }
func (a *fakeActor) EncumbranceLevel(bool) int { return a.enc }
func (a *fakeActor) ParryBonus() int           { return a.parryBonus }
func (a *fakeActor) Features() feature.List    { return a.features }

func shield(block string) *weapon.Weapon {
	return &weapon.Weapon{
		OwnerName: "Medium Shield",
		Kind:      weapon.Melee,
		Usage:     "Bash",
		Block:     block,
		Parry:     "No",
		Defaults:  []weapon.Default{{Type: weapon.DefaultBlock, Name: "Shield"}},
	}
}

func TestParseBlock(t *testing.T) {
	assert.True(t, weapon.ParseBlock("No").No)
	assert.True(t, weapon.ParseBlock("none").No)
	assert.Equal(t, 1, weapon.ParseBlock("+1").Modifier)
	assert.Equal(t, 0, weapon.ParseBlock("abc").Modifier)
	assert.Equal(t, "", weapon.ParseBlock("0").String())
	assert.Equal(t, "No", weapon.ParseBlock("NO").String())
}

func TestParseParry(t *testing.T) {
	p := weapon.ParseParry("0F")
	assert.True(t, p.Fencing)
	assert.False(t, p.Unbalanced)
	assert.Equal(t, "0F", p.String())

	p = weapon.ParseParry("-1U")
	assert.Equal(t, -1, p.Modifier)
	assert.True(t, p.Unbalanced)
	assert.Equal(t, "-1U", p.String())
}

func TestResolvedBlock_BlockDefaultIsNotHalved(t *testing.T) {
	a := &fakeActor{levels: map[string]int{"block:Shield": 12}}
	tt := tooltip.New()
	got := shield("0").ResolvedBlock(a, tt)
	assert.False(t, got.No)
	assert.Equal(t, 15, got.Modifier)
	assert.Equal(t, "15", got.String())
}

func TestResolvedBlock_NoIsZero(t *testing.T) {
	a := &fakeActor{levels: map[string]int{"block:Shield": 12}}
	got := shield("No").ResolvedBlock(a, nil)
	assert.True(t, got.No)
	assert.Equal(t, 0, got.Modifier)
	assert.Equal(t, "No", got.String())
}

func TestResolvedBlock_SwitchOverridesField(t *testing.T) {
	a := &fakeActor{levels: map[string]int{"block:Shield": 12}}
	w := shield("0")
	w.Switches = map[weapon.Switch]bool{weapon.CanBlock: false}
	assert.True(t, w.ResolvedBlock(a, nil).No)

	w = shield("No")
	w.Switches = map[weapon.Switch]bool{weapon.CanBlock: true}
	assert.Equal(t, 15, w.ResolvedBlock(a, nil).Modifier)
}

func TestResolvedParry_SkillDefaultIsHalved(t *testing.T) {
	a := &fakeActor{levels: map[string]int{"skill:Broadsword": 13}, parryBonus: 1}
	w := &weapon.Weapon{
		OwnerName: "Broadsword",
		Kind:      weapon.Melee,
		Usage:     "Swung",
		Parry:     "0",
		Defaults:  []weapon.Default{{Type: weapon.DefaultSkill, Name: "Broadsword"}},
	}
	// 3 + 13/2 + 1
	assert.Equal(t, 10, w.ResolvedParry(a, nil).Modifier)
}

func TestResolvedParry_FencingPaysEncumbrance(t *testing.T) {
	a := &fakeActor{levels: map[string]int{"skill:Rapier": 14}, enc: 2}
	w := &weapon.Weapon{
		OwnerName: "Rapier",
		Kind:      weapon.Melee,
		Parry:     "0F",
		Defaults:  []weapon.Default{{Type: weapon.DefaultSkill, Name: "Rapier"}},
	}
	tt := tooltip.New()
	got := w.ResolvedParry(a, tt)
	// 3 + 14/2 - 2
	assert.Equal(t, 8, got.Modifier)
	assert.True(t, got.Fencing)
	assert.Contains(t, tt.String(), "Encumbrance [-2]")
}

func TestResolvedParry_NoUsableDefault(t *testing.T) {
	a := &fakeActor{levels: map[string]int{}}
	w := &weapon.Weapon{Kind: weapon.Melee, Parry: "+2", Defaults: []weapon.Default{{Type: weapon.DefaultSkill, Name: "Axe/Mace"}}}
	assert.Equal(t, 0, w.ResolvedParry(a, nil).Modifier)
}

func TestResolvedBlock_WeaponBonus(t *testing.T) {
	a := &fakeActor{
		levels: map[string]int{"block:Shield": 10},
		features: feature.List{{
			Type:            feature.WeaponBlockBonus,
			LeveledAmount:   feature.LeveledAmount{Amount: fxp.FromInteger(2)},
			Owner:           "Combat Reflexes",
			WeaponSelection: feature.WeaponsWithName,
			Name:            criteria.StringCriteria{Compare: criteria.Is, Qualifier: "Medium Shield"},
		}},
	}
	tt := tooltip.New()
	assert.Equal(t, 15, shield("0").ResolvedBlock(a, tt).Modifier)
	assert.Contains(t, tt.String(), "Combat Reflexes [+2]")
}

func TestResolvedBlock_FractionalBonusTruncatesTotal(t *testing.T) {
	a := &fakeActor{
		levels: map[string]int{"block:Shield": 12},
		features: feature.List{{
			Type:            feature.WeaponBlockBonus,
			LeveledAmount:   feature.LeveledAmount{Amount: fxp.FromFloat(-0.5)},
			Owner:           "Bad Grip",
			WeaponSelection: feature.WeaponsWithName,
			Name:            criteria.StringCriteria{Compare: criteria.Is, Qualifier: "Medium Shield"},
		}},
	}
	// 3 + 12 - 0.5 = 14.5
	assert.Equal(t, 14, shield("0").ResolvedBlock(a, nil).Modifier)

	a.features[0].Amount = fxp.FromFloat(0.5)
	assert.Equal(t, 15, shield("0").ResolvedBlock(a, nil).Modifier)
}

type relativeActor struct {
	*fakeActor
	relative map[string]int
}

func (a relativeActor) SkillRelativeLevel(name, _ string) (int, bool) {
	v, ok := a.relative[name]
	return v, ok
}

func TestTarget_FillsRelativeLevelAndDice(t *testing.T) {
	w := &weapon.Weapon{
		OwnerName: "Broadsword",
		Damage:    "2d+1 cut",
		Defaults:  []weapon.Default{{Type: weapon.DefaultSkill, Name: "Broadsword"}, {Type: "dx", Modifier: -5}},
	}
	a := relativeActor{fakeActor: &fakeActor{}, relative: map[string]int{"Broadsword": 2}}
	target := w.Target(a)
	assert.Equal(t, 2, target.DieCount)
	require.Len(t, target.RequiredSkills, 1)
	assert.Equal(t, fxp.FromInteger(2), target.RequiredSkills[0].RelativeLevel)

	assert.Equal(t, fxp.Int(0), w.Target(&fakeActor{}).RequiredSkills[0].RelativeLevel)
}

func TestResolvedParry_BonusNeedsRelativeLevel(t *testing.T) {
	base := &fakeActor{
		levels: map[string]int{"skill:Broadsword": 14},
		features: feature.List{{
			Type:            feature.WeaponParryBonus,
			LeveledAmount:   feature.LeveledAmount{Amount: fxp.FromInteger(1)},
			Owner:           "Weapon Master",
			WeaponSelection: feature.WeaponsWithRequiredSkill,
			Name:            criteria.StringCriteria{Compare: criteria.Is, Qualifier: "Broadsword"},
			RelativeLevel:   criteria.NumericCriteria{Compare: criteria.AtLeast, Qualifier: fxp.FromInteger(2)},
		}},
	}
	w := &weapon.Weapon{
		OwnerName: "Broadsword",
		Kind:      weapon.Melee,
		Parry:     "0",
		Damage:    "2d cut",
		Defaults:  []weapon.Default{{Type: weapon.DefaultSkill, Name: "Broadsword"}},
	}
	// 3 + 14/2
	assert.Equal(t, 10, w.ResolvedParry(relativeActor{fakeActor: base, relative: map[string]int{"Broadsword": 1}}, nil).Modifier)
	assert.Equal(t, 11, w.ResolvedParry(relativeActor{fakeActor: base, relative: map[string]int{"Broadsword": 2}}, nil).Modifier)
}

func TestSkillLevel_MinimumStrength(t *testing.T) {
	a := &fakeActor{levels: map[string]int{"skill:Broadsword": 13}, st: 9}
	w := &weapon.Weapon{Kind: weapon.Melee, Strength: "11", Defaults: []weapon.Default{{Type: weapon.DefaultSkill, Name: "Broadsword"}}}
	level, ok := w.SkillLevel(a, nil)
	require.True(t, ok)
	assert.Equal(t, 11, level)

	_, ok = w.SkillLevel(nil, nil)
	assert.False(t, ok)
}

func TestEffectiveRateOfFire(t *testing.T) {
	assert.Equal(t, 3, weapon.EffectiveRateOfFire("3"))
	assert.Equal(t, 27, weapon.EffectiveRateOfFire("3x9"))
	assert.Equal(t, 0, weapon.EffectiveRateOfFire("jet"))
}

func TestResolve_NeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(-20, 30).Draw(t, "level")
		mod := rapid.IntRange(-10, 10).Draw(t, "mod")
		no := rapid.Bool().Draw(t, "no")
		field := fxp.FromInteger(mod).StringWithSign()
		if no {
			field = "No"
		}
		a := &fakeActor{levels: map[string]int{"block:Shield": level}}
		got := shield(field).ResolvedBlock(a, nil)
		if got.Modifier < 0 {
			t.Fatalf("negative block %d", got.Modifier)
		}
		if no && got.Modifier != 0 {
			t.Fatalf("disabled block resolved to %d", got.Modifier)
		}
	})
}
