package skill_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/raianasancho/gcsga/internal/game/criteria"
	"github.com/raianasancho/gcsga/internal/game/feature"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/skill"
)

type fakeActor struct {
	current   map[string]int
	effective map[string]int
	features  feature.List
	enc       int
}

func (a *fakeActor) AttributeCurrent(id string) (int, bool) {
	v, ok := a.current[id]
	return v, ok
}

func (a *fakeActor) AttributeEffective(id string) (int, bool) {
	if v, ok := a.effective[id]; ok {
		return v, true
	}
	return a.AttributeCurrent(id)
}

func (a *fakeActor) AttributeName(id string) string {
	return strings.ToUpper(id)
}

func (a *fakeActor) Features() feature.List {
	return a.features
}

func (a *fakeActor) EncumbranceLevel(bool) int {
	return a.enc
}

func newActor() *fakeActor {
	return &fakeActor{current: map[string]int{"dx": 12, "iq": 10}}
}

var allTiers = []skill.Difficulty{skill.Easy, skill.Average, skill.Hard, skill.VeryHard, skill.Wildcard}

func TestParseDifficulty(t *testing.T) {
	attr, d := skill.ParseDifficulty("DX/VH", "iq", skill.Hard)
	assert.Equal(t, "dx", attr)
	assert.Equal(t, skill.VeryHard, d)

	attr, d = skill.ParseDifficulty("", "iq", skill.Hard)
	assert.Equal(t, "iq", attr)
	assert.Equal(t, skill.Hard, d)

	attr, d = skill.ParseDifficulty("will/zz", "iq", skill.Hard)
	assert.Equal(t, "will", attr)
	assert.Equal(t, skill.Hard, d)
}

func TestCalculateLevel_ZeroPointsIsUndefined(t *testing.T) {
	for _, d := range allTiers {
		s := &skill.Skill{Name: "Stealth", Attribute: "dx", Difficulty: d, Points: 0}
		assert.False(t, s.CalculateLevel(newActor()).Defined, string(d))
	}
}

func TestCalculateLevel_OnePointIsBaseOffset(t *testing.T) {
	for _, d := range []skill.Difficulty{skill.Easy, skill.Average, skill.Hard, skill.VeryHard} {
		s := &skill.Skill{Name: "Stealth", Attribute: "dx", Difficulty: d, Points: 1}
		lvl := s.CalculateLevel(newActor())
		require.True(t, lvl.Defined)
		assert.Equal(t, d.BaseRelativeLevel(), lvl.RelativeLevel, string(d))
		assert.Equal(t, 12+d.BaseRelativeLevel(), lvl.Level, string(d))
	}
}

func TestCalculateLevel_WildcardDividesPoints(t *testing.T) {
	wc := &skill.Skill{Name: "Gun!", Attribute: "dx", Difficulty: skill.Wildcard, Points: 3}
	avg := &skill.Skill{Name: "Guns", Attribute: "dx", Difficulty: skill.Average, Points: 1}
	a := newActor()
	wcLevel := wc.CalculateLevel(a)
	avgLevel := avg.CalculateLevel(a)
	assert.Equal(t,
		avgLevel.RelativeLevel-skill.Average.BaseRelativeLevel(),
		wcLevel.RelativeLevel-skill.Wildcard.BaseRelativeLevel())

	wc.Points = 2
	assert.False(t, wc.CalculateLevel(a).Defined, "2 wildcard points is less than one effective point")
}

func TestCalculateLevel_StepFunction(t *testing.T) {
	s := &skill.Skill{Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average}
	want := map[int]int{1: 11, 2: 12, 3: 12, 4: 13, 7: 13, 8: 14, 12: 15, 20: 17}
	for points, level := range want {
		s.Points = points
		assert.Equal(t, level, s.CalculateLevel(newActor()).Level, "points %d", points)
	}
}

func TestCalculateLevel_NoActorOrAttribute(t *testing.T) {
	s := &skill.Skill{Name: "Stealth", Attribute: "dx", Difficulty: skill.Average, Points: 4}
	assert.False(t, s.CalculateLevel(nil).Defined)
	s.Attribute = "luck"
	assert.False(t, s.CalculateLevel(newActor()).Defined)
	assert.Equal(t, "-", s.CalculateLevel(newActor()).String())
}

func TestCalculateLevel_Bonuses(t *testing.T) {
	a := newActor()
	a.features = feature.List{
		{Type: feature.SkillBonus, Owner: "Weapon Master", LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(2)},
			Name: criteria.StringCriteria{Compare: criteria.Is, Qualifier: "Broadsword"}},
		{Type: feature.SpellBonus, Owner: "Magery", LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(1), PerLevel: true, Level: fxp.FromInteger(3)},
			SpellMatch: feature.AllColleges},
	}
	sword := &skill.Skill{Kind: skill.KindSkill, Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average, Points: 4}
	lvl := sword.CalculateLevel(a)
	assert.Equal(t, 15, lvl.Level)
	assert.Equal(t, []string{"Weapon Master [+2]"}, lvl.Tooltip.Lines())

	spell := &skill.Skill{Kind: skill.KindSpell, Name: "Fireball", Attribute: "iq", Difficulty: skill.Hard, Points: 1, Colleges: []string{"Fire"}}
	lvl = spell.CalculateLevel(a)
	assert.Equal(t, 11, lvl.Level)
	assert.Equal(t, 1, lvl.RelativeLevel)
}

func TestCalculateLevel_FractionalBonusTruncatesTowardZero(t *testing.T) {
	a := newActor()
	a.features = feature.List{{Type: feature.SkillBonus, LeveledAmount: feature.LeveledAmount{Amount: fxp.FromFloat(1.5)}}}
	s := &skill.Skill{Name: "Lockpicking", Attribute: "iq", Difficulty: skill.Hard, Points: 1}
	lvl := s.CalculateLevel(a)
	assert.Equal(t, 0, lvl.RelativeLevel, "-2 + 1.5 truncates to 0")
	assert.Equal(t, 10, lvl.Level)
}

func TestIncrementLevel(t *testing.T) {
	a := newActor()
	s := &skill.Skill{Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average, Points: 1}
	for _, want := range []int{2, 4, 8, 12} {
		require.True(t, s.IncrementLevel(a))
		assert.Equal(t, want, s.Points)
	}
	assert.Equal(t, 15, s.Level.Level)

	none := &skill.Skill{Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average, Points: 1}
	assert.False(t, none.IncrementLevel(nil))
	assert.Equal(t, 1, none.Points)
}

func TestDecrementLevel(t *testing.T) {
	a := newActor()
	s := &skill.Skill{Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average, Points: 8}
	for _, want := range []int{4, 2, 1, 0} {
		require.True(t, s.DecrementLevel(a))
		assert.Equal(t, want, s.Points)
	}
	assert.False(t, s.Level.Defined)
	assert.False(t, s.DecrementLevel(a), "nothing below zero")
}

func TestDecrementLevel_Wildcard(t *testing.T) {
	s := &skill.Skill{Name: "Sword!", Attribute: "dx", Difficulty: skill.Wildcard, Points: 12}
	require.True(t, s.DecrementLevel(newActor()))
	assert.Equal(t, 6, s.Points)
}

func TestDecrementLevel_LandsOnLowestPointsForLevel(t *testing.T) {
	s := &skill.Skill{Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average, Points: 10}
	require.True(t, s.DecrementLevel(newActor()))
	assert.Equal(t, 4, s.Points)
}

func TestPointsForLevel(t *testing.T) {
	a := newActor()
	s := &skill.Skill{Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average, Points: 8}
	assert.Equal(t, 3, s.PointsForLevel(a, 12), "downward search returns the first match from the top")
	assert.Equal(t, 0, s.PointsForLevel(a, 5))
	assert.Equal(t, 12, s.PointsForLevel(a, 15))
	assert.Equal(t, skill.MaxPointsSearch, s.PointsForLevel(a, 99))
}

func TestSetLevel(t *testing.T) {
	a := newActor()
	s := &skill.Skill{Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average, Points: 1}
	s.SetLevel(a, 14)
	assert.Equal(t, 8, s.Points)
	assert.Equal(t, 14, s.Level.Level)
}

func TestEffectiveLevel(t *testing.T) {
	a := newActor()
	a.effective = map[string]int{"dx": 10}
	s := &skill.Skill{Name: "Acrobatics", Attribute: "dx", Difficulty: skill.Hard, Points: 4}
	assert.Equal(t, 12, s.CalculateLevel(a).Level)
	assert.Equal(t, 10, s.EffectiveLevel(a).Level)

	s.Points = 0
	assert.False(t, s.EffectiveLevel(a).Defined)
}

func TestRelativeLevelText(t *testing.T) {
	s := &skill.Skill{Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average, Points: 8}
	assert.Equal(t, "DX+2", s.RelativeLevelText(newActor()))
	s.Points = 1
	assert.Equal(t, "DX-1", s.RelativeLevelText(newActor()))
	s.Points = 0
	assert.Equal(t, "-", s.RelativeLevelText(newActor()))
}

func TestAdjustedPoints(t *testing.T) {
	a := newActor()
	a.features = feature.List{{Type: feature.SpellPointBonus, LeveledAmount: feature.LeveledAmount{Amount: fxp.FromInteger(-5)}, SpellMatch: feature.AllColleges}}
	spell := &skill.Skill{Kind: skill.KindSpell, Name: "Light", Attribute: "iq", Difficulty: skill.Hard, Points: 2}
	assert.Equal(t, 0, spell.AdjustedPoints(a, nil))
	assert.Equal(t, 2, spell.AdjustedPoints(nil, nil))
}

func TestUpdateLevel(t *testing.T) {
	s := &skill.Skill{Name: "Broadsword", Attribute: "dx", Difficulty: skill.Average, Points: 4}
	assert.True(t, s.UpdateLevel(newActor()))
	assert.False(t, s.UpdateLevel(newActor()))
}

func TestFormattedName(t *testing.T) {
	s := &skill.Skill{Name: "Guns", TechLevelRequired: true, TechLevel: "8", Specialization: "Pistol"}
	assert.Equal(t, "Guns/TL8 (Pistol)", s.FormattedName())
}

func TestRituals(t *testing.T) {
	a := &fakeActor{current: map[string]int{"iq": 10}}
	spell := &skill.Skill{Kind: skill.KindSpell, Name: "Fireball", Attribute: "iq", Difficulty: skill.Hard, SpellClass: "Missile"}
	cases := []struct {
		points int
		want   string
	}{
		{1, "Ritual: need both hands and both feet free and must speak; Time: 2x"},
		{12, "Ritual: speak quietly and make a gesture"},
		{32, "Ritual: speak a word or make a gesture; Cost: -1"},
		{52, "Ritual: none; Cost: -2"},
	}
	for _, tc := range cases {
		spell.Points = tc.points
		assert.Equal(t, tc.want, spell.Rituals(a), "points %d", tc.points)
	}
	spell.SpellClass = "Blocking"
	spell.Points = 52
	assert.Equal(t, "Ritual: none; Time: x1/2", spell.Rituals(a))
	assert.Equal(t, "", spell.Rituals(nil))
}

func TestStudyHours(t *testing.T) {
	s := &skill.Skill{Studies: []skill.Study{
		{Type: skill.StudySelf, Hours: fxp.FromInteger(100)},
		{Type: skill.StudyTeacher, Hours: fxp.FromInteger(20)},
		{Type: skill.StudyJob, Hours: fxp.FromInteger(40)},
		{Type: skill.StudyIntensive, Hours: fxp.FromInteger(5)},
	}}
	assert.Equal(t, fxp.FromInteger(90), s.StudyHours())
	assert.Equal(t, "Studied 90 of 200 hours", s.StudyProgress())
	assert.Equal(t, "", (&skill.Skill{}).StudyProgress())
}

// TestStepFunctionMonotonic_Property verifies more points never lower the
// level, for every tier.
func TestStepFunctionMonotonic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.SampledFrom(allTiers).Draw(rt, "difficulty")
		p := rapid.IntRange(0, 80).Draw(rt, "points")
		s := &skill.Skill{Name: "x", Attribute: "dx", Difficulty: d, Points: p}
		lower := s.CalculateLevel(newActor())
		s.Points = p + 1
		higher := s.CalculateLevel(newActor())
		assert.LessOrEqual(rt, lower.Compare(higher), 0)
	})
}

// TestPointsForLevelRoundTrip_Property verifies that asking for the current
// level returns the current points.
func TestPointsForLevelRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.SampledFrom(allTiers).Draw(rt, "difficulty")
		p := rapid.IntRange(1, 60).Draw(rt, "points")
		if d == skill.Wildcard && p < 3 {
			p = 3
		}
		s := &skill.Skill{Name: "x", Attribute: "dx", Difficulty: d, Points: p}
		lvl := s.CalculateLevel(newActor())
		require.True(rt, lvl.Defined)
		assert.Equal(rt, p, s.PointsForLevel(newActor(), lvl.Level))
	})
}

// TestDecrementLowersLevel_Property verifies the two-pass decrement always
// lands on a strictly lower level and that incrementing restores it.
func TestDecrementLowersLevel_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.SampledFrom(allTiers).Draw(rt, "difficulty")
		p := rapid.IntRange(1, 60).Draw(rt, "points")
		if d == skill.Wildcard && p < 3 {
			p = 3
		}
		a := newActor()
		s := &skill.Skill{Name: "x", Attribute: "dx", Difficulty: d, Points: p}
		before := s.CalculateLevel(a)
		require.True(rt, s.DecrementLevel(a))
		after := s.CalculateLevel(a)
		assert.Less(rt, after.Compare(before), 0)
		assert.GreaterOrEqual(rt, s.Points, 0)
		if after.Defined && before.Defined {
			require.True(rt, s.IncrementLevel(a))
			assert.Equal(rt, 0, s.CalculateLevel(a).Compare(before))
		}
	})
}

func TestCalculateLevel_EncumbrancePenalty(t *testing.T) {
	a := newActor()
	a.enc = 2
	s := &skill.Skill{Name: "Climbing", Attribute: "dx", Difficulty: skill.Average, Points: 2}
	assert.Equal(t, 12, s.CalculateLevel(a).Level)

	s.EncumbrancePenaltyMultiplier = 1
	lvl := s.CalculateLevel(a)
	assert.Equal(t, 10, lvl.Level)
	assert.Equal(t, 0, lvl.RelativeLevel)
	assert.Contains(t, lvl.Tooltip.String(), "Encumbrance [-2]")
}

func TestEncumbrancePenalty_OnlyPlainSkills(t *testing.T) {
	a := newActor()
	a.enc = 2
	for _, kind := range []skill.Kind{skill.KindTechnique, skill.KindSpell, skill.KindRitualMagicSpell} {
		s := &skill.Skill{Kind: kind, Name: "Climbing", Attribute: "dx", Difficulty: skill.Average, Points: 2, EncumbrancePenaltyMultiplier: 1}
		assert.Zero(t, s.EncumbrancePenalty(a, nil), string(kind))
	}
	s := &skill.Skill{Kind: skill.KindSkill, Name: "Climbing", Attribute: "dx", Difficulty: skill.Average, Points: 2, EncumbrancePenaltyMultiplier: 1}
	assert.Equal(t, -2, s.EncumbrancePenalty(a, nil))
}
