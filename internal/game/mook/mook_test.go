package mook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/raianasancho/gcsga/internal/game/character"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/mook"
	"github.com/raianasancho/gcsga/internal/scripting"
)

const orc = `Orc Warrior
Veteran of the border wars.
ST 13; DX 11; IQ 9; HT 12
HP 15; Will 9; Per 9; FP 12
Speed 5.75; Move 5; Dodge 8; Parry 9
Advantages/Disadvantages: Combat Reflexes [15]; Bad Temper (12) [-10]; Acute Vision 2 [4]
Skills: Broadsword-13; Shield (DX/E) [2]-12; Guns/TL8 (Pistol)-12; Stealth DX+1-12
Attacks: Broadsword (13): 2d cut, Reach 1, Parry 9; Bow (12): 1d+2 imp, Acc 2, Range 195/260
Equipment: Broadsword, $500, 3 lb.; 2× Torch, $6, 2 lb
Lucky charm
`

func parser() *mook.Parser {
	return mook.NewParser(zap.NewNop())
}

func TestSplitLines(t *testing.T) {
	got := mook.SplitLines("a; b (c; d)\n\n e [1;2] ;")
	assert.Equal(t, []string{"a", "b (c; d)", "e [1;2]"}, got)
}

func TestSplitLines_UnclosedBracket(t *testing.T) {
	got := mook.SplitLines("Acute Vision (2 [4]; Combat Reflexes [15]; High Pain Threshold [10]")
	assert.Equal(t, []string{"Acute Vision (2 [4]", "Combat Reflexes [15]", "High Pain Threshold [10]"}, got)

	got = mook.SplitLines("Fit (x [5]\nLuck [15]; Charisma 2 [10]")
	assert.Equal(t, []string{"Fit (x [5]", "Luck [15]", "Charisma 2 [10]"}, got)

	traits, _ := parser().ParseTraits("Acute Vision (2 [4]; Combat Reflexes [15]; High Pain Threshold [10]")
	var names []string
	for _, tr := range traits {
		names = append(names, tr.Name)
	}
	assert.Contains(t, names, "Combat Reflexes")
	assert.Contains(t, names, "High Pain Threshold")
}

func TestParseTraits(t *testing.T) {
	traits, rest := parser().ParseTraits("Combat Reflexes [15]; Bad Temper (12) [-10]; Acute Vision 2 [4]; Wealth (Comfortable) [10]; [5]")
	require.Len(t, traits, 4)
	assert.Equal(t, []string{"[5]"}, rest)

	assert.Equal(t, "Combat Reflexes", traits[0].Name)
	assert.Equal(t, 15, traits[0].Points)
	assert.Equal(t, 12, traits[1].CR)
	assert.Equal(t, -10, traits[1].Points)
	assert.Equal(t, "Acute Vision", traits[2].Name)
	assert.Equal(t, 2, traits[2].Levels)
	assert.Equal(t, []string{"Comfortable"}, traits[3].Notes)
	assert.NotEmpty(t, traits[0].ID)
}

func TestParseSkills(t *testing.T) {
	skills, rest := parser().ParseSkills("Broadsword-14; Guns/TL8 (Pistol)-13; Stealth (DX/A) DX+1 [4]-13; Fast-Draw (Sword)-12; nonsense")
	require.Len(t, skills, 4)
	assert.Equal(t, []string{"nonsense"}, rest)

	assert.Equal(t, mook.Skill{ID: skills[0].ID, Name: "Broadsword", Level: 14}, skills[0])

	guns := skills[1]
	assert.Equal(t, "Guns", guns.Name)
	assert.Equal(t, "8", guns.TechLevel)
	assert.Equal(t, "Pistol", guns.Specialization)

	stealth := skills[2]
	assert.Equal(t, "dx", stealth.Attribute)
	assert.Equal(t, "a", stealth.Difficulty)
	assert.Equal(t, "DX+1", stealth.Relative)
	assert.Equal(t, 4, stealth.Points)
	assert.True(t, stealth.HasPoints)
	assert.Equal(t, "Stealth (DX/A) DX+1 [4]-13", stealth.String())

	assert.Equal(t, "Fast-Draw", skills[3].Name)
	assert.Equal(t, "Sword", skills[3].Specialization)
}

func TestParseEquipment(t *testing.T) {
	items, rest := parser().ParseEquipment("Broadsword, $500, 3 lb.; 2× Torch, $6, 2 lbs; Rope x3, 10 yd., $1,200; $5")
	require.Len(t, items, 3)
	assert.Equal(t, []string{"$5"}, rest)

	assert.Equal(t, "Broadsword", items[0].Name)
	assert.Equal(t, fxp.FromInteger(500), items[0].Value)
	assert.Equal(t, "3 lb", items[0].Weight)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, "2 lb", items[1].Weight)
	assert.Equal(t, 3, items[2].Quantity)
	assert.Equal(t, []string{"10 yd"}, items[2].Notes)
	assert.Equal(t, fxp.FromInteger(1200), items[2].Value)
}

func TestParseAttacks(t *testing.T) {
	melee, ranged, rest := parser().ParseAttacks("Broadsword (Swung) (14): 2d+1 cut, Reach 1, Parry 10; Pistol (13): 2d+2 pi, Acc 2, Range 150/1500, RoF 3, Shots 8(3), Rcl 2; Kick: hard; Bite (12): special")
	require.Len(t, melee, 1)
	require.Len(t, ranged, 1)
	assert.Equal(t, []string{"Kick: hard", "Bite (12): special"}, rest)

	sword := melee[0]
	assert.Equal(t, "Broadsword (Swung)", sword.Name)
	assert.Equal(t, 14, sword.Level)
	assert.Equal(t, "2d+1 cut", sword.Damage)
	assert.Equal(t, "1", sword.Reach)
	assert.Equal(t, "10", sword.Parry)

	pistol := ranged[0]
	assert.True(t, pistol.IsRanged())
	assert.Equal(t, "3", pistol.RateOfFire)
	assert.Equal(t, "8(3)", pistol.Shots)
	assert.Equal(t, "2", pistol.Recoil)
}

func TestParseSection_UnparsedGoesToCatchall(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := mook.NewParser(zap.New(core))
	r := &mook.Record{}
	p.ParseSection(r, mook.Skills, "Broadsword-14;;\nwhatever")
	p.ParseSection(r, mook.Catchall, "free text; more")

	require.Len(t, r.Skills, 1)
	assert.Equal(t, []string{"whatever", "free text", "more"}, r.Catchall)
	assert.Equal(t, 1, logs.FilterMessage("stat block line not understood").Len())
}

func TestParseSections(t *testing.T) {
	r := parser().ParseSections(map[mook.Section]string{
		mook.Traits: "Fit [5]",
		mook.Spells: "Fireball-15",
		mook.Ranged: "Sling (12): 1d cr, Acc 0, Range 60/100",
	})
	require.Len(t, r.Traits, 1)
	require.Len(t, r.Spells, 1)
	require.Len(t, r.Ranged, 1)
	assert.Empty(t, r.Catchall)
}

func TestParseStatBlock(t *testing.T) {
	r := parser().ParseStatBlock(orc)
	assert.Equal(t, "Orc Warrior", r.Name)
	assert.Equal(t, []string{"Veteran of the border wars."}, r.Catchall)

	st, ok := r.Attribute("st")
	require.True(t, ok)
	assert.Equal(t, fxp.FromInteger(13), st)
	speed, ok := r.Attribute("basic_speed")
	require.True(t, ok)
	assert.Equal(t, "5.75", speed.String())
	_, ok = r.Attribute("dodge")
	assert.True(t, ok)

	assert.Len(t, r.Traits, 3)
	assert.Len(t, r.Skills, 4)
	assert.Len(t, r.Melee, 1)
	assert.Len(t, r.Ranged, 1)
	require.Len(t, r.Equipment, 3)
	assert.Equal(t, "Lucky charm", r.Equipment[2].Name)

	text := r.Text()
	assert.Equal(t, "Combat Reflexes [15]\nBad Temper (12) [-10]\nAcute Vision 2 [4]", text[mook.Traits])
	assert.Equal(t, "Broadsword-13\nShield (DX/E) [2]-12\nGuns/TL8 (Pistol)-12\nStealth DX+1-12", text[mook.Skills])
	assert.Equal(t, "Broadsword (13): 2d cut, Reach 1, Parry 9", text[mook.Melee])
	assert.Equal(t, "Broadsword, $500, 3 lb\nTorch ×2, $6, 2 lb\nLucky charm", text[mook.Equipment])
}

func TestRecordCharacter(t *testing.T) {
	r := parser().ParseStatBlock(orc)
	c, err := r.Character("", character.Rules{Evaluator: scripting.NewEvaluator(zap.NewNop(), 0)})
	require.NoError(t, err)
	assert.Equal(t, "Orc Warrior", c.Name)

	for id, want := range map[string]int{"st": 13, "dx": 11, "iq": 9, "ht": 12, "hp": 15, "will": 9, "basic_move": 5} {
		got, ok := c.AttributeCurrent(id)
		require.True(t, ok, id)
		assert.Equal(t, want, got, id)
	}

	for name, want := range map[string]int{"Broadsword": 13, "Shield": 12, "Guns/TL8 (Pistol)": 12, "Stealth": 12} {
		s, ok := c.Skill(name)
		require.True(t, ok, name)
		assert.True(t, s.Level.Is(want), "%s: %s", name, s.Level)
	}
	sword, _ := c.Skill("Broadsword")
	assert.Equal(t, 8, sword.Points)

	w, ok := c.Weapon("Broadsword", "")
	require.True(t, ok)
	lvl, ok := w.SkillLevel(c, nil)
	require.True(t, ok)
	assert.Equal(t, 13, lvl)
	assert.Equal(t, "9", w.ResolvedParry(c, nil).String())
	assert.Equal(t, "No", w.ResolvedBlock(c, nil).String())

	bow, ok := c.Weapon("Bow", "")
	require.True(t, ok)
	assert.Equal(t, "195/260", bow.Range)

	ref, ok := c.ControlRef("Bad Temper")
	require.True(t, ok)
	assert.Equal(t, 12, ref.CR)
}

func TestRecordCharacter_NeedsName(t *testing.T) {
	r := &mook.Record{}
	_, err := r.Character("", character.Rules{Evaluator: scripting.NewEvaluator(zap.NewNop(), 0)})
	assert.Error(t, err)
}

func TestTraitTextRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		want := mook.Trait{
			Name:      rapid.StringMatching(`[A-Z][a-z]{2,8}( [A-Z][a-z]{2,8})?`).Draw(t, "name"),
			Points:    rapid.IntRange(-40, 40).Draw(t, "points"),
			HasPoints: true,
			CR:        rapid.SampledFrom([]int{0, 6, 9, 12, 15}).Draw(t, "cr"),
		}
		got, rest := mook.NewParser(zap.NewNop()).ParseTraits(want.String())
		if len(rest) != 0 || len(got) != 1 {
			t.Fatalf("%q parsed to %v, rest %v", want.String(), got, rest)
		}
		got[0].ID = ""
		if got[0].Name != want.Name || got[0].Points != want.Points || got[0].CR != want.CR {
			t.Fatalf("%q parsed to %+v", want.String(), got[0])
		}
	})
}
