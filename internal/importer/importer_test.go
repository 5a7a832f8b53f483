package importer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/raianasancho/gcsga/internal/game/character"
	"github.com/raianasancho/gcsga/internal/game/skill"
	"github.com/raianasancho/gcsga/internal/game/weapon"
	"github.com/raianasancho/gcsga/internal/importer"
	"github.com/raianasancho/gcsga/internal/scripting"
)

// A trimmed library export in its native JSON layout, tab indented.
const libraryJSON = `{
	"version": 5,
	"rows": [
		{
			"type": "trait_container",
			"name": "Combat",
			"children": [
				{
					"type": "trait",
					"name": "Enhanced Parry",
					"levels": "1",
					"base_points": 0,
					"points_per_level": 5,
					"features": [
						{"type": "attribute_bonus", "attribute": "parry", "amount": 1, "per_level": true}
					],
					"modifiers": [{"type": "modifier", "name": "Bare Hands", "cost": -40}]
				}
			]
		},
		{"type": "skill", "name": "Broadsword", "difficulty": "dx/a", "points": 4,
			"weapons": [{"type": "melee_weapon", "usage": "Pommel", "damage": {"type": "cr", "st": "thr"}}]},
		{"type": "technique", "name": "Feint", "difficulty": "h", "points": 2},
		{"type": "ritual_magic_spell", "name": "Fireball", "difficulty": "iq/vh", "college": ["Fire"]},
		{"type": "note", "text": "Homebrew content"},
		{
			"type": "equipment_container",
			"description": "Backpack",
			"weight": "3 lb",
			"value": 60,
			"children": [
				{"type": "equipment", "description": "Rope", "quantity": 2, "weight": "1.5 lb"}
			],
			"modifiers": [{"type": "eqp_modifier", "name": "Fine", "cost": "x2"}],
			"weapons": [{"type": "melee_weapon", "usage": "Swing", "parry": "-2",
				"damage": {"type": "cr", "st": "sw", "base": "-1"},
				"defaults": [{"type": "dx", "modifier": -4}]}]
		}
	]
}`

func TestParseDocument_Forms(t *testing.T) {
	nodes, err := importer.ParseDocument([]byte(libraryJSON))
	require.NoError(t, err)
	assert.Len(t, nodes, 6)

	nodes, err = importer.ParseDocument([]byte("- type: skill\n  name: Knife\n"))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Knife", nodes[0].Name)

	nodes, err = importer.ParseDocument([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, nodes)

	_, err = importer.ParseDocument([]byte("[{"))
	assert.Error(t, err)
}

func TestConvert_Library(t *testing.T) {
	nodes, err := importer.ParseDocument([]byte(libraryJSON))
	require.NoError(t, err)
	lib, err := importer.Convert(nodes)
	require.NoError(t, err)

	require.Len(t, lib.Traits, 1)
	parry := lib.Traits[0]
	assert.Equal(t, "Enhanced Parry", parry.Name)
	assert.Equal(t, 5, parry.Points)
	require.Len(t, parry.Features, 1)

	require.Len(t, lib.Skills, 2)
	assert.Equal(t, skill.KindSkill, lib.Skills[0].Kind)
	assert.Equal(t, skill.Average, lib.Skills[0].Difficulty)
	assert.Equal(t, skill.KindTechnique, lib.Skills[1].Kind)
	assert.Equal(t, "dx", lib.Skills[1].Attribute)
	assert.Equal(t, skill.Hard, lib.Skills[1].Difficulty)

	require.Len(t, lib.Spells, 1)
	fireball := lib.Spells[0]
	assert.Equal(t, skill.KindRitualMagicSpell, fireball.Kind)
	assert.Equal(t, skill.VeryHard, fireball.Difficulty)
	assert.Equal(t, 1, fireball.Points)
	assert.Equal(t, []string{"Fire"}, fireball.Colleges)

	assert.Equal(t, []string{"Homebrew content"}, lib.Notes)

	require.Len(t, lib.Weapons, 1)
	assert.Equal(t, "thr cr", lib.Weapons[0].Damage)
	assert.Equal(t, "Broadsword", lib.Weapons[0].OwnerName)

	require.Len(t, lib.Equipment, 1)
	pack := lib.Equipment[0]
	assert.Equal(t, "Backpack", pack.Name)
	assert.Equal(t, 1, pack.Quantity)
	require.Len(t, pack.Children, 1)
	assert.Equal(t, 2, pack.Children[0].Quantity)
	require.Len(t, pack.Modifiers, 1)
	assert.Equal(t, "x2", pack.Modifiers[0].CostAmount)
	require.Len(t, pack.Weapons, 1)
	assert.Equal(t, weapon.Melee, pack.Weapons[0].Kind)
	assert.Equal(t, "sw-1 cr", pack.Weapons[0].Damage)
	assert.Equal(t, "120", pack.ExtendedValue().String())
}

func TestConvert_UnknownType(t *testing.T) {
	cases := map[string]string{
		"top level":       `[{"type": "vehicle", "name": "Cart"}]`,
		"in container":    `[{"type": "skill_container", "children": [{"type": "vehicle"}]}]`,
		"item modifier":   `[{"type": "equipment", "name": "Sword", "modifiers": [{"type": "modifier"}]}]`,
		"item weapon":     `[{"type": "equipment", "name": "Sword", "weapons": [{"type": "skill"}]}]`,
		"trait modifier":  `[{"type": "trait", "name": "Fit", "modifiers": [{"type": "eqp_modifier"}]}]`,
		"equipment child": `[{"type": "equipment_container", "name": "Bag", "children": [{"type": "note"}]}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			nodes, err := importer.ParseDocument([]byte(doc))
			require.NoError(t, err)
			_, err = importer.Convert(nodes)
			assert.ErrorIs(t, err, importer.ErrUnknownItemType)
		})
	}
}

func TestConvert_DisabledContainerDisablesChildren(t *testing.T) {
	nodes, err := importer.ParseDocument([]byte(`[{"type": "trait_container", "disabled": true, "children": [{"type": "trait", "name": "Fit"}]}]`))
	require.NoError(t, err)
	lib, err := importer.Convert(nodes)
	require.NoError(t, err)
	require.Len(t, lib.Traits, 1)
	assert.True(t, lib.Traits[0].Disabled)
}

func TestImporter_RunWritesLoadableLibrary(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "basic.skl"), []byte(libraryJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "readme.txt"), []byte("not a library"), 0644))
	out := filepath.Join(t.TempDir(), "out", "library.yaml")

	imp := importer.New(importer.NewFileSource(), zap.NewNop())
	require.NoError(t, imp.Run(src, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lib, err := importer.ParseLibrary(data)
	require.NoError(t, err)
	assert.Len(t, lib.Skills, 2)

	c := &character.Character{Name: "Imported"}
	lib.ApplyTo(c)
	c, err = character.Build(c, character.Rules{Evaluator: scripting.NewEvaluator(zap.NewNop(), 0)})
	require.NoError(t, err)
	assert.Len(t, c.Skills, 3)
	// Enhanced Parry 1 feeds the parry bonus.
	assert.Equal(t, 1, c.ParryBonus())
}

func TestImporter_RunMissingSource(t *testing.T) {
	imp := importer.New(importer.NewFileSource(), zap.NewNop())
	err := imp.Run(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "x.yaml"))
	assert.Error(t, err)
}

func TestConvert_EveryNodeLandsSomewhere(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		types := []string{importer.TypeTrait, importer.TypeSkill, importer.TypeTechnique, importer.TypeSpell,
			importer.TypeRitualMagicSpell, importer.TypeEquipment, importer.TypeNote}
		n := rapid.IntRange(0, 12).Draw(t, "n")
		var nodes []*importer.Node
		for i := 0; i < n; i++ {
			nodes = append(nodes, &importer.Node{Type: rapid.SampledFrom(types).Draw(t, "type"), Name: "x"})
		}
		lib, err := importer.Convert(nodes)
		if err != nil {
			t.Fatal(err)
		}
		got := len(lib.Traits) + len(lib.Skills) + len(lib.Spells) + len(lib.Equipment) + len(lib.Notes)
		if got != n {
			t.Fatalf("%d nodes became %d entries", n, got)
		}
	})
}
