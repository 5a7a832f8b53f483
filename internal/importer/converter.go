// Package importer converts typed item exports (traits, skills, spells,
// equipment, notes and weapons) into the game's domain records.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/raianasancho/gcsga/internal/game/character"
	"github.com/raianasancho/gcsga/internal/game/equipment"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/skill"
	"github.com/raianasancho/gcsga/internal/game/weapon"
)

// ErrUnknownItemType is returned for nodes whose type the importer does not
// recognise.
var ErrUnknownItemType = errors.New("invalid item type")

// Item types.
const (
	TypeTrait                      = "trait"
	TypeTraitContainer             = "trait_container"
	TypeTraitModifier              = "modifier"
	TypeTraitModifierContainer     = "modifier_container"
	TypeSkill                      = "skill"
	TypeTechnique                  = "technique"
	TypeSkillContainer             = "skill_container"
	TypeSpell                      = "spell"
	TypeRitualMagicSpell           = "ritual_magic_spell"
	TypeSpellContainer             = "spell_container"
	TypeEquipment                  = "equipment"
	TypeEquipmentContainer         = "equipment_container"
	TypeEquipmentModifier          = "eqp_modifier"
	TypeEquipmentModifierContainer = "eqp_modifier_container"
	TypeNote                       = "note"
	TypeNoteContainer              = "note_container"
	TypeMeleeWeapon                = "melee_weapon"
	TypeRangedWeapon               = "ranged_weapon"
)

// structuralKeys are read from the Node itself and never decoded into the
// domain type.
var structuralKeys = []string{"type", "children", "modifiers", "weapons", "difficulty", "calc"}

// Library is the converted content of one or more exports. Its YAML keys
// match the character file, so a library can be merged into one.
type Library struct {
	Traits    []*character.Trait `yaml:"traits,omitempty"`
	Skills    []*skill.Skill     `yaml:"skills,omitempty"`
	Spells    []*skill.Skill     `yaml:"spells,omitempty"`
	Equipment []*equipment.Item  `yaml:"equipment,omitempty"`
	// Weapons holds usages found outside any trait or item.
	Weapons []*weapon.Weapon `yaml:"weapons,omitempty"`
	Notes   []string         `yaml:"notes,omitempty"`
}

// ApplyTo appends the library's traits, skills, spells and equipment to c.
// Callers rebuild c afterwards so that levels reflect the new content.
func (l *Library) ApplyTo(c *character.Character) {
	c.Traits = append(c.Traits, l.Traits...)
	c.Skills = append(c.Skills, l.Skills...)
	c.Skills = append(c.Skills, l.Spells...)
	c.Equipment = append(c.Equipment, l.Equipment...)
}

// Convert turns nodes into a Library. Containers of traits, skills, spells
// and notes are flattened; equipment and equipment modifier containers keep
// their children. Techniques are imported with the skills and ritual magic
// spells with the spells.
//
// Postcondition: Returns an error wrapping ErrUnknownItemType for the first
// node of an unrecognised type, anywhere in the tree.
func Convert(nodes []*Node) (*Library, error) {
	lib := &Library{}
	for _, n := range nodes {
		if err := lib.add(n, false); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func (l *Library) add(n *Node, disabled bool) error {
	switch n.Type {
	case TypeTrait:
		t, err := convertTrait(n)
		if err != nil {
			return err
		}
		t.Disabled = t.Disabled || disabled
		l.Traits = append(l.Traits, t)
	case TypeTraitContainer:
		if err := checkTypes(n.Modifiers, TypeTraitModifier, TypeTraitModifierContainer); err != nil {
			return err
		}
		for _, ch := range n.Children {
			if err := l.add(ch, disabled || n.Disabled); err != nil {
				return fmt.Errorf("in %q: %w", displayName(n), err)
			}
		}
	case TypeSkill, TypeTechnique:
		s, weapons, err := convertSkill(n, skill.Kind(n.Type), "dx", skill.Average)
		if err != nil {
			return err
		}
		l.Skills = append(l.Skills, s)
		l.Weapons = append(l.Weapons, weapons...)
	case TypeSpell, TypeRitualMagicSpell:
		s, weapons, err := convertSkill(n, skill.Kind(n.Type), "iq", skill.Hard)
		if err != nil {
			return err
		}
		l.Spells = append(l.Spells, s)
		l.Weapons = append(l.Weapons, weapons...)
	case TypeSkillContainer, TypeSpellContainer, TypeNoteContainer:
		for _, ch := range n.Children {
			if err := l.add(ch, disabled); err != nil {
				return fmt.Errorf("in %q: %w", displayName(n), err)
			}
		}
	case TypeEquipment, TypeEquipmentContainer:
		it, err := convertItem(n)
		if err != nil {
			return err
		}
		l.Equipment = append(l.Equipment, it)
	case TypeNote:
		l.Notes = append(l.Notes, displayName(n))
	case TypeMeleeWeapon, TypeRangedWeapon:
		w, err := convertWeapon(n)
		if err != nil {
			return err
		}
		l.Weapons = append(l.Weapons, w)
	case TypeTraitModifier, TypeTraitModifierContainer, TypeEquipmentModifier, TypeEquipmentModifierContainer:
		// Modifiers only mean something on their owner.
		return checkTypes([]*Node{n}, n.Type)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownItemType, n.Type)
	}
	return nil
}

// checkTypes verifies that nodes and their descendants are of the allowed
// types.
func checkTypes(nodes []*Node, allowed ...string) error {
	for _, n := range nodes {
		if !contains(allowed, n.Type) {
			return fmt.Errorf("%w: %q", ErrUnknownItemType, n.Type)
		}
		if err := checkTypes(n.Children, allowed...); err != nil {
			return err
		}
	}
	return nil
}

// displayName falls back through name, description, text and usage.
func displayName(n *Node) string {
	for _, s := range []string{n.Name, n.Description, n.Text, n.Usage} {
		if s != "" {
			return s
		}
	}
	return ""
}

func nameOr(n *Node, def string) string {
	if name := displayName(n); name != "" {
		return name
	}
	return def
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func convertTrait(n *Node) (*character.Trait, error) {
	if err := checkTypes(n.Modifiers, TypeTraitModifier, TypeTraitModifierContainer); err != nil {
		return nil, err
	}
	t := &character.Trait{}
	if err := n.decodeInto(t, structuralKeys...); err != nil {
		return nil, fmt.Errorf("trait %q: %w", displayName(n), err)
	}
	t.ID = idOrNew(t.ID)
	t.Name = nameOr(n, "Trait")
	if t.Points == 0 && (n.BasePoints != 0 || n.PointsPerLevel != 0) {
		t.Points = n.BasePoints + fxp.FromInteger(n.PointsPerLevel).Mul(t.Levels).Trunc().AsInt()
	}
	weapons, err := convertWeapons(n.Weapons)
	if err != nil {
		return nil, fmt.Errorf("trait %q: %w", t.Name, err)
	}
	t.Weapons = weapons
	return t, nil
}

// convertSkill also returns the skill's weapon usages, owned by the skill
// since skills carry none themselves.
func convertSkill(n *Node, kind skill.Kind, defAttr string, defDiff skill.Difficulty) (*skill.Skill, []*weapon.Weapon, error) {
	s := &skill.Skill{}
	if err := n.decodeInto(s, structuralKeys...); err != nil {
		return nil, nil, fmt.Errorf("%s %q: %w", kind, displayName(n), err)
	}
	s.ID = idOrNew(s.ID)
	s.Kind = kind
	s.Name = nameOr(n, strings.ToUpper(string(kind[:1]))+strings.ReplaceAll(string(kind[1:]), "_", " "))
	if s.Points == 0 {
		s.Points = 1
	}
	if s.Attribute == "" {
		s.Attribute = defAttr
	}
	diff := n.Difficulty
	if !strings.Contains(diff, "/") {
		diff = s.Attribute + "/" + diff
	}
	s.Attribute, s.Difficulty = skill.ParseDifficulty(diff, defAttr, defDiff)
	weapons, err := convertWeapons(n.Weapons)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %q: %w", kind, s.Name, err)
	}
	for _, w := range weapons {
		w.OwnerID = s.ID
		w.OwnerName = s.FormattedName()
	}
	return s, weapons, nil
}

func convertItem(n *Node) (*equipment.Item, error) {
	it := &equipment.Item{Quantity: 1}
	if err := n.decodeInto(it, structuralKeys...); err != nil {
		return nil, fmt.Errorf("equipment %q: %w", displayName(n), err)
	}
	it.ID = idOrNew(it.ID)
	it.Name = nameOr(n, "Equipment")
	mods, err := convertModifiers(n.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("equipment %q: %w", it.Name, err)
	}
	it.Modifiers = mods
	if it.Weapons, err = convertWeapons(n.Weapons); err != nil {
		return nil, fmt.Errorf("equipment %q: %w", it.Name, err)
	}
	for _, ch := range n.Children {
		if ch.Type != TypeEquipment && ch.Type != TypeEquipmentContainer {
			return nil, fmt.Errorf("equipment %q: %w: %q", it.Name, ErrUnknownItemType, ch.Type)
		}
		child, err := convertItem(ch)
		if err != nil {
			return nil, err
		}
		it.Children = append(it.Children, child)
	}
	return it, nil
}

func convertModifiers(nodes []*Node) ([]*equipment.Modifier, error) {
	var out []*equipment.Modifier
	for _, n := range nodes {
		if n.Type != TypeEquipmentModifier && n.Type != TypeEquipmentModifierContainer {
			return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, n.Type)
		}
		m := &equipment.Modifier{}
		if err := n.decodeInto(m, structuralKeys...); err != nil {
			return nil, fmt.Errorf("modifier %q: %w", displayName(n), err)
		}
		m.ID = idOrNew(m.ID)
		m.Name = nameOr(n, "Equipment Modifier")
		children, err := convertModifiers(n.Children)
		if err != nil {
			return nil, err
		}
		m.Children = children
		out = append(out, m)
	}
	return out, nil
}

func convertWeapons(nodes []*Node) ([]*weapon.Weapon, error) {
	var out []*weapon.Weapon
	for _, n := range nodes {
		if n.Type != TypeMeleeWeapon && n.Type != TypeRangedWeapon {
			return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, n.Type)
		}
		w, err := convertWeapon(n)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// weaponDamage is the structured damage of an export, e.g.
// {st: sw, base: "1", type: cut}.
type weaponDamage struct {
	Type         string `yaml:"type"`
	ST           string `yaml:"st"`
	Base         string `yaml:"base"`
	ArmorDivisor string `yaml:"armor_divisor"`
}

func (d weaponDamage) String() string {
	var b strings.Builder
	b.WriteString(d.ST)
	if d.Base != "" {
		if d.ST != "" && !strings.HasPrefix(d.Base, "-") && !strings.HasPrefix(d.Base, "+") {
			b.WriteString("+")
		}
		b.WriteString(d.Base)
	}
	if d.ArmorDivisor != "" && d.ArmorDivisor != "1" {
		fmt.Fprintf(&b, "(%s)", d.ArmorDivisor)
	}
	if d.Type != "" {
		b.WriteString(" " + d.Type)
	}
	return strings.TrimSpace(b.String())
}

func convertWeapon(n *Node) (*weapon.Weapon, error) {
	w := &weapon.Weapon{}
	if err := n.decodeInto(w, append(structuralKeys, "damage")...); err != nil {
		return nil, fmt.Errorf("weapon %q: %w", displayName(n), err)
	}
	w.ID = idOrNew(w.ID)
	w.Kind = weapon.Melee
	if n.Type == TypeRangedWeapon {
		w.Kind = weapon.Ranged
	}
	if n.raw == nil {
		return w, nil
	}
	for i := 0; i+1 < len(n.raw.Content); i += 2 {
		if n.raw.Content[i].Value != "damage" {
			continue
		}
		v := n.raw.Content[i+1]
		if v.Kind == yaml.MappingNode {
			var d weaponDamage
			if err := v.Decode(&d); err != nil {
				return nil, fmt.Errorf("weapon %q damage: %w", displayName(n), err)
			}
			w.Damage = d.String()
		} else {
			w.Damage = v.Value
		}
	}
	return w, nil
}
