package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raianasancho/gcsga/internal/game/character"
	"github.com/raianasancho/gcsga/internal/game/modifier"
	"github.com/raianasancho/gcsga/internal/game/roll"
)

// ErrNoTarget is returned when the named roll target does not exist on the
// character.
var ErrNoTarget = errors.New("no such roll target")

// ErrNeedsCharacter is returned for roll types that read a character when
// none was given.
var ErrNeedsCharacter = errors.New("roll type needs a character")

// Target names what to roll. Name is an attribute id, a skill or spell
// name, a trait name for control rolls, "Owner/Usage" for weapon rolls, or
// modifier text such as "+2 aim" for modifier requests.
type Target struct {
	Type    roll.Type
	Name    string
	Formula string
	UserID  string
	Hidden  bool
	Times   int
}

// Request turns t into a dispatcher request against c.
//
// Precondition: c may be nil only for generic, location and modifier rolls.
// Postcondition: Returns an error wrapping ErrNoTarget when Name does not
// resolve.
func Request(c *character.Character, t Target) (roll.Request, error) {
	r := roll.Request{
		UserID:  t.UserID,
		Type:    t.Type,
		Formula: t.Formula,
		Hidden:  t.Hidden,
		Times:   t.Times,
	}
	switch t.Type {
	case roll.Generic, roll.Location:
		if c != nil {
			r.Actor = c
		}
		return r, nil
	case roll.Modifier:
		m, ok := modifier.ParseCustom(t.Name)
		if !ok {
			return r, fmt.Errorf("%w: modifier %q", ErrNoTarget, t.Name)
		}
		r.Modifier = m.Modifier
		r.Comment = strings.TrimSpace(m.Name)
		return r, nil
	}
	if c == nil {
		return r, fmt.Errorf("%w: %s", ErrNeedsCharacter, t.Type)
	}
	r.Actor = c
	switch t.Type {
	case roll.Attribute:
		ref, err := c.AttributeRef(strings.ToLower(t.Name))
		if err != nil {
			return r, fmt.Errorf("%w: %v", ErrNoTarget, err)
		}
		r.Attribute = ref
	case roll.Skill, roll.SkillRelative, roll.Spell, roll.SpellRelative:
		s, ok := c.Skill(t.Name)
		if !ok {
			return r, fmt.Errorf("%w: %s %q", ErrNoTarget, t.Type, t.Name)
		}
		r.Skill = s
	case roll.ControlRoll:
		ref, ok := c.ControlRef(t.Name)
		if !ok {
			return r, fmt.Errorf("%w: no self-control trait %q", ErrNoTarget, t.Name)
		}
		r.Control = ref
	case roll.Attack, roll.Parry, roll.Block, roll.Damage:
		owner, usage, _ := strings.Cut(t.Name, "/")
		w, ok := c.Weapon(strings.TrimSpace(owner), strings.TrimSpace(usage))
		if !ok {
			return r, fmt.Errorf("%w: weapon %q", ErrNoTarget, t.Name)
		}
		r.Weapon = w
	default:
		return r, fmt.Errorf("%w: %q", roll.ErrUnknownType, t.Type)
	}
	return r, nil
}

// Roll pushes each modifier text onto the user's stack and then resolves
// t. Modifier requests return a nil result.
func (e *Engine) Roll(ctx context.Context, c *character.Character, t Target, modifiers ...string) (*roll.Result, error) {
	for _, text := range modifiers {
		m, ok := modifier.ParseCustom(text)
		if !ok {
			return nil, fmt.Errorf("%w: modifier %q", ErrNoTarget, text)
		}
		m.Name = strings.TrimSpace(m.Name)
		if err := e.Store.Push(ctx, t.UserID, m); err != nil {
			return nil, fmt.Errorf("pushing modifier %q: %w", text, err)
		}
	}
	r, err := Request(c, t)
	if err != nil {
		return nil, err
	}
	return e.Dispatcher.Dispatch(ctx, r)
}
