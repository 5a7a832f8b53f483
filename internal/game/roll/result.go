package roll

import (
	"context"
	"time"

	"github.com/raianasancho/gcsga/internal/game/dice"
	"github.com/raianasancho/gcsga/internal/game/modifier"
)

// DisplayModifier is a stack entry with its display class.
type DisplayModifier struct {
	modifier.Modifier
	Class string `json:"class"`
}

func displayModifiers(mods []modifier.Modifier) []DisplayModifier {
	out := make([]DisplayModifier, len(mods))
	for i, m := range mods {
		out[i] = DisplayModifier{Modifier: m, Class: m.Class()}
	}
	return out
}

// ItemData describes the rolled item for display.
type ItemData struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Kind           string `json:"kind,omitempty"`
	Usage          string `json:"usage,omitempty"`
	Damage         string `json:"damage,omitempty"`
	RateOfFire     string `json:"rate_of_fire,omitempty"`
	Recoil         string `json:"recoil,omitempty"`
}

// RangedExtra is attached to ranged attacks that can score several hits.
type RangedExtra struct {
	RateOfFire    string `json:"rate_of_fire"`
	Recoil        string `json:"recoil"`
	PotentialHits int    `json:"potential_hits"`
}

// DamageRef lets a follow-up damage roll find the weapon that hit.
type DamageRef struct {
	WeaponID string `json:"weapon_id,omitempty"`
	Attacker string `json:"attacker,omitempty"`
	Damage   string `json:"damage,omitempty"`
}

// Extra holds per-type payload beyond the common record.
type Extra struct {
	Ranged *RangedExtra `json:"ranged,omitempty"`
	Damage *DamageRef   `json:"damage,omitempty"`
}

// DamageRoll is one repetition of a damage roll.
type DamageRoll struct {
	Roll        dice.RollResult `json:"roll"`
	Total       int             `json:"total"`
	HitLocation string          `json:"hit_location"`
}

// DamagePayload is the body of a damage roll result. The descriptive
// fields come from the first repetition.
type DamagePayload struct {
	Damage         string       `json:"damage"`
	Dice           string       `json:"dice"`
	DamageType     string       `json:"damage_type,omitempty"`
	ArmorDivisor   string       `json:"armor_divisor,omitempty"`
	DamageModifier int          `json:"damage_modifier,omitempty"`
	ModifierTotal  int          `json:"modifier_total"`
	Rolls          []DamageRoll `json:"rolls"`
}

// Result is the record handed to the presentation layer.
type Result struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id,omitempty"`
	ActorID     string            `json:"actor_id,omitempty"`
	Type        Type              `json:"type"`
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name,omitempty"`
	Formula     string            `json:"formula,omitempty"`
	Level       int               `json:"level"`
	Outcome     *Outcome          `json:"outcome,omitempty"`
	Margin      *Margin           `json:"margin,omitempty"`
	Roll        *dice.RollResult  `json:"roll,omitempty"`
	Total       int               `json:"total"`
	Modifiers   []DisplayModifier `json:"modifiers"`
	Item        ItemData          `json:"item"`
	Extra       *Extra            `json:"extra,omitempty"`
	Damage      *DamagePayload    `json:"damage,omitempty"`
	Location    string            `json:"location,omitempty"`
	Hidden      bool              `json:"hidden,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Publisher receives finished results.
type Publisher interface {
	Publish(ctx context.Context, r *Result) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, r *Result) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, r *Result) error {
	return f(ctx, r)
}

// Publishers fans a result out to every publisher in order, stopping at the
// first error.
type Publishers []Publisher

// Publish publishes r to each member.
func (ps Publishers) Publish(ctx context.Context, r *Result) error {
	for _, p := range ps {
		if err := p.Publish(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Recorder observes dispatches for metrics.
type Recorder interface {
	RecordRoll(ctx context.Context, t Type, s Success)
	RecordInvalid(ctx context.Context, t Type)
	RecordClaim(ctx context.Context, claimed int)
}

type nopRecorder struct{}

func (nopRecorder) RecordRoll(context.Context, Type, Success) {}
func (nopRecorder) RecordInvalid(context.Context, Type)       {}
func (nopRecorder) RecordClaim(context.Context, int)          {}
