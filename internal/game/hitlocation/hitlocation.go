// Package hitlocation holds body hit-location tables and rolls random
// locations against them.
package hitlocation

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raianasancho/gcsga/internal/game/dice"
)

// DefaultLocation is used whenever a location cannot be determined.
const DefaultLocation = "Torso"

//go:embed data/humanoid.yaml
var humanoidYAML []byte

// Location is one row of a hit-location table. Slots is the number of
// consecutive roll results the row covers; 0 means the location can only be
// targeted deliberately.
type Location struct {
	ID          string `yaml:"id"`
	ChoiceName  string `yaml:"choice_name"`
	TableName   string `yaml:"table_name"`
	Slots       int    `yaml:"slots"`
	HitPenalty  int    `yaml:"hit_penalty"`
	DRBonus     int    `yaml:"dr_bonus,omitempty"`
	Description string `yaml:"description,omitempty"`

	// start is the lowest roll result covered; set by Table.index.
	start int
}

// Range renders the covered roll results: "-", "9" or "3-4".
func (l *Location) Range() string {
	switch l.Slots {
	case 0:
		return "-"
	case 1:
		return strconv.Itoa(l.start)
	default:
		return fmt.Sprintf("%d-%d", l.start, l.start+l.Slots-1)
	}
}

// Covers reports whether the roll result n lands on l.
func (l *Location) Covers(n int) bool {
	return l.Slots > 0 && n >= l.start && n < l.start+l.Slots
}

// Table is an ordered hit-location table rolled with Roll.
type Table struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Roll      string      `yaml:"roll"`
	Locations []*Location `yaml:"locations"`
}

// Roller rolls dice expressions.
type Roller interface {
	RollExpr(ctx context.Context, expr string) (dice.RollResult, error)
}

// Parse decodes and validates a table from YAML.
//
// Postcondition: Returns a table whose slots exactly cover the roll's range,
// or an error.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing hit location table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads a table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hit location table %s: %w", path, err)
	}
	return Parse(data)
}

// Humanoid returns a fresh copy of the standard humanoid table.
func Humanoid() *Table {
	t, err := Parse(humanoidYAML)
	if err != nil {
		panic("hitlocation: embedded humanoid table invalid: " + err.Error())
	}
	return t
}

// Validate checks the roll expression and that the slots cover every
// possible result exactly once. It also indexes the table.
func (t *Table) Validate() error {
	var errs []string
	expr, err := dice.Parse(t.Roll)
	if err != nil {
		errs = append(errs, fmt.Sprintf("roll: %v", err))
	}
	if len(t.Locations) == 0 {
		errs = append(errs, "locations must not be empty")
	}
	slots := 0
	for i, l := range t.Locations {
		if l.ID == "" {
			errs = append(errs, fmt.Sprintf("locations[%d]: id must not be empty", i))
		}
		if l.Slots < 0 {
			errs = append(errs, fmt.Sprintf("locations[%d]: slots must be >= 0", i))
		}
		slots += l.Slots
	}
	if err == nil && expr.Count > 0 {
		want := expr.Count*expr.Sides - expr.Count + 1
		if slots != want {
			errs = append(errs, fmt.Sprintf("slots cover %d results, %s has %d", slots, expr, want))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("hit location table %q validation failed: %s", t.ID, strings.Join(errs, "; "))
	}
	t.index(expr.Count + expr.Modifier)
	return nil
}

func (t *Table) index(first int) {
	start := first
	for _, l := range t.Locations {
		l.start = start
		start += l.Slots
	}
}

// Find returns the first location with id.
func (t *Table) Find(id string) (*Location, bool) {
	for _, l := range t.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// Lookup returns the location covering the roll result n.
func (t *Table) Lookup(n int) (*Location, bool) {
	for _, l := range t.Locations {
		if l.Covers(n) {
			return l, true
		}
	}
	return nil, false
}

// TableName returns the table name of the location with id, or
// DefaultLocation when the table has no such location.
func (t *Table) TableName(id string) string {
	if t != nil {
		if l, ok := t.Find(id); ok && l.TableName != "" {
			return l.TableName
		}
	}
	return DefaultLocation
}

// Result is a random location roll.
type Result struct {
	Roll     dice.RollResult
	Location *Location // nil when the result fell outside the table
}

// Name is the location's choice name, or DefaultLocation.
func (r Result) Name() string {
	if r.Location == nil || r.Location.ChoiceName == "" {
		return DefaultLocation
	}
	return r.Location.ChoiceName
}

// RollRandom rolls the table's dice and looks the result up.
//
// Precondition: t was validated; roller must be non-nil.
func (t *Table) RollRandom(ctx context.Context, roller Roller) (Result, error) {
	res, err := roller.RollExpr(ctx, t.Roll)
	if err != nil {
		return Result{}, fmt.Errorf("rolling hit location: %w", err)
	}
	out := Result{Roll: res}
	if l, ok := t.Lookup(res.Total()); ok {
		out.Location = l
	}
	return out, nil
}
