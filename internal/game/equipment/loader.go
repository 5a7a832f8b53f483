package equipment

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Validate checks the invariants of it and its descendants.
//
// Postcondition: returns nil iff every item has a name and a non-negative
// quantity.
func (it *Item) Validate() error {
	var errs []error
	it.Walk(func(one *Item) {
		if one.Name == "" {
			errs = append(errs, errors.New("name must not be empty"))
		}
		if one.Quantity < 0 {
			errs = append(errs, fmt.Errorf("%s: quantity must be >= 0; got %d", one.Name, one.Quantity))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("equipment validation failed: %v", errs)
	}
	return nil
}

// AssignIDs gives every item and modifier without an ID a fresh one.
func (it *Item) AssignIDs() {
	it.Walk(func(one *Item) {
		if one.ID == "" {
			one.ID = uuid.NewString()
		}
		assignModifierIDs(one.Modifiers)
		for _, f := range one.Features {
			f.Owner = one.Name
			f.OwnerID = one.ID
		}
		for _, w := range one.Weapons {
			if w.ID == "" {
				w.ID = uuid.NewString()
			}
			w.OwnerID = one.ID
			w.OwnerName = one.Name
		}
	})
}

func assignModifierIDs(mods []*Modifier) {
	for _, m := range mods {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		assignModifierIDs(m.Children)
	}
}

// LoadItems reads a YAML list of items from path, validates them, and
// assigns missing IDs.
//
// Precondition: path names a readable YAML file.
// Postcondition: returns all items or the first error encountered.
func LoadItems(path string) ([]*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
	}
	return ParseItems(data)
}

// ParseItems decodes a YAML list of items.
func ParseItems(data []byte) ([]*Item, error) {
	var items []*Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("ParseItems: %w", err)
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("ParseItems: invalid item %q: %w", it.Name, err)
		}
		it.AssignIDs()
	}
	return items, nil
}
