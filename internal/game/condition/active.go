package condition

import (
	"errors"
	"sort"
	"sync"
)

// ErrNilDef is returned when applying a nil definition.
var ErrNilDef = errors.New("condition: def must not be nil")

// Active is one condition applied to a character.
type Active struct {
	Def    *Def
	Stacks int
	// Remaining is the rounds left, or -1 for conditions that do not
	// expire on their own.
	Remaining int
}

// ActiveSet is the set of conditions on one character. It is safe for
// concurrent use.
type ActiveSet struct {
	mu         sync.RWMutex
	conditions map[string]*Active
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conditions: make(map[string]*Active)}
}

// Apply adds def with the given stacks, or adds stacks to an existing
// application. Stacks are capped at MaxStacks; non-stacking conditions
// always hold 1. rounds is ignored unless def expires in rounds, and a
// re-application keeps the longer duration.
//
// Postcondition: Has(def.ID) is true.
func (s *ActiveSet) Apply(def *Def, stacks, rounds int) error {
	if def == nil {
		return ErrNilDef
	}
	if def.DurationType != DurationRounds {
		rounds = -1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.conditions[def.ID]
	if !ok {
		a = &Active{Def: def, Remaining: rounds}
		s.conditions[def.ID] = a
	} else if rounds > a.Remaining {
		a.Remaining = rounds
	}
	a.Stacks = capStacks(a.Stacks+stacks, def.MaxStacks)
	return nil
}

func capStacks(n, max int) int {
	switch {
	case max == 0:
		return 1
	case n > max:
		return max
	case n < 1:
		return 1
	default:
		return n
	}
}

// Remove deletes condition id. Missing ids are ignored.
func (s *ActiveSet) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conditions, id)
}

// Tick advances one round: conditions measured in rounds lose one and are
// removed at zero. Returns the removed ids, sorted.
func (s *ActiveSet) Tick() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []string
	for id, a := range s.conditions {
		if a.Remaining < 0 {
			continue
		}
		a.Remaining--
		if a.Remaining <= 0 {
			expired = append(expired, id)
			delete(s.conditions, id)
		}
	}
	sort.Strings(expired)
	return expired
}

// Has reports whether condition id is active.
func (s *ActiveSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.conditions[id]
	return ok
}

// Stacks returns the stack count of id, or 0 when inactive.
func (s *ActiveSet) Stacks(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.conditions[id]; ok {
		return a.Stacks
	}
	return 0
}

// All returns copies of the active conditions sorted by ID.
func (s *ActiveSet) All() []Active {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Active, 0, len(s.conditions))
	for _, a := range s.conditions {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def.ID < out[j].Def.ID })
	return out
}
