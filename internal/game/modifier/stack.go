package modifier

import "sync"

// Stack is a single user's pending modifiers. All methods are safe for
// concurrent use.
type Stack struct {
	mu     sync.Mutex
	mods   []Modifier
	sticky bool
}

// NewStack returns an empty stack.
func NewStack(sticky bool) *Stack {
	return &Stack{sticky: sticky}
}

// Add merges m into the stack.
func (s *Stack) Add(m Modifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mods = Merge(s.mods, m)
}

// Nudge adds delta to the unnamed modifier, as a mouse wheel does.
func (s *Stack) Nudge(delta int) {
	s.Add(Modifier{Modifier: delta, Tags: []string{}})
}

// Remove deletes the entry at index i. Out-of-range indices are ignored.
func (s *Stack) Remove(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.mods) {
		return
	}
	s.mods = append(s.mods[:i:i], s.mods[i+1:]...)
}

// Clear empties the stack regardless of stickiness.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mods = nil
}

// Snapshot returns a copy of the pending modifiers.
func (s *Stack) Snapshot() []Modifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Modifier(nil), s.mods...)
}

// Total sums the pending modifiers.
func (s *Stack) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.mods)
}

// Sticky reports whether Claim leaves the stack intact.
func (s *Stack) Sticky() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sticky
}

// SetSticky sets whether Claim leaves the stack intact.
func (s *Stack) SetSticky(sticky bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sticky = sticky
}

// Claim returns the pending modifiers and clears the stack unless it is
// sticky, as one step.
func (s *Stack) Claim() []Modifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Modifier(nil), s.mods...)
	if !s.sticky {
		s.mods = nil
	}
	return out
}

// Consume takes used back out of the stack unless it is sticky. Modifiers
// pushed since used was read stay pending.
func (s *Stack) Consume(used []Modifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sticky {
		s.mods = Consume(s.mods, used)
	}
}
