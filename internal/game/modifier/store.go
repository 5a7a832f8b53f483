package modifier

import (
	"context"
	"sync"
)

// Store holds one modifier stack per user.
type Store interface {
	// Push merges m into userID's stack.
	Push(ctx context.Context, userID string, m Modifier) error
	// Remove deletes the entry at index i of userID's stack.
	Remove(ctx context.Context, userID string, i int) error
	// Snapshot returns userID's pending modifiers without clearing them.
	Snapshot(ctx context.Context, userID string) ([]Modifier, error)
	// Claim returns userID's pending modifiers and clears them unless the
	// stack is sticky, atomically.
	Claim(ctx context.Context, userID string) ([]Modifier, error)
	// Consume removes the used modifiers from userID's stack unless the
	// stack is sticky, atomically. Entries pushed after used was read are
	// kept.
	Consume(ctx context.Context, userID string, used []Modifier) error
	// Clear empties userID's stack.
	Clear(ctx context.Context, userID string) error
	// Sticky reports userID's sticky flag.
	Sticky(ctx context.Context, userID string) (bool, error)
	// SetSticky sets userID's sticky flag.
	SetSticky(ctx context.Context, userID string, sticky bool) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu            sync.Mutex
	stacks        map[string]*Stack
	defaultSticky bool
}

// NewMemoryStore returns an empty store. New stacks start with the given
// sticky setting.
func NewMemoryStore(defaultSticky bool) *MemoryStore {
	return &MemoryStore{stacks: make(map[string]*Stack), defaultSticky: defaultSticky}
}

// Stack returns userID's stack, creating it on first use.
func (s *MemoryStore) Stack(userID string) *Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stacks[userID]
	if !ok {
		st = NewStack(s.defaultSticky)
		s.stacks[userID] = st
	}
	return st
}

func (s *MemoryStore) Push(_ context.Context, userID string, m Modifier) error {
	s.Stack(userID).Add(m)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, userID string, i int) error {
	s.Stack(userID).Remove(i)
	return nil
}

func (s *MemoryStore) Snapshot(_ context.Context, userID string) ([]Modifier, error) {
	return s.Stack(userID).Snapshot(), nil
}

func (s *MemoryStore) Claim(_ context.Context, userID string) ([]Modifier, error) {
	return s.Stack(userID).Claim(), nil
}

func (s *MemoryStore) Consume(_ context.Context, userID string, used []Modifier) error {
	s.Stack(userID).Consume(used)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	s.Stack(userID).Clear()
	return nil
}

func (s *MemoryStore) Sticky(_ context.Context, userID string) (bool, error) {
	return s.Stack(userID).Sticky(), nil
}

func (s *MemoryStore) SetSticky(_ context.Context, userID string, sticky bool) error {
	s.Stack(userID).SetSticky(sticky)
	return nil
}
