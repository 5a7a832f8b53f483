// Package redis shares per-user modifier stacks through Redis so that
// several processes resolving rolls for the same user see one stack.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/raianasancho/gcsga/internal/config"
	"github.com/raianasancho/gcsga/internal/game/modifier"
)

// ErrContention is returned when an update kept losing optimistic-lock
// races for the same stack.
var ErrContention = errors.New("modifier stack contention")

const maxRetries = 16

// getter is satisfied by clients and by transactions.
type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

// NewClient connects to the configured Redis server.
//
// Precondition: cfg.Addr must be non-empty.
// Postcondition: Returns a client that answered PING, or a non-nil error.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Options tunes a ModifierStackStore.
type Options struct {
	// KeyPrefix namespaces the store's keys.
	KeyPrefix string
	// TTL expires a stack that has not been touched for this long; 0 keeps
	// stacks forever.
	TTL time.Duration
	// DefaultSticky is the sticky flag of a user who never set one.
	DefaultSticky bool
}

// ModifierStackStore implements modifier.Store on Redis. Each user's stack
// is a JSON list under one key and the sticky flag under another;
// read-modify-write operations run as WATCH/MULTI transactions.
type ModifierStackStore struct {
	client goredis.UniversalClient
	opts   Options
}

var _ modifier.Store = (*ModifierStackStore)(nil)

// NewModifierStackStore wires a store to client.
//
// Precondition: client must be non-nil.
func NewModifierStackStore(client goredis.UniversalClient, opts Options) *ModifierStackStore {
	if client == nil {
		panic("redis: NewModifierStackStore requires a non-nil client")
	}
	return &ModifierStackStore{client: client, opts: opts}
}

func (s *ModifierStackStore) stackKey(userID string) string {
	return s.opts.KeyPrefix + "modifiers:" + userID
}

func (s *ModifierStackStore) stickyKey(userID string) string {
	return s.opts.KeyPrefix + "sticky:" + userID
}

// Push merges m into userID's stack.
func (s *ModifierStackStore) Push(ctx context.Context, userID string, m modifier.Modifier) error {
	_, err := s.update(ctx, userID, func(mods []modifier.Modifier, _ bool) []modifier.Modifier {
		return modifier.Merge(mods, m)
	})
	return err
}

// Remove deletes the entry at index i. Out-of-range indices are ignored.
func (s *ModifierStackStore) Remove(ctx context.Context, userID string, i int) error {
	_, err := s.update(ctx, userID, func(mods []modifier.Modifier, _ bool) []modifier.Modifier {
		if i < 0 || i >= len(mods) {
			return mods
		}
		return append(mods[:i:i], mods[i+1:]...)
	})
	return err
}

// Snapshot returns userID's pending modifiers.
func (s *ModifierStackStore) Snapshot(ctx context.Context, userID string) ([]modifier.Modifier, error) {
	return s.read(ctx, s.client, userID)
}

// Claim returns the pending modifiers and clears them unless the stack is
// sticky, in one transaction.
func (s *ModifierStackStore) Claim(ctx context.Context, userID string) ([]modifier.Modifier, error) {
	return s.update(ctx, userID, func(mods []modifier.Modifier, sticky bool) []modifier.Modifier {
		if sticky {
			return mods
		}
		return nil
	})
}

// Consume removes used from userID's stack unless it is sticky, in one
// transaction.
func (s *ModifierStackStore) Consume(ctx context.Context, userID string, used []modifier.Modifier) error {
	if len(used) == 0 {
		return nil
	}
	_, err := s.update(ctx, userID, func(mods []modifier.Modifier, sticky bool) []modifier.Modifier {
		if sticky {
			return mods
		}
		return modifier.Consume(mods, used)
	})
	return err
}

// Clear empties userID's stack regardless of stickiness.
func (s *ModifierStackStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.stackKey(userID)).Err(); err != nil {
		return fmt.Errorf("clearing modifiers for %s: %w", userID, err)
	}
	return nil
}

// Sticky reports userID's sticky flag.
func (s *ModifierStackStore) Sticky(ctx context.Context, userID string) (bool, error) {
	return s.sticky(ctx, s.client, userID)
}

// SetSticky stores userID's sticky flag.
func (s *ModifierStackStore) SetSticky(ctx context.Context, userID string, sticky bool) error {
	if err := s.client.Set(ctx, s.stickyKey(userID), strconv.FormatBool(sticky), s.opts.TTL).Err(); err != nil {
		return fmt.Errorf("setting sticky flag for %s: %w", userID, err)
	}
	return nil
}

// update applies fn to the stack under an optimistic lock and returns the
// stack as it was before fn.
func (s *ModifierStackStore) update(ctx context.Context, userID string, fn func([]modifier.Modifier, bool) []modifier.Modifier) ([]modifier.Modifier, error) {
	key := s.stackKey(userID)
	var before []modifier.Modifier
	txf := func(tx *goredis.Tx) error {
		mods, err := s.read(ctx, tx, userID)
		if err != nil {
			return err
		}
		sticky, err := s.sticky(ctx, tx, userID)
		if err != nil {
			return err
		}
		before = mods
		next := fn(append([]modifier.Modifier(nil), mods...), sticky)
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encoding modifiers: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			if len(next) == 0 {
				p.Del(ctx, key)
				return nil
			}
			p.Set(ctx, key, data, s.opts.TTL)
			return nil
		})
		return err
	}
	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, txf, key, s.stickyKey(userID))
		if err == nil {
			return before, nil
		}
		if !errors.Is(err, goredis.TxFailedErr) {
			return nil, fmt.Errorf("updating modifiers for %s: %w", userID, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrContention, userID)
}

func (s *ModifierStackStore) read(ctx context.Context, c getter, userID string) ([]modifier.Modifier, error) {
	data, err := c.Get(ctx, s.stackKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return []modifier.Modifier{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading modifiers for %s: %w", userID, err)
	}
	var mods []modifier.Modifier
	if err := json.Unmarshal(data, &mods); err != nil {
		return nil, fmt.Errorf("decoding modifiers for %s: %w", userID, err)
	}
	return mods, nil
}

func (s *ModifierStackStore) sticky(ctx context.Context, c getter, userID string) (bool, error) {
	v, err := c.Get(ctx, s.stickyKey(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return s.opts.DefaultSticky, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading sticky flag for %s: %w", userID, err)
	}
	return strconv.ParseBool(v)
}
