// Package engine wires the rules packages, storage and observability into
// one runtime that resolves rolls for characters loaded from files.
package engine

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/raianasancho/gcsga/internal/config"
	"github.com/raianasancho/gcsga/internal/game/character"
	"github.com/raianasancho/gcsga/internal/game/condition"
	"github.com/raianasancho/gcsga/internal/game/dice"
	"github.com/raianasancho/gcsga/internal/game/hitlocation"
	"github.com/raianasancho/gcsga/internal/game/measure"
	"github.com/raianasancho/gcsga/internal/game/modifier"
	"github.com/raianasancho/gcsga/internal/game/roll"
	"github.com/raianasancho/gcsga/internal/observability"
	"github.com/raianasancho/gcsga/internal/scripting"
	"github.com/raianasancho/gcsga/internal/storage/postgres"
	"github.com/raianasancho/gcsga/internal/storage/redis"
)

// Option adjusts how New wires an Engine.
type Option func(*options)

type options struct {
	source      dice.Source
	redisClient goredis.UniversalClient
	publishers  []roll.Publisher
	now         func() time.Time
}

// WithDiceSource replaces the cryptographic dice source, e.g. with a
// seeded one for reproducible rolls.
func WithDiceSource(src dice.Source) Option {
	return func(o *options) { o.source = src }
}

// WithRedisClient makes the engine use client for modifier stacks instead
// of dialling redis.addr.
func WithRedisClient(client goredis.UniversalClient) Option {
	return func(o *options) { o.redisClient = client }
}

// WithPublisher adds a publisher that receives every result.
func WithPublisher(p roll.Publisher) Option {
	return func(o *options) { o.publishers = append(o.publishers, p) }
}

// WithClock sets the time source for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Engine is a configured rules runtime.
type Engine struct {
	Rules      character.Rules
	Catalog    *modifier.Catalog
	Store      modifier.Store
	Dispatcher *roll.Dispatcher
	Metrics    *observability.Metrics
	// RollLog is set when the database is enabled.
	RollLog *postgres.RollLogRepository

	logger  *zap.Logger
	reader  *sdkmetric.ManualReader
	closers []func()
}

// New builds an Engine from cfg.
//
// Precondition: cfg must be valid; logger must be non-nil.
// Postcondition: Returns a ready Engine the caller must Close, or an error
// with everything opened so far released.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if logger == nil {
		panic("engine: New requires a non-nil logger")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.source == nil {
		o.source = dice.NewCryptoSource()
	}

	e := &Engine{logger: logger, Catalog: modifier.StandardCatalog()}
	ok := false
	defer func() {
		if !ok {
			e.Close()
		}
	}()

	rules, err := loadRules(cfg.Rules, logger)
	if err != nil {
		return nil, err
	}
	e.Rules = rules

	if e.Store, err = e.newStore(ctx, cfg, o.redisClient); err != nil {
		return nil, err
	}

	publishers := roll.Publishers{observability.RollLogger(logger)}
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		e.closers = append(e.closers, pool.Close)
		if err := pool.CheckSchema(ctx); err != nil {
			return nil, err
		}
		e.RollLog = postgres.NewRollLogRepository(pool.DB())
		publishers = append(publishers, e.RollLog)
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
	}
	publishers = append(publishers, o.publishers...)

	mp, reader := observability.NewMeterProvider(cfg.Metrics)
	e.reader = reader
	if e.Metrics, err = observability.NewMetrics(mp, cfg.Metrics.MeterName); err != nil {
		return nil, err
	}

	e.Dispatcher = roll.NewDispatcher(
		dice.NewLoggedRoller(o.source, logger),
		e.Store,
		publishers,
		logger,
		roll.Options{
			Formula:               cfg.Rules.Formula,
			DefaultDamageLocation: cfg.Rules.DefaultDamageLocation,
			Recorder:              e.Metrics,
			Now:                   o.now,
		},
	)
	ok = true
	return e, nil
}

func loadRules(cfg config.RulesConfig, logger *zap.Logger) (character.Rules, error) {
	rules := character.Rules{
		Evaluator:   scripting.NewEvaluator(logger, cfg.ScriptInstructionLimit),
		Conditions:  condition.Standard(),
		WeightUnits: measure.ParseWeightUnit(cfg.WeightUnits),
	}
	if cfg.ConditionsDir != "" {
		extra, err := condition.LoadDirectory(cfg.ConditionsDir)
		if err != nil {
			return character.Rules{}, fmt.Errorf("loading condition definitions: %w", err)
		}
		for _, d := range extra.All() {
			rules.Conditions.Register(d)
		}
		logger.Info("loaded condition definitions", zap.Int("count", len(extra.All())))
	}
	if cfg.HitLocations != "" {
		table, err := hitlocation.Load(cfg.HitLocations)
		if err != nil {
			return character.Rules{}, err
		}
		rules.HitLocations = table
	}
	return rules, nil
}

func (e *Engine) newStore(ctx context.Context, cfg config.Config, client goredis.UniversalClient) (modifier.Store, error) {
	if !cfg.Redis.Enabled && client == nil {
		return modifier.NewMemoryStore(cfg.Rules.StickyModifiers), nil
	}
	if client == nil {
		c, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, func() { _ = c.Close() })
		client = c
	}
	return redis.NewModifierStackStore(client, redis.Options{
		KeyPrefix:     cfg.Redis.KeyPrefix,
		TTL:           cfg.Redis.TTL,
		DefaultSticky: cfg.Rules.StickyModifiers,
	}), nil
}

// LoadCharacter reads and builds a character file against the engine's
// rules.
func (e *Engine) LoadCharacter(path string) (*character.Character, error) {
	return character.Load(path, e.Rules)
}

// MetricsSummary returns the counters recorded so far, or nil when metrics
// are disabled.
func (e *Engine) MetricsSummary(ctx context.Context) (map[string]int64, error) {
	if e.reader == nil {
		return nil, nil
	}
	return observability.Summary(ctx, e.reader)
}

// Close releases connections in reverse order of opening.
func (e *Engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}
