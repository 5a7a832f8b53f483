// Package postgres persists roll results to PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raianasancho/gcsga/internal/config"
)

// ApplicationName tags the engine's sessions in pg_stat_activity.
const ApplicationName = "gcsga"

// ErrSchemaMissing is returned by CheckSchema when the roll log table has
// not been migrated.
var ErrSchemaMissing = errors.New("roll log schema missing")

// Pool is the connection pool the roll log writes through.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the configured database and pings it once.
//
// Precondition: cfg must hold a reachable host and valid credentials.
// Postcondition: Returns a Pool that answered a ping, or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool for %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s: %w", cfg.Name, err)
	}
	return &Pool{pool: pool}, nil
}

// CheckSchema reports ErrSchemaMissing when the roll_log table does not
// exist, so a fresh database fails at startup instead of on the first roll.
func (p *Pool) CheckSchema(ctx context.Context) error {
	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT to_regclass('roll_log') IS NOT NULL`).Scan(&exists); err != nil {
		return fmt.Errorf("checking roll log schema: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: run cmd/migrate -direction up", ErrSchemaMissing)
	}
	return nil
}

// Health pings the database, giving up after timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health: %w", err)
	}
	return nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pool for repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
