package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raianasancho/gcsga/internal/game/roll"
)

// ErrRollNotFound is returned when a roll lookup yields no results.
var ErrRollNotFound = errors.New("roll not found")

// ErrRollExists is returned when a result with the same ID was already logged.
var ErrRollExists = errors.New("roll already logged")

// RollLogRepository stores published roll results. It implements
// roll.Publisher.
type RollLogRepository struct {
	db *pgxpool.Pool
}

// NewRollLogRepository creates a RollLogRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRollLogRepository(db *pgxpool.Pool) *RollLogRepository {
	if db == nil {
		panic("postgres: NewRollLogRepository requires a non-nil pool")
	}
	return &RollLogRepository{db: db}
}

// Publish inserts r. The full result is kept as JSON; the columns hold the
// fields queries filter on.
//
// Precondition: r must be non-nil with a UUID ID.
// Postcondition: Returns ErrRollExists on a duplicate ID.
func (r *RollLogRepository) Publish(ctx context.Context, res *roll.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding roll %s: %w", res.ID, err)
	}
	var success *string
	var margin *int
	if res.Outcome != nil {
		s := string(res.Outcome.Success)
		success = &s
		margin = &res.Outcome.Margin
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO roll_log
			(id, user_id, actor_id, type, name, level, total, success, margin, hidden, payload, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		res.ID, res.UserID, res.ActorID, string(res.Type), res.Name, res.Level, res.Total,
		success, margin, res.Hidden, payload, res.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrRollExists
		}
		return fmt.Errorf("inserting roll: %w", err)
	}
	return nil
}

// Get retrieves a logged result by ID.
//
// Postcondition: Returns the result or ErrRollNotFound.
func (r *RollLogRepository) Get(ctx context.Context, id string) (*roll.Result, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT payload FROM roll_log WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRollNotFound
		}
		return nil, fmt.Errorf("querying roll %s: %w", id, err)
	}
	return decodeResult(payload)
}

// Recent returns up to limit results for userID, newest first. Hidden rolls
// are included only when withHidden is set.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RollLogRepository) Recent(ctx context.Context, userID string, limit int, withHidden bool) ([]*roll.Result, error) {
	rows, err := r.db.Query(ctx, `
		SELECT payload FROM roll_log
		WHERE user_id = $1 AND (NOT hidden OR $2)
		ORDER BY created_at DESC
		LIMIT $3`,
		userID, withHidden, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rolls: %w", err)
	}
	defer rows.Close()

	out := make([]*roll.Result, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning roll row: %w", err)
		}
		res, err := decodeResult(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// SuccessCounts tallies actorID's logged success rolls by tier.
//
// Postcondition: Returns a map (may be empty) or a non-nil error.
func (r *RollLogRepository) SuccessCounts(ctx context.Context, actorID string) (map[roll.Success]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT success, COUNT(*) FROM roll_log
		WHERE actor_id = $1 AND success IS NOT NULL
		GROUP BY success`,
		actorID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting rolls: %w", err)
	}
	defer rows.Close()

	out := make(map[roll.Success]int)
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		out[roll.Success(s)] = n
	}
	return out, rows.Err()
}

func decodeResult(payload []byte) (*roll.Result, error) {
	var res roll.Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("decoding roll payload: %w", err)
	}
	return &res, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
