// Package quota enforces the per-user per-day poll-creation limit.
// The tracker is policy-agnostic: it counts and reports, the poll
// service decides who is exempt.
package quota

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of pgx needed to record a creation. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the caller decides the
// transaction boundary: poll creation records inside the same
// transaction that inserts the poll.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Querier is the read side, satisfied by *pgxpool.Pool.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tracker reads and mutates the daily_poll_limits table.
type Tracker struct {
	db    Querier
	limit int
}

func NewTracker(db Querier, limit int) *Tracker {
	return &Tracker{db: db, limit: limit}
}

// Limit returns the configured daily cap.
func (t *Tracker) Limit() int { return t.limit }

// Used returns how many polls the user created on the given day
// (common.DayFormat). Zero when no row exists.
func (t *Tracker) Used(ctx context.Context, userID int64, day string) (int, error) {
	var count int
	err := t.db.QueryRow(ctx,
		`SELECT poll_count FROM daily_poll_limits WHERE user_id = $1 AND poll_date = $2`,
		userID, day,
	).Scan(&count)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading daily count: %w", err)
	}
	return count, nil
}

// Remaining returns max(0, limit - used) for the given day.
func (t *Tracker) Remaining(ctx context.Context, userID int64, day string) (int, error) {
	used, err := t.Used(ctx, userID, day)
	if err != nil {
		return 0, err
	}
	if used >= t.limit {
		return 0, nil
	}
	return t.limit - used, nil
}

// Record upserts the day's counter: first creation inserts 1, later
// ones increment. The (user_id, poll_date) uniqueness makes concurrent
// records collapse onto one row.
func (t *Tracker) Record(ctx context.Context, db Execer, userID int64, day string) error {
	_, err := db.Exec(ctx, `
		INSERT INTO daily_poll_limits (user_id, poll_date, poll_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, poll_date)
		DO UPDATE SET poll_count = daily_poll_limits.poll_count + 1
	`, userID, day)
	if err != nil {
		return fmt.Errorf("recording poll creation: %w", err)
	}
	return nil
}

// Prune deletes counters older than the given day. Quota rows only
// matter for the current day; the nightly job keeps the table small.
func (t *Tracker) Prune(ctx context.Context, db Execer, before string) (int64, error) {
	tag, err := db.Exec(ctx,
		`DELETE FROM daily_poll_limits WHERE poll_date < $1`, before,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning daily counters: %w", err)
	}
	return tag.RowsAffected(), nil
}
