// repository.go runs the vote-table SQL. Every counter mutation is a
// database transaction pairing the vote row change with the poll
// counter update: both land or neither does.
package votes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gercekmi.com/backend/internal/common"
)

// Repository works with the votes and polls tables.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetPollExpiry returns when the poll closes.
func (r *Repository) GetPollExpiry(ctx context.Context, pollID int64) (time.Time, error) {
	var expiresAt time.Time
	err := r.db.QueryRow(ctx,
		`SELECT expires_at FROM polls WHERE id = $1`, pollID,
	).Scan(&expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, common.ErrPollNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading poll expiry: %w", err)
	}
	return expiresAt, nil
}

// GetTally returns the poll's current counters.
func (r *Repository) GetTally(ctx context.Context, pollID int64) (Tally, error) {
	var t Tally
	err := r.db.QueryRow(ctx,
		`SELECT gercek_votes, efsane_votes FROM polls WHERE id = $1`, pollID,
	).Scan(&t.Gercek, &t.Efsane)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tally{}, common.ErrPollNotFound
	}
	if err != nil {
		return Tally{}, fmt.Errorf("reading poll counters: %w", err)
	}
	return t, nil
}

// GetVote returns the user's vote on the poll, or nil when none exists.
func (r *Repository) GetVote(ctx context.Context, userID, pollID int64) (*Vote, error) {
	var v Vote
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, poll_id, vote_type, created_at
		 FROM votes WHERE user_id = $1 AND poll_id = $2`,
		userID, pollID,
	).Scan(&v.ID, &v.UserID, &v.PollID, &v.Choice, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading vote: %w", err)
	}
	return &v, nil
}

// CreateVote inserts a first vote and increments the matching counter,
// returning the poll's new tally. A unique-constraint violation means
// another request won the race for this (user, poll) pair.
func (r *Repository) CreateVote(ctx context.Context, userID, pollID int64, choice Choice) (Tally, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Tally{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO votes (user_id, poll_id, vote_type) VALUES ($1, $2, $3)`,
		userID, pollID, choice,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Tally{}, common.ErrVoteConflict
		}
		return Tally{}, fmt.Errorf("inserting vote: %w", err)
	}

	tally, err := bumpCounters(ctx, tx, pollID, choice, "")
	if err != nil {
		return Tally{}, err
	}
	return tally, tx.Commit(ctx)
}

// SwitchVote flips a stored vote to the other side. The counter UPDATE
// touches both sides in one statement, so no reader ever observes a
// transient double count.
func (r *Repository) SwitchVote(ctx context.Context, voteID, pollID int64, to Choice) (Tally, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Tally{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE votes SET vote_type = $1 WHERE id = $2`, to, voteID,
	)
	if err != nil {
		return Tally{}, fmt.Errorf("updating vote: %w", err)
	}

	tally, err := bumpCounters(ctx, tx, pollID, to, to.Other())
	if err != nil {
		return Tally{}, err
	}
	return tally, tx.Commit(ctx)
}

// DeleteVote removes a vote and decrements the counter it was backing.
func (r *Repository) DeleteVote(ctx context.Context, voteID, pollID int64, choice Choice) (Tally, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Tally{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM votes WHERE id = $1`, voteID)
	if err != nil {
		return Tally{}, fmt.Errorf("deleting vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Tally{}, common.ErrVoteNotFound
	}

	tally, err := bumpCounters(ctx, tx, pollID, "", choice)
	if err != nil {
		return Tally{}, err
	}
	return tally, tx.Commit(ctx)
}

// bumpCounters applies +1 to inc and -1 to dec (either may be empty)
// on the poll row and returns the resulting tally.
func bumpCounters(ctx context.Context, tx pgx.Tx, pollID int64, inc, dec Choice) (Tally, error) {
	gercekDelta := 0
	efsaneDelta := 0
	switch inc {
	case ChoiceGercek:
		gercekDelta++
	case ChoiceEfsane:
		efsaneDelta++
	}
	switch dec {
	case ChoiceGercek:
		gercekDelta--
	case ChoiceEfsane:
		efsaneDelta--
	}

	var t Tally
	err := tx.QueryRow(ctx, `
		UPDATE polls
		SET gercek_votes = gercek_votes + $2, efsane_votes = efsane_votes + $3
		WHERE id = $1
		RETURNING gercek_votes, efsane_votes
	`, pollID, gercekDelta, efsaneDelta).Scan(&t.Gercek, &t.Efsane)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tally{}, common.ErrPollNotFound
	}
	if err != nil {
		return Tally{}, fmt.Errorf("updating poll counters: %w", err)
	}
	return t, nil
}
