// repository.go pairs each like-row change with the likes_count update
// in one transaction.
package likes

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

// HasLike reports whether the user already liked the poll.
func (r *Repository) HasLike(ctx context.Context, userID, pollID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND poll_id = $2)`,
		userID, pollID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking like: %w", err)
	}
	return exists, nil
}

// CreateLike inserts the like and bumps likes_count, returning the new
// count. The uniqueness constraint is the backstop against two likes
// racing past the existence check.
func (r *Repository) CreateLike(ctx context.Context, userID, pollID int64) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO likes (user_id, poll_id) VALUES ($1, $2)`,
		userID, pollID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, common.ErrAlreadyLiked
		}
		return 0, fmt.Errorf("inserting like: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx, `
		UPDATE polls SET likes_count = likes_count + 1
		WHERE id = $1
		RETURNING likes_count
	`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("incrementing likes_count: %w", err)
	}
	return count, tx.Commit(ctx)
}

// DeleteLike removes the like and drops likes_count, returning the new
// count. The decrement only runs when a row was actually deleted, so
// the counter can't go below the number of like rows.
func (r *Repository) DeleteLike(ctx context.Context, userID, pollID int64) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND poll_id = $2`,
		userID, pollID,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, common.ErrLikeNotFound
	}

	var count int
	err = tx.QueryRow(ctx, `
		UPDATE polls SET likes_count = likes_count - 1
		WHERE id = $1
		RETURNING likes_count
	`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("decrementing likes_count: %w", err)
	}
	return count, tx.Commit(ctx)
}
