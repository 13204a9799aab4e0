// repository.go runs the comment SQL. Creating and soft-deleting a
// comment adjust the poll's comments_count in the same transaction.
package comments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
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

// Create inserts the comment and bumps comments_count atomically,
// filling in the generated ID and timestamps.
func (r *Repository) Create(ctx context.Context, c *Comment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO comments (user_id, poll_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.UserID, c.PollID, c.Content).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	c.IsActive = true

	_, err = tx.Exec(ctx,
		`UPDATE polls SET comments_count = comments_count + 1 WHERE id = $1`,
		c.PollID,
	)
	if err != nil {
		return fmt.Errorf("incrementing comments_count: %w", err)
	}
	return tx.Commit(ctx)
}

// Get returns an active comment by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Comment, error) {
	var c Comment
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, poll_id, content, is_active, created_at, updated_at
		FROM comments WHERE id = $1 AND is_active
	`, id).Scan(&c.ID, &c.UserID, &c.PollID, &c.Content, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading comment: %w", err)
	}
	return &c, nil
}

// Update replaces the content and touches updated_at.
func (r *Repository) Update(ctx context.Context, id int64, content string) (time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, `
		UPDATE comments SET content = $2, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING updated_at
	`, id, content).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, common.ErrCommentNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("updating comment: %w", err)
	}
	return updatedAt, nil
}

// SoftDelete clears the active flag and drops comments_count in one
// transaction. The WHERE is_active guard makes a repeated delete a
// NotFound instead of a double decrement.
func (r *Repository) SoftDelete(ctx context.Context, id, pollID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE comments SET is_active = FALSE WHERE id = $1 AND is_active`, id,
	)
	if err != nil {
		return fmt.Errorf("deactivating comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrCommentNotFound
	}

	_, err = tx.Exec(ctx,
		`UPDATE polls SET comments_count = comments_count - 1 WHERE id = $1`,
		pollID,
	)
	if err != nil {
		return fmt.Errorf("decrementing comments_count: %w", err)
	}
	return tx.Commit(ctx)
}

// ListByPoll returns a page of the poll's active comments, newest
// first, with their authors.
func (r *Repository) ListByPoll(ctx context.Context, pollID int64, limit, offset int) ([]View, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE poll_id = $1 AND is_active`, pollID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting comments: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.content, c.created_at, c.updated_at,
		       u.id, u.username, COALESCE(u.display_name, u.username),
		       COALESCE(u.avatar_url, ''), u.is_editor
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.poll_id = $1 AND c.is_active
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`, pollID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var views []View
	for rows.Next() {
		var v View
		err := rows.Scan(
			&v.ID, &v.Content, &v.CreatedAt, &v.UpdatedAt,
			&v.UserID, &v.Username, &v.DisplayName, &v.AvatarURL, &v.IsEditor,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning comment: %w", err)
		}
		views = append(views, v)
	}
	return views, total, rows.Err()
}
