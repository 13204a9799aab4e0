// repository.go runs the users-table SQL. Username and email
// uniqueness is enforced by the store's constraints; violations map to
// the matching sentinel by constraint name.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

const userColumns = `id, username, email, password_hash,
	COALESCE(display_name, username), COALESCE(avatar_url, ''),
	is_editor, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.DisplayName, &u.AvatarURL,
		&u.IsEditor, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

// Create inserts a new account and fills in the generated fields.
func (r *Repository) Create(ctx context.Context, u *User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.PasswordHash, u.DisplayName).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return common.ErrEmailTaken
			}
			return common.ErrUsernameTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	u.IsActive = true
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetByUsername returns an active account; disabled profiles are not
// publicly visible.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND is_active`, username))
}

// Stats aggregates the user's poll counts and received votes/likes.
func (r *Repository) Stats(ctx context.Context, userID int64, now time.Time) (total, active, votes, likes int, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE expires_at > $2),
		       COALESCE(SUM(gercek_votes + efsane_votes), 0),
		       COALESCE(SUM(likes_count), 0)
		FROM polls WHERE user_id = $1
	`, userID, now).Scan(&total, &active, &votes, &likes)
	if err != nil {
		err = fmt.Errorf("aggregating user stats: %w", err)
	}
	return total, active, votes, likes, err
}

// UpdateProfile changes the given fields; nil pointers are left as-is.
func (r *Repository) UpdateProfile(ctx context.Context, userID int64, displayName, avatarURL *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET display_name = COALESCE($2, display_name),
		    avatar_url = COALESCE($3, avatar_url),
		    updated_at = NOW()
		WHERE id = $1
	`, userID, displayName, avatarURL)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}
