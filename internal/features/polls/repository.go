package polls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gercekmi.com/backend/internal/common"
	"gercekmi.com/backend/internal/features/quota"
)

// Repository persists polls and categories in PostgreSQL.
type Repository struct {
	db    *pgxpool.Pool
	quota *quota.Tracker
}

func NewRepository(db *pgxpool.Pool, tracker *quota.Tracker) *Repository {
	return &Repository{db: db, quota: tracker}
}

const viewColumns = `
	p.id, p.question, p.gercek_votes, p.efsane_votes,
	p.likes_count, p.comments_count, p.created_at, p.expires_at,
	u.id, u.username, COALESCE(u.display_name, u.username), COALESCE(u.avatar_url, ''), u.is_editor,
	c.id, c.name, c.icon`

const viewJoins = `
	FROM polls p
	JOIN users u ON u.id = p.user_id
	JOIN categories c ON c.id = p.category_id`

func scanView(row pgx.Row) (*View, error) {
	var v View
	err := row.Scan(
		&v.ID, &v.Question, &v.GercekVotes, &v.EfsaneVotes,
		&v.LikesCount, &v.CommentsCount, &v.CreatedAt, &v.ExpiresAt,
		&v.UserID, &v.Username, &v.DisplayName, &v.AvatarURL, &v.IsEditor,
		&v.CategoryID, &v.CategoryName, &v.CategoryIcon,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts the poll and, when recordQuota is set, counts it
// against the author's daily allowance in the same transaction so a
// failed insert never burns quota.
func (r *Repository) Create(ctx context.Context, p *Poll, recordQuota bool, day string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create poll: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO polls (user_id, category_id, question, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		p.UserID, p.CategoryID, p.Question, p.CreatedAt, p.ExpiresAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert poll: %w", err)
	}

	if recordQuota {
		if err := r.quota.Record(ctx, tx, p.UserID, day); err != nil {
			return fmt.Errorf("record quota: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) Get(ctx context.Context, pollID int64) (*View, error) {
	v, err := scanView(r.db.QueryRow(ctx,
		`SELECT`+viewColumns+viewJoins+` WHERE p.id = $1`, pollID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get poll %d: %w", pollID, err)
	}
	return v, nil
}

// Owner returns the author id of a poll.
func (r *Repository) Owner(ctx context.Context, pollID int64) (int64, error) {
	var userID int64
	err := r.db.QueryRow(ctx,
		`SELECT user_id FROM polls WHERE id = $1`, pollID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.ErrPollNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("poll owner %d: %w", pollID, err)
	}
	return userID, nil
}

// Delete removes the poll. Votes, likes and comments follow through
// ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, pollID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM polls WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("delete poll %d: %w", pollID, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrPollNotFound
	}
	return nil
}

// List returns one page of polls matching the filter. Editor-authored
// polls rank first, then the most liked, then the newest.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]View, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	switch {
	case f.OnlyArchived:
		args = append(args, f.Now)
		where += fmt.Sprintf(` AND p.expires_at <= $%d`, len(args))
	case !f.IncludeArchived:
		args = append(args, f.Now)
		where += fmt.Sprintf(` AND p.expires_at > $%d`, len(args))
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		where += fmt.Sprintf(` AND p.category_id = $%d`, len(args))
	}
	if f.Username != "" {
		args = append(args, f.Username)
		where += fmt.Sprintf(` AND u.username = $%d`, len(args))
	}

	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)`+viewJoins+` `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count polls: %w", err)
	}

	// The front page ranks editor polls first, then the most liked. A
	// single user's poll history is plain reverse-chronological.
	order := `u.is_editor DESC, p.likes_count DESC, p.created_at DESC`
	if f.Username != "" {
		order = `p.created_at DESC`
	}

	args = append(args, f.PerPage, f.offset())
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT`+viewColumns+viewJoins+` %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, where, order, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list polls: %w", err)
	}
	defer rows.Close()

	views, err := collectViews(rows)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Trending returns the busiest active polls by combined vote and like
// volume.
func (r *Repository) Trending(ctx context.Context, limit int, now time.Time) ([]View, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+viewColumns+viewJoins+`
		WHERE p.expires_at > $1
		ORDER BY p.gercek_votes + p.efsane_votes + p.likes_count DESC, p.created_at DESC
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("trending polls: %w", err)
	}
	defer rows.Close()
	return collectViews(rows)
}

// EndingSoon returns active polls expiring within the window, soonest
// first.
func (r *Repository) EndingSoon(ctx context.Context, limit int, now, until time.Time) ([]View, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+viewColumns+viewJoins+`
		WHERE p.expires_at > $1 AND p.expires_at <= $2
		ORDER BY p.expires_at ASC
		LIMIT $3`, now, until, limit)
	if err != nil {
		return nil, fmt.Errorf("ending soon polls: %w", err)
	}
	defer rows.Close()
	return collectViews(rows)
}

func collectViews(rows pgx.Rows) ([]View, error) {
	views := []View{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}

func (r *Repository) Categories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, icon, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *Repository) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category %d: %w", categoryID, err)
	}
	return exists, nil
}

// Memberships returns the viewer's vote choice and like flag for each
// of the given polls, so listings can mark them in one round trip per
// concern.
func (r *Repository) Memberships(ctx context.Context, viewerID int64, pollIDs []int64) (map[int64]string, map[int64]bool, error) {
	voted := map[int64]string{}
	liked := map[int64]bool{}
	if len(pollIDs) == 0 {
		return voted, liked, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT poll_id, vote_type FROM votes WHERE user_id = $1 AND poll_id = ANY($2)`,
		viewerID, pollIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("viewer votes: %w", err)
	}
	for rows.Next() {
		var pollID int64
		var choice string
		if err := rows.Scan(&pollID, &choice); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan viewer vote: %w", err)
		}
		voted[pollID] = choice
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	rows, err = r.db.Query(ctx,
		`SELECT poll_id FROM likes WHERE user_id = $1 AND poll_id = ANY($2)`,
		viewerID, pollIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("viewer likes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pollID int64
		if err := rows.Scan(&pollID); err != nil {
			return nil, nil, fmt.Errorf("scan viewer like: %w", err)
		}
		liked[pollID] = true
	}
	return voted, liked, rows.Err()
}

// ArchiveExpired flips the stored is_active flag on polls past their
// deadline. The flag is informational; request handling derives
// liveness from the clock.
func (r *Repository) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE polls SET is_active = FALSE WHERE is_active AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("archive expired polls: %w", err)
	}
	return tag.RowsAffected(), nil
}
