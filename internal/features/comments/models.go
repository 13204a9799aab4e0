// Package comments implements poll comments: creation, author edits,
// soft deletion and the poll's comments_count bookkeeping.
package comments

import "time"

// Comment is one user's comment on a poll. Deletion flips IsActive
// instead of removing the row.
type Comment struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	PollID    int64     `db:"poll_id"`
	Content   string    `db:"content"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// View is a comment joined with its author, as listings render it.
type View struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	IsEditor    bool      `json:"is_editor"`
	IsOwn       bool      `json:"is_own"`
}

// Page is one page of a poll's comments.
type Page struct {
	Comments []View `json:"comments"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
	HasNext  bool   `json:"has_next"`
	HasPrev  bool   `json:"has_prev"`
}
