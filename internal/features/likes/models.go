// Package likes maintains the one-like-per-user-per-poll relation and
// the poll's likes_count.
package likes

import "time"

// Like is one user's like on one poll. The store enforces the
// (user, poll) uniqueness.
type Like struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	PollID    int64     `db:"poll_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Result reports a like/unlike outcome with the poll's new count.
type Result struct {
	PollID     int64 `json:"poll_id"`
	Liked      bool  `json:"liked"`
	LikesCount int   `json:"likes_count"`
}
