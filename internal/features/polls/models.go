// Package polls implements the poll lifecycle: creation under the
// daily quota, clock-derived expiry, listing surfaces and deletion.
// models.go defines the stored poll, the joined view and the derived
// fields computed per request.
package polls

import (
	"time"

	"gercekmi.com/backend/internal/common"
	"gercekmi.com/backend/internal/features/votes"
)

// Poll is a stored poll row. The counters are denormalized; the tally
// engine and the like/comment services keep them consistent with their
// backing rows.
type Poll struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	CategoryID    int64     `db:"category_id"`
	Question      string    `db:"question"`
	GercekVotes   int       `db:"gercek_votes"`
	EfsaneVotes   int       `db:"efsane_votes"`
	LikesCount    int       `db:"likes_count"`
	CommentsCount int       `db:"comments_count"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	ExpiresAt     time.Time `db:"expires_at"`
}

// Active reports whether the poll accepts votes, likes and comments at
// the given instant. Purely clock-derived; the stored is_active flag
// is never consulted.
func (p *Poll) Active(now time.Time) bool {
	return !common.Expired(p.ExpiresAt, now)
}

// Category of a poll, seeded at migration time.
type Category struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Icon  string `db:"icon" json:"icon"`
	Color string `db:"color" json:"color"`
}

// View is a poll joined with its author and category, plus per-request
// derived fields and the viewer's own vote/like membership.
type View struct {
	ID            int64     `json:"id"`
	Question      string    `json:"question"`
	GercekVotes   int       `json:"gercek_votes"`
	EfsaneVotes   int       `json:"efsane_votes"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`

	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsEditor    bool   `json:"is_editor"`

	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	CategoryIcon string `json:"category_icon"`

	// Derived per request, never stored.
	TotalVotes       int    `json:"total_votes"`
	GercekPercentage int    `json:"gercek_percentage"`
	EfsanePercentage int    `json:"efsane_percentage"`
	SecondsLeft      int64  `json:"seconds_left"`
	IsExpired        bool   `json:"is_expired"`
	IsActive         bool   `json:"is_active"`
	UserVote         string `json:"user_vote,omitempty"`
	UserLiked        bool   `json:"user_liked"`
}

// derive fills the computed fields for the given instant.
func (v *View) derive(now time.Time) {
	tally := votes.Tally{Gercek: v.GercekVotes, Efsane: v.EfsaneVotes}
	v.TotalVotes = tally.Total()
	v.GercekPercentage = tally.GercekPercentage()
	v.EfsanePercentage = tally.EfsanePercentage()
	v.SecondsLeft = common.SecondsLeft(v.ExpiresAt, now)
	v.IsExpired = common.Expired(v.ExpiresAt, now)
	v.IsActive = !v.IsExpired
}

// ListFilter narrows and pages poll listings.
type ListFilter struct {
	Page            int
	PerPage         int
	CategoryID      int64  // 0 = all categories
	Username        string // "" = all creators
	IncludeArchived bool
	OnlyArchived    bool // implies IncludeArchived
	Now             time.Time
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}

func (f *ListFilter) offset() int { return (f.Page - 1) * f.PerPage }

// Page is one page of poll views.
type Page struct {
	Polls   []View `json:"polls"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	HasNext bool   `json:"has_next"`
	HasPrev bool   `json:"has_prev"`
}

// QuotaStatus reports the caller's remaining daily allowance.
type QuotaStatus struct {
	DailyLimit int  `json:"daily_limit"`
	Remaining  int  `json:"remaining"`
	Used       int  `json:"used"`
	Unlimited  bool `json:"unlimited"`
}
