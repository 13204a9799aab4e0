// Package users implements accounts: registration, login, profiles.
// models.go describes the stored user and the public profile view.
package users

import "time"

// User is an account row. The password hash never leaves the package.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	AvatarURL    string    `db:"avatar_url" json:"avatar_url"`
	IsEditor     bool      `db:"is_editor" json:"is_editor"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// Profile is the public view of a user with aggregate stats over
// their polls.
type Profile struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	DisplayName        string    `json:"display_name"`
	AvatarURL          string    `json:"avatar_url"`
	IsEditor           bool      `json:"is_editor"`
	CreatedAt          time.Time `json:"created_at"`
	TotalPolls         int       `json:"total_polls"`
	ActivePolls        int       `json:"active_polls"`
	ArchivedPolls      int       `json:"archived_polls"`
	TotalVotesReceived int       `json:"total_votes_received"`
	TotalLikesReceived int       `json:"total_likes_received"`
}
