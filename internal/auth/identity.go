package auth

import "context"

// Identity is the authenticated caller as the rest of the service sees
// it: enough to authorize actions and attribute content, nothing more.
type Identity struct {
	ID          int64
	Username    string
	DisplayName string
	AvatarURL   string
	IsEditor    bool
}

// Resolver turns a verified user ID into a live identity. The users
// service implements it; resolution fails for unknown or disabled
// accounts.
type Resolver interface {
	Resolve(ctx context.Context, userID int64) (*Identity, error)
}
