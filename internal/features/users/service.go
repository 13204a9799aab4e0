// service.go holds the account rules: registration validation, bcrypt
// verification on login, and identity resolution for the auth
// middleware.
package users

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"gercekmi.com/backend/internal/auth"
	"gercekmi.com/backend/internal/common"
)

// Store is the persistence the account rules need.
type Store interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Stats(ctx context.Context, userID int64, now time.Time) (total, active, votes, likes int, err error)
	UpdateProfile(ctx context.Context, userID int64, displayName, avatarURL *string) error
}

type Service struct {
	store Store
	clock common.Clock
}

func NewService(store Store, clock common.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// Register creates an account. The display name starts out equal to
// the username.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || password == "" {
		return nil, common.ErrMissingFields
	}
	if len(username) < 2 || len(username) > 50 {
		return nil, common.ErrContentLength
	}
	if !strings.Contains(email, "@") {
		return nil, common.ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  username,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	return u, nil
}

// Login verifies the credentials. Wrong email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, common.ErrMissingFields
	}

	u, err := s.store.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, common.ErrAccountDisabled
	}
	return u, nil
}

// Resolve implements auth.Resolver: a verified token's user ID becomes
// a live identity, or fails for unknown and disabled accounts.
func (s *Service) Resolve(ctx context.Context, userID int64) (*auth.Identity, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, common.ErrAccountDisabled
	}
	return &auth.Identity{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsEditor:    u.IsEditor,
	}, nil
}

// Get returns the account by ID.
func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	return s.store.GetByID(ctx, userID)
}

// Profile assembles the public profile with poll stats.
func (s *Service) Profile(ctx context.Context, username string) (*Profile, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	total, active, votes, likes, err := s.store.Stats(ctx, u.ID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:                 u.ID,
		Username:           u.Username,
		DisplayName:        u.DisplayName,
		AvatarURL:          u.AvatarURL,
		IsEditor:           u.IsEditor,
		CreatedAt:          u.CreatedAt,
		TotalPolls:         total,
		ActivePolls:        active,
		ArchivedPolls:      total - active,
		TotalVotesReceived: votes,
		TotalLikesReceived: likes,
	}, nil
}

// UpdateProfile changes display name and/or avatar. At least one field
// must be supplied.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, displayName, avatarURL *string) error {
	if displayName == nil && avatarURL == nil {
		return common.ErrMissingFields
	}
	if displayName != nil && len(*displayName) > 100 {
		return common.ErrContentLength
	}
	if avatarURL != nil && len(*avatarURL) > 500 {
		return common.ErrContentLength
	}
	return s.store.UpdateProfile(ctx, userID, displayName, avatarURL)
}
