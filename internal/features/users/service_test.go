package users

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gercekmi.com/backend/internal/common"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeStore struct {
	users  map[int64]*User
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int64]*User{}, nextID: 1}
}

func (f *fakeStore) Create(_ context.Context, u *User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return common.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return common.ErrUsernameTaken
		}
	}
	u.ID = f.nextID
	f.nextID++
	u.IsActive = true
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (f *fakeStore) Stats(_ context.Context, _ int64, _ time.Time) (int, int, int, int, error) {
	return 3, 1, 12, 5, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID int64, displayName, avatarURL *string) error {
	u, ok := f.users[userID]
	if !ok {
		return common.ErrUserNotFound
	}
	if displayName != nil {
		u.DisplayName = *displayName
	}
	if avatarURL != nil {
		u.AvatarURL = *avatarURL
	}
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	clock := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewService(store, clock), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Register(context.Background(), "ayse", "Ayse@Example.com", "gizli-sifre")
	require.NoError(t, err)
	assert.Equal(t, "ayse@example.com", u.Email, "email is lowercased")
	assert.Equal(t, "ayse", u.DisplayName, "display name defaults to username")
	assert.NotEqual(t, "gizli-sifre", u.PasswordHash, "password is never stored in clear")

	logged, err := svc.Login(context.Background(), "ayse@example.com", "gizli-sifre")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), "ayse", "ayse@example.com", "gizli-sifre")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ayse@example.com", "yanlis")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	// Unknown email reads the same as a wrong password.
	_, err = svc.Login(context.Background(), "kimse@example.com", "gizli-sifre")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, store := newTestService()

	u, err := svc.Register(context.Background(), "ayse", "ayse@example.com", "gizli-sifre")
	require.NoError(t, err)

	store.users[u.ID].IsActive = false
	_, err = svc.Login(context.Background(), "ayse@example.com", "gizli-sifre")
	assert.ErrorIs(t, err, common.ErrAccountDisabled)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), "", "a@b.com", "pw")
	assert.ErrorIs(t, err, common.ErrMissingFields)

	_, err = svc.Register(context.Background(), "a", "a@b.com", "pw")
	assert.ErrorIs(t, err, common.ErrContentLength)

	_, err = svc.Register(context.Background(), strings.Repeat("u", 51), "a@b.com", "pw")
	assert.ErrorIs(t, err, common.ErrContentLength)

	_, err = svc.Register(context.Background(), "ayse", "not-an-email", "pw")
	assert.ErrorIs(t, err, common.ErrMissingFields)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), "ayse", "ayse@example.com", "pw123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ayse2", "ayse@example.com", "pw123")
	assert.ErrorIs(t, err, common.ErrEmailTaken)

	_, err = svc.Register(context.Background(), "ayse", "ayse2@example.com", "pw123")
	assert.ErrorIs(t, err, common.ErrUsernameTaken)
}

func TestResolve(t *testing.T) {
	svc, store := newTestService()

	u, err := svc.Register(context.Background(), "ayse", "ayse@example.com", "pw123")
	require.NoError(t, err)

	identity, err := svc.Resolve(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.ID)
	assert.Equal(t, "ayse", identity.Username)

	_, err = svc.Resolve(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	store.users[u.ID].IsActive = false
	_, err = svc.Resolve(context.Background(), u.ID)
	assert.ErrorIs(t, err, common.ErrAccountDisabled)
}

func TestProfileStats(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), "ayse", "ayse@example.com", "pw123")
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), "ayse")
	require.NoError(t, err)
	assert.Equal(t, 3, profile.TotalPolls)
	assert.Equal(t, 1, profile.ActivePolls)
	assert.Equal(t, 2, profile.ArchivedPolls)
	assert.Equal(t, 12, profile.TotalVotesReceived)
	assert.Equal(t, 5, profile.TotalLikesReceived)
}

func TestUpdateProfile(t *testing.T) {
	svc, store := newTestService()

	u, err := svc.Register(context.Background(), "ayse", "ayse@example.com", "pw123")
	require.NoError(t, err)

	err = svc.UpdateProfile(context.Background(), u.ID, nil, nil)
	assert.ErrorIs(t, err, common.ErrMissingFields)

	name := "Ayşe Yılmaz"
	require.NoError(t, svc.UpdateProfile(context.Background(), u.ID, &name, nil))
	assert.Equal(t, "Ayşe Yılmaz", store.users[u.ID].DisplayName)

	long := strings.Repeat("n", 101)
	err = svc.UpdateProfile(context.Background(), u.ID, &long, nil)
	assert.ErrorIs(t, err, common.ErrContentLength)
}
