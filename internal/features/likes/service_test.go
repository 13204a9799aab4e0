package likes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gercekmi.com/backend/internal/common"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeStore struct {
	expiry map[int64]time.Time
	likes  map[[2]int64]bool
	counts map[int64]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expiry: map[int64]time.Time{},
		likes:  map[[2]int64]bool{},
		counts: map[int64]int{},
	}
}

func (f *fakeStore) GetPollExpiry(_ context.Context, pollID int64) (time.Time, error) {
	exp, ok := f.expiry[pollID]
	if !ok {
		return time.Time{}, common.ErrPollNotFound
	}
	return exp, nil
}

func (f *fakeStore) HasLike(_ context.Context, userID, pollID int64) (bool, error) {
	return f.likes[[2]int64{userID, pollID}], nil
}

func (f *fakeStore) CreateLike(_ context.Context, userID, pollID int64) (int, error) {
	key := [2]int64{userID, pollID}
	if f.likes[key] {
		return 0, common.ErrAlreadyLiked
	}
	f.likes[key] = true
	f.counts[pollID]++
	return f.counts[pollID], nil
}

func (f *fakeStore) DeleteLike(_ context.Context, userID, pollID int64) (int, error) {
	key := [2]int64{userID, pollID}
	if !f.likes[key] {
		return 0, common.ErrLikeNotFound
	}
	delete(f.likes, key)
	f.counts[pollID]--
	return f.counts[pollID], nil
}

func TestLikeUnlikeSequence(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.expiry[1] = now.Add(time.Hour)
	svc := NewService(store, fixedClock{now: now})

	result, err := svc.Like(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikesCount)

	_, err = svc.Like(context.Background(), 1, 10)
	assert.ErrorIs(t, err, common.ErrAlreadyLiked)

	result, err = svc.Unlike(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Zero(t, result.LikesCount)

	_, err = svc.Unlike(context.Background(), 1, 10)
	assert.ErrorIs(t, err, common.ErrLikeNotFound)
}

func TestLikeExpiredPoll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.expiry[1] = now.Add(-time.Minute)
	svc := NewService(store, fixedClock{now: now})

	_, err := svc.Like(context.Background(), 1, 10)
	assert.ErrorIs(t, err, common.ErrPollExpired)
}

func TestUnlikeAfterExpiryAllowed(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.expiry[1] = start.Add(time.Hour)

	svc := NewService(store, fixedClock{now: start})
	_, err := svc.Like(context.Background(), 1, 10)
	require.NoError(t, err)

	late := NewService(store, fixedClock{now: start.Add(2 * time.Hour)})
	result, err := late.Unlike(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, result.LikesCount)
}

func TestLikeUnknownPoll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(newFakeStore(), fixedClock{now: now})

	_, err := svc.Like(context.Background(), 404, 10)
	assert.ErrorIs(t, err, common.ErrPollNotFound)
}
