package votes

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

// fakeStore keeps votes and tallies in memory with the same contract
// the repository provides.
type fakeStore struct {
	expiry  map[int64]time.Time
	tallies map[int64]Tally
	votes   map[int64]*Vote
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expiry:  map[int64]time.Time{},
		tallies: map[int64]Tally{},
		votes:   map[int64]*Vote{},
		nextID:  1,
	}
}

func (f *fakeStore) addPoll(pollID int64, expiresAt time.Time) {
	f.expiry[pollID] = expiresAt
	f.tallies[pollID] = Tally{}
}

func (f *fakeStore) GetPollExpiry(_ context.Context, pollID int64) (time.Time, error) {
	exp, ok := f.expiry[pollID]
	if !ok {
		return time.Time{}, common.ErrPollNotFound
	}
	return exp, nil
}

func (f *fakeStore) GetTally(_ context.Context, pollID int64) (Tally, error) {
	return f.tallies[pollID], nil
}

func (f *fakeStore) GetVote(_ context.Context, userID, pollID int64) (*Vote, error) {
	for _, v := range f.votes {
		if v.UserID == userID && v.PollID == pollID {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateVote(_ context.Context, userID, pollID int64, choice Choice) (Tally, error) {
	for _, v := range f.votes {
		if v.UserID == userID && v.PollID == pollID {
			return Tally{}, common.ErrVoteConflict
		}
	}
	id := f.nextID
	f.nextID++
	f.votes[id] = &Vote{ID: id, UserID: userID, PollID: pollID, Choice: choice}

	t := f.tallies[pollID]
	if choice == ChoiceGercek {
		t.Gercek++
	} else {
		t.Efsane++
	}
	f.tallies[pollID] = t
	return t, nil
}

func (f *fakeStore) SwitchVote(_ context.Context, voteID, pollID int64, to Choice) (Tally, error) {
	v, ok := f.votes[voteID]
	if !ok {
		return Tally{}, common.ErrVoteNotFound
	}
	v.Choice = to

	t := f.tallies[pollID]
	if to == ChoiceGercek {
		t.Gercek++
		t.Efsane--
	} else {
		t.Efsane++
		t.Gercek--
	}
	f.tallies[pollID] = t
	return t, nil
}

func (f *fakeStore) DeleteVote(_ context.Context, voteID, pollID int64, choice Choice) (Tally, error) {
	if _, ok := f.votes[voteID]; !ok {
		return Tally{}, common.ErrVoteNotFound
	}
	delete(f.votes, voteID)

	t := f.tallies[pollID]
	if choice == ChoiceGercek {
		t.Gercek--
	} else {
		t.Efsane--
	}
	f.tallies[pollID] = t
	return t, nil
}

func newTestService(now time.Time) (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, fixedClock{now: now}), store
}

func TestCastFreshVote(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.addPoll(1, now.Add(24*time.Hour))

	result, err := svc.Cast(context.Background(), 1, 10, ChoiceGercek)
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, result.Status)
	assert.Equal(t, Tally{Gercek: 1, Efsane: 0}, result.Tally)
}

func TestCastSameChoiceIsNoOp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.addPoll(1, now.Add(24*time.Hour))

	_, err := svc.Cast(context.Background(), 1, 10, ChoiceEfsane)
	require.NoError(t, err)

	result, err := svc.Cast(context.Background(), 1, 10, ChoiceEfsane)
	require.NoError(t, err)

	assert.Equal(t, StatusUnchanged, result.Status)
	assert.Equal(t, Tally{Gercek: 0, Efsane: 1}, result.Tally, "repeat must not double count")
}

func TestCastFlipPreservesTotal(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.addPoll(1, now.Add(24*time.Hour))

	_, err := svc.Cast(context.Background(), 1, 10, ChoiceGercek)
	require.NoError(t, err)
	_, err = svc.Cast(context.Background(), 1, 11, ChoiceGercek)
	require.NoError(t, err)

	result, err := svc.Cast(context.Background(), 1, 10, ChoiceEfsane)
	require.NoError(t, err)

	assert.Equal(t, StatusChanged, result.Status)
	assert.Equal(t, Tally{Gercek: 1, Efsane: 1}, result.Tally)
	assert.Equal(t, 2, result.Tally.Total(), "flip must not change the total")
}

func TestCastExpiredPoll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.addPoll(1, now.Add(-time.Second))

	_, err := svc.Cast(context.Background(), 1, 10, ChoiceGercek)
	assert.ErrorIs(t, err, common.ErrPollExpired)
}

func TestCastAtExactDeadline(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.addPoll(1, now)

	_, err := svc.Cast(context.Background(), 1, 10, ChoiceGercek)
	assert.ErrorIs(t, err, common.ErrPollExpired, "the deadline instant itself is expired")
}

func TestCastInvalidChoice(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.addPoll(1, now.Add(time.Hour))

	_, err := svc.Cast(context.Background(), 1, 10, Choice("maybe"))
	assert.ErrorIs(t, err, common.ErrInvalidChoice)
}

func TestCastUnknownPoll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	_, err := svc.Cast(context.Background(), 404, 10, ChoiceGercek)
	assert.ErrorIs(t, err, common.ErrPollNotFound)
}

func TestRetract(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.addPoll(1, now.Add(time.Hour))

	_, err := svc.Cast(context.Background(), 1, 10, ChoiceGercek)
	require.NoError(t, err)

	result, err := svc.Retract(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, StatusRetracted, result.Status)
	assert.Equal(t, ChoiceGercek, result.Choice)
	assert.Equal(t, Tally{}, result.Tally)
}

func TestRetractWithoutVote(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.addPoll(1, now.Add(time.Hour))

	_, err := svc.Retract(context.Background(), 1, 10)
	assert.ErrorIs(t, err, common.ErrVoteNotFound)
}

func TestRetractExpiredPoll(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addPoll(1, start.Add(time.Hour))

	svc := NewService(store, fixedClock{now: start})
	_, err := svc.Cast(context.Background(), 1, 10, ChoiceGercek)
	require.NoError(t, err)

	// Same store, clock moved past the deadline.
	late := NewService(store, fixedClock{now: start.Add(2 * time.Hour)})
	_, err = late.Retract(context.Background(), 1, 10)
	assert.ErrorIs(t, err, common.ErrPollExpired)
}

func TestMyVote(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.addPoll(1, now.Add(time.Hour))

	vote, err := svc.MyVote(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Nil(t, vote)

	_, err = svc.Cast(context.Background(), 1, 10, ChoiceEfsane)
	require.NoError(t, err)

	vote, err = svc.MyVote(context.Background(), 1, 10)
	require.NoError(t, err)
	require.NotNil(t, vote)
	assert.Equal(t, ChoiceEfsane, vote.Choice)
}
