package comments

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
	expiry   map[int64]time.Time
	comments map[int64]*Comment
	counts   map[int64]int
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expiry:   map[int64]time.Time{},
		comments: map[int64]*Comment{},
		counts:   map[int64]int{},
		nextID:   1,
	}
}

func (f *fakeStore) GetPollExpiry(_ context.Context, pollID int64) (time.Time, error) {
	exp, ok := f.expiry[pollID]
	if !ok {
		return time.Time{}, common.ErrPollNotFound
	}
	return exp, nil
}

func (f *fakeStore) Create(_ context.Context, c *Comment) error {
	c.ID = f.nextID
	f.nextID++
	c.IsActive = true
	f.comments[c.ID] = c
	f.counts[c.PollID]++
	return nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok || !c.IsActive {
		return nil, common.ErrCommentNotFound
	}
	return c, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, content string) (time.Time, error) {
	c, ok := f.comments[id]
	if !ok || !c.IsActive {
		return time.Time{}, common.ErrCommentNotFound
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	return c.UpdatedAt, nil
}

func (f *fakeStore) SoftDelete(_ context.Context, id, pollID int64) error {
	c, ok := f.comments[id]
	if !ok || !c.IsActive {
		return common.ErrCommentNotFound
	}
	c.IsActive = false
	f.counts[pollID]--
	return nil
}

func (f *fakeStore) ListByPoll(_ context.Context, pollID int64, limit, offset int) ([]View, int, error) {
	views := []View{}
	for _, c := range f.comments {
		if c.PollID == pollID && c.IsActive {
			views = append(views, View{ID: c.ID, UserID: c.UserID, Content: c.Content})
		}
	}
	total := len(views)
	if offset > total {
		return []View{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return views[offset:end], total, nil
}

func newTestService(now time.Time) (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, fixedClock{now: now}, 1000), store
}

func TestCreateComment(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.expiry[1] = now.Add(time.Hour)

	c, err := svc.Create(context.Background(), 1, 10, "  Bence gerçek.  ")
	require.NoError(t, err)

	assert.Equal(t, "Bence gerçek.", c.Content, "content is trimmed")
	assert.Equal(t, 1, store.counts[1])
}

func TestCreateCommentExpiredPoll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.expiry[1] = now.Add(-time.Minute)

	_, err := svc.Create(context.Background(), 1, 10, "Geç kaldım")
	assert.ErrorIs(t, err, common.ErrPollExpired)
}

func TestCreateCommentValidation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.expiry[1] = now.Add(time.Hour)

	_, err := svc.Create(context.Background(), 1, 10, "   ")
	assert.ErrorIs(t, err, common.ErrContentLength)

	_, err = svc.Create(context.Background(), 1, 10, strings.Repeat("a", 1001))
	assert.ErrorIs(t, err, common.ErrContentLength)
}

func TestUpdatePermissions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.expiry[1] = now.Add(time.Hour)

	c, err := svc.Create(context.Background(), 1, 10, "İlk hali")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), c.ID, 11, false, "Başkası değiştiriyor")
	assert.ErrorIs(t, err, common.ErrForbidden)

	updated, err := svc.Update(context.Background(), c.ID, 10, false, "Düzeltilmiş hali")
	require.NoError(t, err)
	assert.Equal(t, "Düzeltilmiş hali", updated.Content)

	// Editors may edit anyone's comment.
	_, err = svc.Update(context.Background(), c.ID, 99, true, "Editör düzeltmesi")
	assert.NoError(t, err)
}

func TestDeletePermissions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.expiry[1] = now.Add(time.Hour)

	c, err := svc.Create(context.Background(), 1, 10, "Silinecek")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), c.ID, 11, false)
	assert.ErrorIs(t, err, common.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), c.ID, 10, false))
	assert.Zero(t, store.counts[1])

	// Deleting twice hits the soft-delete guard, the count stays put.
	err = svc.Delete(context.Background(), c.ID, 10, false)
	assert.ErrorIs(t, err, common.ErrCommentNotFound)
	assert.Zero(t, store.counts[1])
}

func TestListMarksOwnComments(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	store.expiry[1] = now.Add(time.Hour)

	_, err := svc.Create(context.Background(), 1, 10, "Benim yorumum")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 1, 11, "Başkasının yorumu")
	require.NoError(t, err)

	page, err := svc.List(context.Background(), 1, 1, 20, 10)
	require.NoError(t, err)
	require.Len(t, page.Comments, 2)

	for _, v := range page.Comments {
		assert.Equal(t, v.UserID == 10, v.IsOwn)
	}
}
