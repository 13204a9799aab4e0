package polls

import (
	"context"
	"strings"
	"time"

	"gercekmi.com/backend/internal/auth"
	"gercekmi.com/backend/internal/common"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Create(ctx context.Context, p *Poll, recordQuota bool, day string) error
	Get(ctx context.Context, pollID int64) (*View, error)
	Owner(ctx context.Context, pollID int64) (int64, error)
	Delete(ctx context.Context, pollID int64) error
	List(ctx context.Context, f ListFilter) ([]View, int, error)
	Trending(ctx context.Context, limit int, now time.Time) ([]View, error)
	EndingSoon(ctx context.Context, limit int, now, until time.Time) ([]View, error)
	Categories(ctx context.Context) ([]Category, error)
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
	Memberships(ctx context.Context, viewerID int64, pollIDs []int64) (map[int64]string, map[int64]bool, error)
}

// Quota reports and limits the daily poll allowance.
type Quota interface {
	Limit() int
	Remaining(ctx context.Context, userID int64, day string) (int, error)
	Used(ctx context.Context, userID int64, day string) (int, error)
}

// Service applies quota, category and expiry rules on top of a Store.
type Service struct {
	store       Store
	quota       Quota
	clock       common.Clock
	loc         *time.Location
	duration    time.Duration
	maxQuestion int
}

func NewService(store Store, q Quota, clock common.Clock, loc *time.Location, duration time.Duration, maxQuestion int) *Service {
	return &Service{
		store:       store,
		quota:       q,
		clock:       clock,
		loc:         loc,
		duration:    duration,
		maxQuestion: maxQuestion,
	}
}

// Create opens a new poll. Non-editors are checked against the daily
// allowance and the creation is counted in the same transaction as the
// insert.
func (s *Service) Create(ctx context.Context, author *auth.Identity, categoryID int64, question string) (*View, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, common.ErrMissingFields
	}
	if len([]rune(question)) > s.maxQuestion {
		return nil, common.ErrContentLength
	}

	ok, err := s.store.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrCategoryNotFound
	}

	now := s.clock.Now()
	day := common.Day(now, s.loc)
	if !author.IsEditor {
		remaining, err := s.quota.Remaining(ctx, author.ID, day)
		if err != nil {
			return nil, err
		}
		if remaining <= 0 {
			return nil, common.ErrQuotaExceeded
		}
	}

	p := &Poll{
		UserID:     author.ID,
		CategoryID: categoryID,
		Question:   question,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.duration),
	}
	if err := s.store.Create(ctx, p, !author.IsEditor, day); err != nil {
		return nil, err
	}
	return s.Get(ctx, p.ID, author)
}

// Get returns one poll with derived fields and, when a viewer is
// present, their vote and like membership.
func (s *Service) Get(ctx context.Context, pollID int64, viewer *auth.Identity) (*View, error) {
	v, err := s.store.Get(ctx, pollID)
	if err != nil {
		return nil, err
	}
	v.derive(s.clock.Now())
	if viewer != nil {
		voted, liked, err := s.store.Memberships(ctx, viewer.ID, []int64{pollID})
		if err != nil {
			return nil, err
		}
		v.UserVote = voted[pollID]
		v.UserLiked = liked[pollID]
	}
	return v, nil
}

// List returns a page of polls matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter, viewer *auth.Identity) (*Page, error) {
	f.normalize()
	f.Now = s.clock.Now()

	views, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, views, f.Now, viewer); err != nil {
		return nil, err
	}
	return &Page{
		Polls:   views,
		Total:   total,
		Page:    f.Page,
		PerPage: f.PerPage,
		HasNext: f.offset()+len(views) < total,
		HasPrev: f.Page > 1,
	}, nil
}

// ListByUser returns the polls created by username, optionally
// narrowed to active or archived ones.
func (s *Service) ListByUser(ctx context.Context, username, status string, page, perPage int, viewer *auth.Identity) (*Page, error) {
	f := ListFilter{
		Page:            page,
		PerPage:         perPage,
		Username:        username,
		IncludeArchived: status != "active",
		OnlyArchived:    status == "archived",
	}
	return s.List(ctx, f, viewer)
}

// Trending returns the busiest active polls.
func (s *Service) Trending(ctx context.Context, limit int, viewer *auth.Identity) ([]View, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	now := s.clock.Now()
	views, err := s.store.Trending(ctx, limit, now)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, views, now, viewer); err != nil {
		return nil, err
	}
	return views, nil
}

// EndingSoon returns active polls closing within 24 hours.
func (s *Service) EndingSoon(ctx context.Context, limit int, viewer *auth.Identity) ([]View, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	now := s.clock.Now()
	views, err := s.store.EndingSoon(ctx, limit, now, now.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, views, now, viewer); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *Service) decorate(ctx context.Context, views []View, now time.Time, viewer *auth.Identity) error {
	for i := range views {
		views[i].derive(now)
	}
	if viewer == nil || len(views) == 0 {
		return nil
	}
	ids := make([]int64, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	voted, liked, err := s.store.Memberships(ctx, viewer.ID, ids)
	if err != nil {
		return err
	}
	for i := range views {
		views[i].UserVote = voted[views[i].ID]
		views[i].UserLiked = liked[views[i].ID]
	}
	return nil
}

// Delete removes a poll. Only the author or an editor may do so.
func (s *Service) Delete(ctx context.Context, pollID int64, caller *auth.Identity) error {
	ownerID, err := s.store.Owner(ctx, pollID)
	if err != nil {
		return err
	}
	if ownerID != caller.ID && !caller.IsEditor {
		return common.ErrForbidden
	}
	return s.store.Delete(ctx, pollID)
}

// Categories lists the seeded poll categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.Categories(ctx)
}

// RemainingQuota reports the caller's allowance for today. Editors are
// exempt from the limit.
func (s *Service) RemainingQuota(ctx context.Context, caller *auth.Identity) (*QuotaStatus, error) {
	limit := s.quota.Limit()
	if caller.IsEditor {
		return &QuotaStatus{DailyLimit: limit, Remaining: limit, Unlimited: true}, nil
	}
	day := common.Day(s.clock.Now(), s.loc)
	used, err := s.quota.Used(ctx, caller.ID, day)
	if err != nil {
		return nil, err
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return &QuotaStatus{DailyLimit: limit, Remaining: remaining, Used: used}, nil
}
