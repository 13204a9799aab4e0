// service.go holds the comment rules: expiry gating on creation,
// content length bounds, and who may edit or delete.
package comments

import (
	"context"
	"strings"
	"time"

	"gercekmi.com/backend/internal/common"
)

// Store is the persistence the comment rules need.
type Store interface {
	GetPollExpiry(ctx context.Context, pollID int64) (time.Time, error)
	Create(ctx context.Context, c *Comment) error
	Get(ctx context.Context, id int64) (*Comment, error)
	Update(ctx context.Context, id int64, content string) (time.Time, error)
	SoftDelete(ctx context.Context, id, pollID int64) error
	ListByPoll(ctx context.Context, pollID int64, limit, offset int) ([]View, int, error)
}

type Service struct {
	store      Store
	clock      common.Clock
	maxContent int
}

func NewService(store Store, clock common.Clock, maxContent int) *Service {
	return &Service{store: store, clock: clock, maxContent: maxContent}
}

func (s *Service) validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > s.maxContent {
		return "", common.ErrContentLength
	}
	return content, nil
}

// Create adds a comment to an active poll and bumps the poll's
// comment count.
func (s *Service) Create(ctx context.Context, pollID, userID int64, content string) (*Comment, error) {
	content, err := s.validateContent(content)
	if err != nil {
		return nil, err
	}

	expiresAt, err := s.store.GetPollExpiry(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if common.Expired(expiresAt, s.clock.Now()) {
		return nil, common.ErrPollExpired
	}

	c := &Comment{UserID: userID, PollID: pollID, Content: content}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update edits a comment. Only the author or an editor may.
func (s *Service) Update(ctx context.Context, commentID, userID int64, isEditor bool, content string) (*Comment, error) {
	content, err := s.validateContent(content)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID && !isEditor {
		return nil, common.ErrForbidden
	}

	updatedAt, err := s.store.Update(ctx, commentID, content)
	if err != nil {
		return nil, err
	}
	c.Content = content
	c.UpdatedAt = updatedAt
	return c, nil
}

// Delete soft-deletes a comment and gives the count back. Only the
// author or an editor may.
func (s *Service) Delete(ctx context.Context, commentID, userID int64, isEditor bool) error {
	c, err := s.store.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != userID && !isEditor {
		return common.ErrForbidden
	}
	return s.store.SoftDelete(ctx, commentID, c.PollID)
}

// List returns one page of a poll's comments, marking the viewer's
// own. viewerID 0 means anonymous.
func (s *Service) List(ctx context.Context, pollID int64, page, perPage int, viewerID int64) (*Page, error) {
	if _, err := s.store.GetPollExpiry(ctx, pollID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	views, total, err := s.store.ListByPoll(ctx, pollID, perPage, offset)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].IsOwn = viewerID != 0 && views[i].UserID == viewerID
	}

	return &Page{
		Comments: views,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		HasNext:  offset+perPage < total,
		HasPrev:  page > 1,
	}, nil
}
