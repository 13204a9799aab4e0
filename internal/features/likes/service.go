// service.go gates likes by poll expiry and keeps duplicate like and
// unlike-without-like as explicit rejections.
package likes

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"gercekmi.com/backend/internal/common"
)

// Store is the persistence the like bookkeeping needs.
type Store interface {
	GetPollExpiry(ctx context.Context, pollID int64) (time.Time, error)
	HasLike(ctx context.Context, userID, pollID int64) (bool, error)
	CreateLike(ctx context.Context, userID, pollID int64) (int, error)
	DeleteLike(ctx context.Context, userID, pollID int64) (int, error)
}

type Service struct {
	store Store
	clock common.Clock
}

func NewService(store Store, clock common.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// Like records userID's like on pollID. Expired polls reject it; a
// second like is an error, not a no-op.
func (s *Service) Like(ctx context.Context, pollID, userID int64) (*Result, error) {
	expiresAt, err := s.store.GetPollExpiry(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if common.Expired(expiresAt, s.clock.Now()) {
		return nil, common.ErrPollExpired
	}

	liked, err := s.store.HasLike(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, common.ErrAlreadyLiked
	}

	count, err := s.store.CreateLike(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"poll_id": pollID, "user_id": userID}).Debug("poll liked")
	return &Result{PollID: pollID, Liked: true, LikesCount: count}, nil
}

// Unlike removes the like. Unliking a poll never liked is NotFound.
// Expiry is not checked; taking a like back stays possible after the
// poll closes.
func (s *Service) Unlike(ctx context.Context, pollID, userID int64) (*Result, error) {
	if _, err := s.store.GetPollExpiry(ctx, pollID); err != nil {
		return nil, err
	}

	count, err := s.store.DeleteLike(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}
	return &Result{PollID: pollID, Liked: false, LikesCount: count}, nil
}
