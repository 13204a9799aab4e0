// service.go holds the tally-engine rules: who may vote when, and
// which of the three cast outcomes applies.
package votes

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"gercekmi.com/backend/internal/common"
)

// Store is the persistence the engine needs. *Repository implements
// it; tests substitute an in-memory fake.
type Store interface {
	GetPollExpiry(ctx context.Context, pollID int64) (time.Time, error)
	GetTally(ctx context.Context, pollID int64) (Tally, error)
	GetVote(ctx context.Context, userID, pollID int64) (*Vote, error)
	CreateVote(ctx context.Context, userID, pollID int64, choice Choice) (Tally, error)
	SwitchVote(ctx context.Context, voteID, pollID int64, to Choice) (Tally, error)
	DeleteVote(ctx context.Context, voteID, pollID int64, choice Choice) (Tally, error)
}

// Service is the tally engine.
type Service struct {
	store Store
	clock common.Clock
}

func NewService(store Store, clock common.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// Cast records userID's vote on pollID. Expiry is checked against the
// instant of this request, never a cached flag. Outcomes:
//   - no prior vote: insert, counter +1 → StatusCreated
//   - prior vote, same choice: nothing moves → StatusUnchanged
//   - prior vote, other choice: flip in place, both counters adjust
//     atomically → StatusChanged
func (s *Service) Cast(ctx context.Context, pollID, userID int64, choice Choice) (*Result, error) {
	if !choice.Valid() {
		return nil, common.ErrInvalidChoice
	}

	expiresAt, err := s.store.GetPollExpiry(ctx, pollID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if common.Expired(expiresAt, now) {
		return nil, common.ErrPollExpired
	}

	existing, err := s.store.GetVote(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.Choice == choice {
			// Repeat of the same choice is a no-op, reported as such
			// so callers never double-count it.
			tally, err := s.store.GetTally(ctx, pollID)
			if err != nil {
				return nil, err
			}
			return &Result{PollID: pollID, Choice: choice, Status: StatusUnchanged, Tally: tally}, nil
		}

		tally, err := s.store.SwitchVote(ctx, existing.ID, pollID, choice)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"poll_id": pollID,
			"user_id": userID,
			"choice":  choice,
		}).Debug("vote switched")
		return &Result{PollID: pollID, Choice: choice, Status: StatusChanged, Tally: tally}, nil
	}

	tally, err := s.store.CreateVote(ctx, userID, pollID, choice)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"poll_id": pollID,
		"user_id": userID,
		"choice":  choice,
	}).Debug("vote recorded")
	return &Result{PollID: pollID, Choice: choice, Status: StatusCreated, Tally: tally}, nil
}

// Retract removes userID's vote from pollID and gives the side back
// its count. Fails on expired polls and when no vote exists.
func (s *Service) Retract(ctx context.Context, pollID, userID int64) (*Result, error) {
	expiresAt, err := s.store.GetPollExpiry(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if common.Expired(expiresAt, s.clock.Now()) {
		return nil, common.ErrPollExpired
	}

	existing, err := s.store.GetVote(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, common.ErrVoteNotFound
	}

	tally, err := s.store.DeleteVote(ctx, existing.ID, pollID, existing.Choice)
	if err != nil {
		return nil, err
	}
	return &Result{PollID: pollID, Choice: existing.Choice, Status: StatusRetracted, Tally: tally}, nil
}

// MyVote returns the user's vote on the poll, nil when none exists.
func (s *Service) MyVote(ctx context.Context, pollID, userID int64) (*Vote, error) {
	if _, err := s.store.GetPollExpiry(ctx, pollID); err != nil {
		return nil, err
	}
	return s.store.GetVote(ctx, userID, pollID)
}
