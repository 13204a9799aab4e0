// Package common holds shared utilities used across the service.
// errors.go defines the sentinel errors that services return and the
// HTTP layer translates into response codes. Handlers compare with
// errors.Is, so wrapped variants stay recognizable.
package common

import "errors"

// Not-found conditions.
var (
	ErrPollNotFound    = errors.New("poll not found")
	ErrVoteNotFound    = errors.New("vote not found")
	ErrLikeNotFound    = errors.New("like not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Poll lifecycle violations.
var (
	// ErrPollExpired: the poll closed before the action arrived.
	// Voting, liking and commenting are all gated on it.
	ErrPollExpired = errors.New("poll has expired")
	// ErrQuotaExceeded: daily poll-creation limit reached.
	ErrQuotaExceeded = errors.New("daily poll limit reached")
	// ErrCategoryNotFound: poll created against an unknown category.
	ErrCategoryNotFound = errors.New("invalid category")
)

// Input validation.
var (
	ErrInvalidChoice = errors.New("vote choice must be gercek or efsane")
	ErrContentLength = errors.New("content length out of bounds")
	ErrMissingFields = errors.New("required fields missing")
)

// Conflicts. Duplicate like/unlike are rejected, never silently ignored.
var (
	ErrAlreadyLiked = errors.New("poll already liked")
	// ErrVoteConflict: two first-votes raced and the store's
	// (user, poll) uniqueness rejected the loser.
	ErrVoteConflict = errors.New("concurrent vote already recorded")
)

// Authentication and authorization.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not permitted")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidCredentials = errors.New("wrong email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
)
