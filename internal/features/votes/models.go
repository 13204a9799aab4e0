// Package votes implements the tally engine: casting, switching and
// retracting votes while keeping a poll's two counters consistent.
// models.go defines the vote row, the two-sided tally and the typed
// outcome of a cast.
package votes

import (
	"math"
	"time"
)

// Choice is one of the two poll sides.
type Choice string

const (
	ChoiceGercek Choice = "gercek"
	ChoiceEfsane Choice = "efsane"
)

// Valid reports whether c is one of the two known sides.
func (c Choice) Valid() bool {
	return c == ChoiceGercek || c == ChoiceEfsane
}

// Other returns the opposite side.
func (c Choice) Other() Choice {
	if c == ChoiceGercek {
		return ChoiceEfsane
	}
	return ChoiceGercek
}

// Vote is one user's vote on one poll. At most one row exists per
// (user, poll) pair; the store's uniqueness constraint backs that up.
type Vote struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	PollID    int64     `db:"poll_id"`
	Choice    Choice    `db:"vote_type"`
	CreatedAt time.Time `db:"created_at"`
}

// Tally is the pair of counters for a poll. Both sides are never
// negative: every decrement is paired with a previously existing vote
// of that side, inside the same transaction.
type Tally struct {
	Gercek int `json:"gercek_votes"`
	Efsane int `json:"efsane_votes"`
}

func (t Tally) Total() int { return t.Gercek + t.Efsane }

// GercekPercentage is the integer-rounded share of gercek votes.
// A poll nobody voted on reads as an even 50, not as undefined.
func (t Tally) GercekPercentage() int {
	total := t.Total()
	if total == 0 {
		return 50
	}
	return int(math.Round(float64(t.Gercek) / float64(total) * 100))
}

func (t Tally) EfsanePercentage() int {
	return 100 - t.GercekPercentage()
}

// Side returns the counter for one choice.
func (t Tally) Side(c Choice) int {
	if c == ChoiceGercek {
		return t.Gercek
	}
	return t.Efsane
}

// Status says what a cast actually did. Callers must be able to tell
// a fresh vote from a repeat of the same choice, or they would count
// the repeat twice.
type Status string

const (
	StatusCreated   Status = "created"
	StatusChanged   Status = "changed"
	StatusUnchanged Status = "unchanged"
	StatusRetracted Status = "retracted"
)

// Result is the outcome of a cast or retraction, carrying the new
// tally so callers render state without a second read.
type Result struct {
	PollID int64  `json:"poll_id"`
	Choice Choice `json:"vote_type,omitempty"`
	Status Status `json:"status"`
	Tally  Tally  `json:"tally"`
}
