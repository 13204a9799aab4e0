// clock.go supplies the current instant to everything that compares
// against poll expiry or buckets actions by day. Services take the
// Clock interface so tests can pin time.
package common

import "time"

// DayFormat is the bucket key for per-day counters.
const DayFormat = "2006-01-02"

// Clock yields the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Day returns the calendar-date bucket of t in loc.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayFormat)
}

// SecondsLeft returns whole seconds until expiry, truncated toward
// zero. Negative once the deadline passed.
func SecondsLeft(expiresAt, now time.Time) int64 {
	return int64(expiresAt.Sub(now) / time.Second)
}

// Expired reports whether the deadline has passed. The exact boundary
// instant counts as expired, matching SecondsLeft <= 0.
func Expired(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}
