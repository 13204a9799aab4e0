package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondsLeft(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(90), SecondsLeft(now.Add(90*time.Second), now))
	assert.Equal(t, int64(0), SecondsLeft(now, now))
	assert.Equal(t, int64(-5), SecondsLeft(now.Add(-5*time.Second), now))

	// Fractional seconds truncate toward zero, they never round up.
	assert.Equal(t, int64(1), SecondsLeft(now.Add(1900*time.Millisecond), now))
	assert.Equal(t, int64(0), SecondsLeft(now.Add(900*time.Millisecond), now))
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Expired(now.Add(time.Second), now))
	assert.True(t, Expired(now, now), "the boundary instant is expired")
	assert.True(t, Expired(now.Add(-time.Second), now))
}

func TestDayUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	// 22:30 UTC is already the next day in Istanbul (UTC+3).
	at := time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-02", Day(at, loc))
	assert.Equal(t, "2025-06-01", Day(at, time.UTC))
}
