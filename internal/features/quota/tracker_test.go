package quota

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRow feeds Scan a fixed count, or an error.
type stubRow struct {
	count int
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.count
	return nil
}

type stubQuerier struct {
	row stubRow
}

func (q stubQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return q.row
}

func TestUsedNoRowMeansZero(t *testing.T) {
	tracker := NewTracker(stubQuerier{row: stubRow{err: pgx.ErrNoRows}}, 2)

	used, err := tracker.Used(context.Background(), 10, "2025-06-01")
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestRemaining(t *testing.T) {
	cases := []struct {
		name      string
		used      int
		remaining int
	}{
		{"untouched day", 0, 2},
		{"one used", 1, 1},
		{"at the limit", 2, 0},
		{"over the limit never goes negative", 5, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tracker := NewTracker(stubQuerier{row: stubRow{count: tc.used}}, 2)

			remaining, err := tracker.Remaining(context.Background(), 10, "2025-06-01")
			require.NoError(t, err)
			assert.Equal(t, tc.remaining, remaining)
		})
	}
}

func TestLimit(t *testing.T) {
	assert.Equal(t, 2, NewTracker(stubQuerier{}, 2).Limit())
}
