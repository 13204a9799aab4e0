package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gercekmi.com/backend/internal/common"
)

const testSecret = "test-secret-at-least-16-chars"

func TestIssueAndParse(t *testing.T) {
	m := NewManager(testSecret, time.Hour)
	now := time.Now().UTC()

	token, err := m.Issue(42, now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseExpiredToken(t *testing.T) {
	m := NewManager(testSecret, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)

	token, err := m.Issue(42, issued)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestParseWrongSecret(t *testing.T) {
	signer := NewManager(testSecret, time.Hour)
	verifier := NewManager("another-secret-16-chars-long", time.Hour)

	token, err := signer.Issue(42, time.Now())
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestParseGarbage(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	_, err := m.Parse("not.a.token")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	_, err = m.Parse("")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}
