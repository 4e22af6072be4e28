package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RevokeAndCheck(t *testing.T) {
	s := openTemp(t)

	revoked, err := s.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke("jti-1", time.Now().Add(time.Hour)))

	revoked, err = s.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked("jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestStore_PruneDropsExpiredOnly(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Revoke("old", time.Now().Add(-time.Minute)))
	require.NoError(t, s.Revoke("older", time.Now().Add(-time.Hour)))
	require.NoError(t, s.Revoke("live", time.Now().Add(time.Hour)))

	n, err := s.Prune()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	live, err := s.IsRevoked("live")
	require.NoError(t, err)
	assert.True(t, live)

	old, err := s.IsRevoked("old")
	require.NoError(t, err)
	assert.False(t, old)
}

func TestStore_EmptyIDIsNoop(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Revoke("", time.Now().Add(time.Hour)))
	revoked, err := s.IsRevoked("")
	require.NoError(t, err)
	assert.False(t, revoked)
}
