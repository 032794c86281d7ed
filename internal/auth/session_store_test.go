package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "staff@caritas.org",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := NewSessionStore("", zap.NewNop())

	a, err := store.Create("token-a")
	require.NoError(t, err)
	b, err := store.Create("token-b")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, a.CSRF)
	assert.NotEqual(t, a.ID, a.CSRF)

	got, ok := store.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "token-a", got.Token)

	_, ok = store.Get("")
	assert.False(t, ok)
	_, ok = store.Get("forged-id")
	assert.False(t, ok)
}

func TestSessionStore_TokenFollowsContext(t *testing.T) {
	store := NewSessionStore("", zap.NewNop())
	a, err := store.Create("token-a")
	require.NoError(t, err)
	b, err := store.Create("token-b")
	require.NoError(t, err)

	assert.Empty(t, store.Token(context.Background()))
	assert.Equal(t, "token-a", store.Token(WithSession(context.Background(), a)))
	assert.Equal(t, "token-b", store.Token(WithSession(context.Background(), b)))

	require.NoError(t, store.Delete(a.ID))
	assert.Empty(t, store.Token(WithSession(context.Background(), a)))
	assert.Equal(t, "token-b", store.Token(WithSession(context.Background(), b)))
}

func TestSessionStore_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session", "sessions.json")

	store := NewSessionStore(path, zap.NewNop())
	sess, err := store.Create("opaque-token")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded := NewSessionStore(path, zap.NewNop())
	got, ok := reloaded.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess, got)

	require.NoError(t, reloaded.Delete(sess.ID))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, reloaded.Delete(sess.ID))
}

func TestSessionStore_MalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store := NewSessionStore(path, zap.NewNop())
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_ExpiredJWT(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore("", zap.NewNop())
	store.now = func() time.Time { return now }

	valid, err := store.Create(signedToken(t, now.Add(time.Hour)))
	require.NoError(t, err)
	_, ok := store.Get(valid.ID)
	assert.True(t, ok)

	expired, err := store.Create(signedToken(t, now.Add(-time.Minute)))
	require.NoError(t, err)
	_, ok = store.Get(expired.ID)
	assert.False(t, ok)

	// the next login drops sessions that can no longer be used
	now = now.Add(2 * time.Hour)
	_, err = store.Create("opaque-token")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestIsExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, isExpired("not-a-jwt", now))
	assert.False(t, isExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.True(t, isExpired(signedToken(t, now.Add(-time.Hour)), now))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, isExpired(noExp, now))
}
