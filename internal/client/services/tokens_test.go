package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/client"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTokenStore(t *testing.T, now time.Time) *tokenStore {
	t.Helper()
	s := NewTokenStore(setupDB(t)).(*tokenStore)
	s.now = func() time.Time { return now }
	return s
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "a1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestTokenStore_SaveLoad(t *testing.T) {
	s := newTokenStore(t, now)
	ctx := context.Background()
	token := signed(t, now.Add(time.Hour))

	require.NoError(t, s.Save(ctx, token, "9000000001"))

	saved, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, saved.Token)
	assert.Equal(t, "9000000001", saved.Mobile)
	assert.Equal(t, now, saved.SavedAt)
	assert.WithinDuration(t, now.Add(time.Hour), saved.ExpiresAt, 0)

	got, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestTokenStore_OpaqueTokenNeverExpires(t *testing.T) {
	s := newTokenStore(t, now)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "t1", "9000000001"))

	saved, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", saved.Token)
	assert.True(t, saved.ExpiresAt.IsZero())
}

func TestTokenStore_ExpiredTokenIsNotUsed(t *testing.T) {
	s := newTokenStore(t, now)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, signed(t, now.Add(-time.Minute)), "9000000001"))

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrTokenExpired)

	got, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenStore_Empty(t *testing.T) {
	s := newTokenStore(t, now)
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, client.ErrLocalDataNotAvailable)

	got, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenStore_SaveRejectsEmpty(t *testing.T) {
	s := newTokenStore(t, now)
	assert.Error(t, s.Save(context.Background(), "", "9000000001"))
}

func TestTokenStore_Clear(t *testing.T) {
	s := newTokenStore(t, now)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "t1", "9000000001"))
	require.NoError(t, s.Clear(ctx))

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
}

func TestTokenStore_OverwritesPrevious(t *testing.T) {
	s := newTokenStore(t, now)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "t1", "9000000001"))
	require.NoError(t, s.Save(ctx, "t2", "9000000002"))

	saved, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t2", saved.Token)
	assert.Equal(t, "9000000002", saved.Mobile)
}
