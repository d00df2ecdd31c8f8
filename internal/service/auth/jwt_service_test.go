package auth

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:              "access-secret-that-is-long-enough-for-tests",
		RefreshSecret:             "refresh-secret-that-is-long-enough-for-tests",
		ActivationSecret:          "activation-secret-that-is-long-enough-for-tests",
		ResetSecret:               "reset-secret-that-is-long-enough-for-tests",
		AccessLifetimeMinutes:     15,
		RefreshLifetimeMinutes:    60 * 24 * 7,
		ActivationLifetimeMinutes: 10,
		ResetLifetimeMinutes:      15,
		BcryptCost:                4,
	}
}

// clock is a mutable time source shared by a service under test.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*hmacJWTService, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := newJWTService(testAuthConfig(), c.Now)
	require.NoError(t, err)
	return svc, c
}

func testIdentity() Identity {
	return Identity{UserID: uuid.New(), Name: "Alice", Email: "alice@example.com", IsAdmin: true}
}

func TestNewJWTServiceRejectsShortSecrets(t *testing.T) {
	cfg := testAuthConfig()
	cfg.ResetSecret = "short"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, clk := newTestService(t)
	identity := testIdentity()

	token, err := svc.GenerateToken(ctx, identity)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, identity, claims.Identity)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.Equal(t, identity.UserID.String(), claims.Subject)
		assert.Equal(t, clk.now.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, token+"x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		refresh, err := svc.GenerateRefreshToken(ctx, identity)
		require.NoError(t, err)
		_, err = svc.ValidateToken(ctx, refresh)
		assert.ErrorIs(t, err, ErrInvalidToken, "signed with a different key")
	})
}

func TestAccessTokenExpiry(t *testing.T) {
	ctx := context.Background()
	svc, clk := newTestService(t)

	token, err := svc.GenerateToken(ctx, testIdentity())
	require.NoError(t, err)

	clk.now = clk.now.Add(16 * time.Minute)
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestWrongTokenTypeWithSharedKey(t *testing.T) {
	ctx := context.Background()
	cfg := testAuthConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	svc, err := newJWTService(cfg, time.Now)
	require.NoError(t, err)

	refresh, err := svc.GenerateRefreshToken(ctx, testIdentity())
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc, clk := newTestService(t)
	identity := testIdentity()

	token, err := svc.GenerateRefreshToken(ctx, identity)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)

	_, err = svc.ValidateRefreshToken(ctx, "broken")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	clk.now = clk.now.Add(8 * 24 * time.Hour)
	_, err = svc.ValidateRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}

func TestActivationToken(t *testing.T) {
	ctx := context.Background()
	svc, clk := newTestService(t)
	reg := Registration{Name: "Bob", Email: "bob@example.com", Password: "secret123"}

	token, err := svc.GenerateActivationToken(ctx, reg)
	require.NoError(t, err)
	assert.NotContains(t, token, ".", "token must be a single URL segment")
	assert.NotContains(t, token, "=")

	got, err := svc.ValidateActivationToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, reg, *got)

	t.Run("not base64", func(t *testing.T) {
		_, err := svc.ValidateActivationToken(ctx, "***")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("reset token rejected", func(t *testing.T) {
		reset, err := svc.GeneratePasswordResetToken(ctx, reg.Email)
		require.NoError(t, err)
		_, err = svc.ValidateActivationToken(ctx, reset)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("forged signature", func(t *testing.T) {
		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		parts := strings.Split(string(raw), ".")
		require.Len(t, parts, 3)
		forged := parts[0] + "." + parts[1] + ".c2lnbmF0dXJl"
		_, err = svc.ValidateActivationToken(ctx, base64.RawURLEncoding.EncodeToString([]byte(forged)))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		clk.now = clk.now.Add(11 * time.Minute)
		_, err := svc.ValidateActivationToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestPasswordResetToken(t *testing.T) {
	ctx := context.Background()
	svc, clk := newTestService(t)

	token, err := svc.GeneratePasswordResetToken(ctx, "carol@example.com")
	require.NoError(t, err)

	email, err := svc.ValidatePasswordResetToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", email)

	_, err = svc.ValidatePasswordResetToken(ctx, "bm90LWEtand0")
	assert.ErrorIs(t, err, ErrInvalidToken)

	clk.now = clk.now.Add(16 * time.Minute)
	_, err = svc.ValidatePasswordResetToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
