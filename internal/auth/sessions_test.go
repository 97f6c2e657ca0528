package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSessions(t *testing.T) *SessionService {
	t.Helper()
	hasher := NewBcryptHasher(4) // minimum cost keeps the test fast
	hash, err := hasher.Hash("admin123")
	require.NoError(t, err)

	tokenizer := NewTokenService("test-secret", time.Hour)
	return NewSessionService("admin", hash, hasher, tokenizer, zap.NewNop())
}

func TestLoginSuccess(t *testing.T) {
	sessions := newTestSessions(t)

	token, session, err := sessions.Login("admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin", session.Username)
	assert.False(t, session.LoginTime.IsZero())

	resolved, err := sessions.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, resolved.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	sessions := newTestSessions(t)

	testCases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong username", "root", "admin123"},
		{"empty password", "admin", ""},
		{"empty username", "", "admin123"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := sessions.Login(tc.username, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := newTestSessions(t)

	token, session, err := sessions.Login("admin", "admin123")
	require.NoError(t, err)

	sessions.Logout(session.ID)

	_, err = sessions.Validate(token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	sessions := newTestSessions(t)

	token, _, err := sessions.Login("admin", "admin123")
	require.NoError(t, err)

	_, err = sessions.Validate(token + "x")
	assert.Error(t, err)

	// A token signed with a different secret is rejected outright.
	other := NewTokenService("other-secret", time.Hour)
	foreign, err := other.GenerateToken("admin", "some-session")
	require.NoError(t, err)
	_, err = sessions.Validate(foreign)
	assert.Error(t, err)
}

func TestTokenServiceRoundTrip(t *testing.T) {
	tokenizer := NewTokenService("secret", time.Hour)

	token, err := tokenizer.GenerateToken("admin", "sess-1")
	require.NoError(t, err)

	claims, err := tokenizer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "sess-1", claims.SessionID)
}
