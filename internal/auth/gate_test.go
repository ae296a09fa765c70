package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T, ttl time.Duration) *Gate {
	t.Helper()
	codec, err := NewTokenCodec("test-secret", "HS256")
	require.NoError(t, err)
	return NewGate(codec, NewCredentialStore(DefaultCredentials()), ttl)
}

func TestLoginIssuesAuthorizableToken(t *testing.T) {
	gate := newTestGate(t, 30*time.Minute)

	for username, password := range DefaultCredentials() {
		token, err := gate.Login(username, password)
		require.NoError(t, err, "login %s", username)

		subject, err := gate.Authorize("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, username, subject)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	gate := newTestGate(t, 30*time.Minute)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrongpassword"},
		{"unknown user", "nobody", "admin123"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := gate.Login(tc.username, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Empty(t, token)
		})
	}
}

func TestAuthorizeMissingHeader(t *testing.T) {
	gate := newTestGate(t, 30*time.Minute)

	_, err := gate.Authorize("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestAuthorizeMalformedHeader(t *testing.T) {
	gate := newTestGate(t, 30*time.Minute)

	token, err := gate.Login("admin", "admin123")
	require.NoError(t, err)

	for _, header := range []string{"Basic dXNlcjpwYXNz", token, "bearer " + token, "Bearer" + token} {
		_, err := gate.Authorize(header)
		assert.ErrorIs(t, err, ErrMalformedHeader, "header %q", header)
	}
}

func TestAuthorizeInvalidToken(t *testing.T) {
	gate := newTestGate(t, 30*time.Minute)

	_, err := gate.Authorize("Bearer not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Signed with a different secret.
	foreign, err := NewTokenCodec("another-secret", "HS256")
	require.NoError(t, err)
	token, err := foreign.Encode("admin", time.Minute)
	require.NoError(t, err)

	_, err = gate.Authorize("Bearer " + token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorizeExpiredToken(t *testing.T) {
	gate := newTestGate(t, -time.Minute)

	token, err := gate.Login("admin", "admin123")
	require.NoError(t, err)

	_, err = gate.Authorize("Bearer " + token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthorizeUnknownSubject(t *testing.T) {
	codec, err := NewTokenCodec("test-secret", "HS256")
	require.NoError(t, err)

	// Token minted for an account absent from the credential table.
	token, err := codec.Encode("ghost", time.Minute)
	require.NoError(t, err)

	gate := NewGate(codec, NewCredentialStore(DefaultCredentials()), 30*time.Minute)
	_, err = gate.Authorize("Bearer " + token)
	assert.ErrorIs(t, err, ErrUnknownSubject)
}
