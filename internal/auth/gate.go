package auth

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken indicates the Authorization header is absent.
	ErrMissingToken = errors.New("authorization header is missing")
	// ErrMalformedHeader indicates the Authorization header does not use the Bearer scheme.
	ErrMalformedHeader = errors.New("authorization header must use the Bearer scheme")
	// ErrInvalidToken indicates a token that is malformed or carries a bad signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnknownSubject indicates a valid token whose subject is no longer a known account.
	ErrUnknownSubject = errors.New("unknown subject")
)

const bearerPrefix = "Bearer "

// Gate issues tokens on successful login and verifies them on protected
// calls. It is stateless apart from the immutable codec and credential table.
type Gate struct {
	codec *TokenCodec
	creds *CredentialStore
	ttl   time.Duration
}

func NewGate(codec *TokenCodec, creds *CredentialStore, ttl time.Duration) *Gate {
	return &Gate{codec: codec, creds: creds, ttl: ttl}
}

// Login checks the credentials and returns a signed access token.
func (g *Gate) Login(username, password string) (string, error) {
	if !g.creds.Verify(username, password) {
		return "", ErrInvalidCredentials
	}
	return g.codec.Encode(username, g.ttl)
}

// Authorize validates a raw Authorization header and returns the token
// subject. Every failure is terminal for the request; callers must reject
// before invoking anything downstream.
func (g *Gate) Authorize(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMalformedHeader
	}

	claims, err := g.codec.Decode(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	// Defends against accounts removed after the token was issued.
	if !g.creds.Exists(claims.Subject) {
		return "", ErrUnknownSubject
	}

	return claims.Subject, nil
}
