package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMalformed indicates the token string could not be parsed.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrSignatureInvalid indicates the token signature does not verify.
	ErrSignatureInvalid = errors.New("token signature is invalid")
	// ErrTokenExpired indicates a well-signed token whose expiry has passed.
	ErrTokenExpired = errors.New("token is expired")
)

// Claims is the decoded payload of an access token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenCodec produces and consumes signed, time-bound access tokens.
// It holds no mutable state, so concurrent use needs no coordination.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewTokenCodec builds a codec for the given HMAC algorithm identifier
// (HS256, HS384 or HS512). An empty secret or unknown algorithm is a
// configuration error.
func NewTokenCodec(secret, algorithm string) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("signing secret is required")
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &TokenCodec{secret: []byte(secret), method: method}, nil
}

// Encode embeds the subject and an expiry of now+ttl into a signed token.
func (c *TokenCodec) Encode(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(c.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry and returns the embedded claims.
// Failures map onto ErrTokenMalformed, ErrSignatureInvalid or ErrTokenExpired.
func (c *TokenCodec) Decode(tokenString string) (Claims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{c.method.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrSignatureInvalid
		default:
			return Claims{}, ErrTokenMalformed
		}
	}
	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return Claims{}, ErrTokenMalformed
	}

	return Claims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}
