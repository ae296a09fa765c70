package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"admissions-service/internal/domain"
)

// CredentialStore answers whether a username/password pair matches a known
// account. The table is copied at construction and never mutated, so lookups
// are safe across concurrent requests.
type CredentialStore struct {
	users map[string]domain.Credential
}

// DefaultCredentials is the built-in demo account table.
func DefaultCredentials() map[string]string {
	return map[string]string{
		"admin": "admin123",
		"user":  "pass123",
	}
}

func NewCredentialStore(users map[string]string) *CredentialStore {
	table := make(map[string]domain.Credential, len(users))
	for name, password := range users {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		table[name] = domain.Credential{Username: name, Password: password}
	}
	return &CredentialStore{users: table}
}

// Verify reports whether the pair matches the table. Stored values with a
// bcrypt shape are compared as hashes; everything else is compared in
// constant time as plaintext.
//
// The shape check looks only at the prefix, so a plaintext password that
// happens to start with "$2a$", "$2b$" or "$2y$" is treated as a hash and
// can never match verbatim. Store such passwords as bcrypt hashes instead.
func (s *CredentialStore) Verify(username, password string) bool {
	cred, ok := s.users[username]
	if !ok {
		return false
	}
	if isBcryptHash(cred.Password) {
		return bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password)) == 1
}

// Exists reports whether the username is a known account.
func (s *CredentialStore) Exists(username string) bool {
	_, ok := s.users[username]
	return ok
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
