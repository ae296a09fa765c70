package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialStoreVerify(t *testing.T) {
	store := NewCredentialStore(DefaultCredentials())

	assert.True(t, store.Verify("admin", "admin123"))
	assert.True(t, store.Verify("user", "pass123"))
	assert.False(t, store.Verify("admin", "pass123"))
	assert.False(t, store.Verify("nobody", "admin123"))
	assert.False(t, store.Verify("admin", ""))
}

func TestCredentialStoreBcryptValues(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	store := NewCredentialStore(map[string]string{"ops": string(hash)})

	assert.True(t, store.Verify("ops", "hunter2"))
	assert.False(t, store.Verify("ops", "hunter3"))
	// The hash itself must not pass as a password.
	assert.False(t, store.Verify("ops", string(hash)))
}

func TestCredentialStoreBcryptShapedPlaintext(t *testing.T) {
	// A plaintext password with a bcrypt prefix is taken for a hash, so it
	// never matches verbatim. Storing the bcrypt hash of it works.
	shaped := "$2a$notreallyahash"
	store := NewCredentialStore(map[string]string{"ops": shaped})
	assert.False(t, store.Verify("ops", shaped))

	hash, err := bcrypt.GenerateFromPassword([]byte(shaped), bcrypt.MinCost)
	require.NoError(t, err)
	store = NewCredentialStore(map[string]string{"ops": string(hash)})
	assert.True(t, store.Verify("ops", shaped))
}

func TestCredentialStoreExists(t *testing.T) {
	store := NewCredentialStore(DefaultCredentials())

	assert.True(t, store.Exists("admin"))
	assert.False(t, store.Exists("ghost"))
}

func TestCredentialStoreCopiesInput(t *testing.T) {
	users := map[string]string{"admin": "admin123"}
	store := NewCredentialStore(users)

	users["admin"] = "changed"
	assert.True(t, store.Verify("admin", "admin123"))
}
