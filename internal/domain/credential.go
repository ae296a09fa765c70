package domain

// Credential is a username/password pair known to the service.
// The credential table is populated once at startup and never mutated.
type Credential struct {
	Username string
	Password string
}
