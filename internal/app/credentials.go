package app

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier decides whether an admin login is accepted.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// StaticCredentials accepts a single configured username/password pair.
// Only a bcrypt hash of the password is kept in memory.
type StaticCredentials struct {
	username string
	hash     []byte
}

// NewStaticCredentials hashes password and returns a verifier for the pair.
func NewStaticCredentials(username, password string) (*StaticCredentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &StaticCredentials{username: username, hash: hash}, nil
}

func (c *StaticCredentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	return userOK && passOK
}
