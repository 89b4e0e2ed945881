package auth

import (
	"crypto/subtle"
	"errors"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Gate checks the single static credential pair guarding ingredient
// management. Comparison is plaintext; there is no hashing or lockout.
type Gate struct {
	username string
	password string
}

func NewGate(username, password string) *Gate {
	return &Gate{username: username, password: password}
}

// Check returns ErrInvalidCredentials unless both values match exactly.
func (g *Gate) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	if g.username == "" || !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}
