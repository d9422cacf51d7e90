// Package password hashes and verifies personnel credentials.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	cost = 12
	// MaxBytes is the longest input bcrypt accepts.
	MaxBytes = 72
)

var (
	ErrEmpty   = errors.New("password must not be empty")
	ErrTooLong = errors.New("password must be at most 72 bytes")
)

// Hash returns a salted bcrypt digest of plain.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	if len(plain) > MaxBytes {
		return "", ErrTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches digest.
func Verify(plain, digest string) bool {
	if plain == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
