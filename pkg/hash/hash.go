// Package hash stores account passwords as bcrypt digests.
package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var (
	ErrEmptyPassword   = errors.New("password is empty")
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong
)

// HashPassword hashes with cost, using bcrypt.DefaultCost when cost is zero.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func CheckPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// NeedsRehash reports whether digest was produced with a cost other than cost.
func NeedsRehash(digest string, cost int) bool {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	got, err := bcrypt.Cost([]byte(digest))
	return err != nil || got != cost
}
