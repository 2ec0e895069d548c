package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// LockedPasswordSentinel marks accounts that can never authenticate with a
// password (created through federated sign-in). It is not a valid bcrypt
// hash, so Check can never succeed against it.
const LockedPasswordSentinel = "!"

// PasswordHasher produces and verifies one-way password hashes with a
// per-password random salt.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Check(plaintext, hashed string) bool
}

// BcryptHasher implements PasswordHasher over bcrypt with a tunable cost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the salted bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hashed), nil
}

// Check reports whether plaintext matches hashed. Locked accounts and
// malformed hashes always fail.
func (h *BcryptHasher) Check(plaintext, hashed string) bool {
	if hashed == LockedPasswordSentinel {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
