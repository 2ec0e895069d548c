// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account identified by a unique email. RefreshTokens is the
// set of currently-valid refresh tokens for the user; every token in it was
// issued for this user and has not been rotated out or revoked.
type User struct {
	ID            string
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Picture       string
	RefreshTokens []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
