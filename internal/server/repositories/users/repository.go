// Package users declares the repository contract for user accounts and for
// the refresh-token set embedded in each user row.
package users

import (
	"context"

	"github.com/28ori/Buddy4Life/internal/server/models"
)

// Repository persists users and their refresh-token sets. Every mutation is
// written through immediately; there is no in-memory staging.
type Repository interface {
	// Create inserts the user and returns it with the generated ID.
	// A duplicate email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given ID or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Update rewrites the user's profile fields (and password hash).
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user row.
	Delete(ctx context.Context, id string) error

	// AddRefreshToken appends token to the user's set, initializing the set
	// if it does not exist yet.
	AddRefreshToken(ctx context.Context, userID, token string) error

	// HasRefreshToken reports whether token is a member of the user's set.
	HasRefreshToken(ctx context.Context, userID, token string) (bool, error)

	// RemoveRefreshToken removes token from the set and reports whether it
	// was present.
	RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error)

	// RotateRefreshToken atomically replaces oldToken with newToken. It
	// reports false when oldToken was not in the set, in which case nothing
	// is changed; of two concurrent rotations of the same token exactly one
	// can succeed.
	RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error)

	// ClearRefreshTokens empties the user's set, revoking every session.
	ClearRefreshTokens(ctx context.Context, userID string) error

	// ListRefreshTokens returns the user's current set.
	ListRefreshTokens(ctx context.Context, userID string) ([]string, error)
}
