// Package services holds the application services of the server. Each
// service is a plain struct taking its collaborators through the
// constructor; there is no shared state between services besides the
// database they reach through their repositories.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/28ori/Buddy4Life/internal/logging"
	"github.com/28ori/Buddy4Life/internal/server/auth"
	"github.com/28ori/Buddy4Life/internal/server/models"
	"github.com/28ori/Buddy4Life/internal/server/repositories/users"
)

// TokenPair is an access+refresh token pair issued for one user.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Picture   string
}

// SessionService orchestrates login, logout, refresh and federated
// sign-in over the password hasher, the token issuer and the per-user
// refresh-token set persisted with the user.
type SessionService struct {
	users    users.Repository
	hasher   auth.PasswordHasher
	issuer   *auth.Issuer
	verifier auth.AssertionVerifier
	logger   logging.Logger
}

func NewSessionService(repo users.Repository, hasher auth.PasswordHasher, issuer *auth.Issuer, verifier auth.AssertionVerifier, logger logging.Logger) *SessionService {
	return &SessionService{
		users:    repo,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		logger:   logger,
	}
}

// startSession issues a fresh token pair for userID and persists the
// refresh token before returning it. The ordering matters: a crash after
// persist but before respond leaves a registered-but-undelivered token,
// which is the only acceptable inconsistency (the client retries login).
func (s *SessionService) startSession(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, err := s.issuer.IssueAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	refreshToken, err := s.issuer.IssueRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("error issuing refresh token: %w", err)
	}

	if err := s.users.AddRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, fmt.Errorf("error registering refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Register creates a new account and starts its first session. A duplicate
// email yields common.ErrorConflict.
func (s *SessionService) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	hashed, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:     params.Email,
		Password:  hashed,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Picture:   params.Picture,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		s.logger.Error(ctx, "user creation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if _, err := s.startSession(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "initial session failed", "user_id", user.ID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Login verifies the credentials and starts a session. A missing user and a
// wrong password both return common.ErrorUnauthorized so the caller cannot
// tell which half was wrong.
func (s *SessionService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !s.hasher.Check(password, user.Password) {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.startSession(ctx, user.ID)
	if err != nil {
		s.logger.Error(ctx, "session start failed", "user_id", user.ID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Logout revokes the presented refresh token. It is idempotent from the
// client's point of view: an empty token is a no-op and an unverifiable one
// returns common.ErrInvalidToken so the transport can still clear its
// cookie. A verified token that is absent from the stored set signals
// possible theft, so every session of that user is revoked.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	userID, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return common.ErrInvalidToken
	}

	removed, err := s.users.RemoveRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		s.logger.Error(ctx, "refresh token removal failed", "user_id", userID, "error", err.Error())
		return common.ErrorInternal
	}

	if !removed {
		s.logger.Warn(ctx, "unknown refresh token presented, revoking all sessions", "user_id", userID)
		if err := s.users.ClearRefreshTokens(ctx, userID); err != nil {
			s.logger.Error(ctx, "session revocation failed", "user_id", userID, "error", err.Error())
			return common.ErrorInternal
		}
	}

	return nil
}

// Refresh rotates the presented refresh token for a new pair. The swap is a
// single conditional update, so of two concurrent refreshes with the same
// token exactly one wins; the loser lands on the replay path, which revokes
// every session of the user and fails with common.ErrorUnauthorized.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrorUnauthorized
	}

	userID, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	newRefresh, err := s.issuer.IssueRefresh(userID)
	if err != nil {
		s.logger.Error(ctx, "refresh token issuance failed", "user_id", userID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	swapped, err := s.users.RotateRefreshToken(ctx, userID, refreshToken, newRefresh)
	if err != nil {
		s.logger.Error(ctx, "refresh token rotation failed", "user_id", userID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !swapped {
		s.logger.Warn(ctx, "rotated-out refresh token replayed, revoking all sessions", "user_id", userID)
		if err := s.users.ClearRefreshTokens(ctx, userID); err != nil {
			s.logger.Error(ctx, "session revocation failed", "user_id", userID, "error", err.Error())
		}
		return nil, common.ErrorUnauthorized
	}

	accessToken, err := s.issuer.IssueAccess(userID)
	if err != nil {
		s.logger.Error(ctx, "access token issuance failed", "user_id", userID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

// FederatedSignIn verifies a provider-signed identity assertion and starts
// a session for the asserted email, creating the account on first sign-in.
// Accounts created this way carry the locked-password sentinel and can
// never authenticate with a password.
func (s *SessionService) FederatedSignIn(ctx context.Context, assertion string) (*models.User, *TokenPair, error) {
	claims, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		return nil, nil, common.ErrInvalidAssertion
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if errors.Is(err, common.ErrorNotFound) {
		user, err = s.users.Create(ctx, &models.User{
			Email:     claims.Email,
			Password:  auth.LockedPasswordSentinel,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Picture:   claims.Picture,
		})
	}
	if err != nil {
		s.logger.Error(ctx, "federated user lookup/creation failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	pair, err := s.startSession(ctx, user.ID)
	if err != nil {
		s.logger.Error(ctx, "session start failed", "user_id", user.ID, "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	return user, pair, nil
}
