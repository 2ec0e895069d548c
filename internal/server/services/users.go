package services

import (
	"context"
	"errors"

	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/28ori/Buddy4Life/internal/logging"
	"github.com/28ori/Buddy4Life/internal/server/auth"
	"github.com/28ori/Buddy4Life/internal/server/models"
	"github.com/28ori/Buddy4Life/internal/server/repositories/users"
)

// UpdateUserParams carries the mutable profile fields. An empty Password
// keeps the stored hash.
type UpdateUserParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Picture   string
}

// UserService implements profile reads and self-service mutations.
type UserService struct {
	users  users.Repository
	hasher auth.PasswordHasher
	logger logging.Logger
}

func NewUserService(repo users.Repository, hasher auth.PasswordHasher, logger logging.Logger) *UserService {
	return &UserService{users: repo, hasher: hasher, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "user_id", id, "error", err.Error())
		return nil, common.ErrorInternal
	}
	return user, nil
}

// Update rewrites the actor's own profile. Editing anyone else is forbidden.
func (s *UserService) Update(ctx context.Context, actorID, id string, params UpdateUserParams) (*models.User, error) {
	if actorID != id {
		return nil, common.ErrorForbidden
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Email != "" {
		user.Email = params.Email
	}
	if params.FirstName != "" {
		user.FirstName = params.FirstName
	}
	if params.LastName != "" {
		user.LastName = params.LastName
	}
	if params.Picture != "" {
		user.Picture = params.Picture
	}
	if params.Password != "" {
		hashed, err := s.hasher.Hash(params.Password)
		if err != nil {
			s.logger.Error(ctx, "password hashing failed", "user_id", id, "error", err.Error())
			return nil, common.ErrorInternal
		}
		user.Password = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "user update failed", "user_id", id, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Delete removes the actor's own account.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID != id {
		return common.ErrorForbidden
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "user deletion failed", "user_id", id, "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}
