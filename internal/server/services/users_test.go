package services

import (
	"context"
	"testing"

	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/28ori/Buddy4Life/internal/server/auth"
	"github.com/28ori/Buddy4Life/internal/server/models"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *memUserRepo, string) {
	t.Helper()
	repo := newMemUserRepo()
	svc := NewUserService(repo, auth.NewBcryptHasher(4), noopLogger{})
	user, err := repo.Create(context.Background(), &models.User{
		Email:     "dana@example.com",
		Password:  "hashed",
		FirstName: "Dana",
	})
	require.NoError(t, err)
	return svc, repo, user.ID
}

func TestUserGet(t *testing.T) {
	svc, _, id := newUserFixture(t)

	user, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "dana@example.com", user.Email)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserUpdate_SelfOnly(t *testing.T) {
	svc, repo, id := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "someone-else", id, UpdateUserParams{FirstName: "Eve"})
	require.ErrorIs(t, err, common.ErrorForbidden)

	updated, err := svc.Update(ctx, id, id, UpdateUserParams{FirstName: "Dana-Lee", Picture: "p.png"})
	require.NoError(t, err)
	require.Equal(t, "Dana-Lee", updated.FirstName)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Dana-Lee", stored.FirstName)
	require.Equal(t, "p.png", stored.Picture)
	require.Equal(t, "dana@example.com", stored.Email, "unset fields stay put")
}

func TestUserUpdate_RehashesPassword(t *testing.T) {
	svc, repo, id := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, id, id, UpdateUserParams{Password: "newpass"})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotEqual(t, "hashed", stored.Password)
	require.NotEqual(t, "newpass", stored.Password, "plaintext must never be stored")
	require.True(t, auth.NewBcryptHasher(4).Check("newpass", stored.Password))
}

func TestUserDelete_SelfOnly(t *testing.T) {
	svc, _, id := newUserFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.Delete(ctx, "someone-else", id), common.ErrorForbidden)

	require.NoError(t, svc.Delete(ctx, id, id))
	_, err := svc.Get(ctx, id)
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.ErrorIs(t, svc.Delete(ctx, id, id), common.ErrorNotFound)
}
