package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/28ori/Buddy4Life/internal/logging"
	"github.com/28ori/Buddy4Life/internal/server/auth"
	"github.com/28ori/Buddy4Life/internal/server/models"
	"github.com/28ori/Buddy4Life/internal/server/repositories/posts"
)

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (noopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l noopLogger) With(args ...any) logging.Logger                  { return l }

// memUserRepo is an in-memory users.Repository. The mutex makes the
// conditional token rotation atomic, mirroring the single-statement
// UPDATE of the real store.
type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, common.ErrorConflict
		}
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	stored.Email = user.Email
	stored.Password = user.Password
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Picture = user.Picture
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) AddRefreshToken(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshTokens = append(u.RefreshTokens, token)
	return nil
}

func (r *memUserRepo) HasRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	for _, t := range u.RefreshTokens {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	for i, t := range u.RefreshTokens {
		if t == token {
			u.RefreshTokens = append(u.RefreshTokens[:i], u.RefreshTokens[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	for i, t := range u.RefreshTokens {
		if t == oldToken {
			u.RefreshTokens[i] = newToken
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ClearRefreshTokens(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.RefreshTokens = nil
	}
	return nil
}

func (r *memUserRepo) ListRefreshTokens(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), u.RefreshTokens...), nil
}

// memPostRepo is an in-memory posts.Repository.
type memPostRepo struct {
	mu       sync.Mutex
	seq      int
	posts    map[string]*models.Post
	comments map[string]*models.Comment
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[string]*models.Post{}, comments: map[string]*models.Comment{}}
}

func (r *memPostRepo) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *post
	clone.ID = fmt.Sprintf("post-%d", r.seq)
	r.posts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memPostRepo) TitleExists(ctx context.Context, title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPostRepo) List(ctx context.Context, filter posts.Filter) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.OwnerID != "" && p.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *p
	for _, c := range r.comments {
		if c.PostID == id {
			out.Comments = append(out.Comments, *c)
		}
	}
	return &out, nil
}

func (r *memPostRepo) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return common.ErrorNotFound
	}
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *memPostRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	for cid, c := range r.comments {
		if c.PostID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

func (r *memPostRepo) AddComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *comment
	clone.ID = fmt.Sprintf("comment-%d", r.seq)
	r.comments[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memPostRepo) GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok || c.PostID != postID {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (r *memPostRepo) UpdateComment(ctx context.Context, postID, commentID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok || c.PostID != postID {
		return common.ErrorNotFound
	}
	c.Text = text
	return nil
}

func (r *memPostRepo) DeleteComment(ctx context.Context, postID, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok || c.PostID != postID {
		return common.ErrorNotFound
	}
	delete(r.comments, commentID)
	return nil
}

type fakeVerifier struct {
	claims *auth.AssertionClaims
	err    error
}

func (v *fakeVerifier) Verify(ctx context.Context, assertion string) (*auth.AssertionClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}
