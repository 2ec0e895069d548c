package httpapi

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/28ori/Buddy4Life/internal/logging"
	"github.com/28ori/Buddy4Life/internal/server/auth"
	sc "github.com/28ori/Buddy4Life/internal/server/config"
	"github.com/28ori/Buddy4Life/internal/server/models"
	"github.com/28ori/Buddy4Life/internal/server/repositories/posts"
	"github.com/28ori/Buddy4Life/internal/server/services"
)

type testLogger struct{}

func (testLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (testLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (testLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (testLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l testLogger) With(args ...any) logging.Logger                  { return l }

// userStore is an in-memory users.Repository backing the handler tests.
type userStore struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User
}

func newUserStore() *userStore {
	return &userStore{users: map[string]*models.User{}}
}

func (r *userStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
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

func (r *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
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

func (r *userStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *userStore) Update(ctx context.Context, user *models.User) error {
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

func (r *userStore) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *userStore) AddRefreshToken(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshTokens = append(u.RefreshTokens, token)
	return nil
}

func (r *userStore) HasRefreshToken(ctx context.Context, userID, token string) (bool, error) {
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

func (r *userStore) RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error) {
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

func (r *userStore) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
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

func (r *userStore) ClearRefreshTokens(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.RefreshTokens = nil
	}
	return nil
}

func (r *userStore) ListRefreshTokens(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), u.RefreshTokens...), nil
}

// postStore is an in-memory posts.Repository backing the handler tests.
type postStore struct {
	mu       sync.Mutex
	seq      int
	posts    map[string]*models.Post
	comments map[string]*models.Comment
}

func newPostStore() *postStore {
	return &postStore{posts: map[string]*models.Post{}, comments: map[string]*models.Comment{}}
}

func (r *postStore) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *post
	clone.ID = fmt.Sprintf("post-%d", r.seq)
	r.posts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *postStore) TitleExists(ctx context.Context, title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *postStore) List(ctx context.Context, filter posts.Filter) ([]models.Post, error) {
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

func (r *postStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
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

func (r *postStore) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return common.ErrorNotFound
	}
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *postStore) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *postStore) AddComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *comment
	clone.ID = fmt.Sprintf("comment-%d", r.seq)
	r.comments[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *postStore) GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok || c.PostID != postID {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (r *postStore) UpdateComment(ctx context.Context, postID, commentID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok || c.PostID != postID {
		return common.ErrorNotFound
	}
	c.Text = text
	return nil
}

func (r *postStore) DeleteComment(ctx context.Context, postID, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok || c.PostID != postID {
		return common.ErrorNotFound
	}
	delete(r.comments, commentID)
	return nil
}

type apiFixture struct {
	server *httptest.Server
	issuer *auth.Issuer
	users  *userStore
	posts  *postStore
}

// newAPIFixture stands up the full route tree over in-memory stores.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	userRepo := newUserStore()
	postRepo := newPostStore()
	issuer := auth.NewIssuer([]byte("access-secret"), []byte("refresh-secret"), time.Minute, time.Hour)
	hasher := auth.NewBcryptHasher(4)
	logger := testLogger{}

	srv := NewServer(
		services.NewSessionService(userRepo, hasher, issuer, auth.NewGoogleVerifier("test-audience"), logger),
		services.NewUserService(userRepo, hasher, logger),
		services.NewPostService(postRepo, logger),
		services.NewFileService(sc.S3{}, logger),
		services.NewDogService(sc.DogAPI{}, logger),
		issuer,
		logger,
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &apiFixture{server: ts, issuer: issuer, users: userRepo, posts: postRepo}
}
