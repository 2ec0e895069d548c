// Package posts declares the repository contract for rehoming posts and
// their comments.
package posts

import (
	"context"

	"github.com/28ori/Buddy4Life/internal/server/models"
)

// Filter narrows List results. Zero-valued fields are ignored.
type Filter struct {
	Category string
	OwnerID  string
}

type Repository interface {
	// Create inserts the post and returns it with the generated ID.
	Create(ctx context.Context, post *models.Post) (*models.Post, error)

	// TitleExists reports whether any post already uses the given title.
	TitleExists(ctx context.Context, title string) (bool, error)

	// List returns posts matching the filter, newest first, without comments.
	List(ctx context.Context, filter Filter) ([]models.Post, error)

	// GetByID returns the post with its comments, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// Update rewrites the post's mutable fields.
	Update(ctx context.Context, post *models.Post) error

	// Delete removes the post and its comments.
	Delete(ctx context.Context, id string) error

	// AddComment inserts a comment and returns it with the generated ID.
	AddComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)

	// GetComment returns a single comment of a post, or common.ErrorNotFound.
	GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error)

	// UpdateComment replaces the text of a comment.
	UpdateComment(ctx context.Context, postID, commentID, text string) error

	// DeleteComment removes a comment from a post.
	DeleteComment(ctx context.Context, postID, commentID string) error
}
