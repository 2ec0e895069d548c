package services

import (
	"context"
	"errors"

	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/28ori/Buddy4Life/internal/logging"
	"github.com/28ori/Buddy4Life/internal/server/models"
	"github.com/28ori/Buddy4Life/internal/server/repositories/posts"
)

// PostParams carries the writable fields of a post.
type PostParams struct {
	Title       string
	Category    string
	Breed       string
	Description string
	Age         int
	Color       string
	City        string
}

// PostService implements post and comment CRUD with ownership checks.
type PostService struct {
	posts  posts.Repository
	logger logging.Logger
}

func NewPostService(repo posts.Repository, logger logging.Logger) *PostService {
	return &PostService{posts: repo, logger: logger}
}

func (s *PostService) Create(ctx context.Context, ownerID string, params PostParams) (*models.Post, error) {
	taken, err := s.posts.TitleExists(ctx, params.Title)
	if err != nil {
		s.logger.Error(ctx, "title lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	if taken {
		return nil, common.ErrorConflict
	}

	post, err := s.posts.Create(ctx, &models.Post{
		OwnerID:     ownerID,
		Title:       params.Title,
		Category:    params.Category,
		Breed:       params.Breed,
		Description: params.Description,
		Age:         params.Age,
		Color:       params.Color,
		City:        params.City,
	})
	if err != nil {
		s.logger.Error(ctx, "post creation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, filter posts.Filter) ([]models.Post, error) {
	result, err := s.posts.List(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "post listing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return result, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "post lookup failed", "post_id", id, "error", err.Error())
		return nil, common.ErrorInternal
	}
	return post, nil
}

// Update rewrites a post; only its owner may do so.
func (s *PostService) Update(ctx context.Context, actorID, id string, params PostParams) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != actorID {
		return nil, common.ErrorForbidden
	}

	post.Title = params.Title
	post.Category = params.Category
	post.Breed = params.Breed
	post.Description = params.Description
	post.Age = params.Age
	post.Color = params.Color
	post.City = params.City

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "post update failed", "post_id", id, "error", err.Error())
		return nil, common.ErrorInternal
	}
	return post, nil
}

// Delete removes a post; only its owner may do so.
func (s *PostService) Delete(ctx context.Context, actorID, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.OwnerID != actorID {
		return common.ErrorForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "post deletion failed", "post_id", id, "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

func (s *PostService) AddComment(ctx context.Context, authorID, postID, text string) (*models.Comment, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	comment, err := s.posts.AddComment(ctx, &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	})
	if err != nil {
		s.logger.Error(ctx, "comment creation failed", "post_id", postID, "error", err.Error())
		return nil, common.ErrorInternal
	}
	return comment, nil
}

// UpdateComment replaces a comment's text; only its author may do so.
func (s *PostService) UpdateComment(ctx context.Context, actorID, postID, commentID, text string) (*models.Comment, error) {
	comment, err := s.getComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actorID {
		return nil, common.ErrorForbidden
	}

	if err := s.posts.UpdateComment(ctx, postID, commentID, text); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "comment update failed", "comment_id", commentID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	comment.Text = text
	return comment, nil
}

// DeleteComment removes a comment; only its author may do so.
func (s *PostService) DeleteComment(ctx context.Context, actorID, postID, commentID string) error {
	comment, err := s.getComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID {
		return common.ErrorForbidden
	}

	if err := s.posts.DeleteComment(ctx, postID, commentID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "comment deletion failed", "comment_id", commentID, "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

func (s *PostService) getComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	comment, err := s.posts.GetComment(ctx, postID, commentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "comment lookup failed", "comment_id", commentID, "error", err.Error())
		return nil, common.ErrorInternal
	}
	return comment, nil
}
