package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/28ori/Buddy4Life/internal/dbx"
	"github.com/28ori/Buddy4Life/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query := `
		INSERT INTO posts (owner_id, title, category, breed, description, age, color, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		post.OwnerID, post.Title, post.Category, post.Breed,
		post.Description, post.Age, post.Color, post.City).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM posts WHERE title = $1
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, title).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]models.Post, error) {
	query := `
		SELECT id, owner_id, title, category, breed, description, age, color, city, created_at, updated_at
		FROM posts
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR owner_id::text = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, filter.Category, filter.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Category, &p.Breed,
			&p.Description, &p.Age, &p.Color, &p.City, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, owner_id, title, category, breed, description, age, color, city, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&post.ID, &post.OwnerID, &post.Title, &post.Category, &post.Breed,
			&post.Description, &post.Age, &post.Color, &post.City, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	comments, err := r.listComments(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments

	return post, nil
}

func (r *PostgresRepository) listComments(ctx context.Context, postID string) ([]models.Comment, error) {
	query := `
		SELECT id, post_id, author_id, text, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comments, nil
}

func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $2, category = $3, breed = $4, description = $5, age = $6, color = $7, city = $8, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Category, post.Breed,
		post.Description, post.Age, post.Color, post.City)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM posts
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.requireRow(res)
}

func (r *PostgresRepository) AddComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (post_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, comment.PostID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	query := `
		SELECT id, post_id, author_id, text, created_at
		FROM comments
		WHERE id = $1 AND post_id = $2
	`
	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, commentID, postID).
		Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text, &comment.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) UpdateComment(ctx context.Context, postID, commentID, text string) error {
	query := `
		UPDATE comments
		SET text = $3
		WHERE id = $1 AND post_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, commentID, postID, text)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.requireRow(res)
}

func (r *PostgresRepository) DeleteComment(ctx context.Context, postID, commentID string) error {
	query := `
		DELETE FROM comments
		WHERE id = $1 AND post_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, commentID, postID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.requireRow(res)
}

func (r *PostgresRepository) requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
