package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/28ori/Buddy4Life/internal/server/models"
	"github.com/28ori/Buddy4Life/internal/server/repositories/posts"
	"github.com/28ori/Buddy4Life/internal/server/services"
)

type postRequest struct {
	Title       string `json:"title" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Breed       string `json:"breed" validate:"required"`
	Description string `json:"description" validate:"required"`
	Age         int    `json:"age" validate:"gte=0"`
	Color       string `json:"color"`
	City        string `json:"city"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type postResponse struct {
	ID          string            `json:"id"`
	OwnerID     string            `json:"ownerId"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Breed       string            `json:"breed"`
	Description string            `json:"description"`
	Age         int               `json:"age"`
	Color       string            `json:"color,omitempty"`
	City        string            `json:"city,omitempty"`
	Comments    []commentResponse `json:"comments,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func toPostResponse(p *models.Post) postResponse {
	resp := postResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Category:    p.Category,
		Breed:       p.Breed,
		Description: p.Description,
		Age:         p.Age,
		Color:       p.Color,
		City:        p.City,
		CreatedAt:   p.CreatedAt,
	}
	for _, c := range p.Comments {
		resp.Comments = append(resp.Comments, commentResponse{
			ID:        c.ID,
			AuthorID:  c.AuthorID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return resp
}

func (req postRequest) toParams() services.PostParams {
	return services.PostParams{
		Title:       req.Title,
		Category:    req.Category,
		Breed:       req.Breed,
		Description: req.Description,
		Age:         req.Age,
		Color:       req.Color,
		City:        req.City,
	}
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req postRequest
	if !decodeValid(w, r, &req) {
		return
	}

	post, err := s.posts.Create(r.Context(), userID, req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	filter := posts.Filter{
		Category: r.URL.Query().Get("category"),
		OwnerID:  r.URL.Query().Get("ownerId"),
	}

	list, err := s.posts.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := []postResponse{}
	for i := range list {
		resp = append(resp, toPostResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req postRequest
	if !decodeValid(w, r, &req) {
		return
	}

	post, err := s.posts.Update(r.Context(), userID, chi.URLParam(r, "id"), req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.posts.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req commentRequest
	if !decodeValid(w, r, &req) {
		return
	}

	comment, err := s.posts.AddComment(r.Context(), userID, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	})
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req commentRequest
	if !decodeValid(w, r, &req) {
		return
	}

	comment, err := s.posts.UpdateComment(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "commentId"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commentResponse{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	})
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.posts.DeleteComment(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "commentId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
