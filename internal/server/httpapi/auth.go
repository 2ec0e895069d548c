package httpapi

import (
	"errors"
	"net/http"

	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/28ori/Buddy4Life/internal/server/models"
	"github.com/28ori/Buddy4Life/internal/server/services"
)

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	ImageURL  string `json:"imageUrl" validate:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleSignInRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.Picture,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeValid(w, r, &req) {
		return
	}

	user, err := s.sessions.Register(r.Context(), services.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Picture:   req.ImageURL,
	})
	if err != nil {
		// A taken email is reported as 406, matching the client contract.
		if errors.Is(err, common.ErrorConflict) {
			writeMessage(w, http.StatusNotAcceptable, "email already in use")
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeValid(w, r, &req) {
		return
	}

	pair, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, s.issuer.RefreshTTL())
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// handleLogout always answers 204 and clears the cookie; revocation failures
// on unverifiable tokens are invisible to the client.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := s.sessions.Logout(r.Context(), refreshTokenFromRequest(r))
	if err != nil && !errors.Is(err, common.ErrInvalidToken) {
		writeError(w, err)
		return
	}

	clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	pair, err := s.sessions.Refresh(r.Context(), refreshTokenFromRequest(r))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			clearRefreshCookie(w)
		}
		writeError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, s.issuer.RefreshTTL())
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if !decodeValid(w, r, &req) {
		return
	}

	user, pair, err := s.sessions.FederatedSignIn(r.Context(), req.Credential)
	if err != nil {
		writeError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, s.issuer.RefreshTTL())
	writeJSON(w, http.StatusOK, struct {
		User         userResponse `json:"user"`
		AccessToken  string       `json:"accessToken"`
		RefreshToken string       `json:"refreshToken"`
	}{toUserResponse(user), pair.AccessToken, pair.RefreshToken})
}
