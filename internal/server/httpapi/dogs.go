package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListBreeds(w http.ResponseWriter, r *http.Request) {
	breeds, err := s.dogs.ListBreeds(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breeds)
}

func (s *Server) handleGetBreed(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: []string{"id must be an integer"}})
		return
	}

	breed, err := s.dogs.GetBreed(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breed)
}
