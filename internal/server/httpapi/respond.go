package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/28ori/Buddy4Life/internal/common"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError maps service sentinels to HTTP statuses. Internal details never
// reach the client; anything unrecognized is reported as a plain 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorConflict):
		writeMessage(w, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		writeMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrInvalidAssertion):
		writeMessage(w, http.StatusBadRequest, "invalid credential")
	default:
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
