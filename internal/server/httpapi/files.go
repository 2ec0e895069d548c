package httpapi

import (
	"net/http"
)

// 10 MiB in memory before multipart parsing spills to disk.
const maxUploadMemory = 10 << 20

type uploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: []string{"multipart form expected"}})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: []string{"file field is required"}})
		return
	}
	defer file.Close()

	key, url, err := s.files.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		s.logger.Error(r.Context(), "file upload failed", "error", err.Error())
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Key: key, URL: url})
}
