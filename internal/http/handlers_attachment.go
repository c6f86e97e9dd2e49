package http

import (
	"io"
	"log/slog"
	"net/http"
)

// maxUploadSize caps the whole multipart request body.
const maxUploadSize = 32 << 20

// handleUploadAttachment accepts one or more multipart files under the
// "attachments" field and returns the stored relative paths. Callers pass
// those paths back in the attachment fields of later requests.
func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondBadRequest(w, "malformed multipart request")
		return
	}

	files := r.MultipartForm.File["attachments"]
	if len(files) == 0 {
		respondBadRequest(w, "no attachments provided")
		return
	}

	paths := make([]string, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			respondBadRequest(w, "unreadable attachment")
			return
		}

		path, err := s.uploads.Save(file, header)
		file.Close()
		if err != nil {
			slog.ErrorContext(r.Context(), "Attachment save failed",
				"filename", header.Filename, "error", err)
			respondBadRequest(w, "attachment rejected")
			return
		}
		paths = append(paths, path)
	}

	respondData(w, http.StatusCreated, map[string][]string{"paths": paths})
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	rel := r.PathValue("path")
	if rel == "" {
		respondBadRequest(w, "missing attachment path")
		return
	}

	f, err := s.uploads.Open(rel)
	if err != nil {
		writeJSON(w, http.StatusNotFound, envelope{
			Status: "error", Code: http.StatusNotFound, Message: "attachment not found",
		})
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, f); err != nil {
		slog.ErrorContext(r.Context(), "Attachment stream failed", "path", rel, "error", err)
	}
}
