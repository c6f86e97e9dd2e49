package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

// envelope is the uniform response body: status is "success" or "error",
// code repeats the HTTP status, data carries the payload, message is only
// set on errors.
type envelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// page wraps a list payload with its pagination metadata.
type page struct {
	Items      any `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func newPage(items any, pageNum, limit, total int) page {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return page{Items: items, Page: pageNum, Limit: limit, Total: total, TotalPages: totalPages}
}

func respondData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Status: "success", Code: code, Data: data})
}

// respondError maps domain sentinels to HTTP status codes. Anything
// unrecognized is a 500 with a generic message; the wrapped detail only goes
// to the log.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		code    int
		message string
	)
	switch {
	case errors.Is(err, core.ErrNotFound):
		code, message = http.StatusNotFound, "resource not found"
	case errors.Is(err, core.ErrInvalidAmount):
		code, message = http.StatusBadRequest, "invalid amount"
	case errors.Is(err, core.ErrInvalidInput):
		code, message = http.StatusBadRequest, "invalid input"
	case errors.Is(err, core.ErrForbidden):
		code, message = http.StatusForbidden, "forbidden"
	case errors.Is(err, core.ErrConflict):
		code, message = http.StatusConflict, "resource already exists"
	default:
		code, message = http.StatusInternalServerError, "internal error"
	}

	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
	}

	writeJSON(w, code, envelope{Status: "error", Code: code, Message: message})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Status: "error", Code: http.StatusBadRequest, Message: message,
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parsePaging reads page and limit query parameters with defaults 1 and 10.
func parsePaging(r *http.Request) (pageNum, limit int) {
	pageNum, limit = 1, 10
	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			pageNum = p
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	return pageNum, limit
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, name string) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q", name, v)
	}
	return t, nil
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
