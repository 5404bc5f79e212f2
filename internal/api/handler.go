// Package api provides HTTP handlers for the AI tools backend.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/ai-tools/internal/llm"
	"github.com/ashureev/ai-tools/internal/store"
	"github.com/ashureev/ai-tools/internal/tools"
)

// Handler serves the tool endpoints.
type Handler struct {
	svc  *tools.Service
	repo store.DocumentStore
}

// NewHandler creates a new Handler.
func NewHandler(svc *tools.Service, repo store.DocumentStore) *Handler {
	return &Handler{svc: svc, repo: repo}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// statusFor maps pipeline errors to HTTP statuses: validation failures are
// client errors, a failed backend call is a bad gateway, everything else is
// a server error.
func statusFor(err error) (int, string) {
	var verr *tools.ValidationError
	var serr *tools.StorageError
	var ierr *llm.InferenceError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, llm.ErrEmptyReply):
		return http.StatusInternalServerError, llm.ErrEmptyReply.Error()
	case errors.As(err, &ierr):
		return http.StatusBadGateway, ierr.Error()
	case errors.As(err, &serr):
		return http.StatusInternalServerError, serr.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

func (h *Handler) toolError(w http.ResponseWriter, tool string, err error) {
	status, detail := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("tool request failed", "tool", tool, "status", status, "error", err)
	}
	Error(w, status, detail)
}

// HealthCheck reports process liveness and store connectivity.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	dbOK := h.repo.Ping(r.Context()) == nil
	status := "ok"
	if !dbOK {
		status = "degraded"
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"status":   status,
		"database": dbOK,
	})
}
