package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ashureev/ai-tools/internal/tools"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the tool endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health-check", h.HealthCheck)
	r.Post("/chat", h.Chat)
	r.Get("/chat/history", h.ChatHistory)
	r.Post("/research", h.Research)
	r.Get("/research/history", h.ResearchHistory)
	r.Post("/planner", h.Planner)
	r.Post("/roleplay", h.Roleplay)
	r.Get("/roleplay/history", h.RoleplayHistory)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Model     string `json:"model,omitempty"`
	// Accepted for wire compatibility; generation is always non-streaming.
	Stream bool `json:"stream,omitempty"`
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.svc.Chat(r.Context(), tools.ChatInput{
		SessionID: req.SessionID,
		Message:   req.Message,
		Model:     req.Model,
	})
	if err != nil {
		h.toolError(w, "chat", err)
		return
	}
	JSON(w, http.StatusOK, res)
}

type researchRequest struct {
	SessionID string `json:"session_id"`
	Topic     string `json:"topic"`
	Depth     int    `json:"depth,omitempty"`
	Model     string `json:"model,omitempty"`
}

// Research handles POST /research.
func (h *Handler) Research(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.svc.Research(r.Context(), tools.ResearchInput{
		SessionID: req.SessionID,
		Topic:     req.Topic,
		Depth:     req.Depth,
		Model:     req.Model,
	})
	if err != nil {
		h.toolError(w, "research", err)
		return
	}
	JSON(w, http.StatusOK, res)
}

type plannerRequest struct {
	SessionID string `json:"session_id"`
	Focus     string `json:"focus,omitempty"`
	Model     string `json:"model,omitempty"`
}

// Planner handles POST /planner.
func (h *Handler) Planner(w http.ResponseWriter, r *http.Request) {
	var req plannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.svc.Plan(r.Context(), tools.PlanInput{
		SessionID: req.SessionID,
		Focus:     req.Focus,
		Model:     req.Model,
	})
	if err != nil {
		h.toolError(w, "planner", err)
		return
	}
	JSON(w, http.StatusOK, res)
}

type roleplayRequest struct {
	SessionID string `json:"session_id"`
	Persona   string `json:"persona"`
	Message   string `json:"message"`
	Model     string `json:"model,omitempty"`
}

// Roleplay handles POST /roleplay.
func (h *Handler) Roleplay(w http.ResponseWriter, r *http.Request) {
	var req roleplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.svc.Roleplay(r.Context(), tools.RoleplayInput{
		SessionID: req.SessionID,
		Persona:   req.Persona,
		Message:   req.Message,
		Model:     req.Model,
	})
	if err != nil {
		h.toolError(w, "roleplay", err)
		return
	}
	JSON(w, http.StatusOK, res)
}

// ChatHistory handles GET /chat/history.
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	msgs, err := h.svc.ChatHistory(r.Context(), sessionID, queryInt(r, "limit"))
	if err != nil {
		h.toolError(w, "chat history", err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"session_id": sessionID, "messages": msgs})
}

// ResearchHistory handles GET /research/history.
func (h *Handler) ResearchHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	entries, err := h.svc.ResearchHistory(r.Context(), sessionID, queryInt(r, "limit"))
	if err != nil {
		h.toolError(w, "research history", err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"session_id": sessionID, "entries": entries})
}

// RoleplayHistory handles GET /roleplay/history.
func (h *Handler) RoleplayHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	entries, err := h.svc.RoleplayHistory(r.Context(), sessionID, queryInt(r, "limit"))
	if err != nil {
		h.toolError(w, "roleplay history", err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"session_id": sessionID, "entries": entries})
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
