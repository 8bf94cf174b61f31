// Package handlers implements the HTTP handlers of the tutor orchestrator.
// The handlers are thin: query-length validation happens here, everything
// else is delegated to the orchestrator and the interaction store.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/aitutor/orchestrator/internal/orchestrator"
	"github.com/aitutor/orchestrator/internal/store"
	"github.com/aitutor/orchestrator/pkg/models"
	"github.com/rs/zerolog/log"
)

// MaxQueryLength bounds the accepted query size; the core does not
// re-validate this.
const MaxQueryLength = 2000

// Handlers holds all handler dependencies.
type Handlers struct {
	Store store.Store
	Agent orchestrator.Orchestrator
}

// New creates a Handlers instance.
func New(s store.Store, agent orchestrator.Orchestrator) *Handlers {
	return &Handlers{Store: s, Agent: agent}
}

// askRequest is the POST /ask body.
type askRequest struct {
	Query       string              `json:"query"`
	UserContext *models.UserContext `json:"user_context,omitempty"`
}

// AskTutor processes one tutoring query and persists the interaction.
func (h *Handlers) AskTutor(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, "Query must not be empty")
		return
	}
	if len(req.Query) > MaxQueryLength {
		respondError(w, http.StatusBadRequest, "Query exceeds maximum length of 2000 characters")
		return
	}

	// No context in the body means the demo student profile; a supplied
	// context is passed through as-is so empty fields keep their
	// extraction-time defaults.
	userContext := models.DefaultUserContext()
	if req.UserContext != nil {
		userContext = *req.UserContext
	}

	result := h.Agent.Process(r.Context(), req.Query, userContext)

	interaction := &models.Interaction{
		Agent:          result.Agent,
		UserQuery:      req.Query,
		AgentResponse:  result.ResponseText,
		SelectedTool:   result.SelectedTool,
		ModelUsed:      result.ModelUsed,
		Classification: result.Classification,
		Confidence:     result.Confidence,
	}
	if err := h.Store.SaveInteraction(r.Context(), interaction); err != nil {
		// Losing a log row must not fail the answer the student already got.
		log.Warn().Err(err).Msg("Failed to persist interaction")
	}

	RespondJSON(w, http.StatusOK, result)
}

// History returns the most recent interactions, newest first.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	interactions, err := h.Store.ListRecent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if interactions == nil {
		interactions = []models.Interaction{}
	}
	RespondJSON(w, http.StatusOK, interactions)
}

// Graph serves a visualization of the active dispatch pipeline as mermaid
// (default) or ascii text.
func (h *Handlers) Graph(w http.ResponseWriter, r *http.Request) {
	exporter, ok := h.Agent.(orchestrator.Exporter)
	if !ok {
		respondError(w, http.StatusNotFound, "Active strategy does not expose a pipeline graph")
		return
	}

	var body string
	switch r.URL.Query().Get("format") {
	case "ascii":
		body = exporter.ASCII()
	default:
		body = exporter.Mermaid()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// ── Response Helpers ─────────────────────────────────────────

// RespondJSON writes payload as the JSON response body. Every JSON
// endpoint, including the root and version routes, goes through it.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}
