package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/solacelabs/solace/backend/internal/service/orchestrator"
	"github.com/solacelabs/solace/backend/pkg/utils"
)

// Handler exposes the per-turn conversation surface over HTTP.
type Handler struct {
	orchestrator *orchestrator.Service
}

// New creates the chat handler.
func New(orchestratorSvc *orchestrator.Service) *Handler {
	return &Handler{orchestrator: orchestratorSvc}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/session/{sessionID}/turns", h.handleProcessTurn)
	r.Post("/session/{sessionID}/reset", h.handleReset)
	r.Get("/session/{sessionID}/stats", h.handleStats)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.orchestrator.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleProcessTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.orchestrator.ProcessTurn(r.Context(), sessionID, payload.Text)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.orchestrator.ResetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	stats, err := h.orchestrator.Stats(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	turns, err := h.orchestrator.Transcript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, turns)
}

func statusFor(err error) int {
	if errors.Is(err, orchestrator.ErrSessionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
