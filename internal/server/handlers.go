package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/repositories"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/desertthunder/muse/internal/tasks"
)

// APIHandler serves the recommendation API.
type APIHandler struct {
	engine          tasks.RecommendEngine
	registry        *SessionRegistry
	recommendations *repositories.RecommendationRepository
	logger          *log.Logger
	providers       map[string]bool
}

// NewAPIHandler creates an APIHandler with the given engine and stores.
func NewAPIHandler(engine tasks.RecommendEngine, registry *SessionRegistry, recommendations *repositories.RecommendationRepository, logger *log.Logger) *APIHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &APIHandler{
		engine:          engine,
		registry:        registry,
		recommendations: recommendations,
		logger:          logger,
		providers:       map[string]bool{},
	}
}

// SetProviderStatus records whether a named provider is configured, for /health.
func (h *APIHandler) SetProviderStatus(name string, available bool) {
	h.providers[name] = available
}

// Routes returns the route patterns this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{
		"GET /health",
		"POST /api/sessions",
		"GET /api/sessions/{id}/history",
		"POST /api/recommend",
		"GET /api/trending",
	}
}

// ServeHTTP dispatches requests to the appropriate operation.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/health":
		h.handleHealth(w, r)
	case r.URL.Path == "/api/sessions" && r.Method == http.MethodPost:
		h.handleCreateSession(w, r)
	case r.URL.Path == "/api/recommend":
		h.handleRecommend(w, r)
	case r.URL.Path == "/api/trending":
		h.handleTrending(w, r)
	default:
		h.handleHistory(w, r)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type recommendRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Label     string `json:"label"`
}

type recommendResponse struct {
	SessionID string                `json:"session_id"`
	Mood      *models.MoodProfile   `json:"mood"`
	Track     models.TrackCandidate `json:"track"`
	VideoLink string                `json:"video_link,omitempty"`
	Broadened bool                  `json:"broadened,omitempty"`
}

type historyEntry struct {
	MoodTag   string                `json:"mood_tag"`
	Track     models.TrackCandidate `json:"track"`
	CreatedAt time.Time             `json:"created_at"`
}

type historyResponse struct {
	SessionID string         `json:"session_id"`
	Entries   []historyEntry `json:"entries"`
}

type trendingResponse struct {
	Tracks []models.TrackCandidate `json:"tracks"`
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrEmptyMessage), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrExhausted):
		return http.StatusConflict
	case errors.Is(err, shared.ErrNoCandidates):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrInterpretation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": h.providers,
	})
}

func (h *APIHandler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Label string `json:"label"`
	}
	// Empty bodies are fine, malformed JSON is not
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid request body", shared.ErrInvalidInput))
		return
	}

	session, err := h.registry.Create(body.Label)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        session.ID(),
		Label:     session.Label(),
		CreatedAt: session.CreatedAt(),
	})
}

func (h *APIHandler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var body recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid request body", shared.ErrInvalidInput))
		return
	}

	sessionID := body.SessionID
	if sessionID == "" {
		session, err := h.registry.Create(body.Label)
		if err != nil {
			h.logger.Error("failed to create session", "error", err)
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
		sessionID = session.ID()
	}

	mem, err := h.registry.MemoryFor(sessionID)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	result, err := h.engine.Recommend(r.Context(), nil, tasks.RecommendRequest{
		SessionID: sessionID,
		Message:   body.Message,
		Memory:    mem,
	})
	if err != nil {
		h.logger.Warn("recommendation failed", "session", sessionID, "error", err)
		h.writeError(w, statusFor(err), err)
		return
	}

	h.logger.Info("recommended track", "session", sessionID, "mood", result.Profile.Tag, "track", result.Track.Title)
	h.writeJSON(w, http.StatusOK, recommendResponse{
		SessionID: sessionID,
		Mood:      result.Profile,
		Track:     result.Track,
		VideoLink: result.VideoLink,
		Broadened: result.Broadened,
	})
}

func (h *APIHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		http.NotFound(w, r)
		return
	}

	if _, err := h.registry.Get(sessionID); err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	records, err := h.recommendations.ListBySession(sessionID)
	if err != nil {
		h.logger.Error("failed to list history", "session", sessionID, "error", err)
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, historyEntry{
			MoodTag:   record.MoodTag(),
			Track:     record.Track(),
			CreatedAt: record.CreatedAt(),
		})
	}

	h.writeJSON(w, http.StatusOK, historyResponse{SessionID: sessionID, Entries: entries})
}

func (h *APIHandler) handleTrending(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: limit must be an integer", shared.ErrInvalidArgument))
			return
		}
		limit = parsed
	}

	tracks, err := h.engine.Trending(r.Context(), nil, limit)
	if err != nil {
		h.logger.Warn("trending lookup failed", "error", err)
		h.writeError(w, statusFor(err), err)
		return
	}

	h.writeJSON(w, http.StatusOK, trendingResponse{Tracks: tracks})
}
