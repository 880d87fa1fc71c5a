package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// URL parameters.
const (
	IDParam    = "sessionID"
	EventParam = "event"
)

// Handler exposes sessions and the widget state over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a session handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type createResponse struct {
	Session Session `json:"session"`
	Widget  View    `json:"widget"`
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, view, err := h.service.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{Session: sess, Widget: view})
}

// GetWidget handles GET /api/sessions/{sessionID}/widget.
func (h *Handler) GetWidget(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), chi.URLParam(r, IDParam))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// WidgetEvent handles POST /api/sessions/{sessionID}/widget/{event}.
func (h *Handler) WidgetEvent(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Event(r.Context(), chi.URLParam(r, IDParam), chi.URLParam(r, EventParam))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// EndSession handles DELETE /api/sessions/{sessionID}.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.End(r.Context(), chi.URLParam(r, IDParam)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequireSession answers 404 for routes under /api/sessions/{sessionID} whose
// session is unknown or expired.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.service.Get(r.Context(), chi.URLParam(r, IDParam)); err != nil {
			h.writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrUnknownEvent):
		http.Error(w, "unknown widget event", http.StatusBadRequest)
	default:
		h.logger.Error("session request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
