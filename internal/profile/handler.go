package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// SessionIDParam is the chi URL parameter carrying the visitor session id.
const SessionIDParam = "sessionID"

// Handler exposes the profile accessor over HTTP.
type Handler struct {
	accessor *Accessor
	logger   *logging.Logger
}

// NewHandler creates a profile handler.
func NewHandler(accessor *Accessor, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{accessor: accessor, logger: logger}
}

// Response is the profile view returned to the front end.
type Response struct {
	SessionID string         `json:"session_id"`
	Profile   ContactProfile `json:"profile"`
	Complete  bool           `json:"complete"`
}

// GetProfile handles GET /api/sessions/{sessionID}/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, SessionIDParam)
	p := h.accessor.Get(r.Context(), sessionID)
	writeJSON(w, http.StatusOK, Response{SessionID: sessionID, Profile: p, Complete: p.Complete()})
}

// PatchProfile handles PATCH /api/sessions/{sessionID}/profile. Each call is
// a keystroke-level update; persistence is debounced by the accessor.
func (h *Handler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, SessionIDParam)

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.accessor.Update(r.Context(), sessionID, patch)
	if err != nil {
		if errors.Is(err, ErrClosed) {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		h.logger.Error("profile update failed", "session_id", sessionID, "error", err)
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, Response{SessionID: sessionID, Profile: p, Complete: p.Complete()})
}

// ResetProfile handles DELETE /api/sessions/{sessionID}/profile.
func (h *Handler) ResetProfile(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, SessionIDParam)
	if err := h.accessor.Reset(r.Context(), sessionID); err != nil {
		h.logger.Error("profile reset failed", "session_id", sessionID, "error", err)
		http.Error(w, "failed to reset profile", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
