package relay

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// Handler serves POST /api/send-sms.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a relay handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SendSMS handles POST /api/send-sms. Any failure, including a malformed
// body, answers 500 with success=false.
func (h *Handler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.service.Send(r.Context(), req); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("sms relay failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewRouter mounts the relay with fully open CORS.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/send-sms", h.SendSMS)
	return r
}
