package forms

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// FormIDParam is the chi URL parameter carrying a form id.
const FormIDParam = "formID"

// Handler serves form definitions to the front end.
type Handler struct {
	registry *Registry
	logger   *logging.Logger
}

// NewHandler creates a forms handler.
func NewHandler(registry *Registry, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{registry: registry, logger: logger}
}

// ListForms handles GET /api/forms.
func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	defs := h.registry.List()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"forms":    defs,
		"count":    len(defs),
		"services": Services,
	})
}

// GetForm handles GET /api/forms/{formID}.
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	def, err := h.registry.Get(chi.URLParam(r, FormIDParam))
	if err != nil {
		http.Error(w, "form not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(def)
}
