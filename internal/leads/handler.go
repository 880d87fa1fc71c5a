package leads

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hpsconstructions/hps-platform/internal/catalog"
	"github.com/hpsconstructions/hps-platform/internal/forms"
	"github.com/hpsconstructions/hps-platform/internal/observability/metrics"
	"github.com/hpsconstructions/hps-platform/internal/profile"
	"github.com/hpsconstructions/hps-platform/internal/session"
	"github.com/hpsconstructions/hps-platform/internal/whatsapp"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// URL parameters.
const (
	SessionIDParam = "sessionID"
	FormIDParam    = "formID"
	ActionParam    = "action"
	LeadIDParam    = "leadID"
)

// ProfileIncompleteMessage prompts the visitor to fill in the lead form
// before a product enquiry can be sent.
const ProfileIncompleteMessage = "Please share your name and phone number in the contact form so we can reach you."

// ProfileReader reads the current contact profile of a session.
type ProfileReader interface {
	Get(ctx context.Context, sessionID string) profile.ContactProfile
}

// WidgetTracker moves the floating widget through its lifecycle.
type WidgetTracker interface {
	Event(ctx context.Context, id, event string) (session.View, error)
	MarkSubmitted(ctx context.Context, id string) (session.View, error)
}

// SessionLookup confirms a visitor session exists.
type SessionLookup interface {
	Get(ctx context.Context, id string) (session.Session, error)
}

// HandlerConfig wires the lead endpoints.
type HandlerConfig struct {
	Forms      *forms.Registry
	Validator  *forms.Validator
	Dispatcher *Dispatcher
	Profiles   ProfileReader
	Widget     WidgetTracker
	// Sessions, when set, rejects product enquiries from unknown sessions.
	Sessions   SessionLookup
	Catalog    *catalog.Catalog
	Repo       Repository
	Metrics    *metrics.LeadMetrics
	Logger     *logging.Logger
}

// Handler handles HTTP requests for leads
type Handler struct {
	forms      *forms.Registry
	validator  *forms.Validator
	dispatcher *Dispatcher
	profiles   ProfileReader
	widget     WidgetTracker
	sessions   SessionLookup
	catalog    *catalog.Catalog
	repo       Repository
	metrics    *metrics.LeadMetrics
	logger     *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Forms == nil {
		cfg.Forms = forms.DefaultRegistry()
	}
	if cfg.Validator == nil {
		cfg.Validator = forms.NewValidator()
	}
	return &Handler{
		forms:      cfg.Forms,
		validator:  cfg.Validator,
		dispatcher: cfg.Dispatcher,
		profiles:   cfg.Profiles,
		widget:     cfg.Widget,
		sessions:   cfg.Sessions,
		catalog:    cfg.Catalog,
		repo:       cfg.Repo,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// FormRequest is the body of a form action.
type FormRequest struct {
	Values map[string]string `json:"values"`
}

// FormResponse reports the outcome of a form action.
type FormResponse struct {
	Status   string            `json:"status"`
	Success  bool              `json:"success"`
	Message  string            `json:"message,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	LeadID   string            `json:"lead_id,omitempty"`
	WhatsApp *whatsapp.Message `json:"whatsapp,omitempty"`
	Fallback *whatsapp.Message `json:"fallback,omitempty"`
	Widget   *session.View     `json:"widget,omitempty"`
}

// Form action statuses that never reach the dispatcher.
const (
	StatusInvalid   = "invalid"
	StatusDismissed = "dismissed"
)

// SubmitForm handles POST /api/sessions/{sessionID}/forms/{formID}/{action}.
// Values missing from the body are taken from the stored profile.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, SessionIDParam)
	actionID := chi.URLParam(r, ActionParam)

	def, err := h.forms.Get(chi.URLParam(r, FormIDParam))
	if err != nil {
		http.Error(w, "form not found", http.StatusNotFound)
		return
	}
	action, ok := def.Action(actionID)
	if !ok {
		http.Error(w, "action not found", http.StatusNotFound)
		return
	}

	var req FormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	values := h.mergeProfile(r.Context(), def, sessionID, req.Values)
	values, err = h.validator.Check(def, actionID, values)
	if err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			h.metrics.ObserveValidationFailure(def.ID, actionID)
			writeJSON(w, http.StatusUnprocessableEntity, FormResponse{
				Status:  StatusInvalid,
				Message: forms.FixErrorsMessage,
				Fields:  verr.Fields,
			})
			return
		}
		h.logger.Error("form validation failed", "error", err, "form", def.ID)
		http.Error(w, "validation failed", http.StatusInternalServerError)
		return
	}

	if action.Effect == forms.EffectDismiss {
		resp := FormResponse{Status: StatusDismissed, Success: true}
		if def.ID == forms.QueryFormID {
			resp.Widget = h.trackWidget(r.Context(), sessionID, session.EventClose)
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	outcome := profile.Submitted
	if action.Effect == forms.EffectSendOnCancel {
		outcome = profile.Cancelled
	}
	patch := def.ProfilePatch(values)
	cp := patch.Apply(profile.ContactProfile{})
	ev := EventFromProfile(sessionID, action.Interaction, cp)

	res := h.dispatcher.Dispatch(r.Context(), Request{
		Event:    ev,
		WhatsApp: action.WhatsApp,
		Patch:    &patch,
		Outcome:  outcome,
	})

	resp := FormResponse{
		Status:   res.Status,
		Success:  res.Status != StatusFailed,
		Message:  def.SuccessToast,
		LeadID:   res.LeadID,
		WhatsApp: res.WhatsApp,
		Fallback: res.Fallback,
	}
	if !res.EmailSent() {
		resp.Message = def.FailureToast
	}

	if def.ID == forms.QueryFormID && resp.Success {
		if action.Effect == forms.EffectSend {
			resp.Widget = h.markSubmitted(r.Context(), sessionID)
		} else {
			resp.Widget = h.trackWidget(r.Context(), sessionID, session.EventClose)
		}
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

func (h *Handler) mergeProfile(ctx context.Context, def forms.Definition, sessionID string, posted map[string]string) map[string]string {
	values := map[string]string{}
	if h.profiles != nil && sessionID != "" {
		values = def.Prefill(h.profiles.Get(ctx, sessionID))
	}
	for k, v := range posted {
		values[k] = v
	}
	return values
}

func (h *Handler) trackWidget(ctx context.Context, sessionID, event string) *session.View {
	if h.widget == nil {
		return nil
	}
	view, err := h.widget.Event(ctx, sessionID, event)
	if err != nil {
		h.logger.Debug("widget event skipped", "error", err, "session_id", sessionID, "event", event)
		return nil
	}
	return &view
}

func (h *Handler) markSubmitted(ctx context.Context, sessionID string) *session.View {
	if h.widget == nil {
		return nil
	}
	view, err := h.widget.MarkSubmitted(ctx, sessionID)
	if err != nil {
		h.logger.Debug("widget submit skipped", "error", err, "session_id", sessionID)
		return nil
	}
	return &view
}

// InterestRequest is the body of a product enquiry.
type InterestRequest struct {
	SessionID string `json:"session_id"`
}

// InterestResponse reports the outcome of a product enquiry.
type InterestResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Form      string            `json:"form,omitempty"`
	LeadID    string            `json:"lead_id,omitempty"`
	EmailSent bool              `json:"email_sent"`
	WhatsApp  *whatsapp.Message `json:"whatsapp,omitempty"`
	Offer     *whatsapp.Offer   `json:"offer,omitempty"`
}

// StatusProfileIncomplete is returned when the enquiry cannot be sent yet.
const StatusProfileIncomplete = "profile_incomplete"

// ProductInterest handles POST /api/products/{productID}/interest.
func (h *Handler) ProductInterest(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ProductIDParam(r)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	product, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load product", "error", err, "product_id", id)
		http.Error(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	var req InterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}
	if h.sessions != nil {
		if _, err := h.sessions.Get(r.Context(), req.SessionID); err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				http.Error(w, "session not found", http.StatusNotFound)
				return
			}
			h.logger.Error("session lookup failed", "error", err, "session_id", req.SessionID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	var cp profile.ContactProfile
	if h.profiles != nil {
		cp = h.profiles.Get(r.Context(), req.SessionID)
	}
	if !cp.Complete() {
		writeJSON(w, http.StatusOK, InterestResponse{
			Status:  StatusProfileIncomplete,
			Message: ProfileIncompleteMessage,
			Form:    forms.QueryFormID,
		})
		return
	}

	ev := EventFromProfile(req.SessionID, InteractionProductInterest, cp)
	ev.ProductID = product.ID
	ev.Product = product.Descriptor()
	ev.ProductTitle = product.Title

	res := h.dispatcher.Dispatch(r.Context(), Request{Event: ev, WhatsApp: true})
	resp := InterestResponse{
		Status:    res.Status,
		LeadID:    res.LeadID,
		EmailSent: res.EmailSent(),
		WhatsApp:  res.WhatsApp,
	}
	if res.WhatsApp != nil {
		offer := h.dispatcher.whatsapp.FollowUpOffer(product.Title)
		resp.Offer = &offer
	}
	if res.Status == StatusFailed {
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	resp.Status = StatusSent
	writeJSON(w, http.StatusOK, resp)
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListLeads handles GET /admin/leads requests
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	filter := ListLeadsFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	if kind := r.URL.Query().Get("type"); kind != "" {
		if !ValidInteraction(kind) {
			http.Error(w, ErrUnknownInteraction.Error(), http.StatusBadRequest)
			return
		}
		filter.Interaction = kind
	}

	leads, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{
		Leads:  leads,
		Count:  len(leads),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// GetLead handles GET /admin/leads/{leadID} requests
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.repo.GetByID(r.Context(), chi.URLParam(r, LeadIDParam))
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load lead", "error", err)
		http.Error(w, "failed to load lead", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
