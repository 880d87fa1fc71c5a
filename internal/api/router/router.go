package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hpsconstructions/hps-platform/internal/catalog"
	"github.com/hpsconstructions/hps-platform/internal/content"
	"github.com/hpsconstructions/hps-platform/internal/forms"
	httpmiddleware "github.com/hpsconstructions/hps-platform/internal/http/middleware"
	"github.com/hpsconstructions/hps-platform/internal/leads"
	"github.com/hpsconstructions/hps-platform/internal/profile"
	"github.com/hpsconstructions/hps-platform/internal/session"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	CatalogHandler *catalog.Handler
	ContentHandler *content.Handler
	FormsHandler   *forms.Handler
	SessionHandler *session.Handler
	ProfileHandler *profile.Handler
	LeadsHandler   *leads.Handler
	MetricsHandler http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string
	// RateLimit guards /api; nil disables it.
	RateLimit func(http.Handler) http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimit != nil {
			api.Use(cfg.RateLimit)
		}

		if h := cfg.CatalogHandler; h != nil {
			api.Get("/categories", h.ListCategories)
			api.Get("/products", h.ListProducts)
			api.Get("/products/{productID}", h.GetProduct)
			api.Get("/products/{productID}/share", h.ShareProduct)
		}
		if h := cfg.LeadsHandler; h != nil {
			api.Post("/products/{productID}/interest", h.ProductInterest)
		}
		if h := cfg.ContentHandler; h != nil {
			api.Get("/reviews", h.ListReviews)
			api.Get("/slides", h.ListSlides)
		}
		if h := cfg.FormsHandler; h != nil {
			api.Get("/forms", h.ListForms)
			api.Get("/forms/{formID}", h.GetForm)
		}

		api.Route("/sessions", func(s chi.Router) {
			if h := cfg.SessionHandler; h != nil {
				s.Post("/", h.CreateSession)
			}
			s.Route("/{sessionID}", func(sr chi.Router) {
				if h := cfg.SessionHandler; h != nil {
					sr.Delete("/", h.EndSession)
					sr.Get("/widget", h.GetWidget)
					sr.Post("/widget/{event}", h.WidgetEvent)
				}
				sr.Group(func(g chi.Router) {
					if h := cfg.SessionHandler; h != nil {
						g.Use(h.RequireSession)
					}
					if h := cfg.ProfileHandler; h != nil {
						g.Get("/profile", h.GetProfile)
						g.Patch("/profile", h.PatchProfile)
						g.Delete("/profile", h.ResetProfile)
					}
					if h := cfg.LeadsHandler; h != nil {
						g.Post("/forms/{formID}/{action}", h.SubmitForm)
					}
				})
			})
		})
	})

	if h := cfg.LeadsHandler; h != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/leads", h.ListLeads)
			admin.Get("/leads/{leadID}", h.GetLead)
		})
	}

	return r
}
