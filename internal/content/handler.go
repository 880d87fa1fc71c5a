package content

import (
	"encoding/json"
	"net/http"
)

// Handler exposes the marketing content.
type Handler struct {
	lib *Library
}

// NewHandler creates a content handler.
func NewHandler(lib *Library) *Handler {
	return &Handler{lib: lib}
}

type reviewView struct {
	Review
	FullStars int  `json:"full_stars"`
	HalfStar  bool `json:"half_star"`
}

// ListReviews handles GET /api/reviews
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	views := make([]reviewView, 0, len(h.lib.Reviews))
	for _, review := range h.lib.Reviews {
		full, half := review.Stars()
		views = append(views, reviewView{Review: review, FullStars: full, HalfStar: half})
	}
	writeJSON(w, map[string]any{
		"reviews":       views,
		"count":         len(views),
		"average_score": h.lib.AverageScore(),
	})
}

// ListSlides handles GET /api/slides
func (h *Handler) ListSlides(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"slides":      h.lib.Slides,
		"interval_ms": h.lib.SlideInterval.Milliseconds(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
