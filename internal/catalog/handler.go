package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// Handler serves read-only catalog endpoints.
type Handler struct {
	catalog      *Catalog
	businessName string
	logger       *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(catalog *Catalog, businessName string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		catalog:      catalog,
		businessName: businessName,
		logger:       logger,
	}
}

// ListProductsResponse is the body of GET /api/products.
type ListProductsResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Category string    `json:"category"`
	Query    string    `json:"query"`
}

// ListProducts handles GET /api/products?category=&q=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = CategoryAll
	}
	query := r.URL.Query().Get("q")

	products := h.catalog.Search(category, query)
	writeJSON(w, http.StatusOK, ListProductsResponse{
		Products: products,
		Count:    len(products),
		Category: category,
		Query:    query,
	})
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.catalog.Categories()})
}

// GetProduct handles GET /api/products/{productID}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ShareProduct handles GET /api/products/{productID}/share
func (h *Handler) ShareProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"title": product.Title,
		"text":  product.ShareText(h.businessName),
	})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (Product, bool) {
	id, err := ProductIDParam(r)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return Product{}, false
	}
	product, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return Product{}, false
		}
		h.logger.Error("failed to load product", "error", err, "product_id", id)
		http.Error(w, "failed to load product", http.StatusInternalServerError)
		return Product{}, false
	}
	return product, true
}

// ProductIDParam parses the {productID} URL parameter.
func ProductIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "productID"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
