package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anushka-j18/XURVA/internal/catalog"
)

const relatedProductsLimit = 4

// Catalog is the read-only product lookup the handlers serve from.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	ListProducts(ctx context.Context, f catalog.Filter) ([]*catalog.Product, error)
	Related(ctx context.Context, id string, limit int) ([]*catalog.Product, error)
}

type ProductHandler struct {
	catalog Catalog
}

func NewProductHandler(c Catalog) *ProductHandler {
	return &ProductHandler{catalog: c}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f := catalog.Filter{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
		Sort:     r.URL.Query().Get("sort"),
	}

	products, err := h.catalog.ListProducts(r.Context(), f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	if products == nil {
		products = []*catalog.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "product_id")

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) RelatedProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "product_id")

	related, err := h.catalog.Related(r.Context(), id, relatedProductsLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load related products")
		return
	}

	if related == nil {
		related = []*catalog.Product{}
	}
	respondJSON(w, http.StatusOK, related)
}
