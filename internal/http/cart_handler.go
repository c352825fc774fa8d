package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anushka-j18/XURVA/internal/cart"
	"github.com/anushka-j18/XURVA/internal/catalog"
)

// CartService owns the per-session cart state and its persistence.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	AddItem(ctx context.Context, sessionID string, p catalog.Product, size, color string) (*cart.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) (*cart.Cart, error)
	OpenCart(ctx context.Context, sessionID string) (*cart.Cart, error)
	CloseCart(ctx context.Context, sessionID string) (*cart.Cart, error)
	ToggleCart(ctx context.Context, sessionID string) (*cart.Cart, error)
}

type CartHandler struct {
	carts   CartService
	catalog Catalog
}

func NewCartHandler(carts CartService, c Catalog) *CartHandler {
	return &CartHandler{carts: carts, catalog: c}
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	*cart.Cart
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

func respondCart(w http.ResponseWriter, status int, c *cart.Cart) {
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	respondJSON(w, status, cartResponse{
		Cart:       c,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no storefront session")
		return
	}

	c, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondCart(w, http.StatusOK, c)
}

// AddItem resolves the product against the catalog before touching the
// cart so a stale client can't add a delisted product.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no storefront session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	c, err := h.carts.AddItem(r.Context(), sessionID, *product, req.Size, req.Color)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondCart(w, http.StatusCreated, c)
}

// UpdateQuantity sets the quantity on the product's line(s). Zero or a
// negative value removes them, mirroring the cart's own semantics.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no storefront session")
		return
	}

	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondCart(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no storefront session")
		return
	}

	productID := chi.URLParam(r, "product_id")

	c, err := h.carts.RemoveItem(r.Context(), sessionID, productID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondCart(w, http.StatusOK, c)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no storefront session")
		return
	}

	c, err := h.carts.Clear(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	respondCart(w, http.StatusOK, c)
}

func (h *CartHandler) visibility(w http.ResponseWriter, r *http.Request,
	op func(context.Context, string) (*cart.Cart, error)) {

	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no storefront session")
		return
	}

	c, err := op(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondCart(w, http.StatusOK, c)
}

func (h *CartHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.visibility(w, r, h.carts.OpenCart)
}

func (h *CartHandler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.visibility(w, r, h.carts.CloseCart)
}

func (h *CartHandler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	h.visibility(w, r, h.carts.ToggleCart)
}
