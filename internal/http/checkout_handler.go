package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/anushka-j18/XURVA/internal/checkout"
)

// SessionBuilder is the checkout trust boundary: it re-prices the
// client-declared lines and creates the hosted payment session.
type SessionBuilder interface {
	CreateSession(ctx context.Context, reqs []checkout.LineRequest) (string, error)
}

type CheckoutHandler struct {
	builder SessionBuilder
	carts   CartService
}

func NewCheckoutHandler(builder SessionBuilder, carts CartService) *CheckoutHandler {
	return &CheckoutHandler{builder: builder, carts: carts}
}

type CreateSessionRequestDTO struct {
	Items []checkout.LineRequest `json:"items"`
}

type CreateSessionResponseDTO struct {
	ClientSecret string `json:"clientSecret"`
}

func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "no items to check out")
		return
	}

	clientSecret, err := h.builder.CreateSession(r.Context(), req.Items)
	if err != nil {
		var verr *checkout.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, "invalid_line_item", verr.Error())
			return
		}
		// Provider failures get a generic message; the UI offers a manual retry
		log.Printf("checkout session creation failed: %v", err)
		respondError(w, http.StatusBadGateway, "provider_error", "payment provider is unavailable, please try again")
		return
	}

	respondJSON(w, http.StatusOK, CreateSessionResponseDTO{ClientSecret: clientSecret})
}

// Quote returns the order summary (subtotal, shipping, tax) for the
// session's current cart. Informational only; the provider prices from
// line items, not from this.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
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

	respondJSON(w, http.StatusOK, checkout.QuoteFor(c.TotalPrice()))
}
