package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the storefront API. The session cookie middleware only
// guards the routes that need a cart owner; the catalog is anonymous.
func NewRouter(c Catalog, carts CartService, builder SessionBuilder, requestTimeout time.Duration) http.Handler {
	productHandler := NewProductHandler(c)
	cartHandler := NewCartHandler(carts, c)
	checkoutHandler := NewCheckoutHandler(builder, carts)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{product_id}", productHandler.GetProduct)
			r.Get("/{product_id}/related", productHandler.RelatedProducts)
		})

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
				r.Post("/open", cartHandler.OpenCart)
				r.Post("/close", cartHandler.CloseCart)
				r.Post("/toggle", cartHandler.ToggleCart)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/session", checkoutHandler.CreateSession)
				r.Get("/quote", checkoutHandler.Quote)
			})
		})
	})

	return r
}
