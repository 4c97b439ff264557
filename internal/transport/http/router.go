package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all handlers onto one chi router.
func NewRouter(sessions *SessionHandler, catalogH *CatalogHandler, orders *OrdersHandler, assistantH *AssistantHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogH.ListProducts)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessions.CreateSession)
			r.Route("/{session_id}", func(r chi.Router) {
				r.Get("/", sessions.GetSession)
				r.Post("/advance", sessions.Advance)
				r.Post("/back", sessions.Back)
				r.Put("/shipping", sessions.SetShipping)
				r.Post("/confirm", sessions.Confirm)
				r.Post("/cart/items", sessions.AddCartItem)
				r.Delete("/cart/items/{product_id}", sessions.RemoveCartItem)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.ListOrders)
			r.Get("/{order_id}", orders.GetOrder)
		})

		r.Route("/assistant/sessions", func(r chi.Router) {
			r.Post("/", assistantH.CreateSession)
			r.Post("/{session_id}/query", assistantH.Ask)
			r.Get("/{session_id}/history", assistantH.History)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/products/{product_id}/overrides", catalogH.ApplyOverride)
			r.Post("/products/overrides", catalogH.ApplyOverridesBulk)
			r.Post("/orders/{order_id}/status", orders.UpdateStatus)
		})
	})

	return r
}
