package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Orders
	mux.Handle("POST /api/v1/orders", chain(http.HandlerFunc(h.CreateOrder)))
	mux.Handle("GET /api/v1/orders", chain(http.HandlerFunc(h.ListOrders)))
	mux.Handle("GET /api/v1/orders/{id}", chain(http.HandlerFunc(h.GetOrder)))

	// Processing items
	mux.Handle("GET /api/v1/items", chain(http.HandlerFunc(h.ListItems)))
	mux.Handle("GET /api/v1/items/{id}", chain(http.HandlerFunc(h.GetItem)))
	mux.Handle("DELETE /api/v1/items", chain(http.HandlerFunc(h.PurgeItems)))

	// Live feed. Без Logging: обёртка ResponseWriter прячет Hijacker,
	// который нужен для websocket upgrade.
	mux.Handle("GET /api/v1/feed", Recovery(h.logger)(http.HandlerFunc(h.Feed)))
}
