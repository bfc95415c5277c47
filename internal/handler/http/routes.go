package http

import (
	"github.com/MKhiriev/go-vault-sync/internal/adapter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, withLogging)

	// the websocket upgrade needs the raw connection, so no compression here
	router.Get(adapter.SyncPath, h.acceptPeer)

	router.Group(func(r chi.Router) {
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}
		r.Use(withGZip)

		r.Get("/api/status", h.status)
		r.Get("/api/peers", h.peers)
		r.Get("/api/conflicts", h.conflicts)
		r.Post("/api/conflicts/resolve", h.resolveConflict)
		r.Get("/api/consistency", h.consistency)
		r.Post("/api/sync", h.syncNow)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
