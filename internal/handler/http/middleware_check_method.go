// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-vault-sync/internal/utils"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler.
// A path served under another method gets 404 with the API's JSON error
// body instead of chi's bare 405, so syncctl decodes one error shape for
// every miss. A method the route does serve is handed back to the router.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if routeServes(router, r.URL.Path, r.Method) {
			router.ServeHTTP(w, r)
			return
		}
		utils.WriteError(w, ErrRouteNotFound, http.StatusNotFound)
	}
}

// routeServes reports whether the route whose pattern equals path has a
// handler for method. Patterns with URL parameters never match.
func routeServes(routes chi.Routes, path, method string) bool {
	for _, route := range routes.Routes() {
		if route.Pattern != path {
			continue
		}
		if _, ok := route.Handlers[method]; ok {
			return true
		}
		_, ok := route.Handlers["*"]
		return ok
	}
	return false
}
