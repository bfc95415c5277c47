// Package http implements the daemon's HTTP surface.
//
// It exposes the local status API used by syncctl and the websocket endpoint
// peers dial to replicate. Request tracing, access logging and response
// compression are handled here as middleware before requests reach the
// vault service.
package http
