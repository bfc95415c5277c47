// Package server runs the daemon's HTTP server.
//
// It owns startup, signal handling and graceful shutdown. Websocket peer
// sessions are hijacked connections and are not waited for here; closing
// the vault ends them.
package server
