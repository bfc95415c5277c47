package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-vault-sync/internal/adapter"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/peer"
)

// acceptPeer upgrades the request to a websocket and serves the peer protocol
// on it until the session ends. The session outlives the request context.
func (h *Handler) acceptPeer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ch, err := adapter.Upgrade(w, r, h.logger)
	if err != nil {
		// the upgrader has already replied
		log.Err(err).Str("func", "*Handler.acceptPeer").Msg("websocket upgrade failed")
		return
	}

	err = h.vault.AcceptPeer(context.WithoutCancel(r.Context()), ch)
	switch {
	case err == nil, errors.Is(err, peer.ErrChannelClosed):
		log.Debug().Str("remote", r.RemoteAddr).Msg("peer session ended")
	default:
		log.Warn().Err(err).Str("func", "*Handler.acceptPeer").Str("remote", r.RemoteAddr).Msg("peer session failed")
	}
}
