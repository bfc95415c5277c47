package http

import (
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/service"
)

type Handler struct {
	vault service.VaultService

	// requestTimeout bounds API requests; the websocket endpoint is exempt.
	requestTimeout time.Duration

	logger *logger.Logger
}

type Option func(*Handler)

func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) { h.requestTimeout = d }
}

func NewHandler(vault service.VaultService, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		vault:  vault,
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	logger.Info().Msg("http handler created")
	return h
}
