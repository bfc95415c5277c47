package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
)

type httpStatusClient struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPStatusClient validates the daemon base URL and returns a
// [StatusClient] bound to it.
func NewHTTPStatusClient(cfg config.CtlAdapter, log *logger.Logger) (StatusClient, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpStatusClient{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Status implements [StatusClient] with GET /api/status.
func (h *httpStatusClient) Status(ctx context.Context) (models.VaultStatus, error) {
	var status models.VaultStatus

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&status).
		Get("/api/status")
	if err != nil {
		return status, fmt.Errorf("status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return status, err
	}
	return status, nil
}

func (h *httpStatusClient) Peers(ctx context.Context) (PeersResponse, error) {
	var peers PeersResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&peers).
		Get("/api/peers")
	if err != nil {
		return peers, fmt.Errorf("peers request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return peers, err
	}
	return peers, nil
}

// Conflicts implements [StatusClient] with GET /api/conflicts. Only
// unresolved conflicts are listed when unresolvedOnly is set.
func (h *httpStatusClient) Conflicts(ctx context.Context, unresolvedOnly bool) ([]models.ConflictRecord, error) {
	var conflicts []models.ConflictRecord

	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("unresolved", strconv.FormatBool(unresolvedOnly)).
		SetResult(&conflicts).
		Get("/api/conflicts")
	if err != nil {
		return nil, fmt.Errorf("conflicts request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return conflicts, nil
}

// ResolveConflict implements [StatusClient] with
// POST /api/conflicts/resolve?id=. An unknown id yields [ErrNotFound].
func (h *httpStatusClient) ResolveConflict(ctx context.Context, id string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("id", id).
		Post("/api/conflicts/resolve")
	if err != nil {
		return fmt.Errorf("resolve conflict request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpStatusClient) Consistency(ctx context.Context) (models.ConsistencyReport, error) {
	var report models.ConsistencyReport

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&report).
		Get("/api/consistency")
	if err != nil {
		return report, fmt.Errorf("consistency request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return report, err
	}
	return report, nil
}

func (h *httpStatusClient) Sync(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Post("/api/sync")
	if err != nil {
		return fmt.Errorf("sync request: %w", err)
	}
	return mapHTTPError(resp)
}
