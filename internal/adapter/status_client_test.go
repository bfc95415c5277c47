package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

func newTestClient(t *testing.T, serverURL string) StatusClient {
	t.Helper()
	c, err := NewHTTPStatusClient(config.CtlAdapter{HTTPAddress: serverURL, RequestTimeout: 2 * time.Second}, logger.Nop())
	require.NoError(t, err)
	return c
}

func TestNewHTTPStatusClient_InvalidAddress(t *testing.T) {
	_, err := NewHTTPStatusClient(config.CtlAdapter{HTTPAddress: ""}, logger.Nop())
	assert.ErrorIs(t, err, ErrEmptyAddress)

	_, err = NewHTTPStatusClient(config.CtlAdapter{HTTPAddress: "http://"}, logger.Nop())
	assert.Error(t, err)
}

func TestNormalizeBaseURL(t *testing.T) {
	got, err := normalizeBaseURL(" 127.0.0.1:8484/ ")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8484", got)
}

func TestStatus_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/status", r.URL.Path)
		_, _ = utils.WriteJSON(w, models.VaultStatus{
			DeviceID:            "A",
			VaultID:             "v1",
			Clock:               vclock.VectorClock{"A": 3},
			EventCount:          3,
			UnresolvedConflicts: 1,
		}, http.StatusOK)
	}))
	defer srv.Close()

	status, err := newTestClient(t, srv.URL).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", status.DeviceID)
	assert.Equal(t, vclock.VectorClock{"A": 3}, status.Clock)
	assert.Equal(t, 1, status.UnresolvedConflicts)
}

func TestPeers_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/peers", r.URL.Path)
		_, _ = utils.WriteJSON(w, PeersResponse{
			Direct:   []models.PeerInfo{{ID: "B", State: models.PeerSynced}},
			Presence: []models.PeerPresence{{DevicePresence: models.DevicePresence{DeviceID: "C"}, NeedsSync: true}},
		}, http.StatusOK)
	}))
	defer srv.Close()

	peers, err := newTestClient(t, srv.URL).Peers(context.Background())
	require.NoError(t, err)
	require.Len(t, peers.Direct, 1)
	assert.Equal(t, models.PeerSynced, peers.Direct[0].State)
	require.Len(t, peers.Presence, 1)
	assert.True(t, peers.Presence[0].NeedsSync)
}

func TestConflicts_PassesFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/conflicts", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("unresolved"))
		_, _ = utils.WriteJSON(w, []models.ConflictRecord{{ID: "c1", DocumentID: "d1"}}, http.StatusOK)
	}))
	defer srv.Close()

	conflicts, err := newTestClient(t, srv.URL).Conflicts(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "c1", conflicts[0].ID)
}

func TestResolveConflict(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{name: "resolved", status: http.StatusNoContent},
		{name: "unknown id", status: http.StatusNotFound, target: ErrNotFound},
		{name: "missing id", status: http.StatusBadRequest, target: ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/conflicts/resolve", r.URL.Path)
				assert.Equal(t, "c1", r.URL.Query().Get("id"))
				if tt.status >= http.StatusBadRequest {
					utils.WriteError(w, errors.New("conflict not found"), tt.status)
					return
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newTestClient(t, srv.URL).ResolveConflict(context.Background(), "c1")
			if tt.target == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), "conflict not found")
		})
	}
}

func TestConsistency_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/consistency", r.URL.Path)
		_, _ = utils.WriteJSON(w, models.ConsistencyReport{
			Checked: 2,
			Issues:  []models.ConsistencyIssue{{DocumentID: "d1", Path: "a.md", Kind: "missing_file"}},
		}, http.StatusOK)
	}))
	defer srv.Close()

	report, err := newTestClient(t, srv.URL).Consistency(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.False(t, report.Consistent())
}

func TestSync_ServerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{name: "ok", status: http.StatusAccepted},
		{name: "internal", status: http.StatusInternalServerError, body: "boom", target: ErrInternalServerError},
		{name: "closing", status: http.StatusServiceUnavailable, body: "closing", target: ErrServiceUnavailable},
		{name: "conflict", status: http.StatusConflict, body: "busy", target: ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/sync", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTestClient(t, srv.URL).Sync(context.Background())
			if tt.target == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestMapHTTPError_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, "http 418: I'm a teapot", err.Error())
}

func TestStatus_RequestError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestClient(t, addr).Status(context.Background())
	assert.ErrorContains(t, err, "status request")
}
