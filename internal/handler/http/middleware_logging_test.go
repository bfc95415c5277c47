package http

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/mock"
	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/models"
)

// accessLine decodes the single JSON line withLogging wrote to buf.
func accessLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())
	return line
}

func loggingRouter(t *testing.T, buf *bytes.Buffer) (*mock.MockVaultService, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	vault := mock.NewMockVaultService(ctrl)
	log := &logger.Logger{Logger: zerolog.New(buf)}
	return vault, NewHandler(vault, log).Init()
}

func TestWithLogging_VaultRoutes(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		target    string
		setup     func(v *mock.MockVaultService)
		wantLevel string
		wantCode  int
	}{
		{
			name:   "status ok",
			method: http.MethodGet,
			target: "/api/status",
			setup: func(v *mock.MockVaultService) {
				v.EXPECT().Status(gomock.Any()).Return(models.VaultStatus{DeviceID: "X"}, nil)
			},
			wantLevel: "info",
			wantCode:  http.StatusOK,
		},
		{
			name:   "invalid conflict id is a client error",
			method: http.MethodPost,
			target: "/api/conflicts/resolve?id=missing",
			setup: func(v *mock.MockVaultService) {
				v.EXPECT().ResolveConflict(gomock.Any(), "missing").Return(service.ErrInvalidDataProvided)
			},
			wantLevel: "warn",
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "closed vault is a server error",
			method: http.MethodGet,
			target: "/api/consistency",
			setup: func(v *mock.MockVaultService) {
				v.EXPECT().VerifyConsistency(gomock.Any()).Return(models.ConsistencyReport{}, service.ErrVaultClosed)
			},
			wantLevel: "error",
			wantCode:  http.StatusServiceUnavailable,
		},
		{
			name:      "wrong method",
			method:    http.MethodDelete,
			target:    "/api/peers",
			wantLevel: "warn",
			wantCode:  http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			vault, router := loggingRouter(t, &buf)
			if tt.setup != nil {
				tt.setup(vault)
			}

			rr := serve(router, tt.method, tt.target)
			require.Equal(t, tt.wantCode, rr.Code)

			// handler errors are logged too; the access line is the last one
			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			last := bytes.NewBuffer(lines[len(lines)-1])
			line := accessLine(t, last)

			assert.Equal(t, "request served", line["message"])
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.Equal(t, tt.method, line["method"])
			assert.Equal(t, tt.target, line["uri"])
			assert.EqualValues(t, tt.wantCode, line["status"])
			assert.Equal(t, rr.Header().Get(traceIDHeader), line["trace_id"])
			assert.Equal(t, false, line["upgraded"])
		})
	}
}

func TestWithLogging_ImplicitOKAndSize(t *testing.T) {
	var buf bytes.Buffer
	h := withLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"checked":0,"issues":[]}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/consistency", nil)
	req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := accessLine(t, &buf)
	assert.EqualValues(t, http.StatusOK, line["status"])
	assert.EqualValues(t, len(`{"checked":0,"issues":[]}`), line["size"])
	assert.Contains(t, line, "duration")
	assert.Equal(t, "192.0.2.1:1234", line["remote"])
}

func TestWithLogging_PeerUpgradeMarked(t *testing.T) {
	var buf bytes.Buffer
	h := withLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, err := http.NewResponseController(w).Hijack()
		require.NoError(t, err)
		_ = conn.Close()
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sync/ws", nil)
	req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
	server, client := net.Pipe()
	defer client.Close()
	h.ServeHTTP(&hijackableRecorder{ResponseRecorder: httptest.NewRecorder(), conn: server}, req)

	line := accessLine(t, &buf)
	assert.EqualValues(t, http.StatusSwitchingProtocols, line["status"])
	assert.Equal(t, true, line["upgraded"])
	assert.Equal(t, "info", line["level"])
}

func TestWithLogging_DoesNotRecover(t *testing.T) {
	h := withLogging(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)

	assert.Panics(t, func() { h.ServeHTTP(httptest.NewRecorder(), req) })
}
