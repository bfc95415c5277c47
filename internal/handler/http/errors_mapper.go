package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrEmptyPath:           http.StatusBadRequest,
	service.ErrEmptyDocumentID:     http.StatusBadRequest,
	service.ErrDocumentExists:      http.StatusConflict,
	service.ErrVaultClosed:         http.StatusServiceUnavailable,
	service.ErrVaultNotReady:       http.StatusServiceUnavailable,
	service.ErrPeerSyncDisabled:    http.StatusNotFound,

	store.ErrDocumentNotFound: http.StatusNotFound,
	store.ErrConflictNotFound: http.StatusNotFound,
	store.ErrPathOutsideVault: http.StatusBadRequest,
	store.ErrReservedPath:     http.StatusBadRequest,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
