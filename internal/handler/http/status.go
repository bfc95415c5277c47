package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-vault-sync/internal/adapter"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
)

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	status, err := h.vault.Status(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.status").Msg("error reading vault status")
		utils.WriteError(w, err, statusFromError(err))
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) peers(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, adapter.PeersResponse{
		Direct:   h.vault.Peers(),
		Presence: h.vault.PresencePeers(),
	}, http.StatusOK)
}

// conflicts lists conflict records; ?unresolved=true narrows the list to the
// ones still awaiting resolution.
func (h *Handler) conflicts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	unresolvedOnly := false
	if raw := r.URL.Query().Get("unresolved"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			log.Err(err).Str("func", "*Handler.conflicts").Msg("invalid unresolved flag")
			utils.WriteError(w, service.ErrInvalidDataProvided, http.StatusBadRequest)
			return
		}
		unresolvedOnly = parsed
	}

	conflicts, err := h.vault.Conflicts(r.Context(), unresolvedOnly)
	if err != nil {
		log.Err(err).Str("func", "*Handler.conflicts").Msg("error listing conflicts")
		utils.WriteError(w, err, statusFromError(err))
		return
	}

	utils.WriteJSON(w, conflicts, http.StatusOK)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id := r.URL.Query().Get("id")
	if id == "" {
		utils.WriteError(w, service.ErrInvalidDataProvided, http.StatusBadRequest)
		return
	}

	if err := h.vault.ResolveConflict(r.Context(), id); err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").Str("conflict_id", id).Msg("error resolving conflict")
		utils.WriteError(w, err, statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) consistency(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	report, err := h.vault.VerifyConsistency(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.consistency").Msg("error verifying consistency")
		utils.WriteError(w, err, statusFromError(err))
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}

func (h *Handler) syncNow(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.vault.SyncNow(r.Context()); err != nil {
		log.Err(err).Str("func", "*Handler.syncNow").Msg("sync round finished with errors")
		utils.WriteError(w, err, statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
