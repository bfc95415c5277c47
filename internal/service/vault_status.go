package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-sync/internal/peer"
	"github.com/MKhiriev/go-vault-sync/models"
)

func (v *Vault) Status(ctx context.Context) (models.VaultStatus, error) {
	unresolved, err := v.UnresolvedConflicts(ctx)
	if err != nil {
		return models.VaultStatus{}, err
	}

	id := v.events.Identity()
	return models.VaultStatus{
		DeviceID:            id.DeviceID,
		DeviceName:          v.DeviceName(),
		VaultID:             id.VaultID,
		Clock:               v.events.Clock(),
		EventCount:          v.events.Count(),
		UnresolvedConflicts: unresolved,
		Peers:               v.Peers(),
		Build:               v.build,
	}, nil
}

// Peers returns the direct peers seen since open.
func (v *Vault) Peers() []models.PeerInfo {
	if v.peers == nil {
		return []models.PeerInfo{}
	}
	return v.peers.Peers()
}

// PresencePeers returns the devices found in the shared folder on the last
// scan.
func (v *Vault) PresencePeers() []models.PeerPresence {
	if v.folder == nil {
		return []models.PeerPresence{}
	}
	return v.folder.Peers()
}

func (v *Vault) UnresolvedConflicts(ctx context.Context) (int, error) {
	return v.storages.State.CountUnresolvedConflicts(ctx)
}

func (v *Vault) Conflicts(ctx context.Context, unresolvedOnly bool) ([]models.ConflictRecord, error) {
	return v.storages.State.ListConflicts(ctx, unresolvedOnly)
}

// ResolveConflict marks a conflict as handled. The artifact file is left
// in place.
func (v *Vault) ResolveConflict(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: conflict id is empty", ErrInvalidDataProvided)
	}
	return v.storages.State.ResolveConflict(ctx, id)
}

func (v *Vault) VerifyConsistency(ctx context.Context) (models.ConsistencyReport, error) {
	return v.engine.VerifyConsistency(ctx)
}

// SyncNow runs every transport once. Failures are joined, one transport
// failing does not stop the others.
func (v *Vault) SyncNow(ctx context.Context) error {
	if v.isClosed() {
		return ErrVaultClosed
	}

	var errs []error
	for _, t := range v.transports {
		if err := t.Sync(ctx); err != nil {
			v.logger.Warn().Err(err).
				Str("func", "Vault.SyncNow").
				Str("transport", t.Name()).
				Msg("transport sync failed")
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// AcceptPeer serves an inbound channel until the session ends.
func (v *Vault) AcceptPeer(ctx context.Context, ch peer.Channel) error {
	if v.peers == nil {
		ch.Close()
		return ErrPeerSyncDisabled
	}
	if v.isClosed() {
		ch.Close()
		return ErrVaultClosed
	}
	return v.peers.Accept(ctx, ch)
}

// ConnectPeer serves an outbound channel until the session ends.
func (v *Vault) ConnectPeer(ctx context.Context, ch peer.Channel) error {
	if v.peers == nil {
		ch.Close()
		return ErrPeerSyncDisabled
	}
	return v.peers.Connect(ctx, ch)
}

var _ VaultService = (*Vault)(nil)
