package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-vault-sync/internal/peer"
	"github.com/MKhiriev/go-vault-sync/internal/sharedfolder"
	"github.com/MKhiriev/go-vault-sync/models"
)

const (
	PeerTransportName         = "peer"
	SharedFolderTransportName = "shared-folder"
)

// peerTransport is the direct websocket protocol.
type peerTransport struct {
	manager *peer.Manager
	addrs   []string
	dial    bool
}

func (t *peerTransport) Name() string { return PeerTransportName }

func (t *peerTransport) Broadcast(ctx context.Context, events []models.Event) {
	t.manager.Broadcast(ctx, events)
}

// Sync redials lost peers and starts a clock exchange with the live ones.
func (t *peerTransport) Sync(ctx context.Context) error {
	var err error
	if t.dial && len(t.addrs) > 0 {
		err = t.manager.ConnectAll(ctx, t.addrs)
	}
	t.manager.TriggerExchange(ctx)
	return err
}

func (t *peerTransport) Close(ctx context.Context) error {
	return t.manager.Close(ctx)
}

// folderTransport exports on its own cycle, so Broadcast is a no-op.
type folderTransport struct {
	folder *sharedfolder.Transport
}

func (t *folderTransport) Name() string { return SharedFolderTransportName }

func (t *folderTransport) Broadcast(context.Context, []models.Event) {}

func (t *folderTransport) Sync(ctx context.Context) error {
	_, err := t.folder.RunCycle(ctx)
	return err
}

// Close publishes a final presence record and export.
func (t *folderTransport) Close(ctx context.Context) error {
	_, exportErr := t.folder.Export(ctx)
	return errors.Join(t.folder.UpdatePresence(ctx), exportErr)
}
