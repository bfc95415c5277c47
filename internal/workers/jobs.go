package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
)

const (
	PresenceJobName     = "presence"
	SharedFolderJobName = "shared-folder-sync"
	PeerConnectorName   = "peer-connector"
)

// NewPresenceJob overwrites the presence record every interval.
func NewPresenceJob(p PresenceUpdater, interval time.Duration, log *logger.Logger) Worker {
	return newPeriodicJob(PresenceJobName, interval, true, p.UpdatePresence, log)
}

// NewSharedFolderSyncJob runs a full shared-folder cycle every interval.
func NewSharedFolderSyncJob(r CycleRunner, interval time.Duration, log *logger.Logger) Worker {
	task := func(ctx context.Context) error {
		res, err := r.RunCycle(ctx)
		if total := res.Total(); total > 0 {
			log.Info().
				Str("func", "SharedFolderSyncJob").
				Int("events", total).
				Msg("shared-folder cycle imported events")
		}
		return err
	}
	return newPeriodicJob(SharedFolderJobName, interval, true, task, log)
}

// NewPeerConnectorJob redials configured peers that lost their session.
func NewPeerConnectorJob(c PeerConnector, addrs []string, interval time.Duration, log *logger.Logger) Worker {
	addrs = append([]string(nil), addrs...)
	task := func(ctx context.Context) error {
		return c.ConnectAll(ctx, addrs)
	}
	return newPeriodicJob(PeerConnectorName, interval, true, task, log)
}
