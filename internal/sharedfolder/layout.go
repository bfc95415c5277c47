package sharedfolder

import "path/filepath"

const (
	SyncDirName     = "sync"
	PresenceDirName = "presence"
	EventsDirName   = "events"
)

// layout resolves the shared-folder paths:
//
//	<root>/sync/presence/<deviceId>
//	<root>/sync/events/<deviceId>
type layout struct {
	root string
}

func (l layout) presenceDir() string {
	return filepath.Join(l.root, SyncDirName, PresenceDirName)
}

func (l layout) eventsDir() string {
	return filepath.Join(l.root, SyncDirName, EventsDirName)
}

func (l layout) presence(deviceID string) string {
	return filepath.Join(l.presenceDir(), deviceID)
}

func (l layout) export(deviceID string) string {
	return filepath.Join(l.eventsDir(), deviceID)
}
