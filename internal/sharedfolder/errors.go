package sharedfolder

import "errors"

var (
	// ErrNoExport is returned by ReadExport when the device has not written
	// an export yet. Import tolerates it.
	ErrNoExport = errors.New("device has no export yet")

	ErrInvalidPresence = errors.New("invalid presence record")
)
