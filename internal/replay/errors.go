package replay

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-sync/models"
)

var (
	// ErrArtifactCollision is returned when no free conflict artifact name
	// could be found after several suffixes.
	ErrArtifactCollision = errors.New("could not allocate a conflict artifact name")
)

// EventError records why one event of a batch could not be applied. The
// event is not marked applied and will be retried by the next batch that
// carries it.
type EventError struct {
	EventID string
	Kind    models.EventKind
	Err     error
}

func (e EventError) Error() string {
	return fmt.Sprintf("apply %s %s: %v", e.Kind, e.EventID, e.Err)
}

func (e EventError) Unwrap() error { return e.Err }
