package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// DocumentStore is the backing storage of document content. Paths are
// slash-separated and relative to the vault root. Every failure is a
// *models.StorageError.
type DocumentStore interface {
	// Read returns the content at path. A missing document fails with a
	// StorageError wrapping ErrDocumentNotFound.
	Read(ctx context.Context, path string) (string, error)
	// Write creates or replaces the document, creating parent directories.
	Write(ctx context.Context, path, content string) error
	// Delete removes the document. Deleting a missing document is a no-op.
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	// Rename moves a document. A missing source fails with ErrDocumentNotFound.
	Rename(ctx context.Context, oldPath, newPath string) error
}

// StateChange is everything one applied event changes in the materialized
// state. Commit stores it atomically.
type StateChange struct {
	EventID    string
	Kind       models.EventKind
	DocumentID string
	AppliedAt  time.Time

	// Upsert replaces the stored document with the same id.
	Upsert *models.Document
	// DeleteDocumentID removes a document.
	DeleteDocumentID string
	Conflict         *models.ConflictRecord
}

// StateRepository persists materialized document state, the ids of applied
// events and conflict records.
type StateRepository interface {
	// Commit applies change in one transaction and marks its event applied.
	Commit(ctx context.Context, change StateChange) error

	GetDocument(ctx context.Context, id string) (models.Document, error)
	FindDocumentByPath(ctx context.Context, path string) (models.Document, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)

	IsApplied(ctx context.Context, eventID string) (bool, error)

	GetConflict(ctx context.Context, id string) (models.ConflictRecord, error)
	ListConflicts(ctx context.Context, unresolvedOnly bool) ([]models.ConflictRecord, error)
	ResolveConflict(ctx context.Context, id string) error
	CountUnresolvedConflicts(ctx context.Context) (int, error)

	Close() error
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
