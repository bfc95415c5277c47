package replay

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
)

const maxArtifactAttempts = 8

// applyCreated materializes a document unless a registered document with the
// same id, or a file at the target path, already holds different content.
// Equal content registers the document without touching storage. A path
// owned by another registered document is always a conflict.
func (e *Engine) applyCreated(ctx context.Context, ev models.Event, id, docPath, content string) (store.StateChange, outcome, error) {
	existing, found, err := e.lookup(ctx, id)
	if err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}
	if found {
		if existing.Content == content {
			return store.StateChange{}, outcomeApplied, nil
		}
		return e.conflict(ctx, ev, existing.ID, existing.Path, existing.Content, content)
	}

	owner, taken, err := e.pathOwner(ctx, docPath, id)
	if err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}
	if taken {
		return e.conflict(ctx, ev, id, docPath, owner.Content, content)
	}

	onDisk, err := e.readIfExists(ctx, docPath)
	if err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}
	if onDisk != nil && *onDisk != content {
		return e.conflict(ctx, ev, id, docPath, *onDisk, content)
	}
	if onDisk == nil {
		if err = e.docs.Write(ctx, docPath, content); err != nil {
			return store.StateChange{}, outcomeSkipped, err
		}
	}

	doc := models.Document{
		ID:          id,
		Path:        docPath,
		Content:     content,
		ContentHash: utils.ContentHash(content),
		UpdatedAt:   ev.Timestamp,
		UpdatedBy:   ev.OriginDevice,
	}
	return store.StateChange{Upsert: &doc}, outcomeApplied, nil
}

// applyUpdated writes new content when the event was based on the current
// hash. A different base hash is a concurrent edit and yields a conflict.
func (e *Engine) applyUpdated(ctx context.Context, ev models.Event, p models.DocumentUpdated) (store.StateChange, outcome, error) {
	doc, found, err := e.lookup(ctx, p.DocID)
	if err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}
	if !found {
		// the create was never seen here; keep the content rather than drop it
		return e.applyCreated(ctx, ev, p.DocID, p.Path, p.Content)
	}

	newHash := utils.ContentHash(p.Content)
	if doc.ContentHash == newHash {
		return store.StateChange{}, outcomeApplied, nil
	}
	if doc.ContentHash != p.BaseHash {
		return e.conflict(ctx, ev, doc.ID, doc.Path, doc.Content, p.Content)
	}

	if err = e.docs.Write(ctx, doc.Path, p.Content); err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}

	doc.Content = p.Content
	doc.ContentHash = newHash
	doc.UpdatedAt = ev.Timestamp
	doc.UpdatedBy = ev.OriginDevice
	return store.StateChange{Upsert: &doc}, outcomeApplied, nil
}

func (e *Engine) applyDeleted(ctx context.Context, p models.DocumentDeleted) (store.StateChange, outcome, error) {
	doc, found, err := e.lookup(ctx, p.DocID)
	if err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}
	if !found {
		return store.StateChange{}, outcomeApplied, nil
	}

	if err = e.docs.Delete(ctx, doc.Path); err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}
	return store.StateChange{DeleteDocumentID: doc.ID}, outcomeApplied, nil
}

// applyRenamed moves the backing file. When the old file is already gone
// the document is rewritten at the new path from materialized content.
// A target held by another document or by different content is never
// overwritten; the rename becomes a conflict and the document stays put.
func (e *Engine) applyRenamed(ctx context.Context, ev models.Event, p models.DocumentRenamed) (store.StateChange, outcome, error) {
	doc, found, err := e.lookup(ctx, p.DocID)
	if err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}

	if !found {
		_, taken, err := e.pathOwner(ctx, p.OldPath, p.DocID)
		if err != nil {
			return store.StateChange{}, outcomeSkipped, err
		}
		if taken {
			e.logger.Warn().Str("func", "Engine.applyRenamed").Str("document_id", p.DocID).
				Str("path", p.OldPath).Msg("rename source belongs to another document, skipped")
			return store.StateChange{}, outcomeSkipped, nil
		}
		content, err := e.readIfExists(ctx, p.OldPath)
		if err != nil {
			return store.StateChange{}, outcomeSkipped, err
		}
		if content == nil {
			e.logger.Warn().Str("func", "Engine.applyRenamed").Str("document_id", p.DocID).
				Msg("rename of unknown document skipped")
			return store.StateChange{}, outcomeSkipped, nil
		}
		doc = models.Document{ID: p.DocID, Path: p.OldPath, Content: *content, ContentHash: utils.ContentHash(*content)}
	}

	if doc.Path != p.NewPath {
		owner, taken, err := e.pathOwner(ctx, p.NewPath, p.DocID)
		if err != nil {
			return store.StateChange{}, outcomeSkipped, err
		}
		if taken {
			return e.conflict(ctx, ev, p.DocID, p.NewPath, owner.Content, doc.Content)
		}

		onDisk, err := e.readIfExists(ctx, p.NewPath)
		if err != nil {
			return store.StateChange{}, outcomeSkipped, err
		}
		switch {
		case onDisk != nil && *onDisk != doc.Content:
			return e.conflict(ctx, ev, p.DocID, p.NewPath, *onDisk, doc.Content)
		case onDisk != nil:
			// the file already arrived at the new path
			err = e.docs.Delete(ctx, doc.Path)
		default:
			err = e.docs.Rename(ctx, doc.Path, p.NewPath)
			if errors.Is(err, store.ErrDocumentNotFound) {
				err = e.docs.Write(ctx, p.NewPath, doc.Content)
			}
		}
		if err != nil {
			return store.StateChange{}, outcomeSkipped, err
		}
	}

	doc.Path = p.NewPath
	doc.UpdatedAt = ev.Timestamp
	doc.UpdatedBy = ev.OriginDevice
	return store.StateChange{Upsert: &doc}, outcomeApplied, nil
}

// pathOwner reports the registered document at docPath when it is not id.
func (e *Engine) pathOwner(ctx context.Context, docPath, id string) (models.Document, bool, error) {
	doc, err := e.state.FindDocumentByPath(ctx, docPath)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return models.Document{}, false, nil
	}
	if err != nil {
		return models.Document{}, false, err
	}
	return doc, doc.ID != id, nil
}

// readIfExists returns nil when no file exists at docPath.
func (e *Engine) readIfExists(ctx context.Context, docPath string) (*string, error) {
	content, err := e.docs.Read(ctx, docPath)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// conflict writes the remote version to a fresh artifact next to docPath and
// returns the record. The local version is left untouched.
func (e *Engine) conflict(ctx context.Context, ev models.Event, docID, docPath, local, remote string) (store.StateChange, outcome, error) {
	artifact, err := e.artifactPath(ctx, docID, docPath, ev.OriginDevice)
	if err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}
	if err = e.docs.Write(ctx, artifact, remote); err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}

	record := models.ConflictRecord{
		ID:            e.ids.Generate(),
		DocumentID:    docID,
		LocalContent:  local,
		RemoteContent: remote,
		ArtifactPath:  artifact,
		OriginDevice:  ev.OriginDevice,
		EventID:       ev.ID,
		Timestamp:     e.now().UTC().Round(0),
	}
	return store.StateChange{Conflict: &record}, outcomeConflict, nil
}

// artifactPath names a side-by-side copy <dir>/<doc>.<origin>.<suffix>.conflict<ext>,
// retrying the suffix until the name is free.
func (e *Engine) artifactPath(ctx context.Context, docID, docPath, origin string) (string, error) {
	dir := path.Dir(docPath)
	ext := path.Ext(docPath)
	safeOrigin := strings.NewReplacer("/", "_", "\\", "_").Replace(origin)

	for range maxArtifactAttempts {
		name := fmt.Sprintf("%s.%s.%s.conflict%s", docID, safeOrigin, e.suffix(), ext)
		candidate := path.Join(dir, name)
		exists, err := e.docs.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrArtifactCollision
}
