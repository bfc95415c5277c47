package service

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

var ids = utils.NewUUIDGenerator()

// commit appends payload to the log, applies it and hands the event to the
// transports. The event stays in the log even when applying fails.
func (v *Vault) commit(ctx context.Context, payload models.Payload) (models.Event, error) {
	if v.isClosed() {
		return models.Event{}, ErrVaultClosed
	}

	ev, err := v.events.Append(ctx, payload)
	if err != nil {
		return models.Event{}, fmt.Errorf("append %s: %w", payload.Kind(), err)
	}

	res := v.engine.ApplyEvents(ctx, []models.Event{ev})
	v.notify(res)
	for _, t := range v.transports {
		t.Broadcast(ctx, []models.Event{ev})
	}

	if res.HasErrors() {
		return ev, res.Errors[0]
	}
	return ev, nil
}

func cleanPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrEmptyPath
	}
	return path.Clean(strings.ReplaceAll(p, "\\", "/")), nil
}

// Document returns the materialized document with id.
func (v *Vault) Document(ctx context.Context, id string) (models.Document, error) {
	return v.storages.State.GetDocument(ctx, id)
}

func (v *Vault) DocumentByPath(ctx context.Context, p string) (models.Document, error) {
	p, err := cleanPath(p)
	if err != nil {
		return models.Document{}, err
	}
	return v.storages.State.FindDocumentByPath(ctx, p)
}

func (v *Vault) Documents(ctx context.Context) ([]models.Document, error) {
	return v.storages.State.ListDocuments(ctx)
}

// CreateDocument creates a new document at p.
func (v *Vault) CreateDocument(ctx context.Context, p, content string) (models.Document, error) {
	p, err := cleanPath(p)
	if err != nil {
		return models.Document{}, err
	}

	_, err = v.storages.State.FindDocumentByPath(ctx, p)
	switch {
	case err == nil:
		return models.Document{}, fmt.Errorf("%w: %s", ErrDocumentExists, p)
	case !errors.Is(err, store.ErrDocumentNotFound):
		return models.Document{}, err
	}

	ev, err := v.commit(ctx, models.DocumentCreated{DocID: ids.Generate(), Path: p, Content: content})
	if err != nil {
		return models.Document{}, err
	}
	return v.storages.State.GetDocument(ctx, ev.DocumentID())
}

// UpdateDocument replaces the content of a document. The current content
// hash becomes the base hash of the event.
func (v *Vault) UpdateDocument(ctx context.Context, id, content string) (models.Document, error) {
	doc, err := v.document(ctx, id)
	if err != nil {
		return models.Document{}, err
	}

	_, err = v.commit(ctx, models.DocumentUpdated{DocID: id, Path: doc.Path, BaseHash: doc.ContentHash, Content: content})
	if err != nil {
		return models.Document{}, err
	}
	return v.storages.State.GetDocument(ctx, id)
}

func (v *Vault) DeleteDocument(ctx context.Context, id string) error {
	doc, err := v.document(ctx, id)
	if err != nil {
		return err
	}
	_, err = v.commit(ctx, models.DocumentDeleted{DocID: id, Path: doc.Path})
	return err
}

func (v *Vault) RenameDocument(ctx context.Context, id, newPath string) (models.Document, error) {
	newPath, err := cleanPath(newPath)
	if err != nil {
		return models.Document{}, err
	}
	doc, err := v.document(ctx, id)
	if err != nil {
		return models.Document{}, err
	}
	if doc.Path == newPath {
		return doc, nil
	}

	_, err = v.storages.State.FindDocumentByPath(ctx, newPath)
	switch {
	case err == nil:
		return models.Document{}, fmt.Errorf("%w: %s", ErrDocumentExists, newPath)
	case !errors.Is(err, store.ErrDocumentNotFound):
		return models.Document{}, err
	}

	if _, err = v.commit(ctx, models.DocumentRenamed{DocID: id, OldPath: doc.Path, NewPath: newPath}); err != nil {
		return models.Document{}, err
	}
	return v.storages.State.GetDocument(ctx, id)
}

// AddLink attaches a new link to a document and returns it with its id.
func (v *Vault) AddLink(ctx context.Context, docID, target, label string) (models.Link, error) {
	if _, err := v.document(ctx, docID); err != nil {
		return models.Link{}, err
	}
	link := models.Link{ID: ids.Generate(), Target: target, Label: label}
	if _, err := v.commit(ctx, models.LinkCreated{DocID: docID, Link: link}); err != nil {
		return models.Link{}, err
	}
	return link, nil
}

func (v *Vault) UpdateLink(ctx context.Context, docID string, link models.Link) error {
	if link.ID == "" {
		return fmt.Errorf("%w: link id is empty", ErrInvalidDataProvided)
	}
	return v.metadata(ctx, docID, models.LinkUpdated{DocID: docID, Link: link})
}

func (v *Vault) RemoveLink(ctx context.Context, docID, linkID string) error {
	return v.metadata(ctx, docID, models.LinkDeleted{DocID: docID, LinkID: linkID})
}

// CreateTag defines a new tag on a document and returns it with its id.
func (v *Vault) CreateTag(ctx context.Context, docID, name, color string) (models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return models.Tag{}, fmt.Errorf("%w: tag name is empty", ErrInvalidDataProvided)
	}
	if _, err := v.document(ctx, docID); err != nil {
		return models.Tag{}, err
	}
	tag := models.Tag{ID: ids.Generate(), Name: name, Color: color}
	if _, err := v.commit(ctx, models.TagCreated{DocID: docID, Tag: tag}); err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (v *Vault) UpdateTag(ctx context.Context, docID string, tag models.Tag) error {
	if tag.ID == "" {
		return fmt.Errorf("%w: tag id is empty", ErrInvalidDataProvided)
	}
	return v.metadata(ctx, docID, models.TagUpdated{DocID: docID, Tag: tag})
}

func (v *Vault) DeleteTag(ctx context.Context, docID, tagID string) error {
	return v.metadata(ctx, docID, models.TagDeleted{DocID: docID, TagID: tagID})
}

func (v *Vault) AssignTag(ctx context.Context, docID, tagName string) error {
	return v.metadata(ctx, docID, models.TagAssigned{DocID: docID, TagName: tagName})
}

func (v *Vault) UnassignTag(ctx context.Context, docID, tagName string) error {
	return v.metadata(ctx, docID, models.TagUnassigned{DocID: docID, TagName: tagName})
}

// SetAttribute sets key to value; a nil value removes the attribute.
func (v *Vault) SetAttribute(ctx context.Context, docID, key string, value *string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: attribute key is empty", ErrInvalidDataProvided)
	}
	return v.metadata(ctx, docID, models.AttributeUpdated{DocID: docID, Key: key, Value: value})
}

func (v *Vault) metadata(ctx context.Context, docID string, payload models.Payload) error {
	if _, err := v.document(ctx, docID); err != nil {
		return err
	}
	_, err := v.commit(ctx, payload)
	return err
}

func (v *Vault) document(ctx context.Context, id string) (models.Document, error) {
	if id == "" {
		return models.Document{}, ErrEmptyDocumentID
	}
	return v.storages.State.GetDocument(ctx, id)
}
