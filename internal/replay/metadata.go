package replay

import (
	"context"
	"slices"

	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
)

// applyMetadata upserts or removes one link, tag, tag reference or
// attribute. Creating an existing entry and deleting a missing one are
// no-ops; updating a missing entry inserts it.
func (e *Engine) applyMetadata(ctx context.Context, ev models.Event) (store.StateChange, outcome, error) {
	doc, found, err := e.lookup(ctx, ev.DocumentID())
	if err != nil {
		return store.StateChange{}, outcomeSkipped, err
	}
	if !found {
		e.logger.Warn().Str("func", "Engine.applyMetadata").
			Str("document_id", ev.DocumentID()).Str("kind", string(ev.Kind)).
			Msg("metadata event for unknown document skipped")
		return store.StateChange{}, outcomeSkipped, nil
	}

	if !mutateMetadata(&doc, ev.Payload) {
		return store.StateChange{}, outcomeApplied, nil
	}

	doc.UpdatedAt = ev.Timestamp
	doc.UpdatedBy = ev.OriginDevice
	return store.StateChange{Upsert: &doc}, outcomeApplied, nil
}

// mutateMetadata applies p to doc and reports whether anything changed.
func mutateMetadata(doc *models.Document, p models.Payload) bool {
	switch p := p.(type) {
	case models.LinkCreated:
		if slices.ContainsFunc(doc.Links, func(l models.Link) bool { return l.ID == p.Link.ID }) {
			return false
		}
		doc.Links = append(doc.Links, p.Link)
		return true

	case models.LinkUpdated:
		i := slices.IndexFunc(doc.Links, func(l models.Link) bool { return l.ID == p.Link.ID })
		if i < 0 {
			doc.Links = append(doc.Links, p.Link)
			return true
		}
		if doc.Links[i] == p.Link {
			return false
		}
		doc.Links[i] = p.Link
		return true

	case models.LinkDeleted:
		n := len(doc.Links)
		doc.Links = slices.DeleteFunc(doc.Links, func(l models.Link) bool { return l.ID == p.LinkID })
		return len(doc.Links) != n

	case models.TagCreated:
		if slices.ContainsFunc(doc.Tags, func(t models.Tag) bool { return t.ID == p.Tag.ID }) {
			return false
		}
		doc.Tags = append(doc.Tags, p.Tag)
		return true

	case models.TagUpdated:
		i := slices.IndexFunc(doc.Tags, func(t models.Tag) bool { return t.ID == p.Tag.ID })
		if i < 0 {
			doc.Tags = append(doc.Tags, p.Tag)
			return true
		}
		if doc.Tags[i] == p.Tag {
			return false
		}
		doc.Tags[i] = p.Tag
		return true

	case models.TagDeleted:
		n := len(doc.Tags)
		doc.Tags = slices.DeleteFunc(doc.Tags, func(t models.Tag) bool { return t.ID == p.TagID })
		return len(doc.Tags) != n

	case models.TagAssigned:
		if slices.Contains(doc.TagRefs, p.TagName) {
			return false
		}
		doc.TagRefs = append(doc.TagRefs, p.TagName)
		return true

	case models.TagUnassigned:
		n := len(doc.TagRefs)
		doc.TagRefs = slices.DeleteFunc(doc.TagRefs, func(name string) bool { return name == p.TagName })
		return len(doc.TagRefs) != n

	case models.AttributeUpdated:
		current, ok := doc.Attributes[p.Key]
		if p.Value == nil {
			if !ok {
				return false
			}
			delete(doc.Attributes, p.Key)
			return true
		}
		if ok && current == *p.Value {
			return false
		}
		if doc.Attributes == nil {
			doc.Attributes = make(map[string]string)
		}
		doc.Attributes[p.Key] = *p.Value
		return true
	}
	return false
}
