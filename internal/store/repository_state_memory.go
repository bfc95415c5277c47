package store

import (
	"context"
	"sort"
	"sync"

	"github.com/MKhiriev/go-vault-sync/models"
)

// memoryStateRepository keeps materialized state in process memory. It is
// selected by the "memory" DSN and used by tests and throwaway vaults.
type memoryStateRepository struct {
	mu        sync.RWMutex
	documents map[string]models.Document
	applied   map[string]struct{}
	conflicts map[string]models.ConflictRecord
}

func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{
		documents: make(map[string]models.Document),
		applied:   make(map[string]struct{}),
		conflicts: make(map[string]models.ConflictRecord),
	}
}

func (m *memoryStateRepository) Commit(ctx context.Context, change StateChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if change.Upsert != nil {
		m.documents[change.Upsert.ID] = change.Upsert.Clone()
	}
	if change.DeleteDocumentID != "" {
		delete(m.documents, change.DeleteDocumentID)
	}
	if change.Conflict != nil {
		if _, ok := m.conflicts[change.Conflict.ID]; !ok {
			m.conflicts[change.Conflict.ID] = *change.Conflict
		}
	}
	if change.EventID != "" {
		m.applied[change.EventID] = struct{}{}
	}
	return nil
}

func (m *memoryStateRepository) GetDocument(_ context.Context, id string) (models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return models.Document{}, ErrDocumentNotFound
	}
	return d.Clone(), nil
}

func (m *memoryStateRepository) FindDocumentByPath(_ context.Context, path string) (models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.sortedDocuments() {
		if d.Path == path {
			return d.Clone(), nil
		}
	}
	return models.Document{}, ErrDocumentNotFound
}

func (m *memoryStateRepository) ListDocuments(context.Context) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := m.sortedDocuments()
	for i := range docs {
		docs[i] = docs[i].Clone()
	}
	return docs, nil
}

func (m *memoryStateRepository) sortedDocuments() []models.Document {
	docs := make([]models.Document, 0, len(m.documents))
	for _, d := range m.documents {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Path != docs[j].Path {
			return docs[i].Path < docs[j].Path
		}
		return docs[i].ID < docs[j].ID
	})
	return docs
}

func (m *memoryStateRepository) IsApplied(_ context.Context, eventID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.applied[eventID]
	return ok, nil
}

func (m *memoryStateRepository) GetConflict(_ context.Context, id string) (models.ConflictRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conflicts[id]
	if !ok {
		return models.ConflictRecord{}, ErrConflictNotFound
	}
	return c, nil
}

func (m *memoryStateRepository) ListConflicts(_ context.Context, unresolvedOnly bool) ([]models.ConflictRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ConflictRecord, 0, len(m.conflicts))
	for _, c := range m.conflicts {
		if unresolvedOnly && c.Resolved {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryStateRepository) ResolveConflict(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conflicts[id]
	if !ok {
		return ErrConflictNotFound
	}
	c.Resolved = true
	m.conflicts[id] = c
	return nil
}

func (m *memoryStateRepository) CountUnresolvedConflicts(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.conflicts {
		if !c.Resolved {
			n++
		}
	}
	return n, nil
}

func (m *memoryStateRepository) Close() error { return nil }
