// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package replay materializes events into document state and backing storage.
// Events are applied in causal order, each exactly once; diverging content is
// never overwritten but preserved as a conflict artifact next to the document.
package replay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

// IDGenerator produces conflict record ids.
type IDGenerator interface {
	Generate() string
}

// Engine applies events against a DocumentStore and a StateRepository.
// ApplyEvents calls are serialized.
type Engine struct {
	mu     sync.Mutex
	docs   store.DocumentStore
	state  store.StateRepository
	ids    IDGenerator
	suffix func() string
	now    func() time.Time
	logger *logger.Logger
}

type Option func(*Engine)

func WithIDGenerator(ids IDGenerator) Option {
	return func(e *Engine) { e.ids = ids }
}

// WithSuffix replaces the generator of conflict artifact suffixes.
func WithSuffix(suffix func() string) Option {
	return func(e *Engine) { e.suffix = suffix }
}

func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(docs store.DocumentStore, state store.StateRepository, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		docs:   docs,
		state:  state,
		ids:    utils.NewUUIDGenerator(),
		suffix: utils.ShortSuffix,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyEvents sorts events causally and applies them one at a time. A
// failing event is recorded in Result.Errors and the rest of the batch still
// runs. Cancelling ctx stops the batch before the next event.
func (e *Engine) ApplyEvents(ctx context.Context, events []models.Event) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res Result
	for _, ev := range vclock.SortCausally(events) {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, EventError{EventID: ev.ID, Kind: ev.Kind, Err: err})
			return res
		}

		applied, err := e.state.IsApplied(ctx, ev.ID)
		if err != nil {
			e.fail(&res, ev, err)
			continue
		}
		if applied {
			res.Skipped++
			continue
		}

		change, out, err := e.apply(ctx, ev)
		if err != nil {
			e.fail(&res, ev, err)
			continue
		}

		change.EventID = ev.ID
		change.Kind = ev.Kind
		change.DocumentID = ev.DocumentID()
		change.AppliedAt = e.now().UTC()
		if err = e.state.Commit(ctx, change); err != nil {
			e.fail(&res, ev, err)
			continue
		}

		switch out {
		case outcomeApplied:
			res.Applied++
			res.AppliedEvents = append(res.AppliedEvents, ev)
		case outcomeSkipped:
			res.Skipped++
		case outcomeConflict:
			res.Conflicts = append(res.Conflicts, *change.Conflict)
			e.logger.Warn().Str("func", "Engine.ApplyEvents").
				Str("document_id", change.DocumentID).
				Str("origin", ev.OriginDevice).
				Str("artifact", change.Conflict.ArtifactPath).
				Msg("conflict detected")
		}
	}

	return res
}

func (e *Engine) fail(res *Result, ev models.Event, err error) {
	e.logger.Err(err).Str("func", "Engine.ApplyEvents").
		Str("event_id", ev.ID).Str("kind", string(ev.Kind)).Msg("error applying event")
	res.Errors = append(res.Errors, EventError{EventID: ev.ID, Kind: ev.Kind, Err: err})
}

// apply dispatches on the payload variant. The returned change carries the
// state mutation; the caller stamps the event bookkeeping onto it.
func (e *Engine) apply(ctx context.Context, ev models.Event) (store.StateChange, outcome, error) {
	switch p := ev.Payload.(type) {
	case models.DocumentCreated:
		return e.applyCreated(ctx, ev, p.DocID, p.Path, p.Content)
	case models.DocumentUpdated:
		return e.applyUpdated(ctx, ev, p)
	case models.DocumentDeleted:
		return e.applyDeleted(ctx, p)
	case models.DocumentRenamed:
		return e.applyRenamed(ctx, ev, p)
	case models.LinkCreated, models.LinkUpdated, models.LinkDeleted,
		models.TagCreated, models.TagUpdated, models.TagDeleted,
		models.TagAssigned, models.TagUnassigned, models.AttributeUpdated:
		return e.applyMetadata(ctx, ev)
	default:
		return store.StateChange{}, outcomeSkipped, models.ErrUnknownEventKind
	}
}

// lookup returns the materialized document, or found=false when it is unknown.
func (e *Engine) lookup(ctx context.Context, id string) (models.Document, bool, error) {
	doc, err := e.state.GetDocument(ctx, id)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return models.Document{}, false, nil
	}
	if err != nil {
		return models.Document{}, false, err
	}
	return doc, true, nil
}

// VerifyConsistency compares every materialized document with its backing
// storage. It reports problems and repairs nothing.
func (e *Engine) VerifyConsistency(ctx context.Context) (models.ConsistencyReport, error) {
	docs, err := e.state.ListDocuments(ctx)
	if err != nil {
		return models.ConsistencyReport{}, err
	}

	report := models.ConsistencyReport{Checked: len(docs), Issues: make([]models.ConsistencyIssue, 0)}
	for _, doc := range docs {
		if err = ctx.Err(); err != nil {
			return report, err
		}

		content, err := e.docs.Read(ctx, doc.Path)
		switch {
		case errors.Is(err, store.ErrDocumentNotFound):
			report.Issues = append(report.Issues, models.ConsistencyIssue{
				DocumentID: doc.ID, Path: doc.Path, Kind: IssueMissingFile,
				Detail: "backing file does not exist",
			})
		case err != nil:
			report.Issues = append(report.Issues, models.ConsistencyIssue{
				DocumentID: doc.ID, Path: doc.Path, Kind: IssueReadError, Detail: err.Error(),
			})
		default:
			if hash := utils.ContentHash(content); hash != doc.ContentHash {
				report.Issues = append(report.Issues, models.ConsistencyIssue{
					DocumentID: doc.ID, Path: doc.Path, Kind: IssueHashMismatch,
					Detail: "stored " + doc.ContentHash + ", actual " + hash,
				})
			}
		}
	}
	return report, nil
}
