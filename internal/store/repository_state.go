// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
)

const (
	commitMaxRetries  = 4
	commitBaseBackoff = 20 * time.Millisecond
)

type stateRepository struct {
	*DB
	logger *logger.Logger
}

// NewStateRepository returns the SQLite-backed StateRepository.
func NewStateRepository(db *DB, log *logger.Logger) StateRepository {
	return &stateRepository{DB: db, logger: log}
}

// documentRow is the column layout of the documents table. Slices and maps
// are stored as JSON text.
type documentRow struct {
	ID          string
	Path        string
	Content     string
	ContentHash string
	Links       string
	Tags        string
	TagRefs     string
	Attributes  string
	UpdatedAt   time.Time
	UpdatedBy   string
}

type conflictRow struct {
	ID            string
	DocumentID    string
	LocalContent  string
	RemoteContent string
	ArtifactPath  string
	OriginDevice  string
	EventID       string
	CreatedAt     time.Time
	Resolved      bool
}

func toDocumentRow(d models.Document) (documentRow, error) {
	links, err := marshalColumn(d.Links, "[]")
	if err != nil {
		return documentRow{}, err
	}
	tags, err := marshalColumn(d.Tags, "[]")
	if err != nil {
		return documentRow{}, err
	}
	refs, err := marshalColumn(d.TagRefs, "[]")
	if err != nil {
		return documentRow{}, err
	}
	attrs, err := marshalColumn(d.Attributes, "{}")
	if err != nil {
		return documentRow{}, err
	}
	return documentRow{
		ID:          d.ID,
		Path:        d.Path,
		Content:     d.Content,
		ContentHash: d.ContentHash,
		Links:       links,
		Tags:        tags,
		TagRefs:     refs,
		Attributes:  attrs,
		UpdatedAt:   d.UpdatedAt.UTC(),
		UpdatedBy:   d.UpdatedBy,
	}, nil
}

func (r documentRow) toModel() (models.Document, error) {
	d := models.Document{
		ID:          r.ID,
		Path:        r.Path,
		Content:     r.Content,
		ContentHash: r.ContentHash,
		UpdatedAt:   r.UpdatedAt.UTC(),
		UpdatedBy:   r.UpdatedBy,
	}
	if err := unmarshalColumn(r.Links, &d.Links); err != nil {
		return models.Document{}, fmt.Errorf("links: %w", err)
	}
	if err := unmarshalColumn(r.Tags, &d.Tags); err != nil {
		return models.Document{}, fmt.Errorf("tags: %w", err)
	}
	if err := unmarshalColumn(r.TagRefs, &d.TagRefs); err != nil {
		return models.Document{}, fmt.Errorf("tag_refs: %w", err)
	}
	if err := unmarshalColumn(r.Attributes, &d.Attributes); err != nil {
		return models.Document{}, fmt.Errorf("attributes: %w", err)
	}
	return d, nil
}

func marshalColumn[T any](v T, empty string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return empty, nil
	}
	return string(data), nil
}

func unmarshalColumn[T any](s string, dst *T) error {
	if s == "" || s == "[]" || s == "{}" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

func toConflictRow(c models.ConflictRecord) conflictRow {
	return conflictRow{
		ID:            c.ID,
		DocumentID:    c.DocumentID,
		LocalContent:  c.LocalContent,
		RemoteContent: c.RemoteContent,
		ArtifactPath:  c.ArtifactPath,
		OriginDevice:  c.OriginDevice,
		EventID:       c.EventID,
		CreatedAt:     c.Timestamp.UTC(),
		Resolved:      c.Resolved,
	}
}

func (r conflictRow) toModel() models.ConflictRecord {
	return models.ConflictRecord{
		ID:            r.ID,
		DocumentID:    r.DocumentID,
		LocalContent:  r.LocalContent,
		RemoteContent: r.RemoteContent,
		ArtifactPath:  r.ArtifactPath,
		OriginDevice:  r.OriginDevice,
		EventID:       r.EventID,
		Timestamp:     r.CreatedAt.UTC(),
		Resolved:      r.Resolved,
	}
}

// Commit writes change in a single transaction. Lock contention is retried
// with exponential backoff.
func (r *stateRepository) Commit(ctx context.Context, change StateChange) error {
	backoff := retry.WithMaxRetries(commitMaxRetries, retry.NewExponential(commitBaseBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.commit(ctx, change)
		if err != nil && r.errorClassificator.Classify(err) == Retryable {
			r.logger.Warn().Err(err).Str("func", "stateRepository.Commit").
				Str("event_id", change.EventID).Msg("database is busy, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}

func (r *stateRepository) commit(ctx context.Context, change StateChange) (err error) {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Err(err).Str("func", "stateRepository.commit").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if change.Upsert != nil {
		row, err := toDocumentRow(*change.Upsert)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if err = execBuilder(ctx, tx, upsertDocument(row)); err != nil {
			r.logger.Err(err).Str("func", "stateRepository.commit").Str("document_id", row.ID).Msg("error upserting document")
			return err
		}
	}

	if change.DeleteDocumentID != "" {
		if err = execBuilder(ctx, tx, deleteDocument(change.DeleteDocumentID)); err != nil {
			r.logger.Err(err).Str("func", "stateRepository.commit").Str("document_id", change.DeleteDocumentID).Msg("error deleting document")
			return err
		}
	}

	if change.Conflict != nil {
		if err = execBuilder(ctx, tx, insertConflict(toConflictRow(*change.Conflict))); err != nil {
			r.logger.Err(err).Str("func", "stateRepository.commit").Str("conflict_id", change.Conflict.ID).Msg("error saving conflict")
			return err
		}
	}

	if change.EventID != "" {
		if err = execBuilder(ctx, tx, insertAppliedEvent(change)); err != nil {
			r.logger.Err(err).Str("func", "stateRepository.commit").Str("event_id", change.EventID).Msg("error marking event applied")
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Err(err).Str("func", "stateRepository.commit").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func execBuilder(ctx context.Context, tx *sql.Tx, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *stateRepository) GetDocument(ctx context.Context, id string) (models.Document, error) {
	return r.getDocument(ctx, "stateRepository.GetDocument", sq.Eq{"id": id})
}

// FindDocumentByPath returns the live document at path.
func (r *stateRepository) FindDocumentByPath(ctx context.Context, path string) (models.Document, error) {
	return r.getDocument(ctx, "stateRepository.FindDocumentByPath", sq.Eq{"path": path})
}

func (r *stateRepository) getDocument(ctx context.Context, fn string, where sq.Eq) (models.Document, error) {
	query, args, err := selectDocuments().Where(where).Limit(1).ToSql()
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row, err := scanDocument(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, ErrDocumentNotFound
	}
	if err != nil {
		r.logger.Err(err).Str("func", fn).Msg("error reading document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return row.toModel()
}

func (r *stateRepository) ListDocuments(ctx context.Context) ([]models.Document, error) {
	query, args, err := selectDocuments().OrderBy("path", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "stateRepository.ListDocuments").Msg("error querying documents")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		row, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		doc, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return docs, nil
}

func (r *stateRepository) IsApplied(ctx context.Context, eventID string) (bool, error) {
	query, args, err := psql.Select("1").From(appliedEventsTable).Where(sq.Eq{"event_id": eventID}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var one int
	err = r.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		r.logger.Err(err).Str("func", "stateRepository.IsApplied").Str("event_id", eventID).Msg("error checking applied event")
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return true, nil
}

func (r *stateRepository) GetConflict(ctx context.Context, id string) (models.ConflictRecord, error) {
	query, args, err := selectConflicts().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.ConflictRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row, err := scanConflict(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ConflictRecord{}, ErrConflictNotFound
	}
	if err != nil {
		r.logger.Err(err).Str("func", "stateRepository.GetConflict").Str("conflict_id", id).Msg("error reading conflict")
		return models.ConflictRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return row.toModel(), nil
}

// ListConflicts returns conflicts oldest first.
func (r *stateRepository) ListConflicts(ctx context.Context, unresolvedOnly bool) ([]models.ConflictRecord, error) {
	b := selectConflicts().OrderBy("created_at", "id")
	if unresolvedOnly {
		b = b.Where(sq.Eq{"resolved": false})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "stateRepository.ListConflicts").Msg("error querying conflicts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	out := make([]models.ConflictRecord, 0)
	for rows.Next() {
		row, err := scanConflict(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		out = append(out, row.toModel())
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return out, nil
}

func (r *stateRepository) ResolveConflict(ctx context.Context, id string) error {
	query, args, err := psql.Update(conflictsTable).Set("resolved", true).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "stateRepository.ResolveConflict").Str("conflict_id", id).Msg("error resolving conflict")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrConflictNotFound
	}
	return nil
}

func (r *stateRepository) CountUnresolvedConflicts(ctx context.Context) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From(conflictsTable).Where(sq.Eq{"resolved": false}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var n int
	if err = r.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		r.logger.Err(err).Str("func", "stateRepository.CountUnresolvedConflicts").Msg("error counting conflicts")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return n, nil
}

func (r *stateRepository) Close() error {
	return r.DB.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (documentRow, error) {
	var row documentRow
	err := s.Scan(&row.ID, &row.Path, &row.Content, &row.ContentHash, &row.Links, &row.Tags,
		&row.TagRefs, &row.Attributes, &row.UpdatedAt, &row.UpdatedBy)
	return row, err
}

func scanConflict(s scanner) (conflictRow, error) {
	var row conflictRow
	err := s.Scan(&row.ID, &row.DocumentID, &row.LocalContent, &row.RemoteContent, &row.ArtifactPath,
		&row.OriginDevice, &row.EventID, &row.CreatedAt, &row.Resolved)
	return row, err
}
