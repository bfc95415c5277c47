// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	documentsTable     = "documents"
	appliedEventsTable = "applied_events"
	conflictsTable     = "conflicts"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var documentColumns = []string{
	"id", "path", "content", "content_hash", "links", "tags", "tag_refs", "attributes", "updated_at", "updated_by",
}

var conflictColumns = []string{
	"id", "document_id", "local_content", "remote_content", "artifact_path", "origin_device", "event_id", "created_at", "resolved",
}

func selectDocuments() sq.SelectBuilder {
	return psql.Select(documentColumns...).From(documentsTable)
}

func selectConflicts() sq.SelectBuilder {
	return psql.Select(conflictColumns...).From(conflictsTable)
}

// upsertDocument relies on SQLite's "INSERT OR REPLACE" keyed by id.
func upsertDocument(row documentRow) sq.InsertBuilder {
	return psql.Insert(documentsTable).
		Options("OR REPLACE").
		Columns(documentColumns...).
		Values(row.ID, row.Path, row.Content, row.ContentHash, row.Links, row.Tags, row.TagRefs, row.Attributes, row.UpdatedAt, row.UpdatedBy)
}

func deleteDocument(id string) sq.DeleteBuilder {
	return psql.Delete(documentsTable).Where(sq.Eq{"id": id})
}

func insertConflict(row conflictRow) sq.InsertBuilder {
	return psql.Insert(conflictsTable).
		Options("OR IGNORE").
		Columns(conflictColumns...).
		Values(row.ID, row.DocumentID, row.LocalContent, row.RemoteContent, row.ArtifactPath, row.OriginDevice, row.EventID, row.CreatedAt, row.Resolved)
}

func insertAppliedEvent(change StateChange) sq.InsertBuilder {
	return psql.Insert(appliedEventsTable).
		Options("OR IGNORE").
		Columns("event_id", "kind", "document_id", "applied_at").
		Values(change.EventID, string(change.Kind), change.DocumentID, change.AppliedAt.UTC())
}
