// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/mock"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

func notFound(path string) error {
	return &models.StorageError{Op: "read", Path: path, Err: store.ErrDocumentNotFound}
}

func TestEngine_StorageFailureIsIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mock.NewMockDocumentStore(ctrl)
	state := store.NewMemoryStateRepository()
	engine := NewEngine(docs, state, logger.Nop())
	ctx := context.Background()

	diskFull := &models.StorageError{Op: "write", Path: "a.md", Err: errors.New("no space left on device")}

	gomock.InOrder(
		docs.EXPECT().Read(gomock.Any(), "a.md").Return("", notFound("a.md")),
		docs.EXPECT().Write(gomock.Any(), "a.md", "first").Return(diskFull),
		docs.EXPECT().Read(gomock.Any(), "b.md").Return("", notFound("b.md")),
		docs.EXPECT().Write(gomock.Any(), "b.md", "second").Return(nil),
	)

	res := engine.ApplyEvents(ctx, []models.Event{
		event("e1", "X", vclock.VectorClock{"X": 1}, 0, models.DocumentCreated{DocID: "d1", Path: "a.md", Content: "first"}),
		event("e2", "Y", vclock.VectorClock{"Y": 1}, 1, models.DocumentCreated{DocID: "d2", Path: "b.md", Content: "second"}),
	})

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "e1", res.Errors[0].EventID)
	var se *models.StorageError
	assert.ErrorAs(t, res.Errors[0], &se)
	assert.Equal(t, 1, res.Applied)

	// the failed event stays unapplied so a later batch retries it
	applied, err := state.IsApplied(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestEngine_StateFailureIsIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mock.NewMockDocumentStore(ctrl)
	state := mock.NewMockStateRepository(ctrl)
	engine := NewEngine(docs, state, logger.Nop())

	state.EXPECT().IsApplied(gomock.Any(), "e1").Return(false, errors.New("database is locked"))
	state.EXPECT().IsApplied(gomock.Any(), "e2").Return(false, nil)
	state.EXPECT().GetDocument(gomock.Any(), "d2").Return(models.Document{}, store.ErrDocumentNotFound)
	state.EXPECT().FindDocumentByPath(gomock.Any(), "b.md").Return(models.Document{}, store.ErrDocumentNotFound)
	docs.EXPECT().Read(gomock.Any(), "b.md").Return("", notFound("b.md"))
	docs.EXPECT().Write(gomock.Any(), "b.md", "second").Return(nil)
	state.EXPECT().Commit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, change store.StateChange) error {
		assert.Equal(t, "e2", change.EventID)
		require.NotNil(t, change.Upsert)
		assert.Equal(t, "b.md", change.Upsert.Path)
		return nil
	})

	res := engine.ApplyEvents(context.Background(), []models.Event{
		event("e1", "X", vclock.VectorClock{"X": 1}, 0, models.DocumentCreated{DocID: "d1", Path: "a.md", Content: "first"}),
		event("e2", "Y", vclock.VectorClock{"Y": 1}, 1, models.DocumentCreated{DocID: "d2", Path: "b.md", Content: "second"}),
	})

	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Applied)
}

func TestEngine_VerifyConsistency_ReadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mock.NewMockDocumentStore(ctrl)
	state := mock.NewMockStateRepository(ctrl)
	engine := NewEngine(docs, state, logger.Nop())

	state.EXPECT().ListDocuments(gomock.Any()).Return([]models.Document{{ID: "d1", Path: "a.md"}}, nil)
	docs.EXPECT().Read(gomock.Any(), "a.md").Return("", &models.StorageError{Op: "read", Path: "a.md", Err: errors.New("permission denied")})

	report, err := engine.VerifyConsistency(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueReadError, report.Issues[0].Kind)
}
