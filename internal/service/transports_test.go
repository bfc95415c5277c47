// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/mock"
	"github.com/MKhiriev/go-vault-sync/models"
)

func openWithTransports(t *testing.T, transports ...Transport) *Vault {
	t.Helper()
	cfg := testConfig(t, "x", t.TempDir())
	cfg.Peer.Disabled = true
	cfg.SharedFolder.Disabled = true
	v, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	v.transports = transports
	return v
}

func TestVault_SyncNow_JoinsTransportErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	failing := mock.NewMockTransport(ctrl)
	healthy := mock.NewMockTransport(ctrl)

	boom := errors.New("share unreachable")
	failing.EXPECT().Sync(gomock.Any()).Return(boom)
	failing.EXPECT().Name().Return(SharedFolderTransportName).AnyTimes()
	healthy.EXPECT().Sync(gomock.Any()).Return(nil)
	healthy.EXPECT().Name().Return(PeerTransportName).AnyTimes()

	v := openWithTransports(t, failing, healthy)
	err := v.SyncNow(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), SharedFolderTransportName)

	failing.EXPECT().Close(gomock.Any()).Return(nil)
	healthy.EXPECT().Close(gomock.Any()).Return(nil)
	require.NoError(t, v.Close(context.Background()))
}

func TestVault_MutationBroadcastsToEveryTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock.NewMockTransport(ctrl)

	var sent []models.Event
	tr.EXPECT().Broadcast(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, evs []models.Event) {
		sent = append(sent, evs...)
	}).Times(2)

	v := openWithTransports(t, tr)
	doc, err := v.CreateDocument(context.Background(), "a.md", "a")
	require.NoError(t, err)
	_, err = v.UpdateDocument(context.Background(), doc.ID, "b")
	require.NoError(t, err)

	require.Len(t, sent, 2)
	assert.Equal(t, models.KindDocumentCreated, sent[0].Kind)
	assert.Equal(t, models.KindDocumentUpdated, sent[1].Kind)

	tr.EXPECT().Name().Return("mock").AnyTimes()
	tr.EXPECT().Close(gomock.Any()).Return(errors.New("close failed"))
	err = v.Close(context.Background())
	assert.ErrorContains(t, err, "close mock transport")
}

func TestVault_ObserverMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	obs := mock.NewMockObserver(ctrl)
	obs.EXPECT().OnEventsApplied(gomock.Len(1))

	cfg := testConfig(t, "x", t.TempDir())
	cfg.Peer.Disabled = true
	v := openVault(t, cfg, WithObserver(obs))

	_, err := v.CreateDocument(context.Background(), "a.md", "a")
	require.NoError(t, err)
}
