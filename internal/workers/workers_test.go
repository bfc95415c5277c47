// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/mock"
	"github.com/MKhiriev/go-vault-sync/internal/sharedfolder"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func TestWorkers_StartAndStopOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	w1 := mock.NewMockWorker(ctrl)
	w2 := mock.NewMockWorker(ctrl)

	ctx := context.Background()
	gomock.InOrder(
		w1.EXPECT().Start(ctx),
		w1.EXPECT().Name().Return("one"),
		w2.EXPECT().Start(ctx),
		w2.EXPECT().Name().Return("two"),
		w2.EXPECT().Stop(),
		w1.EXPECT().Stop(),
	)

	ws := NewWorkers(logger.Nop(), w1)
	ws.Add(w2)
	assert.Equal(t, 2, ws.Len())

	ws.Start(ctx)
	ws.Stop()
}

func TestWorkers_Empty(t *testing.T) {
	ws := NewWorkers(logger.Nop())

	// no workers, nothing to do
	ws.Start(context.Background())
	ws.Stop()
}

func TestPeriodicJob_RunsImmediatelyAndOnTicker(t *testing.T) {
	var calls atomic.Int32
	job := newPeriodicJob("test", 10*time.Millisecond, true, func(context.Context) error {
		calls.Add(1)
		return nil
	}, logger.Nop())

	job.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, waitFor, tick)
	job.Stop()

	n := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, calls.Load(), "no runs after Stop")
}

func TestPeriodicJob_ErrorsDoNotStopTheJob(t *testing.T) {
	var calls atomic.Int32
	job := newPeriodicJob("failing", 5*time.Millisecond, false, func(context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	}, logger.Nop())

	job.Start(context.Background())
	defer job.Stop()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, waitFor, tick)
}

func TestPeriodicJob_StopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	job := newPeriodicJob("ctx", time.Hour, false, func(context.Context) error { return nil }, logger.Nop())

	job.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Stop did not return after the parent context was cancelled")
	}
}

func TestPeriodicJob_RestartReplacesRunningInstance(t *testing.T) {
	var running atomic.Int32
	job := newPeriodicJob("restart", time.Hour, true, func(ctx context.Context) error {
		running.Add(1)
		<-ctx.Done()
		running.Add(-1)
		return nil
	}, logger.Nop())

	job.Start(context.Background())
	require.Eventually(t, func() bool { return running.Load() == 1 }, waitFor, tick)
	job.Start(context.Background())
	require.Eventually(t, func() bool { return running.Load() == 1 }, waitFor, tick)
	job.Stop()
	assert.Zero(t, running.Load())
}

func TestPeriodicJob_DefaultInterval(t *testing.T) {
	job := newPeriodicJob("default", 0, false, func(context.Context) error { return nil }, logger.Nop())
	assert.Equal(t, defaultInterval, job.interval)
	job.Stop()
}

func TestNewPresenceJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mock.NewMockPresenceUpdater(ctrl)

	called := make(chan struct{}, 1)
	p.EXPECT().UpdatePresence(gomock.Any()).DoAndReturn(func(context.Context) error {
		select {
		case called <- struct{}{}:
		default:
		}
		return nil
	}).MinTimes(1)

	job := NewPresenceJob(p, time.Hour, logger.Nop())
	assert.Equal(t, PresenceJobName, job.Name())
	job.Start(context.Background())
	<-called
	job.Stop()
}

func TestNewSharedFolderSyncJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock.NewMockCycleRunner(ctrl)

	called := make(chan struct{}, 1)
	r.EXPECT().RunCycle(gomock.Any()).DoAndReturn(func(context.Context) (sharedfolder.ImportResult, error) {
		select {
		case called <- struct{}{}:
		default:
		}
		return sharedfolder.ImportResult{Imported: map[string]int{"B": 2}}, errors.New("presence write failed")
	}).MinTimes(1)

	job := NewSharedFolderSyncJob(r, time.Hour, logger.Nop())
	assert.Equal(t, SharedFolderJobName, job.Name())
	job.Start(context.Background())
	<-called
	job.Stop()
}

func TestNewPeerConnectorJob_CopiesAddresses(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewMockPeerConnector(ctrl)

	addrs := []string{"ws://a/api/sync/ws", "ws://b/api/sync/ws"}
	called := make(chan struct{}, 1)
	c.EXPECT().ConnectAll(gomock.Any(), []string{"ws://a/api/sync/ws", "ws://b/api/sync/ws"}).DoAndReturn(func(context.Context, []string) error {
		select {
		case called <- struct{}{}:
		default:
		}
		return nil
	}).MinTimes(1)

	job := NewPeerConnectorJob(c, addrs, time.Hour, logger.Nop())
	addrs[0] = "mutated"
	job.Start(context.Background())
	<-called
	job.Stop()
}
