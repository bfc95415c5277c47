package eventlog

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLog(t *testing.T, dir string, opts ...Option) *EventLog {
	t.Helper()
	l, err := Open(context.Background(), dir, logger.Nop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	require.NoError(t, sc.Err())
	return n
}

func remoteEvent(id, origin string, clock vclock.VectorClock, ts time.Time, p models.Payload) models.Event {
	return models.Event{
		ID:           id,
		Kind:         p.Kind(),
		OriginDevice: origin,
		Timestamp:    ts,
		Clock:        clock,
		Payload:      p,
	}
}

func TestOpen_CreatesIdentityOnce(t *testing.T) {
	dir := t.TempDir()

	l1, err := Open(context.Background(), dir, logger.Nop())
	require.NoError(t, err)
	id1 := l1.Identity()
	require.NoError(t, l1.Close())

	assert.NotEmpty(t, id1.DeviceID)
	assert.NotEmpty(t, id1.VaultID)
	assert.FileExists(t, filepath.Join(dir, IdentityFileName))

	l2 := openLog(t, dir)
	assert.Equal(t, id1.DeviceID, l2.Identity().DeviceID)
	assert.Equal(t, id1.VaultID, l2.Identity().VaultID)
}

func TestOpen_WithVaultID(t *testing.T) {
	dir := t.TempDir()

	l := openLog(t, dir, WithVaultID("vault-42"))
	assert.Equal(t, "vault-42", l.Identity().VaultID)
	require.NoError(t, l.Close())

	_, err := Open(context.Background(), dir, logger.Nop(), WithVaultID("other"))
	assert.ErrorIs(t, err, ErrVaultMismatch)
}

func TestAppend_AdvancesOwnComponent(t *testing.T) {
	l := openLog(t, t.TempDir())
	device := l.DeviceID()

	ev1, err := l.Append(context.Background(), models.DocumentCreated{DocID: "n1", Path: "n1.md", Content: "a"})
	require.NoError(t, err)
	ev2, err := l.Append(context.Background(), models.DocumentUpdated{DocID: "n1", Path: "n1.md", Content: "b"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), ev1.Clock[device])
	assert.Equal(t, uint64(2), ev2.Clock[device])
	assert.Equal(t, device, ev2.OriginDevice)
	assert.Equal(t, models.KindDocumentUpdated, ev2.Kind)
	assert.Equal(t, vclock.VectorClock{device: 2}, l.Clock())
	assert.Equal(t, 2, l.Count())
}

func TestAppend_InvalidPayload(t *testing.T) {
	l := openLog(t, t.TempDir())

	_, err := l.Append(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = l.Append(context.Background(), models.DocumentCreated{Path: "x.md"})
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Equal(t, 0, l.Count())
}

func TestAppend_RoundTripAfterReload(t *testing.T) {
	dir := t.TempDir()
	value := "draft"

	l, err := Open(context.Background(), dir, logger.Nop())
	require.NoError(t, err)

	var appended []models.Event
	for _, p := range []models.Payload{
		models.DocumentCreated{DocID: "n1", Path: "notes/n1.md", Content: "# hi"},
		models.TagAssigned{DocID: "n1", TagName: "work"},
		models.AttributeUpdated{DocID: "n1", Key: "status", Value: &value},
	} {
		ev, err := l.Append(context.Background(), p)
		require.NoError(t, err)
		appended = append(appended, ev)
	}
	clock := l.Clock()
	require.NoError(t, l.Close())

	reloaded := openLog(t, dir)
	assert.Equal(t, clock, reloaded.Clock())
	require.Equal(t, len(appended), reloaded.Count())

	for _, want := range appended {
		got, ok := reloaded.Get(want.ID)
		require.True(t, ok, want.ID)
		assert.Equal(t, want, got)
	}
}

func TestAppend_FailedWriteDoesNotAdvanceClock(t *testing.T) {
	l := openLog(t, t.TempDir())

	_, err := l.Append(context.Background(), models.DocumentCreated{DocID: "n1", Path: "n1.md"})
	require.NoError(t, err)
	before := l.Clock()

	// yank the handle from under the writer
	require.NoError(t, l.file.Close())

	_, err = l.Append(context.Background(), models.DocumentCreated{DocID: "n2", Path: "n2.md"})
	require.Error(t, err)

	var storageErr *models.StorageError
	assert.True(t, errors.As(err, &storageErr))
	assert.Equal(t, before, l.Clock())
	assert.Equal(t, 1, l.Count())

	l.closed = true
}

// Scenario D: interleaved concurrent appends lose nothing.
func TestAppend_ConcurrentAppendsAreSerialized(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(context.Background(), dir, logger.Nop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.Append(context.Background(), models.DocumentCreated{
				DocID: "doc-" + string(rune('a'+i)),
				Path:  "doc.md",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, l.Count())
	assert.Equal(t, uint64(3), l.Clock()[l.DeviceID()])
	require.NoError(t, l.Close())

	assert.Equal(t, 3, countLines(t, filepath.Join(dir, LogFileName)))

	reloaded := openLog(t, dir)
	assert.Equal(t, uint64(3), reloaded.Clock()[reloaded.DeviceID()])
}

func TestOpen_DiscardsTornTrailingRecord(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(context.Background(), dir, logger.Nop())
	require.NoError(t, err)
	_, err = l.Append(context.Background(), models.DocumentCreated{DocID: "n1", Path: "n1.md"})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString(`{"id":"torn","kind":"DocumentCre`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reloaded := openLog(t, dir)
	assert.Equal(t, 1, reloaded.Count())

	// the next append lands on a clean line
	_, err = reloaded.Append(context.Background(), models.DocumentCreated{DocID: "n2", Path: "n2.md"})
	require.NoError(t, err)
	require.NoError(t, reloaded.Close())

	assert.Equal(t, 2, countLines(t, path))
	again := openLog(t, dir)
	assert.Equal(t, 2, again.Count())
}

func TestOpen_KeepsCompleteRecordMissingNewline(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(context.Background(), dir, logger.Nop())
	require.NoError(t, err)
	_, err = l.Append(context.Background(), models.DocumentCreated{DocID: "n1", Path: "n1.md"})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	path := filepath.Join(dir, LogFileName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimRight(string(data), "\n")), 0o600))

	reloaded := openLog(t, dir)
	assert.Equal(t, 1, reloaded.Count())
	_, err = reloaded.Append(context.Background(), models.DocumentDeleted{DocID: "n1", Path: "n1.md"})
	require.NoError(t, err)
	assert.Equal(t, 2, countLines(t, path))
}

func TestOpen_MalformedMiddleRecordIsIntegrityError(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(context.Background(), dir, logger.Nop())
	require.NoError(t, err)
	_, err = l.Append(context.Background(), models.DocumentCreated{DocID: "n1", Path: "n1.md"})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("not json at all\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Open(context.Background(), dir, logger.Nop())
	var integrityErr *models.IntegrityError
	require.True(t, errors.As(err, &integrityErr), "got %v", err)
	assert.Equal(t, 2, integrityErr.Line)
}

func TestOpen_UnknownKindIsIntegrityError(t *testing.T) {
	dir := t.TempDir()
	l := openLog(t, dir)
	require.NoError(t, l.Close())

	line := `{"id":"e1","kind":"DocumentExploded","origin_device":"X","timestamp":"2026-05-01T10:00:00Z","clock":{"X":1},"payload":{}}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, LogFileName), []byte(line), 0o600))

	_, err := Open(context.Background(), dir, logger.Nop())
	assert.ErrorIs(t, err, models.ErrUnknownEventKind)
}

func TestMergeRemote_IdempotentAndCausallyOrdered(t *testing.T) {
	dir := t.TempDir()
	l := openLog(t, dir)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// deliberately out of causal order
	batch := []models.Event{
		remoteEvent("y2", "Y", vclock.VectorClock{"Y": 2}, base, models.DocumentUpdated{DocID: "d", Path: "d.md", Content: "2"}),
		remoteEvent("y1", "Y", vclock.VectorClock{"Y": 1}, base.Add(time.Minute), models.DocumentCreated{DocID: "d", Path: "d.md", Content: "1"}),
		remoteEvent("y1", "Y", vclock.VectorClock{"Y": 1}, base.Add(time.Minute), models.DocumentCreated{DocID: "d", Path: "d.md", Content: "1"}),
	}

	absorbed, err := l.MergeRemote(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, absorbed, 2)
	assert.Equal(t, "y1", absorbed[0].ID)
	assert.Equal(t, "y2", absorbed[1].ID)

	clockOnce := l.Clock()
	linesOnce := countLines(t, filepath.Join(dir, LogFileName))

	again, err := l.MergeRemote(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, clockOnce, l.Clock())
	assert.Equal(t, linesOnce, countLines(t, filepath.Join(dir, LogFileName)))
	assert.Equal(t, vclock.VectorClock{"Y": 2}, l.Clock())
}

func TestMergeRemote_RejectsInvalidBatch(t *testing.T) {
	l := openLog(t, t.TempDir())

	bad := models.Event{ID: "x", Kind: models.KindDocumentCreated, OriginDevice: "Y",
		Clock: vclock.VectorClock{"Z": 1}, Payload: models.DocumentCreated{DocID: "d"}}
	_, err := l.MergeRemote(context.Background(), []models.Event{bad})

	var integrityErr *models.IntegrityError
	assert.True(t, errors.As(err, &integrityErr))
	assert.Equal(t, 0, l.Count())
}

func TestMergeRemote_GapFillKeepsCausalOrder(t *testing.T) {
	l := openLog(t, t.TempDir())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := l.MergeRemote(context.Background(), []models.Event{
		remoteEvent("y2", "Y", vclock.VectorClock{"Y": 2}, base, models.TagAssigned{DocID: "d", TagName: "b"}),
	})
	require.NoError(t, err)
	_, err = l.MergeRemote(context.Background(), []models.Event{
		remoteEvent("y1", "Y", vclock.VectorClock{"Y": 1}, base.Add(time.Hour), models.TagAssigned{DocID: "d", TagName: "a"}),
	})
	require.NoError(t, err)

	events := l.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "y1", events[0].ID)
	assert.Equal(t, "y2", events[1].ID)
}

// Scenario A (log side): X appends DocumentCreated, Y with an empty clock
// asks for everything after {} and ends up at X's clock.
func TestScenarioA_EventsAfterEmptyClock(t *testing.T) {
	x := openLog(t, t.TempDir(), WithVaultID("v"))
	y := openLog(t, t.TempDir(), WithVaultID("v"))

	n1, err := x.Append(context.Background(), models.DocumentCreated{DocID: "n1", Path: "n1.md", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, vclock.VectorClock{x.DeviceID(): 1}, x.Clock())

	response := x.EventsAfter(y.Clock())
	require.Len(t, response, 1)
	assert.Equal(t, n1.ID, response[0].ID)

	_, err = y.MergeRemote(context.Background(), response)
	require.NoError(t, err)
	assert.Equal(t, vclock.VectorClock{x.DeviceID(): 1}, y.Clock())
}

func TestQueries(t *testing.T) {
	l := openLog(t, t.TempDir())
	ctx := context.Background()

	_, err := l.Append(ctx, models.DocumentCreated{DocID: "a", Path: "a.md"})
	require.NoError(t, err)
	mid := l.Clock()
	_, err = l.Append(ctx, models.DocumentCreated{DocID: "b", Path: "b.md"})
	require.NoError(t, err)
	_, err = l.Append(ctx, models.TagAssigned{DocID: "a", TagName: "t"})
	require.NoError(t, err)

	assert.Len(t, l.Events(), 3)
	assert.Len(t, l.EventsAfter(mid), 2)
	assert.Len(t, l.EventsAfter(l.Clock()), 0)
	assert.Len(t, l.EventsByKind(models.KindDocumentCreated), 2)
	assert.Len(t, l.EventsForDocument("a"), 2)
	assert.NotNil(t, l.EventsForDocument("missing"))
}

func TestReset_KeepsIdentityAndOwnCounter(t *testing.T) {
	dir := t.TempDir()
	l := openLog(t, dir)
	ctx := context.Background()

	_, err := l.Append(ctx, models.DocumentCreated{DocID: "a", Path: "a.md"})
	require.NoError(t, err)
	_, err = l.MergeRemote(ctx, []models.Event{
		remoteEvent("y1", "Y", vclock.VectorClock{"Y": 1}, time.Now().UTC(), models.DocumentCreated{DocID: "b", Path: "b.md"}),
	})
	require.NoError(t, err)

	require.NoError(t, l.Reset(ctx))
	assert.Equal(t, 0, l.Count())
	assert.Equal(t, vclock.VectorClock{l.DeviceID(): 1}, l.Clock())

	ev, err := l.Append(ctx, models.DocumentCreated{DocID: "c", Path: "c.md"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), ev.Clock[l.DeviceID()])
	assert.Equal(t, 1, countLines(t, filepath.Join(dir, LogFileName)))
}

func TestClose_RejectsMutations(t *testing.T) {
	l, err := Open(context.Background(), t.TempDir(), logger.Nop())
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	_, err = l.Append(context.Background(), models.DocumentCreated{DocID: "a", Path: "a.md"})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = l.MergeRemote(context.Background(), nil)
	assert.ErrorIs(t, err, ErrClosed)
}
