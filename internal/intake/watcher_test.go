package intake

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medscan/internal/store"
)

func waitForCount(t *testing.T, st *store.Store, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		n, err := st.CountIntakes()
		require.NoError(t, err)
		if n >= want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("intake count never reached %d", want)
}

func TestWatcher_IngestsDroppedFile(t *testing.T) {
	svc, st := newTestService(t)
	dir := t.TempDir()

	w, err := NewWatcher(dir, svc, zap.NewNop(), 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	path := filepath.Join(dir, "station1.txt")
	require.NoError(t, os.WriteFile(path, []byte("(01)05012345678901(17)260430(10)LOTW\n"), 0644))

	waitForCount(t, st, 1)

	intakes, err := st.ListIntakes(1)
	require.NoError(t, err)
	require.Len(t, intakes, 1)
	assert.Equal(t, "LOTW", intakes[0].LotNumber)

	// The file is renamed once ingested.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(path + ".done"); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("scan file was not marked done")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatcher_IngestsPreexistingFiles(t *testing.T) {
	svc, st := newTestService(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "backlog.txt")
	require.NoError(t, os.WriteFile(path, []byte("0105012345678901\x1d10LOTX\n"), 0644))

	w, err := NewWatcher(dir, svc, zap.NewNop(), 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	waitForCount(t, st, 1)
}

func TestWatcher_IgnoresNonScanFiles(t *testing.T) {
	svc, st := newTestService(t)
	dir := t.TempDir()

	w, err := NewWatcher(dir, svc, zap.NewNop(), 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignore me"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt.done"), []byte("already done"), 0644))

	time.Sleep(200 * time.Millisecond)
	n, err := st.CountIntakes()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	w, err := NewWatcher(t.TempDir(), svc, zap.NewNop(), 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
