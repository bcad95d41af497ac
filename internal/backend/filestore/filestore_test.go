package filestore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskboard/internal/backend/filestore"
	"taskboard/internal/storage"
)

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	st, err := filestore.New(filepath.Join(t.TempDir(), "boards"))
	require.NoError(t, err)

	_, found, err := st.GetItem(ctx, "task-store")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, st.SetItem(ctx, "task-store", []byte(`{"v":1}`)))
	require.NoError(t, st.SetItem(ctx, "task-store", []byte(`{"v":2}`)))

	data, found, err := st.GetItem(ctx, "task-store")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `{"v":2}`, string(data))

	info, err := os.Stat(filepath.Join(st.Dir(), "task-store.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, st.RemoveItem(ctx, "task-store"))
	require.NoError(t, st.RemoveItem(ctx, "task-store"))

	_, found, err = st.GetItem(ctx, "task-store")
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_LeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	st, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, st.SetItem(ctx, "a", []byte("1")))

	entries, err := os.ReadDir(st.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a.json", entries[0].Name())
}

func TestStore_RejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	st, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", `a\b`, ".."} {
		err := st.SetItem(ctx, key, []byte("x"))
		require.True(t, errors.Is(err, storage.ErrInvalidKey), "key %q: %v", key, err)
	}
}

func TestStore_WatchReportsExternalWrites(t *testing.T) {
	dir := t.TempDir()
	watched, err := filestore.New(dir)
	require.NoError(t, err)
	writer, err := filestore.New(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watched.Watch(ctx, "task-store", func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// The watcher is registered asynchronously; keep writing until it reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	seen := false
	for !seen {
		select {
		case <-changed:
			seen = true
		case <-tick.C:
			require.NoError(t, writer.SetItem(context.Background(), "task-store", []byte("{}")))
		case <-deadline:
			t.Fatal("watch did not report the write")
		}
	}

	// Writes to other keys are ignored.
	time.Sleep(200 * time.Millisecond)
	for len(changed) > 0 {
		<-changed
	}
	require.NoError(t, writer.SetItem(context.Background(), "other", []byte("{}")))
	select {
	case <-changed:
		t.Fatal("unexpected change for another key")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}
