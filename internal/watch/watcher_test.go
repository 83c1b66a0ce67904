package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"stubdex/internal/index"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestWatcher(t *testing.T, root string, debounce time.Duration) (*Watcher, *index.Store) {
	t.Helper()
	store, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	w, err := New(store, []string{root}, []string{".rb"}, debounce)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w, store
}

func TestStartStop(t *testing.T) {
	root := t.TempDir()
	w, _ := newTestWatcher(t, root, 50*time.Millisecond)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Second Start is a no-op, not a second event loop.
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	w.Stop()
	// Stop after Stop must not panic or block.
	w.Stop()
}

func TestWriteUpdatesIndex(t *testing.T) {
	root := t.TempDir()
	w, store := newTestWatcher(t, root, 50*time.Millisecond)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(root, "string.rb")
	src := "# A sequence of characters.\nclass String\n  # Length.\n  def size()\n  end\nend\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, 5*time.Second, func() bool {
		_, err := store.Lookup("String#size")
		return err == nil
	})

	stats := w.Stats()
	if stats.FilesUpdated == 0 {
		t.Errorf("stats = %+v, want FilesUpdated > 0", stats)
	}
}

func TestRemoveDropsFromIndex(t *testing.T) {
	root := t.TempDir()
	w, store := newTestWatcher(t, root, 50*time.Millisecond)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(root, "env.rb")
	if err := os.WriteFile(path, []byte("# ENV.\nmodule ENV\nend\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, 5*time.Second, func() bool {
		_, err := store.Lookup("ENV")
		return err == nil
	})

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, 5*time.Second, func() bool {
		_, err := store.Lookup("ENV")
		return err == index.ErrNotFound
	})
}

func TestIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	w, _ := newTestWatcher(t, root, 50*time.Millisecond)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if stats := w.Stats(); stats.EventsSeen != 0 {
		t.Errorf("stats = %+v, want no events for foreign extensions", stats)
	}
}

func TestContextCancelStopsLoop(t *testing.T) {
	root := t.TempDir()
	w, _ := newTestWatcher(t, root, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	select {
	case <-w.doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("event loop did not exit on context cancellation")
	}
	// Close the fsnotify watcher; the loop is already gone.
	if err := w.watcher.Close(); err != nil {
		t.Errorf("close watcher: %v", err)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
