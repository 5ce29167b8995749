package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kalambet/mercuryprefs/internal/settings"
)

type countingReloader struct {
	calls atomic.Int32
}

func (c *countingReloader) Reload() error {
	c.calls.Add(1)
	return nil
}

func startWatcher(t *testing.T, path string, target Reloader, debounce time.Duration) {
	t.Helper()
	w, err := New(path, target,
		WithDebounce(debounce),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// TestBurstCoalesced verifies several quick writes produce a single reload.
func TestBurstCoalesced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app-config.json")
	r := &countingReloader{}
	startWatcher(t, path, r, 150*time.Millisecond)

	for i := range 5 {
		if err := os.WriteFile(path, []byte(strings.Repeat("x", i+1)), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, "reload", func() bool { return r.calls.Load() > 0 })
	time.Sleep(300 * time.Millisecond)
	if n := r.calls.Load(); n != 1 {
		t.Errorf("reloads = %d, want 1", n)
	}
}

// TestOtherFilesIgnored verifies neighbours of the settings file do not trigger reloads.
func TestOtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	r := &countingReloader{}
	startWatcher(t, filepath.Join(dir, "app-config.json"), r, 20*time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if n := r.calls.Load(); n != 0 {
		t.Errorf("reloads = %d, want 0", n)
	}
}

// TestExternalEditReachesStore verifies an edit made outside the store is picked up.
func TestExternalEditReachesStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app-config.json")
	store := settings.New(path, settings.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	startWatcher(t, path, store, 20*time.Millisecond)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	edited := strings.Replace(string(data), `"decayTime": 0`, `"decayTime": 12`, 1)
	if err := os.WriteFile(path, []byte(edited), 0o600); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "decayTime=12", func() bool { return store.DecayTime() == 12 })
}
