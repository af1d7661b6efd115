package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := New(Config{Debounce: 50 * time.Millisecond}, dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	t.Cleanup(cancel)
	if _, err := w.Prime(); err != nil {
		t.Fatalf("prime: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })
	time.Sleep(100 * time.Millisecond)
	return w
}

func nextEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for event")
		return Event{}
	}
}

func expectQuiet(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	w, err := New(Config{Extensions: []string{"JSON", ".yaml"}}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Stop()
	if w.cfg.Debounce != DefaultConfig().Debounce {
		t.Fatalf("unexpected debounce %v", w.cfg.Debounce)
	}
	if !w.extensions[".json"] || !w.extensions[".yaml"] || !w.excludes[".git"] {
		t.Fatalf("unexpected sets %v %v", w.extensions, w.excludes)
	}
}

func TestPrimeRecordsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), "{}")
	writeFile(t, filepath.Join(dir, "sub", "b.JSON"), "[]")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, ".git", "c.json"), "{}")

	w, err := New(Config{}, dir, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Stop()
	found, err := w.Prime()
	if err != nil {
		t.Fatalf("prime: %v", err)
	}
	slices.Sort(found)
	if !slices.Equal(found, []string{"a.json", "sub/b.JSON"}) {
		t.Fatalf("unexpected files %v", found)
	}
	if h, ok := w.Hash("a.json"); !ok || h != ContentHash([]byte("{}")) {
		t.Fatalf("hash not recorded: %q", h)
	}
}

func TestWatcherReportsCreate(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)
	writeFile(t, filepath.Join(dir, "model.json"), `{"elements":[]}`)
	ev := nextEvent(t, w)
	if ev.Operation != OpCreate || ev.Path != "model.json" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestWatcherReportsModify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	writeFile(t, path, "{}")
	w := startWatcher(t, dir)
	writeFile(t, path, `{"globals":{}}`)
	ev := nextEvent(t, w)
	if ev.Operation != OpModify || ev.AbsPath != path {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestWatcherReportsDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	writeFile(t, path, "{}")
	w := startWatcher(t, dir)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ev := nextEvent(t, w)
	if ev.Operation != OpDelete || ev.Path != "model.json" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if _, ok := w.Hash("model.json"); ok {
		t.Fatalf("hash must be forgotten after delete")
	}
}

func TestWatcherSkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	writeFile(t, path, "{}")
	w := startWatcher(t, dir)
	writeFile(t, path, "{}")
	expectQuiet(t, w)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	w := startWatcher(t, dir)
	writeFile(t, filepath.Join(dir, "readme.md"), "# model")
	writeFile(t, filepath.Join(dir, ".git", "HEAD.json"), "{}")
	expectQuiet(t, w)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)
	sub := filepath.Join(dir, "floor2")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	writeFile(t, filepath.Join(sub, "model.json"), "{}")
	ev := nextEvent(t, w)
	if ev.Path != "floor2/model.json" || ev.Operation != OpCreate {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestEventsCloseOnStop(t *testing.T) {
	w := startWatcher(t, t.TempDir())
	_ = w.Stop()
	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("events channel not closed")
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
