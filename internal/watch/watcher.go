// Package watch reports debounced, content-filtered changes to model files
// below a directory.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const eventBuffer = 256

// Config configures a Watcher.
type Config struct {
	// Debounce is how long changes accumulate before they are reported.
	Debounce time.Duration `yaml:"debounce"`
	// Extensions lists the file extensions to watch.
	Extensions []string `yaml:"extensions"`
	// ExcludeDirs lists directory names that are never watched.
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// DefaultConfig watches JSON model snapshots.
func DefaultConfig() Config {
	return Config{
		Debounce:    500 * time.Millisecond,
		Extensions:  []string{".json"},
		ExcludeDirs: []string{".git", "node_modules", "out"},
	}
}

// Operation is the kind of change reported for a file.
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event describes one file change.
type Event struct {
	// Path is relative to the watched directory.
	Path      string
	AbsPath   string
	Operation Operation
}

// Watcher emits an Event for each watched file whose content changed.
type Watcher struct {
	cfg        Config
	dir        string
	fsw        *fsnotify.Watcher
	logger     *slog.Logger
	extensions map[string]bool
	excludes   map[string]bool

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]string

	events  chan Event
	dropped atomic.Int64
}

// New creates a watcher rooted at dir. Empty config fields take their
// DefaultConfig values.
func New(cfg Config, dir string, logger *slog.Logger) (*Watcher, error) {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = def.Extensions
	}
	if len(cfg.ExcludeDirs) == 0 {
		cfg.ExcludeDirs = def.ExcludeDirs
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	extensions := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}
	excludes := make(map[string]bool, len(cfg.ExcludeDirs))
	for _, d := range cfg.ExcludeDirs {
		excludes[d] = true
	}
	return &Watcher{
		cfg:        cfg,
		dir:        dir,
		fsw:        fsw,
		logger:     logger,
		extensions: extensions,
		excludes:   excludes,
		pending:    make(map[string]fsnotify.Op),
		hashes:     make(map[string]string),
		events:     make(chan Event, eventBuffer),
	}, nil
}

// Events returns the change channel. It is closed when the watcher stops.
func (w *Watcher) Events() <-chan Event { return w.events }

// DroppedEvents reports how many events were discarded on a full channel.
func (w *Watcher) DroppedEvents() int64 { return w.dropped.Load() }

// Start adds watches for dir and its subdirectories and begins processing.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.addRecursive(w.dir); err != nil {
		return err
	}
	go w.loop(ctx)
	w.logger.Info("watching model files", "dir", w.dir, "debounce", w.cfg.Debounce, "extensions", w.cfg.Extensions)
	return nil
}

// Stop releases the underlying watches.
func (w *Watcher) Stop() error { return w.fsw.Close() }

// Prime records the current content hash of every watched file so that
// unchanged files are not reported later. It returns the relative paths found.
func (w *Watcher) Prime() ([]string, error) {
	var found []string
	err := filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.dir && w.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.watched(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel := w.rel(path)
		w.SetHash(rel, ContentHash(data))
		found = append(found, rel)
		return nil
	})
	return found, err
}

// SetHash records the content hash for a relative path.
func (w *Watcher) SetHash(rel, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[rel] = hash
}

// Hash returns the recorded content hash for a relative path.
func (w *Watcher) Hash(rel string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	h, ok := w.hashes[rel]
	return h, ok
}

// ContentHash is the hex sha256 of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (w *Watcher) skipDir(name string) bool {
	return w.excludes[name] || strings.HasPrefix(name, ".")
}

func (w *Watcher) watched(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.cfg.Debounce)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !w.watched(ev.Name) {
		if ev.Has(fsnotify.Create) {
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !w.skipDir(filepath.Base(ev.Name)) {
				if err := w.addRecursive(ev.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", ev.Name, "error", err)
				}
			}
		}
		return
	}
	w.pendingMu.Lock()
	w.pending[ev.Name] |= ev.Op
	w.pendingMu.Unlock()
}

func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := maps.Clone(w.pending)
	clear(w.pending)
	w.pendingMu.Unlock()

	for path, op := range batch {
		if ctx.Err() != nil {
			return
		}
		rel := w.rel(path)
		ev := Event{Path: rel, AbsPath: path}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			w.hashMu.Lock()
			_, known := w.hashes[rel]
			delete(w.hashes, rel)
			w.hashMu.Unlock()
			if known || op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
				ev.Operation = OpDelete
				w.send(ev)
			}
			continue
		}
		if err != nil {
			w.logger.Warn("failed to read changed file", "path", rel, "error", err)
			continue
		}
		hash := ContentHash(data)
		old, had := w.Hash(rel)
		if had && old == hash {
			continue
		}
		w.SetHash(rel, hash)
		ev.Operation = OpModify
		if !had {
			ev.Operation = OpCreate
		}
		w.send(ev)
	}
}

func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
		w.logger.Debug("model file changed", "path", ev.Path, "op", string(ev.Operation))
	default:
		n := w.dropped.Add(1)
		w.logger.Warn("event channel full, dropping event", "path", ev.Path, "total_dropped", n)
	}
}
