// Package watcher imports chat exports dropped into the data directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driving"
	"github.com/custodia-labs/bizassist/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is imported.
const DefaultDebounce = 2 * time.Second

// exportExt is the extension of WhatsApp chat exports.
const exportExt = ".txt"

// Event reports one import attempt.
type Event struct {
	Path   string
	Result domain.IngestResult
	Err    error
}

// Watcher ingests new or changed chat exports in a directory.
type Watcher struct {
	host     driving.Host
	dir      string
	debounce time.Duration

	// ingested maps a path to the modification time it was imported at.
	ingested map[string]time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is imported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over dir that imports through host.
func New(host driving.Host, dir string, opts ...Option) *Watcher {
	w := &Watcher{
		host:     host,
		dir:      dir,
		debounce: DefaultDebounce,
		ingested: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. onEvent, if not nil, is called after
// every import attempt from the Run goroutine.
func (w *Watcher) Run(ctx context.Context, onEvent func(Event)) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for chat exports", w.dir)

	ready := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			path, ok := w.handleFsEvent(event)
			if !ok {
				continue
			}
			if t, exists := timers[path]; exists {
				t.Reset(w.debounce)
				continue
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(timers, path)
			if ev, imported := w.importFile(ctx, path); imported && onEvent != nil {
				onEvent(ev)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleFsEvent returns the path to import for a relevant event.
// Only creates and writes of visible, regular .txt files qualify.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), exportExt) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// importFile ingests path unless it was already imported at its current
// modification time.
func (w *Watcher) importFile(ctx context.Context, path string) (Event, bool) {
	info, err := os.Stat(path)
	if err != nil {
		logger.Debug("Skipping %s: %v", path, err)
		return Event{}, false
	}
	if last, ok := w.ingested[path]; ok && last.Equal(info.ModTime()) {
		logger.Debug("Skipping %s: unchanged", path)
		return Event{}, false
	}

	result, err := w.host.Ingest(ctx, domain.SourceWhatsApp, path)
	if err != nil {
		logger.Error("Import of %s failed: %v", path, err)
		return Event{Path: path, Err: err}, true
	}

	w.ingested[path] = info.ModTime()
	logger.Info("Imported %s: %d records", path, result.DocumentsProcessed)
	return Event{Path: path, Result: result}, true
}
