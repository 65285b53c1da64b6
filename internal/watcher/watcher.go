// Package watcher turns raw filesystem notifications into debounced change
// batches so the serve loop rebuilds once per burst of edits instead of once
// per syscall.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const defaultDebounce = 300 * time.Millisecond

// EventType classifies a filesystem change.
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
	EventRenamed
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	case EventRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent is a single debounced filesystem change.
type ChangeEvent struct {
	Type EventType
	Path string
}

// Filter reports whether a path is interesting. Paths that fail any filter
// are dropped before debouncing.
type Filter func(path string) bool

// Handler receives a deduplicated batch of changes after the debounce window
// closes.
type Handler func(ctx context.Context, events []ChangeEvent) error

// Watcher watches directories recursively and delivers debounced batches.
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   interfaces.Logger
	debounce time.Duration
	filters  []Filter
	handler  Handler

	mu      sync.Mutex
	pending map[string]ChangeEvent
	timer   *time.Timer
	batches chan []ChangeEvent
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger injects the logger used for watch errors.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithFilter appends a path filter.
func WithFilter(filter Filter) Option {
	return func(w *Watcher) {
		if filter != nil {
			w.filters = append(w.filters, filter)
		}
	}
}

// New creates a watcher that calls handler with each debounced batch.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watcher: handler is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		logger:   logging.NoOp(),
		debounce: defaultDebounce,
		handler:  handler,
		pending:  map[string]ChangeEvent{},
		batches:  make(chan []ChangeEvent, 8),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches a single directory.
func (w *Watcher) Add(path string) error {
	if err := w.fsw.Add(path); err != nil {
		return fmt.Errorf("watcher: add %s: %w", path, err)
	}
	return nil
}

// AddRecursive watches root and every directory below it.
func (w *Watcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if ignoredDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// Start runs the watch and dispatch loops until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
	go w.dispatchLoop(ctx)
}

// Close stops the underlying notifier.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Newly created directories need their own watch so nested edits are seen.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !ignoredDir(filepath.Base(event.Name)) {
				if err := w.Add(event.Name); err != nil {
					w.logger.Warn("watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	for _, filter := range w.filters {
		if !filter(event.Name) {
			return
		}
	}

	change := ChangeEvent{Path: event.Name, Type: eventType(event.Op)}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[change.Path] = change
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	events := make([]ChangeEvent, 0, len(w.pending))
	for _, event := range w.pending {
		events = append(events, event)
	}
	w.pending = map[string]ChangeEvent{}
	w.mu.Unlock()

	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })

	select {
	case w.batches <- events:
	default:
		w.logger.Warn("dropping change batch, dispatch backlog full", "events", len(events))
	}
}

func (w *Watcher) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-w.batches:
			if err := w.handler(ctx, events); err != nil {
				w.logger.Error("change handler failed", "error", err, "events", len(events))
			}
		}
	}
}

func eventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreated
	case op.Has(fsnotify.Remove):
		return EventDeleted
	case op.Has(fsnotify.Rename):
		return EventRenamed
	default:
		return EventModified
	}
}

func ignoredDir(name string) bool {
	switch name {
	case ".git", ".press", "node_modules":
		return true
	}
	return false
}

// MarkdownFilter keeps Markdown sources.
func MarkdownFilter(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// SiteSourceFilter keeps everything a build consumes: Markdown, templates
// and static assets. Editor swap files and hidden entries are dropped.
func SiteSourceFilter(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	return true
}
