// Package watch reloads open documents when their files change on disk.
//
// The watcher subscribes to the parent directory of every watched file, so
// editors that save by writing a temporary file and renaming it over the
// original are still seen. Bursts of events for one file are debounced
// into a single reload.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/dshills/scoop/internal/logging"
	"github.com/dshills/scoop/internal/workspace"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// DefaultDebounce is the quiet period before a changed file is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Registry is the part of the document registry the watcher reloads
// through. *workspace.Registry implements it.
type Registry interface {
	All() []*workspace.Document
	FindByPath(path string) (*workspace.Document, bool)
	Reload(id uuid.UUID, force bool) (bool, error)
}

// Event reports the outcome of one reload attempt.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string

	// DocumentID is the reloaded document, or uuid.Nil when the change
	// could not be matched to one.
	DocumentID uuid.UUID

	// Changed is true if the document content was replaced.
	Changed bool

	// Err is the reload or watch error, if any.
	Err error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before reloading.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithForce reloads documents even when they have unsaved changes.
func WithForce(force bool) Option {
	return func(w *Watcher) {
		w.force = force
	}
}

// WithBufferSize sets the capacity of the event channel.
func WithBufferSize(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.bufSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher reloads registry documents whose files change.
type Watcher struct {
	mu sync.Mutex

	fsw *fsnotify.Watcher
	reg Registry

	files   map[string]bool // watched file paths
	dirs    map[string]int  // watched directories, by file count
	pending map[string]*time.Timer

	delay   time.Duration
	force   bool
	bufSize int
	logger  *logging.Logger

	events  chan Event
	fire    chan string
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher that reloads documents through reg.
func New(reg Registry, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		reg:     reg,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		pending: make(map[string]*time.Timer),
		delay:   DefaultDebounce,
		bufSize: 100,
		logger:  logging.Nop(),
		fire:    make(chan string),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("watch")
	w.events = make(chan Event, w.bufSize)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch starts watching a file.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrPathNotExist
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	w.logger.Debug("watching %s", absPath)
	return nil
}

// WatchRegistry watches the file of every registry document that has one.
// Files already watched are skipped.
func (w *Watcher) WatchRegistry() error {
	for _, doc := range w.reg.All() {
		if doc.IsScratch() {
			continue
		}
		if err := w.Watch(doc.Path); err != nil && !errors.Is(err, ErrAlreadyWatching) {
			return err
		}
	}
	return nil
}

// Unwatch stops watching a file.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[absPath] {
		return ErrNotWatching
	}

	delete(w.files, absPath)
	if t, ok := w.pending[absPath]; ok {
		t.Stop()
		delete(w.pending, absPath)
	}
	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// IsWatching returns true if the file is being watched.
func (w *Watcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[absPath]
}

// Events returns the reload event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	return w.fsw.Close()
}

// processLoop handles fsnotify events and debounced reloads.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
			w.send(Event{Err: err})

		case path := <-w.fire:
			w.reload(path)
		}
	}
}

// handleFSEvent schedules a reload when a watched file is written or
// replaced.
func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.delay)
		return
	}
	w.pending[path] = time.AfterFunc(w.delay, func() {
		select {
		case w.fire <- path:
		case <-w.closeCh:
		}
	})
}

// reload runs on the process loop once a file has been quiet.
func (w *Watcher) reload(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	doc, ok := w.reg.FindByPath(path)
	if !ok {
		w.logger.Debug("no open document for %s", path)
		return
	}

	changed, err := w.reg.Reload(doc.ID, w.force)
	switch {
	case err != nil:
		w.logger.WithField("path", path).Warn("reload failed: %v", err)
	case changed:
		w.logger.WithField("path", path).Info("reloaded %s", doc.Name)
	}
	w.send(Event{Path: path, DocumentID: doc.ID, Changed: changed, Err: err})
}

// send delivers an event, dropping it if the channel is full.
func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
	default:
		w.logger.Warn("event channel full, dropping event for %s", ev.Path)
	}
}
