package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/pgline/internal/logging"
)

// DefaultDebounce is how long a file must stay quiet before its change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// Op is a set of file operations.
type Op uint32

// File operations.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

// Has reports whether op includes o.
func (op Op) Has(o Op) bool { return op&o != 0 }

// String returns the operation names joined by "|".
func (op Op) String() string {
	names := []struct {
		op   Op
		name string
	}{{OpCreate, "create"}, {OpWrite, "write"}, {OpRemove, "remove"}, {OpRename, "rename"}}
	s := ""
	for _, n := range names {
		if op.Has(n.op) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Event is a debounced change to a watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string
	// Op combines every operation seen during the debounce window.
	Op   Op
	Time time.Time
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before an event is reported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l.WithComponent("config")
	}
}

// pendingEvent tracks a debounced event.
type pendingEvent struct {
	ops   Op
	timer *time.Timer
}

// Watcher reports changes to individual files. It watches their parent
// directories, so files replaced by rename (as most editors save) and
// files that do not exist yet are both seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      *logging.Logger

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]int
	pending map[string]*pendingEvent
	closed  bool

	ready   chan string
	events  chan Event
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher with nothing watched.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: DefaultDebounce,
		log:      logging.Nop(),
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		pending:  make(map[string]*pendingEvent),
		ready:    make(chan string),
		events:   make(chan Event, 16),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch adds path to the watched files. The file need not exist, but its
// directory must.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(ExpandPath(path))
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	w.log.Debug("watching %s", abs)
	return nil
}

// Unwatch stops reporting changes to path.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(ExpandPath(path))
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// Files returns the watched paths.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	return files
}

// Events returns the channel debounced events are delivered on. It is
// closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, p := range w.pending {
		p.timer.Stop()
	}
	w.pending = nil
	w.mu.Unlock()

	close(w.closeCh)
	err := w.fsw.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

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
			w.handle(ev)

		case path := <-w.ready:
			w.emit(path)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[path] {
		return
	}
	if p, ok := w.pending[path]; ok {
		p.ops |= op
		p.timer.Reset(w.debounce)
		return
	}
	p := &pendingEvent{ops: op}
	p.timer = time.AfterFunc(w.debounce, func() { w.fire(path) })
	w.pending[path] = p
}

// fire runs on the timer goroutine; the event is sent from processLoop so
// that Close can close the events channel safely.
func (w *Watcher) fire(path string) {
	select {
	case w.ready <- path:
	case <-w.closeCh:
	}
}

func (w *Watcher) emit(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	ev := Event{Path: path, Op: p.ops, Time: time.Now()}
	w.log.Debug("changed %s (%s)", path, ev.Op)
	select {
	case w.events <- ev:
	case <-w.closeCh:
	}
}

// convertOp converts fsnotify.Op to Op. Chmod is ignored.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
