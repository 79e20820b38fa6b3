package eventloop

import (
	"container/heap"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/pgline/internal/logging"
)

// Loop is a readiness-driven event loop.
type Loop struct {
	log *logging.Logger

	wakeR, wakeW int

	mu       sync.Mutex
	calls    []func()
	signaled bool
	closed   bool
	readers  map[int]func()
	timers   timerHeap
	timerSeq uint64

	inputTimeout      time.Duration
	onInputTimeout    func()
	lastInput         time.Time
	inputTimeoutFired bool

	exceptionHandler func(error)

	running atomic.Bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(l *logging.Logger) Option {
	return func(loop *Loop) {
		loop.log = l.WithComponent("eventloop")
	}
}

// New creates a loop and its wake pipe. Close releases the pipe.
func New(opts ...Option) (*Loop, error) {
	r, w, err := newWakePipe()
	if err != nil {
		return nil, fmt.Errorf("create wake pipe: %w", err)
	}
	l := &Loop{
		log:     logging.Nop(),
		wakeR:   r,
		wakeW:   w,
		readers: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Close releases the loop's resources. Queued calls are dropped.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.calls = nil
	l.mu.Unlock()

	err := closeFd(l.wakeW)
	if rerr := closeFd(l.wakeR); err == nil {
		err = rerr
	}
	return err
}

// Running reports whether RunUntilComplete is in progress.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// RunUntilComplete pumps the loop on the calling goroutine until f is
// resolved. It does not return f's result; use f.Result.
func (l *Loop) RunUntilComplete(f *Future) error {
	if l.isClosed() {
		return ErrLoopClosed
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for !f.Done() {
		if err := l.runOnce(); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) runOnce() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	timeout := l.pollTimeoutLocked(time.Now())
	fds := make([]int, 0, len(l.readers)+1)
	for fd := range l.readers {
		fds = append(fds, fd)
	}
	l.mu.Unlock()

	sort.Ints(fds)
	fds = append(fds, l.wakeR)

	ready, err := pollReadable(fds, timeout)
	if err != nil {
		return fmt.Errorf("poll: %w", err)
	}

	// Input first, then the cross-thread queue.
	woken := false
	for _, fd := range ready {
		if fd == l.wakeR {
			woken = true
			continue
		}
		l.mu.Lock()
		cb := l.readers[fd]
		if cb != nil {
			l.lastInput = time.Now()
			l.inputTimeoutFired = false
		}
		l.mu.Unlock()
		if cb != nil {
			l.invoke(cb)
		}
	}

	if woken {
		drain(l.wakeR)
	}
	l.runCalls()
	l.runTimers()
	l.checkInputTimeout()
	return nil
}

// pollTimeoutLocked returns how long the next poll may block; negative
// means no deadline.
func (l *Loop) pollTimeoutLocked(now time.Time) time.Duration {
	if len(l.calls) > 0 {
		return 0
	}
	timeout := time.Duration(-1)
	if len(l.timers) > 0 {
		timeout = max(l.timers[0].when.Sub(now), 0)
	}
	if l.onInputTimeout != nil && !l.inputTimeoutFired {
		d := max(l.lastInput.Add(l.inputTimeout).Sub(now), 0)
		if timeout < 0 || d < timeout {
			timeout = d
		}
	}
	return timeout
}

func (l *Loop) runCalls() {
	l.mu.Lock()
	calls := l.calls
	l.calls = nil
	l.signaled = false
	l.mu.Unlock()

	for _, fn := range calls {
		l.invoke(fn)
	}
}

func (l *Loop) runTimers() {
	l.mu.Lock()
	due := l.timers.popDue(time.Now())
	l.mu.Unlock()

	for _, t := range due {
		l.invoke(t.fn)
	}
}

func (l *Loop) checkInputTimeout() {
	l.mu.Lock()
	cb := l.onInputTimeout
	if cb == nil || l.inputTimeoutFired || time.Since(l.lastInput) < l.inputTimeout {
		l.mu.Unlock()
		return
	}
	l.inputTimeoutFired = true
	l.mu.Unlock()

	l.invoke(cb)
}

// invoke runs fn on the loop thread, turning a panic into a PanicError for
// the exception handler.
func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.HandleException(&PanicError{Value: r, Stack: debug.Stack()})
		}
	}()
	fn()
}

// CallFromExecutor schedules fn on the loop thread. It is safe to call from
// any goroutine. Calls run in FIFO order.
func (l *Loop) CallFromExecutor(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.calls = append(l.calls, fn)
	needWake := !l.signaled
	l.signaled = true
	l.mu.Unlock()

	if needWake {
		wake(l.wakeW)
	}
}

// CallLater schedules fn on the loop thread after d. The returned function
// cancels the timer if it has not fired yet.
func (l *Loop) CallLater(d time.Duration, fn func()) (cancel func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return func() {}
	}
	l.timerSeq++
	t := &timer{when: time.Now().Add(d), seq: l.timerSeq, fn: fn}
	heap.Push(&l.timers, t)
	l.mu.Unlock()

	// The loop may be blocked in poll with a longer deadline.
	l.wakeup()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if t.index >= 0 && t.index < len(l.timers) && l.timers[t.index] == t {
			heap.Remove(&l.timers, t.index)
		}
	}
}

func (l *Loop) wakeup() {
	l.mu.Lock()
	needWake := !l.signaled && !l.closed
	l.signaled = true
	l.mu.Unlock()
	if needWake {
		wake(l.wakeW)
	}
}

// RunInExecutor runs fn on a new goroutine and returns a future for its
// result. fn must not touch loop-owned state.
func (l *Loop) RunInExecutor(fn func() (any, error)) *Future {
	f := NewFuture(l)
	go func() {
		v, err := l.protect(fn)
		if err != nil {
			_ = f.SetError(err)
			return
		}
		_ = f.SetResult(v)
	}()
	return f
}

func (l *Loop) protect(fn func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// AddReader calls cb on the loop thread whenever fd is readable.
func (l *Loop) AddReader(fd int, cb func()) {
	l.mu.Lock()
	l.readers[fd] = cb
	l.mu.Unlock()
	l.wakeup()
}

// RemoveReader stops watching fd.
func (l *Loop) RemoveReader(fd int) {
	l.mu.Lock()
	delete(l.readers, fd)
	l.mu.Unlock()
}

// SetInputTimeout arranges for cb to run once on the loop thread when no
// reader has fired for d after the last input. A nil cb disables it.
func (l *Loop) SetInputTimeout(d time.Duration, cb func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inputTimeout = d
	l.onInputTimeout = cb
	l.lastInput = time.Now()
	l.inputTimeoutFired = true
}

// SetExceptionHandler installs h for errors nobody else handles: panics in
// loop callbacks and failures of detached futures. It returns the previous
// handler. A nil handler restores logging.
func (l *Loop) SetExceptionHandler(h func(error)) (previous func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	previous = l.exceptionHandler
	l.exceptionHandler = h
	return previous
}

// HandleException passes err to the exception handler, or logs it.
func (l *Loop) HandleException(err error) {
	l.mu.Lock()
	h := l.exceptionHandler
	l.mu.Unlock()

	if h == nil {
		l.log.Error("unhandled exception in event loop: %v", err)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("exception handler panicked: %v (handling %v)", r, err)
		}
	}()
	h(err)
}

// Detach marks f as fire-and-forget. If it fails, the error goes to the
// exception handler instead of being dropped.
func (l *Loop) Detach(f *Future) {
	f.AddDoneCallback(func(f *Future) {
		if err := f.Err(); err != nil {
			l.HandleException(err)
		}
	})
}

// Sleep returns a future that resolves with nil after d.
func (l *Loop) Sleep(d time.Duration) *Future {
	f := NewFuture(l)
	l.CallLater(d, func() { _ = f.SetResult(nil) })
	return f
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
