package eventloop

import "sync"

type futureState int

const (
	statePending futureState = iota
	stateDone
	stateFailed
)

// Future is a single-assignment result container. It transitions exactly
// once from pending to done or failed. Resolving is safe from any goroutine;
// callbacks run on the owning loop.
type Future struct {
	loop *Loop

	mu        sync.Mutex
	state     futureState
	value     any
	err       error
	callbacks []func(*Future)
}

// NewFuture creates a pending future owned by loop.
func NewFuture(loop *Loop) *Future {
	return &Future{loop: loop}
}

// Succeed returns a future already resolved with value.
func Succeed(loop *Loop, value any) *Future {
	return &Future{loop: loop, state: stateDone, value: value}
}

// Fail returns a future already failed with err.
func Fail(loop *Loop, err error) *Future {
	if err == nil {
		err = ErrNilError
	}
	return &Future{loop: loop, state: stateFailed, err: err}
}

// Loop returns the owning loop.
func (f *Future) Loop() *Loop {
	return f.loop
}

// SetResult resolves the future with value.
// It returns ErrFutureDone if the future was already resolved.
func (f *Future) SetResult(value any) error {
	return f.resolve(stateDone, value, nil)
}

// SetError fails the future with err.
// It returns ErrFutureDone if the future was already resolved.
func (f *Future) SetError(err error) error {
	if err == nil {
		return ErrNilError
	}
	return f.resolve(stateFailed, nil, err)
}

func (f *Future) resolve(state futureState, value any, err error) error {
	f.mu.Lock()
	if f.state != statePending {
		f.mu.Unlock()
		return ErrFutureDone
	}
	f.state = state
	f.value = value
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	for _, cb := range callbacks {
		f.schedule(cb)
	}
	return nil
}

// AddDoneCallback registers cb to run exactly once on the loop after the
// future resolves. If it is already resolved, cb is scheduled right away.
func (f *Future) AddDoneCallback(cb func(*Future)) {
	f.mu.Lock()
	if f.state == statePending {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.schedule(cb)
}

func (f *Future) schedule(cb func(*Future)) {
	f.loop.CallFromExecutor(func() { cb(f) })
}

// Done returns true once the future is resolved.
func (f *Future) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state != statePending
}

// Result returns the value or error of a resolved future, or
// ErrFutureNotDone while it is pending.
func (f *Future) Result() (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case stateDone:
		return f.value, nil
	case stateFailed:
		return nil, f.err
	default:
		return nil, ErrFutureNotDone
	}
}

// Err returns the failure of a resolved future, nil if it succeeded, or
// ErrFutureNotDone while pending.
func (f *Future) Err() error {
	_, err := f.Result()
	return err
}
