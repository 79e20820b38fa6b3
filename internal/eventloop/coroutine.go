package eventloop

import "runtime/debug"

type outcome struct {
	value any
	err   error
}

// Task is the handle a coroutine body uses to suspend.
//
// The body runs on its own goroutine, but control is handed back and forth
// with the loop thread: the loop blocks while the body runs and the body
// blocks while suspended. At no time do both run, so the body may touch
// loop-owned state.
type Task struct {
	loop   *Loop
	result *Future

	resume chan outcome
	yield  chan *Future
	finish chan outcome
}

// Spawn starts fn as a coroutine and returns a future for its result.
// The body runs synchronously up to its first Await before Spawn returns.
// Spawn must be called on the loop thread.
func Spawn(loop *Loop, fn func(t *Task) (any, error)) *Future {
	t := &Task{
		loop:   loop,
		result: NewFuture(loop),
		resume: make(chan outcome),
		yield:  make(chan *Future),
		finish: make(chan outcome),
	}
	go t.run(fn)
	t.step(outcome{})
	return t.result
}

// Loop returns the loop driving the task.
func (t *Task) Loop() *Loop {
	return t.loop
}

// Await suspends the body until f resolves and returns its value, or its
// error at the suspension point. Only the body's goroutine may call Await.
func (t *Task) Await(f *Future) (any, error) {
	t.yield <- f
	o := <-t.resume
	return o.value, o.err
}

func (t *Task) run(fn func(t *Task) (any, error)) {
	<-t.resume

	var out outcome
	func() {
		defer func() {
			if r := recover(); r != nil {
				out = outcome{err: &PanicError{Value: r, Stack: debug.Stack()}}
			}
		}()
		out.value, out.err = fn(t)
	}()
	t.finish <- out
}

// step hands control to the body and waits until it suspends or finishes.
func (t *Task) step(in outcome) {
	t.resume <- in
	select {
	case f := <-t.yield:
		f.AddDoneCallback(func(f *Future) {
			v, err := f.Result()
			t.step(outcome{value: v, err: err})
		})
	case out := <-t.finish:
		if out.err != nil {
			_ = t.result.SetError(out.err)
		} else {
			_ = t.result.SetResult(out.value)
		}
	}
}

// Go runs fn as a coroutine and detaches it, so a failure reaches the
// loop's exception handler.
func (l *Loop) Go(fn func(t *Task) (any, error)) *Future {
	f := Spawn(l, fn)
	l.Detach(f)
	return f
}
