package app

import (
	"time"

	"github.com/dshills/pgline/internal/eventloop"
	"github.com/dshills/pgline/internal/logging"
)

// run holds what one RunAsync call set up and must tear down.
type run struct {
	id     string
	log    *logging.Logger
	exit   *eventloop.Future
	result *eventloop.Future

	restoreMode     func()
	detachInput     func()
	stopResize      func()
	stopRefresh     func()
	previousHandler func(error)
}

// Run runs the application on its loop until it finishes and returns the
// value passed to Exit, or the error passed to Abort.
func (a *Application) Run() (any, error) {
	if a.loop.Running() {
		return nil, ErrAlreadyRunning
	}
	f := a.RunAsync()
	if err := a.loop.RunUntilComplete(f); err != nil {
		return nil, err
	}
	return f.Result()
}

// RunAsync starts a run and returns a future for its result. It must be
// called on the loop thread. The future resolves once the terminal has
// been restored.
func (a *Application) RunAsync() *eventloop.Future {
	if !a.running.CompareAndSwap(false, true) {
		return eventloop.Fail(a.loop, ErrAlreadyRunning)
	}

	r := &run{
		id:     newRunID(),
		exit:   eventloop.NewFuture(a.loop),
		result: eventloop.NewFuture(a.loop),
	}
	r.log = a.log.WithField("run", r.id)
	a.run = r
	a.done = false
	a.invalidated.Store(false)
	a.processor.Reset()
	a.renderer.Reset(false)

	restore, err := a.input.RawMode()
	if err != nil {
		a.running.Store(false)
		return eventloop.Fail(a.loop, NewOperationError("enter", "raw mode", err))
	}
	r.restoreMode = restore
	r.log.Debug("run started")

	r.previousHandler = a.loop.SetExceptionHandler(a.handleException)
	r.stopResize = a.watchResize()
	r.stopRefresh = a.startRefresh()

	a.renderer.RequestAbsoluteCursorPosition()
	a.redraw()

	r.detachInput = a.input.Attach(a.loop, a.readInput)
	a.loop.SetInputTimeout(a.opts.TTimeout, a.flushInput)

	if keys := a.input.TakeTypeahead(); len(keys) > 0 {
		a.processor.FeedMultiple(keys, false)
		a.processor.ProcessKeys()
	}

	r.exit.AddDoneCallback(func(*eventloop.Future) { a.finishRun(r) })
	return r.result
}

// readInput runs on the loop when the input is readable.
func (a *Application) readInput() {
	keys := a.input.ReadKeys()
	a.processor.FeedMultiple(keys, false)
	a.processor.ProcessKeys()

	if a.input.Closed() && a.run != nil && !a.run.exit.Done() {
		a.run.log.Debug("end of input")
		_ = a.Abort(ErrEOF)
	}
}

// flushInput runs on the loop when no input arrived for TTimeout, so that
// a lone escape byte becomes the escape key.
func (a *Application) flushInput() {
	keys := a.input.FlushKeys()
	if len(keys) == 0 {
		return
	}
	a.processor.FeedMultiple(keys, false)
	a.processor.ProcessKeys()
}

// finishRun tears the run down once Exit or Abort resolved r.exit. Keys
// read but not handled are kept on the input for the next run. Pending
// cursor position reports are waited for first, so their answers are not
// left in the terminal's input.
func (a *Application) finishRun(r *run) {
	a.renderer.WaitForCPRResponses(DefaultCPRTimeout).AddDoneCallback(func(*eventloop.Future) {
		if a.opts.EraseWhenDone {
			a.renderer.Erase(true)
		} else {
			a.renderer.Render(a.layout, true)
		}

		r.detachInput()
		a.input.StoreTypeahead(a.processor.EmptyQueue())
		a.loop.SetInputTimeout(0, nil)
		r.stopRefresh()
		r.stopResize()
		r.restoreMode()
		a.loop.SetExceptionHandler(r.previousHandler)

		a.running.Store(false)
		v, err := r.exit.Result()
		if err != nil {
			r.log.Debug("run aborted: %v", err)
			_ = r.result.SetError(err)
			return
		}
		r.log.Debug("run finished")
		_ = r.result.SetResult(v)
	})
}

// startRefresh invalidates every RefreshInterval until the returned
// function is called.
func (a *Application) startRefresh() func() {
	if a.opts.RefreshInterval <= 0 {
		return func() {}
	}
	stop := make(chan struct{})
	ticker := time.NewTicker(a.opts.RefreshInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				a.Invalidate()
			}
		}
	}()
	return func() { close(stop) }
}

// onResize erases the frame, which is no longer where the renderer
// thinks, asks for the cursor position again and redraws.
func (a *Application) onResize() {
	if !a.running.Load() || a.done {
		return
	}
	a.log.Debug("terminal resized to %s", a.output.Size())
	a.renderer.Erase(false)
	a.renderer.RequestAbsoluteCursorPosition()
	a.redraw()
}
