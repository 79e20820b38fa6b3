package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/pgline/internal/eventloop"
	"github.com/dshills/pgline/internal/input/keymap"
	"github.com/dshills/pgline/internal/renderer/layout"
)

// RunInTerminal runs fn with the prompt erased and the terminal in cooked
// mode, then draws the prompt again. fn runs on the loop thread. It must
// be called on the loop thread.
func (a *Application) RunInTerminal(fn func() (any, error)) *eventloop.Future {
	return a.RunCoroutineInTerminal(func(*eventloop.Task) (any, error) {
		return fn()
	})
}

// RunCoroutineInTerminal is RunInTerminal for a coroutine body, which may
// await futures while it owns the terminal. Requests made while another
// one is in progress wait for it. It must be called on the loop thread.
func (a *Application) RunCoroutineInTerminal(body func(t *eventloop.Task) (any, error)) *eventloop.Future {
	previous := a.terminal
	f := eventloop.Spawn(a.loop, func(t *eventloop.Task) (any, error) {
		if previous != nil {
			// Its failure belongs to whoever started it.
			_, _ = t.Await(previous)
		}
		if !a.running.Load() {
			return body(t)
		}

		if _, err := t.Await(a.renderer.WaitForCPRResponses(DefaultCPRTimeout)); err != nil {
			a.log.Warn("waiting for cursor position: %v", err)
		}
		a.renderer.Erase(false)
		reattach := a.input.Detach(a.loop)
		restoreMode, err := a.input.CookedMode()
		if err != nil {
			reattach()
			a.redraw()
			return nil, NewOperationError("enter", "cooked mode", err)
		}
		defer func() {
			restoreMode()
			reattach()
			if a.running.Load() {
				// A nested application may have replaced the input timeout.
				a.loop.SetInputTimeout(a.opts.TTimeout, a.flushInput)
			}
			a.renderer.RequestAbsoluteCursorPosition()
			a.redraw()
		}()
		return body(t)
	})
	a.terminal = f
	return f
}

// PrintAbove writes text above the prompt.
func (a *Application) PrintAbove(text string) *eventloop.Future {
	return a.RunInTerminal(func() (any, error) {
		out := a.output
		out.Write(strings.ReplaceAll(text, "\n", "\r\n"))
		return nil, out.Flush()
	})
}

// handleException is the loop's exception handler while a run is in
// progress. The error is printed above the prompt and the user has to
// press Enter before the prompt comes back.
func (a *Application) handleException(err error) {
	a.log.Error("unhandled exception: %v", err)

	var pe *eventloop.PanicError
	detail := err.Error()
	if errors.As(err, &pe) {
		detail = fmt.Sprintf("%v\n%s", pe.Value, pe.Stack)
	}

	f := a.RunCoroutineInTerminal(func(t *eventloop.Task) (any, error) {
		out := a.output
		out.Write(strings.ReplaceAll("\nUnhandled exception in event loop:\n"+detail+"\n", "\n", "\r\n"))
		out.Write("Press ENTER to continue...")
		if err := out.Flush(); err != nil {
			return nil, err
		}
		_, err := t.Await(a.confirm())
		return nil, err
	})
	f.AddDoneCallback(func(f *eventloop.Future) {
		if err := f.Err(); err != nil {
			a.log.Error("showing exception: %v", err)
		}
	})
}

// confirm runs a nested application on the same terminal that finishes
// when Enter is pressed.
func (a *Application) confirm() *eventloop.Future {
	reg := keymap.NewRegistry()
	var nested *Application
	exit := keymap.HandlerFunc(func(e *keymap.Event) error { return nested.Exit(nil) })
	reg.MustAdd("enter", exit, keymap.Named("accept"))
	reg.MustAdd("c-c", exit, keymap.Named("accept"))
	reg.MustAdd("<any>", keymap.HandlerFunc(func(*keymap.Event) error { return nil }), keymap.Named("ignore"))

	ctl := layout.NewTextControl(nil)
	nested, err := New(Options{
		Layout:        layout.New(layout.NewWindow(ctl, layout.WithHeight(layout.Exact(1)))),
		Bindings:      reg,
		Input:         a.input,
		Output:        a.output,
		Loop:          a.loop,
		EraseWhenDone: true,
		TTimeout:      a.opts.TTimeout,
		Logger:        a.opts.Logger,
	})
	if err != nil {
		return eventloop.Fail(a.loop, err)
	}
	f := nested.RunAsync()
	result := eventloop.NewFuture(a.loop)
	f.AddDoneCallback(func(f *eventloop.Future) {
		_ = nested.Close()
		if err := f.Err(); err != nil {
			_ = result.SetError(err)
			return
		}
		_ = result.SetResult(nil)
	})
	return result
}
