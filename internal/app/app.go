package app

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pgline/internal/buffer"
	"github.com/dshills/pgline/internal/eventloop"
	"github.com/dshills/pgline/internal/input"
	"github.com/dshills/pgline/internal/input/keymap"
	"github.com/dshills/pgline/internal/logging"
	"github.com/dshills/pgline/internal/renderer"
	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/layout"
	"github.com/dshills/pgline/internal/renderer/output"
)

// Default timings.
const (
	DefaultTTimeout   = 50 * time.Millisecond
	DefaultCPRTimeout = time.Second
)

// Options configures the application.
type Options struct {
	// Layout is drawn on every frame. Required.
	Layout *layout.Layout

	// Bindings are the key bindings. Extra bindings set later with
	// SetExtraBindings take precedence over them.
	Bindings keymap.Bindings

	// Input defaults to the process's terminal.
	Input input.Input
	// Output defaults to a VT100 output on stdout.
	Output output.Output

	Style *core.StyleSheet

	// ColorDepth overrides the output's depth when set.
	ColorDepth func() core.ColorDepth

	FullScreen     bool
	MouseSupport   func() bool
	BracketedPaste bool

	// EraseWhenDone erases the prompt instead of leaving the final frame.
	EraseWhenDone bool

	// MinRedrawInterval limits how often Invalidate redraws.
	MinRedrawInterval time.Duration

	// RefreshInterval redraws periodically when positive.
	RefreshInterval time.Duration

	// TTimeout is how long a partial escape sequence may wait for more
	// bytes before it is flushed.
	TTimeout time.Duration

	// Timeout is how long the key processor waits for a longer binding.
	Timeout time.Duration

	// Clipboard is shared with other applications when set.
	Clipboard *buffer.Clipboard

	// Loop is created, and closed by Close, when nil.
	Loop *eventloop.Loop

	Logger *logging.Logger
}

// Application is an interactive terminal program built from a layout and
// key bindings.
type Application struct {
	opts      Options
	loop      *eventloop.Loop
	ownLoop   bool
	layout    *layout.Layout
	renderer  *renderer.Renderer
	processor *keymap.Processor
	clipboard *buffer.Clipboard
	input     input.Input
	output    output.Output
	log       *logging.Logger
	closers   []io.Closer

	extra keymap.Bindings

	running     atomic.Bool
	invalidated atomic.Bool
	lastRedraw  atomic.Int64

	// Per run state, loop thread only.
	run      *run
	done     bool
	terminal *eventloop.Future
}

// New creates an application. The input and output are opened here when
// not given.
func New(opts Options) (*Application, error) {
	if opts.Layout == nil {
		return nil, ErrNoLayout
	}
	a := &Application{
		opts:      opts,
		layout:    opts.Layout,
		clipboard: opts.Clipboard,
		input:     opts.Input,
		output:    opts.Output,
	}
	base := opts.Logger
	if base == nil {
		base = logging.Nop()
	}
	a.log = base.WithComponent("app")
	if a.opts.TTimeout <= 0 {
		a.opts.TTimeout = DefaultTTimeout
	}
	if a.opts.Timeout <= 0 {
		a.opts.Timeout = keymap.DefaultTimeout
	}
	if a.clipboard == nil {
		a.clipboard = buffer.NewClipboard(0)
	}

	if err := a.openTerminal(); err != nil {
		return nil, err
	}

	a.loop = opts.Loop
	if a.loop == nil {
		loop, err := eventloop.New(eventloop.WithLogger(base))
		if err != nil {
			a.closeTerminal()
			return nil, NewOperationError("create", "event loop", err)
		}
		a.loop, a.ownLoop = loop, true
	}

	a.renderer = renderer.New(a.output, opts.Style, a.loop, renderer.Options{
		FullScreen:     opts.FullScreen,
		MouseSupport:   opts.MouseSupport,
		BracketedPaste: opts.BracketedPaste,
		ColorDepth:     opts.ColorDepth,
		Logger:         base,
	})

	bindings := keymap.Merge(opts.Bindings, keymap.Dynamic(func() keymap.Bindings { return a.extra }))
	a.processor = keymap.NewProcessor(bindings, a,
		keymap.WithTimeout(a.opts.Timeout),
		keymap.WithLogger(base))
	a.processor.OnAfterKeyPress(a.Invalidate)
	return a, nil
}

func (a *Application) openTerminal() error {
	if a.input == nil {
		in, err := input.NewPosix(os.Stdin)
		if err != nil {
			return NewOperationError("open", "terminal input", err)
		}
		a.input = in
		a.closers = append(a.closers, in)
	}
	if a.output == nil {
		a.output = output.FromFile(os.Stdout)
	}
	return nil
}

func (a *Application) closeTerminal() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close: %v", err)
		}
	}
	a.closers = nil
}

// Close releases the terminal input and the loop when the application
// created them.
func (a *Application) Close() error {
	a.closeTerminal()
	if a.ownLoop {
		return a.loop.Close()
	}
	return nil
}

// Loop returns the event loop.
func (a *Application) Loop() *eventloop.Loop { return a.loop }

// KeyProcessor returns the key processor.
func (a *Application) KeyProcessor() *keymap.Processor { return a.processor }

// Renderer returns the renderer.
func (a *Application) Renderer() *renderer.Renderer { return a.renderer }

// Layout returns the layout.
func (a *Application) Layout() *layout.Layout { return a.layout }

// Input returns the input.
func (a *Application) Input() input.Input { return a.input }

// Output returns the output.
func (a *Application) Output() output.Output { return a.output }

// Clipboard returns the kill ring.
func (a *Application) Clipboard() *buffer.Clipboard { return a.clipboard }

// CurrentBuffer returns the buffer of the focused window.
func (a *Application) CurrentBuffer() *buffer.Buffer { return a.layout.CurrentBuffer() }

// IsRunning reports whether a run is in progress.
func (a *Application) IsRunning() bool { return a.running.Load() }

// IsDone reports whether the current run has its result and only waits
// for cleanup.
func (a *Application) IsDone() bool { return a.done }

// RunID returns the identifier of the current or last run.
func (a *Application) RunID() string {
	if a.run == nil {
		return ""
	}
	return a.run.id
}

// SetExtraBindings replaces the bindings layered over Options.Bindings,
// such as a user keymap that was reloaded. Loop thread only.
func (a *Application) SetExtraBindings(b keymap.Bindings) {
	a.extra = b
	a.Invalidate()
}

// Bell rings the terminal bell.
func (a *Application) Bell() {
	a.output.Bell()
}

// Invalidate requests a redraw. It may be called from any goroutine; calls
// made before the redraw happens are merged into one.
func (a *Application) Invalidate() {
	if !a.running.Load() || !a.invalidated.CompareAndSwap(false, true) {
		return
	}
	a.loop.CallFromExecutor(a.scheduleRedraw)
}

func (a *Application) scheduleRedraw() {
	if interval := a.opts.MinRedrawInterval; interval > 0 {
		since := time.Since(time.Unix(0, a.lastRedraw.Load()))
		if since < interval {
			a.loop.CallLater(interval-since, a.redraw)
			return
		}
	}
	a.redraw()
}

// redraw renders a frame. Loop thread only.
func (a *Application) redraw() {
	a.invalidated.Store(false)
	if !a.running.Load() || a.done {
		return
	}
	a.lastRedraw.Store(time.Now().UnixNano())
	a.renderer.Render(a.layout, false)
}

// Exit finishes the current run with result.
func (a *Application) Exit(result any) error {
	return a.finish(func(f *eventloop.Future) error { return f.SetResult(result) })
}

// Abort finishes the current run with err, such as ErrEOF or
// ErrInterrupt.
func (a *Application) Abort(err error) error {
	return a.finish(func(f *eventloop.Future) error { return f.SetError(err) })
}

func (a *Application) finish(set func(*eventloop.Future) error) error {
	if !a.running.Load() || a.run == nil {
		return ErrNotRunning
	}
	if a.run.exit.Done() {
		return ErrResultSet
	}
	a.done = true
	return set(a.run.exit)
}

func newRunID() string { return uuid.NewString() }
