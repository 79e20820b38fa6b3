package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/pgline/internal/app"
	"github.com/dshills/pgline/internal/buffer"
	"github.com/dshills/pgline/internal/config"
	"github.com/dshills/pgline/internal/input"
	"github.com/dshills/pgline/internal/input/bindings"
	"github.com/dshills/pgline/internal/input/keymap"
	"github.com/dshills/pgline/internal/logging"
	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/highlight"
	"github.com/dshills/pgline/internal/renderer/layout"
	"github.com/dshills/pgline/internal/renderer/output"
	"github.com/dshills/pgline/internal/script"
)

// Results of a prompt that was not accepted.
var (
	ErrEOF       = app.ErrEOF
	ErrInterrupt = app.ErrInterrupt
)

// DefaultMessage is shown when Options.Message is empty.
const DefaultMessage = "> "

// defaultStyles are the class rules every session starts with.
var defaultStyles = map[string]string{
	"prompt":         "bold",
	"continuation":   "fg:ansibrightblack",
	"bottom-toolbar": "reverse",
}

// Options configures a Session.
type Options struct {
	// Message is drawn before the first line.
	Message string

	// Continuation is drawn before the other lines. It defaults to dots as
	// wide as Message.
	Continuation string

	// Multiline reports whether Enter should insert a newline instead of
	// accepting text. Nil accepts on every Enter.
	Multiline func(text string) bool

	// BottomToolbar returns text for a line below the input. The line is
	// hidden while it returns "".
	BottomToolbar func() string

	// Highlighter styles the input. Nil leaves it plain.
	Highlighter *highlight.Highlighter

	// Theme styles highlighted tokens. Defaults to highlight.DefaultTheme.
	Theme *highlight.Theme

	// Config supplies timeouts, output settings and the user files.
	// Defaults to config.Default.
	Config *config.Config

	// Input and Output default to the terminal.
	Input  input.Input
	Output output.Output

	Logger *logging.Logger
}

// Session is a reusable prompt.
type Session struct {
	opts     Options
	cfg      *config.Config
	log      *logging.Logger
	buf      *buffer.Buffer
	app      *app.Application
	commands *bindings.Commands
	style    *core.StyleSheet

	// Loop thread only.
	script  *script.State
	watcher *config.Watcher
}

// New creates a session and loads the user keymap and Lua file.
func New(opts Options) (*Session, error) {
	if opts.Message == "" {
		opts.Message = DefaultMessage
	}
	if opts.Continuation == "" {
		opts.Continuation = continuation(opts.Message)
	}
	if opts.Theme == nil {
		opts.Theme = highlight.DefaultTheme()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	base := opts.Logger
	if base == nil {
		base = logging.Nop()
	}

	s := &Session{
		opts:     opts,
		cfg:      cfg,
		log:      base.WithComponent("prompt"),
		commands: bindings.DefaultCommands(),
		style:    core.NewStyleSheet(defaultStyles),
	}
	opts.Theme.Apply(s.style)

	s.buf = buffer.New(
		buffer.WithName("prompt"),
		buffer.WithHistory(s.openHistory()),
		buffer.WithMultiline(func() bool {
			return opts.Multiline != nil && opts.Multiline(s.buf.Text())
		}),
		buffer.WithAcceptHandler(func(b *buffer.Buffer) bool {
			if err := s.app.Exit(b.Text()); err != nil {
				s.log.Warn("accept: %v", err)
			}
			return false
		}),
	)

	depth, depthSet, err := cfg.ColorDepth()
	if err != nil {
		return nil, err
	}
	appOpts := app.Options{
		Layout:         s.newLayout(),
		Bindings:       keymap.Merge(bindings.Defaults(s.commands), s.promptBindings()),
		Input:          opts.Input,
		Output:         opts.Output,
		Style:          s.style,
		FullScreen:     cfg.Output.FullScreen,
		MouseSupport:   func() bool { return cfg.Output.Mouse },
		BracketedPaste: cfg.Output.BracketedPaste,
		EraseWhenDone:  cfg.Editing.EraseWhenDone,
		TTimeout:       cfg.Input.TTimeout.Duration,
		Timeout:        cfg.Input.Timeout.Duration,
		Logger:         base,
	}
	if depthSet {
		appOpts.ColorDepth = func() core.ColorDepth { return depth }
	}
	if s.app, err = app.New(appOpts); err != nil {
		return nil, err
	}

	if title := cfg.Output.Title; title != "" {
		out := s.app.Output()
		out.SetTitle(title)
		if err := out.Flush(); err != nil {
			s.log.Warn("set title: %v", err)
		}
	}

	if err := s.reload(); err != nil {
		s.log.Error("loading user bindings: %v", err)
		_ = s.Close()
		return nil, err
	}
	s.startWatcher()
	return s, nil
}

func continuation(message string) string {
	w := uniseg.StringWidth(message)
	if w <= 1 {
		return strings.Repeat(" ", w)
	}
	return strings.Repeat(".", w-1) + " "
}

func (s *Session) openHistory() buffer.History {
	path := s.cfg.Editing.HistoryFile
	if path == "" {
		return buffer.NewInMemoryHistory()
	}
	h, err := buffer.NewFileHistory(config.ExpandPath(path))
	if err != nil {
		s.log.Warn("history disabled: %v", err)
		return buffer.NewInMemoryHistory()
	}
	return h
}

func (s *Session) newLayout() *layout.Layout {
	prefix := func(n int) layout.Fragments {
		if n == 0 {
			return layout.Fragments{{Style: "class:prompt", Text: s.opts.Message}}
		}
		return layout.Fragments{{Style: "class:continuation", Text: s.opts.Continuation}}
	}
	ctlOpts := []layout.BufferControlOption{layout.WithLinePrefix(prefix)}
	if s.opts.Highlighter != nil {
		ctlOpts = append(ctlOpts, layout.WithLexer(highlight.Lexer(s.opts.Highlighter, highlight.DefaultCacheSize)))
	}
	editor := layout.NewWindow(layout.NewBufferControl(s.buf, ctlOpts...))
	if s.opts.BottomToolbar == nil {
		return layout.New(editor)
	}

	toolbarText := func() layout.Fragments {
		return layout.Fragments{{Text: s.opts.BottomToolbar()}}
	}
	toolbar := layout.NewConditionalContainer(
		layout.NewWindow(layout.NewDynamicTextControl(toolbarText),
			layout.WithHeight(layout.Exact(1)),
			layout.WithStyle("class:bottom-toolbar")),
		func() bool { return s.opts.BottomToolbar() != "" })
	return layout.New(layout.NewHSplit(editor, toolbar))
}

// promptBindings end the prompt on Ctrl-C, and on Ctrl-D when the input
// is empty.
func (s *Session) promptBindings() *keymap.Registry {
	empty := keymap.Condition(func(a keymap.App) bool {
		b := a.CurrentBuffer()
		return b != nil && b.Text() == ""
	})

	r := keymap.NewRegistry()
	r.MustAdd("c-c", keymap.HandlerFunc(func(e *keymap.Event) error {
		return e.App().Abort(ErrInterrupt)
	}), keymap.Named("interrupt"), keymap.NoSaveBefore())
	r.MustAdd("c-d", keymap.HandlerFunc(func(e *keymap.Event) error {
		return e.App().Abort(ErrEOF)
	}), keymap.Named("end-of-file"), keymap.NoSaveBefore(), keymap.WithFilter(empty))
	r.MustAdd("c-d", s.commands.Must(bindings.CmdDeleteChar),
		keymap.Named(bindings.CmdDeleteChar), keymap.WithFilter(keymap.Not(empty)))
	return r
}

// Prompt reads one entry. It returns the accepted text, ErrEOF,
// ErrInterrupt, or the context's error when ctx is done first.
func (s *Session) Prompt(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-stop:
		case <-ctx.Done():
			s.app.Loop().CallFromExecutor(func() {
				if err := s.app.Abort(ctx.Err()); err != nil && !errors.Is(err, app.ErrNotRunning) {
					s.log.Debug("cancel prompt: %v", err)
				}
			})
		}
	}()

	v, err := s.app.Run()
	if err != nil {
		return "", err
	}
	text, _ := v.(string)
	return text, nil
}

// Buffer returns the input buffer.
func (s *Session) Buffer() *buffer.Buffer { return s.buf }

// App returns the application driving the prompt.
func (s *Session) App() *app.Application { return s.app }

// Commands returns the named commands keymaps may refer to.
func (s *Session) Commands() *bindings.Commands { return s.commands }

// Close stops watching the user files and releases the terminal.
func (s *Session) Close() error {
	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
		s.watcher = nil
	}
	if s.script != nil {
		s.script.Close()
		s.script = nil
	}
	if s.app != nil {
		if s.cfg.Output.Title != "" {
			out := s.app.Output()
			out.ClearTitle()
			errs = append(errs, out.Flush())
		}
		errs = append(errs, s.app.Close())
	}
	return errors.Join(errs...)
}
