package prompt

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pgline/internal/config"
	"github.com/dshills/pgline/internal/input"
	"github.com/dshills/pgline/internal/input/bindings"
	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/highlight"
	"github.com/dshills/pgline/internal/renderer/output"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixture struct {
	dir  string
	cfg  *config.Config
	pipe *input.Pipe
	out  *syncBuffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Editing.HistoryFile = filepath.Join(dir, "history")
	cfg.Editing.KeymapFile = filepath.Join(dir, "keys.yaml")
	cfg.Editing.LuaFile = filepath.Join(dir, "init.lua")

	pipe, err := input.NewPipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pipe.Close() })
	return &fixture{dir: dir, cfg: cfg, pipe: pipe, out: &syncBuffer{}}
}

func (f *fixture) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644))
}

func (f *fixture) session(t *testing.T, opts Options) *Session {
	t.Helper()
	opts.Config = f.cfg
	opts.Input = f.pipe
	opts.Output = output.NewVt100(f.out, "xterm",
		output.WithSize(core.Size{Rows: 24, Columns: 80}),
		output.WithoutCPR())
	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPromptAccepts(t *testing.T) {
	f := newFixture(t)
	s := f.session(t, Options{Message: "pg> "})
	require.NoError(t, f.pipe.Send("select 1\r"))

	text, err := s.Prompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "select 1", text)
	assert.Contains(t, f.out.String(), "pg> ")

	history, err := os.ReadFile(f.cfg.Editing.HistoryFile)
	require.NoError(t, err)
	assert.Contains(t, string(history), "+select 1\n")
	assert.Empty(t, s.Buffer().Text())
}

func TestPromptMultiline(t *testing.T) {
	f := newFixture(t)
	s := f.session(t, Options{
		Message: "pg> ",
		Multiline: func(text string) bool {
			return !strings.HasSuffix(strings.TrimSpace(text), ";")
		},
	})
	require.NoError(t, f.pipe.Send("select\r1;\r"))

	text, err := s.Prompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "select\n1;", text)
	assert.Contains(t, f.out.String(), "... ")
}

func TestPromptEndKeys(t *testing.T) {
	tests := []struct {
		name  string
		keys  string
		want  string
		err   error
		extra func(*fixture)
	}{
		{name: "ctrl-c", keys: "abc\x03", err: ErrInterrupt},
		{name: "ctrl-d on empty input", keys: "\x04", err: ErrEOF},
		{name: "ctrl-d deletes", keys: "ab\x02\x04\r", want: "a"},
		{name: "end of input", keys: "abc", err: ErrEOF, extra: func(f *fixture) { _ = f.pipe.CloseWrite() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			s := f.session(t, Options{})
			require.NoError(t, f.pipe.Send(tt.keys))
			if tt.extra != nil {
				tt.extra(f)
			}

			text, err := s.Prompt(context.Background())
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestPromptContext(t *testing.T) {
	f := newFixture(t)
	s := f.session(t, Options{})

	done, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Prompt(done)
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = s.Prompt(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The session is usable afterwards.
	require.NoError(t, f.pipe.Send("again\r"))
	text, err := s.Prompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "again", text)
}

func TestUserBindings(t *testing.T) {
	f := newFixture(t)
	f.write(t, "init.lua", `
function shout(e)
	e:insert("X")
end
pgline.bind("c-o", function(e) e:insert("!") end)
`)
	f.write(t, "keys.yaml", `
bindings:
  - keys: c-t
    command: lua:shout
  - keys: c-x c-e
    command: end-of-line
`)
	s := f.session(t, Options{})
	require.NoError(t, f.pipe.Send("a\x0f\x14b\x01\x18\x05c\r"))

	text, err := s.Prompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a!Xbc", text)
}

func TestBadKeymap(t *testing.T) {
	f := newFixture(t)
	f.write(t, "keys.yaml", "bindings:\n  - keys: c-t\n    command: no-such-command\n")
	f.cfg.Editing.LuaFile = ""

	_, err := New(Options{
		Config: f.cfg,
		Input:  f.pipe,
		Output: output.NewVt100(f.out, "xterm", output.WithoutCPR()),
	})
	assert.ErrorIs(t, err, bindings.ErrUnknownCommand)
}

func TestBadLuaFile(t *testing.T) {
	f := newFixture(t)
	f.write(t, "init.lua", "this is not lua")

	_, err := New(Options{
		Config: f.cfg,
		Input:  f.pipe,
		Output: output.NewVt100(f.out, "xterm", output.WithoutCPR()),
	})
	assert.Error(t, err)
}

func TestReloadOnChange(t *testing.T) {
	f := newFixture(t)
	f.write(t, "keys.yaml", "bindings:\n  - keys: c-t\n    command: \"lua:event:insert('1')\"\n")
	s := f.session(t, Options{})

	require.NoError(t, f.pipe.Send("\x14\r"))
	text, err := s.Prompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", text)

	go func() {
		for !s.App().IsRunning() {
			time.Sleep(5 * time.Millisecond)
		}
		_ = os.WriteFile(filepath.Join(f.dir, "keys.yaml"),
			[]byte("bindings:\n  - keys: c-t\n    command: \"lua:event:insert('2')\"\n"), 0o644)
		time.Sleep(500 * time.Millisecond)
		_ = f.pipe.Send("\x14\r")
	}()
	text, err = s.Prompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", text)
}

func TestBottomToolbar(t *testing.T) {
	f := newFixture(t)
	label := "F2 help"
	s := f.session(t, Options{BottomToolbar: func() string { return label }})
	require.NoError(t, f.pipe.Send("x\r"))

	_, err := s.Prompt(context.Background())
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "F2 help")
}

func TestHighlighting(t *testing.T) {
	f := newFixture(t)
	s := f.session(t, Options{Highlighter: highlight.SQL()})
	assert.True(t, s.style.Resolve("class:sql.keyword").Attributes.Has(core.AttrBold))

	require.NoError(t, f.pipe.Send("select 1;\r"))
	text, err := s.Prompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "select 1;", text)
	assert.Contains(t, f.out.String(), "select")
}

func TestTitle(t *testing.T) {
	f := newFixture(t)
	f.cfg.Output.Title = "pgline"
	s := f.session(t, Options{})
	assert.Contains(t, f.out.String(), "\x1b]2;pgline\x07")
	require.NoError(t, s.Close())
}

func TestContinuation(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"pg> ", "... "},
		{">", " "},
		{"", ""},
		{"数> ", "... "},
	}
	for _, tt := range tests {
		if got := continuation(tt.message); got != tt.want {
			t.Errorf("continuation(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestErrorsAreAppErrors(t *testing.T) {
	assert.True(t, errors.Is(ErrEOF, ErrEOF))
	assert.False(t, errors.Is(ErrEOF, ErrInterrupt))
}
