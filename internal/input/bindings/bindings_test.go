package bindings

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/pgline/internal/buffer"
	"github.com/dshills/pgline/internal/eventloop"
	"github.com/dshills/pgline/internal/input/key"
	"github.com/dshills/pgline/internal/input/keymap"
	"github.com/dshills/pgline/internal/input/vt100"
	"github.com/dshills/pgline/internal/renderer"
)

type testApp struct {
	loop     *eventloop.Loop
	p        *keymap.Processor
	buf      *buffer.Buffer
	clip     *buffer.Clipboard
	done     bool
	bells    int
	accepted []string
}

func (a *testApp) Loop() *eventloop.Loop { return a.loop }
func (a *testApp) KeyProcessor() *keymap.Processor { return a.p }
func (a *testApp) Renderer() *renderer.Renderer { return nil }
func (a *testApp) CurrentBuffer() *buffer.Buffer { return a.buf }
func (a *testApp) Clipboard() *buffer.Clipboard { return a.clip }
func (a *testApp) IsDone() bool { return a.done }
func (a *testApp) Invalidate() {}
func (a *testApp) Bell() { a.bells++ }

func (a *testApp) Exit(any) error {
	a.done = true
	return nil
}

func (a *testApp) Abort(error) error {
	a.done = true
	return nil
}

func newTestApp(t *testing.T, opts ...buffer.Option) *testApp {
	t.Helper()
	loop, err := eventloop.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = loop.Close() })

	a := &testApp{loop: loop, clip: buffer.NewClipboard(0)}
	opts = append([]buffer.Option{buffer.WithAcceptHandler(func(b *buffer.Buffer) bool {
		a.accepted = append(a.accepted, b.Text())
		return false
	})}, opts...)
	a.buf = buffer.New(opts...)
	a.p = keymap.NewProcessor(Defaults(DefaultCommands()), a, keymap.WithTimeout(0))
	return a
}

// typeText runs text through the terminal parser and the processor, then
// flushes anything left undecided.
func (a *testApp) typeText(text string) {
	parser := vt100.NewParser(a.p.Feed)
	parser.FeedAndFlush(text)
	a.p.ProcessKeys()
	a.p.Flush()
}

func TestEditingCommands(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		text   string
		cursor int
	}{
		{"self insert", "hello", "hello", 5},
		{"beginning of line", "hello\x01X", "Xhello", 1},
		{"end of line", "hello\x01\x05!", "hello!", 6},
		{"backward char", "abc\x02\x02X", "aXbc", 2},
		{"forward char", "abc\x01\x06X", "aXbc", 2},
		{"backward word", "foo bar\x1bbX", "foo Xbar", 5},
		{"forward word", "foo bar\x01\x1bfX", "fooX bar", 4},
		{"arrow keys", "abc\x1b[D\x1b[DX\x1b[CY", "aXbYc", 4},
		{"home and end", "abc\x1b[HX\x1b[FY", "XabcY", 5},
		{"backspace", "abc\x7f", "ab", 2},
		{"backspace in middle", "abc\x02\x7f", "ac", 1},
		{"delete", "abc\x01\x1b[3~", "bc", 0},
		{"kill line", "hello\x01\x06\x0b", "h", 1},
		{"unix line discard", "hello world\x15", "", 0},
		{"unix word rubout", "foo bar\x17", "foo ", 4},
		{"backward kill word", "foo-bar\x1b\x7f", "foo-", 4},
		{"kill word", "foo bar\x01\x1bd", " bar", 0},
		{"transpose at end", "ab\x14", "ba", 2},
		{"transpose in middle", "abc\x01\x06\x14", "bac", 2},
		{"uppercase word", "hello world\x01\x1bu", "HELLO world", 5},
		{"capitalize word", "hello world\x01\x1bf\x1bc", "hello World", 11},
		{"downcase word", "HELLO world\x01\x1bl", "hello world", 5},
		{"numeric argument", "\x1b3x", "xxx", 3},
		{"multi digit argument", "\x1b12x", strings.Repeat("x", 12), 12},
		{"negative argument", "abc\x1b-\x7f", "abc", 3},
		{"undo", "abc\x1f", "", 0},
		{"undo kill", "abc def\x17\x1f", "abc def", 7},
		{"quoted insert", "\x11\x01", "\x01", 1},
		{"quoted escape", "\x16\x1b", "\x1b", 1},
		{"bracketed paste", "\x1b[200~a\r\nb\rc\x1b[201~", "a\nb\nc", 5},
		{"ignored function key", "a\x1bOPb", "ab", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			a.typeText(tt.input)
			if got := a.buf.Text(); got != tt.text {
				t.Errorf("text = %q, want %q", got, tt.text)
			}
			if got := a.buf.CursorPosition(); got != tt.cursor {
				t.Errorf("cursor = %d, want %d", got, tt.cursor)
			}
		})
	}
}

func TestAcceptLine(t *testing.T) {
	a := newTestApp(t)
	a.typeText("hello\x01X\r")
	if len(a.accepted) != 1 || a.accepted[0] != "Xhello" {
		t.Fatalf("accepted = %q, want [Xhello]", a.accepted)
	}
	if a.buf.Text() != "" {
		t.Errorf("buffer not reset after accept: %q", a.buf.Text())
	}

	a.typeText("select 1\n")
	if len(a.accepted) != 2 || a.accepted[1] != "select 1" {
		t.Errorf("c-j did not accept: %q", a.accepted)
	}
}

func TestMultilineEnter(t *testing.T) {
	a := newTestApp(t, buffer.WithMultiline(func() bool { return true }))
	a.typeText("select\r1")
	if got := a.buf.Text(); got != "select\n1" {
		t.Fatalf("text = %q, want %q", got, "select\n1")
	}
	if len(a.accepted) != 0 {
		t.Fatalf("enter accepted a multiline buffer: %q", a.accepted)
	}

	a.typeText("\x1b\r")
	if len(a.accepted) != 1 || a.accepted[0] != "select\n1" {
		t.Errorf("escape enter accepted %q", a.accepted)
	}
}

func TestKillRingAccumulates(t *testing.T) {
	a := newTestApp(t)
	a.typeText("foo bar\x17\x17")
	if got := a.buf.Text(); got != "" {
		t.Fatalf("text = %q, want empty", got)
	}
	if got := a.clip.Get(); got != "foo bar" {
		t.Fatalf("kill ring top = %q, want %q", got, "foo bar")
	}

	a.typeText("\x19")
	if got := a.buf.Text(); got != "foo bar" {
		t.Errorf("yank gave %q, want %q", got, "foo bar")
	}
}

func TestKillLineStoresText(t *testing.T) {
	a := newTestApp(t)
	a.typeText("hello\x01\x06\x0b")
	if got := a.clip.Get(); got != "ello" {
		t.Errorf("kill ring top = %q, want %q", got, "ello")
	}
	a.typeText("\x01\x19")
	if got := a.buf.Text(); got != "elloh" {
		t.Errorf("yank gave %q, want %q", got, "elloh")
	}
}

func TestHistoryNavigation(t *testing.T) {
	h := buffer.NewInMemoryHistory("select 1", "select 2")
	a := newTestApp(t, buffer.WithHistory(h))

	a.typeText("\x1b[A")
	if got := a.buf.Text(); got != "select 2" {
		t.Fatalf("after up: %q, want %q", got, "select 2")
	}
	a.typeText("\x10")
	if got := a.buf.Text(); got != "select 1" {
		t.Fatalf("after c-p: %q, want %q", got, "select 1")
	}
	a.typeText("\x1b[B")
	if got := a.buf.Text(); got != "select 2" {
		t.Fatalf("after down: %q, want %q", got, "select 2")
	}
	a.typeText("\x0e")
	if got := a.buf.Text(); got != "" {
		t.Fatalf("after c-n: %q, want empty", got)
	}

	a.typeText("select 3\r")
	if got := h.Strings(); len(got) != 3 || got[2] != "select 3" {
		t.Errorf("history = %q", got)
	}
}

func TestKeyboardMacro(t *testing.T) {
	a := newTestApp(t)
	a.typeText("\x18(ab\x18)")
	if got := key.Keys(a.p.Macros().Last()); !got.Equal(key.Sequence{'a', 'b'}) {
		t.Fatalf("recorded %v, want a b", got)
	}
	a.typeText("\x18e")
	if got := a.buf.Text(); got != "abab" {
		t.Errorf("text = %q, want %q", got, "abab")
	}
}

func TestReadOnlyRings(t *testing.T) {
	a := newTestApp(t, buffer.WithReadOnly(func() bool { return true }))
	a.typeText("a")
	if a.buf.Text() != "" {
		t.Errorf("read-only buffer changed: %q", a.buf.Text())
	}
	if a.bells != 1 {
		t.Errorf("bells = %d, want 1", a.bells)
	}
}

func TestDeleteAtEndRings(t *testing.T) {
	a := newTestApp(t)
	a.typeText("ab\x1b[3~")
	if a.buf.Text() != "ab" {
		t.Errorf("text = %q, want %q", a.buf.Text(), "ab")
	}
	if a.bells != 1 {
		t.Errorf("bells = %d, want 1", a.bells)
	}
}

func TestCursorPositionReportNotInserted(t *testing.T) {
	a := newTestApp(t)
	a.typeText("a\x1b[12;1Rb")
	if got := a.buf.Text(); got != "ab" {
		t.Errorf("text = %q, want %q", got, "ab")
	}
}

func TestSystemBindings(t *testing.T) {
	want := map[string]bool{
		"cursor-position-report": true,
		"scroll-up":              true,
		"scroll-down":            true,
		"mouse-event":            true,
	}
	all := System().All()
	if len(all) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(all), len(want))
	}
	for _, b := range all {
		if !want[b.Name] {
			t.Errorf("unexpected binding %s", b)
		}
		delete(want, b.Name)
	}
	for name := range want {
		t.Errorf("missing binding %q", name)
	}
}

func TestParseCPR(t *testing.T) {
	tests := []struct {
		in       string
		row, col int
		wantErr  bool
	}{
		{"\x1b[12;1R", 12, 1, false},
		{"\x1b[1;80R", 1, 80, false},
		{"\x1b[R", 0, 0, true},
		{"garbage", 0, 0, true},
	}
	for _, tt := range tests {
		row, col, err := ParseCPR(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCPR(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if row != tt.row || col != tt.col {
			t.Errorf("ParseCPR(%q) = %d,%d, want %d,%d", tt.in, row, col, tt.row, tt.col)
		}
	}
}

func TestCommandsResolve(t *testing.T) {
	c := DefaultCommands()
	if !c.Has(CmdYank) {
		t.Fatal("yank is not registered")
	}
	if _, err := c.Resolve("no-such-command"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Resolve(unknown) error = %v, want ErrUnknownCommand", err)
	}

	var got string
	c.RegisterPrefix("echo:", func(rest string) (keymap.Handler, error) {
		got = rest
		return keymap.HandlerFunc(func(*keymap.Event) error { return nil }), nil
	})
	if _, err := c.Resolve("echo:hi"); err != nil {
		t.Fatalf("Resolve(prefix) error = %v", err)
	}
	if got != "hi" {
		t.Errorf("prefix resolver got %q, want %q", got, "hi")
	}

	names := c.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names() not sorted: %v", names)
		}
	}
}

func TestUserKeymapCompiles(t *testing.T) {
	c := DefaultCommands()
	km := keymap.NewKeymap("user")
	km.Add("c-o", CmdEndOfLine)
	r, err := km.Compile(c)
	if err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t)
	a.p.SetBindings(keymap.Merge(Defaults(c), r))
	a.typeText("abc\x01\x0fX")
	if got := a.buf.Text(); got != "abcX" {
		t.Errorf("text = %q, want %q", got, "abcX")
	}
}
