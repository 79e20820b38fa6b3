package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pgline/internal/renderer/core"
)

func newTestOutput(opts ...Option) (*Vt100, *bytes.Buffer) {
	var buf bytes.Buffer
	opts = append([]Option{WithSize(core.Size{Rows: 24, Columns: 80})}, opts...)
	return NewVt100(&buf, "xterm", opts...), &buf
}

func TestEscapeSequences(t *testing.T) {
	tests := []struct {
		name string
		op   func(v *Vt100)
		want string
	}{
		{"erase screen", (*Vt100).EraseScreen, "\x1b[2J"},
		{"erase eol", (*Vt100).EraseEndOfLine, "\x1b[K"},
		{"erase down", (*Vt100).EraseDown, "\x1b[J"},
		{"alt screen", (*Vt100).EnterAlternateScreen, "\x1b[?1049h\x1b[H"},
		{"quit alt screen", (*Vt100).QuitAlternateScreen, "\x1b[?1049l"},
		{"mouse on", (*Vt100).EnableMouseSupport, "\x1b[?1000h\x1b[?1015h\x1b[?1006h"},
		{"mouse off", (*Vt100).DisableMouseSupport, "\x1b[?1000l\x1b[?1015l\x1b[?1006l"},
		{"reset", (*Vt100).ResetAttributes, "\x1b[0m"},
		{"autowrap off", (*Vt100).DisableAutowrap, "\x1b[?7l"},
		{"autowrap on", (*Vt100).EnableAutowrap, "\x1b[?7h"},
		{"paste on", (*Vt100).EnableBracketedPaste, "\x1b[?2004h"},
		{"paste off", (*Vt100).DisableBracketedPaste, "\x1b[?2004l"},
		{"hide cursor", (*Vt100).HideCursor, "\x1b[?25l"},
		{"show cursor", (*Vt100).ShowCursor, "\x1b[?12l\x1b[?25h"},
		{"cpr", (*Vt100).AskForCPR, "\x1b[6n"},
		{"bell", (*Vt100).Bell, "\a"},
		{"goto", func(v *Vt100) { v.CursorGoto(3, 7) }, "\x1b[3;7H"},
		{"up 1", func(v *Vt100) { v.CursorUp(1) }, "\x1b[A"},
		{"up 4", func(v *Vt100) { v.CursorUp(4) }, "\x1b[4A"},
		{"down 2", func(v *Vt100) { v.CursorDown(2) }, "\x1b[2B"},
		{"forward 0", func(v *Vt100) { v.CursorForward(0) }, ""},
		{"forward 5", func(v *Vt100) { v.CursorForward(5) }, "\x1b[5C"},
		{"backward 1", func(v *Vt100) { v.CursorBackward(1) }, "\b"},
		{"backward 3", func(v *Vt100) { v.CursorBackward(3) }, "\x1b[3D"},
		{"title", func(v *Vt100) { v.SetTitle("a\x1bb\x07c") }, "\x1b]2;abc\x07"},
		{"clear title", (*Vt100).ClearTitle, "\x1b]2;\x07"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, buf := newTestOutput()
			tt.op(v)
			require.NoError(t, v.Flush())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteEscapesControlSequences(t *testing.T) {
	v, buf := newTestOutput()
	v.Write("a\x1b[2Jb")
	v.WriteRaw("\x1b[K")
	require.NoError(t, v.Flush())
	assert.Equal(t, "a?[2Jb\x1b[K", buf.String())
}

func TestBufferedUntilFlush(t *testing.T) {
	v, buf := newTestOutput()
	v.Write("hello")
	assert.Empty(t, buf.String())
	require.NoError(t, v.Flush())
	assert.Equal(t, "hello", buf.String())

	buf.Reset()
	require.NoError(t, v.Flush())
	assert.Empty(t, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestFlushError(t *testing.T) {
	v := NewVt100(failingWriter{}, "xterm", WithSize(DefaultSize))
	v.Write("x")
	assert.Error(t, v.Flush())
}

func TestNoTitleTerminals(t *testing.T) {
	var buf bytes.Buffer
	v := NewVt100(&buf, "linux", WithSize(DefaultSize))
	v.SetTitle("x")
	require.NoError(t, v.Flush())
	assert.Empty(t, buf.String())
}

func TestSGR(t *testing.T) {
	red := core.ColorFromRGB(255, 0, 0)
	tests := []struct {
		name  string
		attrs core.Attrs
		depth core.ColorDepth
		want  string
	}{
		{"default", core.DefaultAttrs, core.Depth8Bit, "\x1b[0m"},
		{"bold", core.Attrs{Foreground: core.ColorDefault, Background: core.ColorDefault, Attributes: core.AttrBold}, core.Depth8Bit, "\x1b[0;1m"},
		{"ansi fg", core.Attrs{Foreground: core.ColorFromIndex(1), Background: core.ColorDefault}, core.Depth24Bit, "\x1b[0;31m"},
		{"bright bg", core.Attrs{Foreground: core.ColorDefault, Background: core.ColorFromIndex(12)}, core.Depth8Bit, "\x1b[0;104m"},
		{"rgb 24", core.Attrs{Foreground: red, Background: core.ColorDefault}, core.Depth24Bit, "\x1b[0;38;2;255;0;0m"},
		{"rgb 8", core.Attrs{Foreground: red, Background: core.ColorDefault}, core.Depth8Bit, "\x1b[0;38;5;196m"},
		{"rgb 4", core.Attrs{Foreground: red, Background: core.ColorDefault}, core.Depth4Bit, "\x1b[0;91m"},
		{"rgb 1", core.Attrs{Foreground: red, Background: core.ColorDefault, Attributes: core.AttrUnderline}, core.Depth1Bit, "\x1b[0;4m"},
		{"index 24", core.Attrs{Foreground: core.ColorDefault, Background: core.ColorFromIndex(100)}, core.Depth24Bit, "\x1b[0;48;5;100m"},
		{
			"all attrs",
			core.Attrs{Foreground: core.ColorDefault, Background: core.ColorDefault,
				Attributes: core.AttrBold | core.AttrItalic | core.AttrUnderline | core.AttrReverse},
			core.Depth8Bit,
			"\x1b[0;1;3;4;7m",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, buf := newTestOutput()
			v.SetAttributes(tt.attrs, tt.depth)
			require.NoError(t, v.Flush())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestCapabilitiesColorDepth(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want core.ColorDepth
	}{
		{"dumb", Capabilities{Term: "dumb", Known: true, Colors: 256}, core.Depth1Bit},
		{"linux", Capabilities{Term: "linux", Known: true, TrueColor: true}, core.Depth4Bit},
		{"truecolor", Capabilities{Term: "x", Known: true, TrueColor: true}, core.Depth24Bit},
		{"unknown", Capabilities{Term: "x"}, core.DefaultColorDepth},
		{"256", Capabilities{Term: "x", Known: true, Colors: 256}, core.Depth8Bit},
		{"8", Capabilities{Term: "x", Known: true, Colors: 8}, core.Depth4Bit},
		{"mono", Capabilities{Term: "x", Known: true}, core.Depth1Bit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.caps.ColorDepth())
		})
	}
}

func TestLookupCapabilities(t *testing.T) {
	caps := LookupCapabilities("no-such-terminal", nil)
	assert.False(t, caps.Known)
	assert.Equal(t, core.DefaultColorDepth, caps.ColorDepth())

	env := map[string]string{"COLORTERM": "truecolor"}
	caps = LookupCapabilities("no-such-terminal", func(k string) string { return env[k] })
	assert.True(t, caps.TrueColor)
	assert.Equal(t, core.Depth24Bit, caps.ColorDepth())

	env["TCELL_TRUECOLOR"] = "disable"
	caps = LookupCapabilities("no-such-terminal", func(k string) string { return env[k] })
	assert.False(t, caps.TrueColor)

	assert.False(t, LookupCapabilities("linux", nil).Title)
	assert.Equal(t, core.Depth1Bit, DetectColorDepth("dumb", nil))
}

func TestColorDepthOverrideAndSize(t *testing.T) {
	v, _ := newTestOutput(WithColorDepth(core.Depth24Bit), WithoutCPR())
	assert.Equal(t, core.Depth24Bit, v.ColorDepth())
	assert.Equal(t, core.Size{Rows: 24, Columns: 80}, v.Size())
	assert.False(t, v.RespondsToCPR())
	assert.Equal(t, -1, v.Fd())
}
