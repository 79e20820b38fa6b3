package bindings

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dshills/pgline/internal/buffer"
	"github.com/dshills/pgline/internal/input/keymap"
	"github.com/dshills/pgline/internal/renderer"
	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/layout"
	"github.com/dshills/pgline/internal/renderer/output"
)

func TestParseMouseEvent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want MouseEvent
	}{
		{"sgr press", "\x1b[<0;5;20M", MouseEvent{MouseDown, MouseLeft, core.Point{Row: 19, Col: 4}}},
		{"sgr release", "\x1b[<0;5;20m", MouseEvent{MouseUp, MouseLeft, core.Point{Row: 19, Col: 4}}},
		{"sgr right press", "\x1b[<2;3;2M", MouseEvent{MouseDown, MouseRight, core.Point{Row: 1, Col: 2}}},
		{"sgr drag", "\x1b[<32;3;2M", MouseEvent{MouseMove, MouseLeft, core.Point{Row: 1, Col: 2}}},
		{"sgr wheel up", "\x1b[<64;1;1M", MouseEvent{ScrollUp, MouseNoButton, core.Point{}}},
		{"sgr wheel down", "\x1b[<65;3;2M", MouseEvent{ScrollDown, MouseNoButton, core.Point{Row: 1, Col: 2}}},
		{"sgr wheel sideways", "\x1b[<66;3;2M", MouseEvent{ScrollSideways, MouseNoButton, core.Point{Row: 1, Col: 2}}},
		{"sgr large coordinates", "\x1b[<0;300;120M", MouseEvent{MouseDown, MouseLeft, core.Point{Row: 119, Col: 299}}},
		{"urxvt press", "\x1b[32;10;20M", MouseEvent{MouseDown, MouseLeft, core.Point{Row: 19, Col: 9}}},
		{"urxvt release", "\x1b[35;10;20M", MouseEvent{MouseUp, MouseNoButton, core.Point{Row: 19, Col: 9}}},
		{"urxvt wheel up", "\x1b[96;10;20M", MouseEvent{ScrollUp, MouseNoButton, core.Point{Row: 19, Col: 9}}},
		{"urxvt wheel down", "\x1b[97;10;20M", MouseEvent{ScrollDown, MouseNoButton, core.Point{Row: 19, Col: 9}}},
		{"x10 press", "\x1b[M !!", MouseEvent{MouseDown, MouseLeft, core.Point{}}},
		{"x10 release", "\x1b[M#+5", MouseEvent{MouseUp, MouseNoButton, core.Point{Row: 20, Col: 10}}},
		{"x10 wheel up", "\x1b[M`!!", MouseEvent{ScrollUp, MouseNoButton, core.Point{}}},
		{"x10 wheel down", "\x1b[Ma!!", MouseEvent{ScrollDown, MouseNoButton, core.Point{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMouseEvent(tt.data)
			if err != nil {
				t.Fatalf("ParseMouseEvent(%q) error: %v", tt.data, err)
			}
			if got != tt.want {
				t.Errorf("ParseMouseEvent(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}

func TestParseMouseEventInvalid(t *testing.T) {
	for _, data := range []string{
		"",
		"abc",
		"\x1b[<0;5M",
		"\x1b[<a;1;1M",
		"\x1b[<0;1;1x",
		"\x1b[M!!",
		"\x1b[0;0;0M",
		"\x1b[<0;0;1M",
	} {
		if _, err := ParseMouseEvent(data); !errors.Is(err, ErrInvalidMouseReport) {
			t.Errorf("ParseMouseEvent(%q) error = %v, want ErrInvalidMouseReport", data, err)
		}
	}
}

func TestMouseEventTypeString(t *testing.T) {
	if got := ScrollUp.String(); got != "scroll-up" {
		t.Errorf("ScrollUp.String() = %q", got)
	}
	if got := MouseEventType(99).String(); got != "unknown" {
		t.Errorf("MouseEventType(99).String() = %q", got)
	}
}

func TestMouseWheelMovesBetweenLines(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
	}{
		{"sgr up", "\x1b[<64;1;1M", 3},
		{"urxvt up", "\x1b[96;1;1M", 3},
		{"x10 up", "\x1b[M`!!", 3},
		{"up then down", "\x1b[<64;1;1M\x1b[<65;1;1M", 5},
		{"sideways", "\x1b[<66;1;1M", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			if err := a.buf.SetDocument(buffer.NewDocumentAtEnd("a\nb\nc")); err != nil {
				t.Fatal(err)
			}
			a.typeText(tt.input)
			if got := a.buf.CursorPosition(); got != tt.cursor {
				t.Errorf("cursor = %d, want %d", got, tt.cursor)
			}
			if got := a.buf.Text(); got != "a\nb\nc" {
				t.Errorf("text = %q", got)
			}
		})
	}
}

// clickApp adds a rendered layout to testApp.
type clickApp struct {
	*testApp
	l *layout.Layout
	r *renderer.Renderer
}

func (a *clickApp) Layout() *layout.Layout { return a.l }
func (a *clickApp) Renderer() *renderer.Renderer { return a.r }

// newClickApp renders "> select 1" with the prompt on terminal row 20 of
// 24, or at an unknown row when knownRow is false.
func newClickApp(t *testing.T, knownRow bool) *clickApp {
	t.Helper()
	base := newTestApp(t)
	if err := base.buf.SetDocument(buffer.NewDocument("select 1", 0)); err != nil {
		t.Fatal(err)
	}
	prefix := func(int) layout.Fragments { return layout.Text("", "> ") }
	a := &clickApp{
		testApp: base,
		l:       layout.New(layout.NewWindow(layout.NewBufferControl(base.buf, layout.WithLinePrefix(prefix)))),
	}
	out := output.NewVt100(&bytes.Buffer{}, "xterm",
		output.WithSize(core.Size{Rows: 24, Columns: 80}),
		output.WithoutCPR())
	a.r = renderer.New(out, nil, base.loop, renderer.Options{})
	if knownRow {
		a.r.ReportAbsoluteCursorRow(20)
	}
	a.r.Render(a.l, false)
	base.p = keymap.NewProcessor(Defaults(DefaultCommands()), a, keymap.WithTimeout(0))
	return a
}

func TestMouseClickMovesCursor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		knownRow bool
		cursor   int
	}{
		{"sgr click", "\x1b[<0;5;20M", true, 2},
		{"urxvt click", "\x1b[32;7;20M", true, 4},
		{"x10 click", "\x1b[M &4", true, 3},
		{"right of the text", "\x1b[<0;50;20M", true, 8},
		{"on the prompt", "\x1b[<0;1;20M", true, 0},
		{"above the prompt", "\x1b[<0;5;19M", true, 0},
		{"right button", "\x1b[<2;5;20M", true, 0},
		{"release", "\x1b[<0;5;20m", true, 0},
		{"prompt row unknown", "\x1b[<0;5;20M", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newClickApp(t, tt.knownRow)
			a.typeText(tt.input)
			if got := a.buf.CursorPosition(); got != tt.cursor {
				t.Errorf("cursor = %d, want %d", got, tt.cursor)
			}
			if got := a.buf.Text(); got != "select 1" {
				t.Errorf("text = %q", got)
			}
		})
	}
}

func TestMouseClickWithoutLayout(t *testing.T) {
	a := newTestApp(t)
	if err := a.buf.SetDocument(buffer.NewDocumentAtEnd("abc")); err != nil {
		t.Fatal(err)
	}
	a.typeText("\x1b[<0;1;1M")
	if got := a.buf.CursorPosition(); got != 3 {
		t.Errorf("cursor = %d, want 3", got)
	}
}
