package vt100

import (
	"strings"
	"testing"

	"github.com/dshills/pgline/internal/input/key"
)

type recorder struct {
	presses []key.KeyPress
}

func (r *recorder) add(kp key.KeyPress) {
	r.presses = append(r.presses, kp)
}

func (r *recorder) keys() key.Sequence {
	return key.Keys(r.presses)
}

func newTestParser() (*Parser, *recorder) {
	rec := &recorder{}
	return NewParser(rec.add), rec
}

func TestRoundTripEverySequence(t *testing.T) {
	for seq, want := range ansiSequences {
		if want[0] == key.KeyBracketedPaste {
			continue
		}
		p, rec := newTestParser()
		p.Flush()
		p.FeedAndFlush(seq)

		if got := rec.keys(); !got.Equal(key.Sequence(want)) {
			t.Errorf("%q: keys = %v, want %v", seq, got, key.Sequence(want))
			continue
		}
		if rec.presses[0].Data != seq {
			t.Errorf("%q: data = %q", seq, rec.presses[0].Data)
		}
		for _, kp := range rec.presses[1:] {
			if kp.Data != "" {
				t.Errorf("%q: trailing tuple key carries data %q", seq, kp.Data)
			}
		}
	}
}

func TestRoundTripWithoutFlush(t *testing.T) {
	// Sequences that are not a prefix of anything longer resolve on their
	// last character.
	tests := map[string]key.Key{
		"\x1b[D":  key.KeyLeft,
		"\x1b[3~": key.KeyDelete,
		"\x1bOP":  key.KeyF1,
		"\x1b[Z":  key.KeyBackTab,
		"\x01":    key.KeyCtrlA,
		"\x7f":    key.KeyBackspace,
	}
	for seq, want := range tests {
		p, rec := newTestParser()
		p.Feed(seq)
		if got := rec.keys(); !got.Equal(key.Sequence{want}) {
			t.Errorf("%q: keys = %v, want %v", seq, got, want)
		}
		if p.Pending() != "" {
			t.Errorf("%q: pending = %q", seq, p.Pending())
		}
	}
}

func TestEscapeNeedsFlush(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1b")
	if len(rec.presses) != 0 {
		t.Fatalf("lone escape emitted before flush: %v", rec.presses)
	}
	if p.Pending() != "\x1b" {
		t.Fatalf("Pending() = %q", p.Pending())
	}
	p.Flush()
	if got := rec.keys(); !got.Equal(key.Sequence{key.KeyEscape}) {
		t.Errorf("keys = %v, want escape", got)
	}
}

func TestEscapeBracketDIsLeft(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1b")
	p.Feed("[")
	p.Feed("D")
	if got := rec.keys(); !got.Equal(key.Sequence{key.KeyLeft}) {
		t.Errorf("keys = %v, want left", got)
	}
}

func TestMetaLeftIsEscapeLeft(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1b[1;3D")
	want := key.Sequence{key.KeyEscape, key.KeyLeft}
	if got := rec.keys(); !got.Equal(want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	if rec.presses[0].Data != "\x1b[1;3D" || rec.presses[1].Data != "" {
		t.Errorf("data = %q, %q", rec.presses[0].Data, rec.presses[1].Data)
	}
}

func TestMetaCharacterShiftsAndRetries(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1bb")
	want := key.Sequence{key.KeyEscape, 'b'}
	if got := rec.keys(); !got.Equal(want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}

func TestUnknownSequenceFallsBackToLiterals(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1b[X")
	want := key.Sequence{key.KeyEscape, '[', 'X'}
	if got := rec.keys(); !got.Equal(want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	var data []string
	for _, kp := range rec.presses {
		data = append(data, kp.Data)
	}
	if strings.Join(data, "") != "\x1b[X" {
		t.Errorf("input was not preserved: %q", data)
	}
}

func TestLiteralCharacters(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("hé語")
	want := key.Sequence{'h', 'é', '語'}
	if got := rec.keys(); !got.Equal(want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	if rec.presses[2].Data != "語" {
		t.Errorf("data = %q", rec.presses[2].Data)
	}
}

func TestFlushDrainsEveryPendingPrefix(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1b\x1b")
	p.Flush()
	want := key.Sequence{key.KeyEscape, key.KeyEscape}
	if got := rec.keys(); !got.Equal(want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	if p.Pending() != "" {
		t.Errorf("Pending() = %q", p.Pending())
	}
}

func TestCPRResponse(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1b[12;40R")
	if got := rec.keys(); !got.Equal(key.Sequence{key.KeyCPRResponse}) {
		t.Fatalf("keys = %v", got)
	}
	if rec.presses[0].Data != "\x1b[12;40R" {
		t.Errorf("data = %q", rec.presses[0].Data)
	}
}

func TestCPRResponseAfterTyping(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("a\x1b[1;2Rb")
	want := key.Sequence{'a', key.KeyCPRResponse, 'b'}
	if got := rec.keys(); !got.Equal(want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}

func TestMouseEvents(t *testing.T) {
	tests := []string{
		"\x1b[<0;10;20M",
		"\x1b[<0;10;20m",
		"\x1b[32;10;20M",
		"\x1b[M !!",
	}
	for _, seq := range tests {
		p, rec := newTestParser()
		p.Feed(seq)
		if got := rec.keys(); !got.Equal(key.Sequence{key.KeyVt100MouseEvent}) {
			t.Errorf("%q: keys = %v", seq, got)
		}
	}
}

func TestBracketedPaste(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("x\x1b[200~hello\x1b[D\nworld\x1b[201~y")
	want := key.Sequence{'x', key.KeyBracketedPaste, 'y'}
	if got := rec.keys(); !got.Equal(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if got := rec.presses[1].Data; got != "hello\x1b[D\nworld" {
		t.Errorf("paste data = %q", got)
	}
	if p.InPaste() {
		t.Error("parser still in paste mode")
	}
}

func TestBracketedPasteAcrossFeeds(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1b[200~part one ")
	if !p.InPaste() {
		t.Fatal("expected paste mode")
	}
	p.Feed("part two\x1b[20")
	if len(rec.presses) != 0 {
		t.Fatalf("emitted during paste: %v", rec.presses)
	}
	p.Feed("1~")
	if len(rec.presses) != 1 || rec.presses[0].Data != "part one part two" {
		t.Errorf("presses = %v", rec.presses)
	}
}

func TestBracketedPasteEndSplit(t *testing.T) {
	body := strings.Repeat("select 1;\n", 50)
	input := "\x1b[200~" + body + "\x1b[201~z"
	for _, size := range []int{1, 2, 3, 5, 6, 7, 64, 1024} {
		p, rec := newTestParser()
		for i := 0; i < len(input); i += size {
			p.Feed(input[i:min(i+size, len(input))])
		}
		want := key.Sequence{key.KeyBracketedPaste, 'z'}
		if got := rec.keys(); !got.Equal(want) {
			t.Errorf("chunk %d: keys = %v, want %v", size, got, want)
			continue
		}
		if rec.presses[0].Data != body {
			t.Errorf("chunk %d: paste data has %d bytes, want %d", size, len(rec.presses[0].Data), len(body))
		}
	}
}

func TestBracketedPasteMarkerInContent(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1b[200~ab\x1b[20")
	p.Feed("0~cd\x1b[2")
	p.Feed("01~")
	if len(rec.presses) != 1 || rec.presses[0].Data != "ab\x1b[200~cd" {
		t.Errorf("presses = %v", rec.presses)
	}
}

func TestReset(t *testing.T) {
	p, rec := newTestParser()
	p.Feed("\x1b[200~abc")
	p.Reset()
	p.Feed("z")
	if got := rec.keys(); !got.Equal(key.Sequence{'z'}) {
		t.Errorf("keys = %v", got)
	}
}

func TestSequencesReturnsCopy(t *testing.T) {
	table := Sequences()
	table["\x1b[D"][0] = key.KeyRight
	if ansiSequences["\x1b[D"][0] != key.KeyLeft {
		t.Error("Sequences exposed the internal table")
	}
}

func BenchmarkFeedTyping(b *testing.B) {
	p := NewParser(func(key.KeyPress) {})
	for i := 0; i < b.N; i++ {
		p.Feed("select * from users where id = 1;\x1b[D\x1b[C")
	}
}
