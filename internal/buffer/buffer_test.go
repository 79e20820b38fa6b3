package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestBufferInsertText(t *testing.T) {
	b := New()
	if err := b.InsertText("hello", false, true); err != nil {
		t.Fatal(err)
	}
	b.SetCursorPosition(0)
	if err := b.InsertText("X", false, true); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "Xhello" {
		t.Errorf("Text() = %q", got)
	}
	if got := b.CursorPosition(); got != 1 {
		t.Errorf("CursorPosition() = %d", got)
	}

	if err := b.InsertText("!", false, false); err != nil {
		t.Fatal(err)
	}
	if got := b.CursorPosition(); got != 1 {
		t.Errorf("cursor moved without moveCursor: %d", got)
	}
}

func TestBufferOverwrite(t *testing.T) {
	b := New()
	b.Reset(NewDocument("abc\nd", 1))
	if err := b.InsertText("XYZ", true, true); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "aXYZ\nd" {
		t.Errorf("Text() = %q", got)
	}
}

func TestBufferDelete(t *testing.T) {
	b := New()
	b.Reset(NewDocument("hello", 2))

	deleted, err := b.Delete(2)
	if err != nil || deleted != "ll" {
		t.Fatalf("Delete(2) = %q, %v", deleted, err)
	}
	deleted, err = b.DeleteBeforeCursor(5)
	if err != nil || deleted != "he" {
		t.Fatalf("DeleteBeforeCursor(5) = %q, %v", deleted, err)
	}
	if got := b.Text(); got != "o" {
		t.Errorf("Text() = %q", got)
	}
	if deleted, _ := b.DeleteBeforeCursor(1); deleted != "" {
		t.Errorf("delete at start returned %q", deleted)
	}
}

func TestBufferReadOnly(t *testing.T) {
	ro := true
	b := New(WithReadOnly(func() bool { return ro }))

	if err := b.InsertText("x", false, true); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("InsertText error = %v, want ErrReadOnly", err)
	}
	b.SetCursorPosition(0)

	ro = false
	if err := b.InsertText("x", false, true); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "x" {
		t.Errorf("Text() = %q", got)
	}
}

func TestBufferUndoRedo(t *testing.T) {
	b := New()
	_ = b.InsertText("a", false, true)
	b.SaveToUndoStack(true)
	_ = b.InsertText("b", false, true)

	if err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "a" {
		t.Fatalf("after undo Text() = %q", got)
	}
	if err := b.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "ab" {
		t.Fatalf("after redo Text() = %q", got)
	}
	if err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := b.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("second undo error = %v", err)
	}
	if got := b.Text(); got != "a" {
		t.Errorf("Text() = %q", got)
	}
}

func TestBufferRedoEmpty(t *testing.T) {
	if err := New().Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() = %v", err)
	}
}

func TestBufferHistoryNavigation(t *testing.T) {
	b := New(WithHistory(NewInMemoryHistory("one", "two")))
	_ = b.InsertText("cur", false, true)

	steps := []struct {
		up   bool
		want string
	}{
		{true, "two"},
		{true, "one"},
		{true, "one"},
		{false, "two"},
		{false, "cur"},
		{false, "cur"},
	}
	for i, s := range steps {
		var err error
		if s.up {
			err = b.AutoUp(1)
		} else {
			err = b.AutoDown(1)
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got := b.Text(); got != s.want {
			t.Fatalf("step %d: Text() = %q, want %q", i, got, s.want)
		}
	}
}

func TestBufferPreferredColumn(t *testing.T) {
	b := New()
	b.Reset(NewDocumentAtEnd("abcdef\nx\nabcdef"))

	b.CursorUp(1)
	if got := b.CursorPosition(); got != 8 {
		t.Fatalf("after first up cursor = %d, want 8", got)
	}
	b.CursorUp(1)
	if got := b.CursorPosition(); got != 6 {
		t.Fatalf("after second up cursor = %d, want 6", got)
	}
}

func TestBufferAccept(t *testing.T) {
	h := NewInMemoryHistory()
	var accepted []string
	b := New(WithHistory(h), WithAcceptHandler(func(b *Buffer) bool {
		accepted = append(accepted, b.Text())
		return false
	}))

	for _, text := range []string{"select 1", "select 1", ""} {
		b.Reset(NewDocumentAtEnd(text))
		if err := b.Accept(); err != nil {
			t.Fatal(err)
		}
		if b.Text() != "" {
			t.Fatalf("buffer not reset after accepting %q", text)
		}
	}

	if got := h.Strings(); len(got) != 1 || got[0] != "select 1" {
		t.Errorf("history = %q", got)
	}
	if len(accepted) != 3 {
		t.Errorf("accept handler called %d times", len(accepted))
	}
}

func TestBufferTextChangedListener(t *testing.T) {
	b := New()
	calls := 0
	remove := b.OnTextChanged(func(*Buffer) { calls++ })

	_ = b.InsertText("a", false, true)
	b.SetCursorPosition(0)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	remove()
	_ = b.InsertText("b", false, true)
	if calls != 1 {
		t.Errorf("listener called after removal")
	}
}

func TestBufferTransforms(t *testing.T) {
	b := New()
	b.Reset(NewDocumentAtEnd("hello world"))
	if err := b.TransformRegion(0, 5, strings.ToUpper); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "HELLO world" {
		t.Errorf("Text() = %q", got)
	}

	b.Reset(NewDocumentAtEnd("ab"))
	if err := b.SwapCharactersBeforeCursor(); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "ba" {
		t.Errorf("Text() = %q", got)
	}
}
