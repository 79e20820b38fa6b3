package buffer

import "testing"

func TestDocumentLines(t *testing.T) {
	d := NewDocument("ab\ncd", 4)

	if row, col := d.CursorRow(), d.CursorCol(); row != 1 || col != 1 {
		t.Fatalf("cursor = (%d, %d), want (1, 1)", row, col)
	}
	if got := d.CurrentLine(); got != "cd" {
		t.Errorf("CurrentLine() = %q", got)
	}
	if got := d.CurrentLineBeforeCursor(); got != "c" {
		t.Errorf("CurrentLineBeforeCursor() = %q", got)
	}
	if got := d.CurrentLineAfterCursor(); got != "d" {
		t.Errorf("CurrentLineAfterCursor() = %q", got)
	}
	if got := d.StartOfLinePosition(); got != -1 {
		t.Errorf("StartOfLinePosition() = %d", got)
	}
	if got := d.EndOfLinePosition(); got != 1 {
		t.Errorf("EndOfLinePosition() = %d", got)
	}
	if d.OnFirstLine() || !d.OnLastLine() {
		t.Error("cursor should be on the last line only")
	}
	if got := d.LineCount(); got != 2 {
		t.Errorf("LineCount() = %d", got)
	}
}

func TestDocumentClampsCursor(t *testing.T) {
	if got := NewDocument("abc", 10).CursorPosition(); got != 3 {
		t.Errorf("cursor = %d, want 3", got)
	}
	if got := NewDocument("abc", -2).CursorPosition(); got != 0 {
		t.Errorf("cursor = %d, want 0", got)
	}
}

func TestDocumentRowColTranslation(t *testing.T) {
	d := NewDocument("ab\ncd", 0)
	tests := []struct {
		row, col, want int
	}{
		{0, 0, 0},
		{0, 10, 2},
		{1, 1, 4},
		{5, 0, 3},
		{-1, 1, 1},
	}
	for _, tt := range tests {
		if got := d.TranslateRowColToIndex(tt.row, tt.col); got != tt.want {
			t.Errorf("TranslateRowColToIndex(%d, %d) = %d, want %d", tt.row, tt.col, got, tt.want)
		}
	}
	if row, col := d.TranslateIndexToPosition(3); row != 1 || col != 0 {
		t.Errorf("TranslateIndexToPosition(3) = (%d, %d)", row, col)
	}
}

func TestDocumentVerticalPositions(t *testing.T) {
	d := NewDocument("abc\nx\nabc", 9)
	if got := d.CursorUpPosition(1, -1); got != -4 {
		t.Errorf("CursorUpPosition = %d, want -4", got)
	}
	d = NewDocument("abc\nx", 2)
	if got := d.CursorDownPosition(1, -1); got != 3 {
		t.Errorf("CursorDownPosition = %d, want 3", got)
	}
}

func TestDocumentWords(t *testing.T) {
	d := NewDocumentAtEnd("select foo_bar, baz")
	if got := d.FindPreviousWordBeginning(1); got != -3 {
		t.Errorf("FindPreviousWordBeginning(1) = %d", got)
	}
	if got := d.FindPreviousWordBeginning(2); got != -12 {
		t.Errorf("FindPreviousWordBeginning(2) = %d", got)
	}

	d = NewDocument("select foo_bar, baz", 0)
	if got := d.FindNextWordEnding(1); got != 6 {
		t.Errorf("FindNextWordEnding(1) = %d", got)
	}

	d = NewDocumentAtEnd("foo bar  ")
	if got := d.FindStartOfPreviousWhitespaceWord(); got != -5 {
		t.Errorf("FindStartOfPreviousWhitespaceWord() = %d", got)
	}
}

func TestDocumentUnicodeOffsets(t *testing.T) {
	d := NewDocument("héllo", 2)
	if got := d.TextBeforeCursor(); got != "hé" {
		t.Errorf("TextBeforeCursor() = %q", got)
	}
	if got := d.CharBeforeCursor(); got != 'é' {
		t.Errorf("CharBeforeCursor() = %q", got)
	}
	if got := d.CurrentChar(); got != 'l' {
		t.Errorf("CurrentChar() = %q", got)
	}
}
