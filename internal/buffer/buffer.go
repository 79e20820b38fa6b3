package buffer

import "sync"

// DefaultMaxUndo is the default undo stack depth.
const DefaultMaxUndo = 1000

// AcceptHandler is called when the user accepts the input. Returning true
// keeps the text in the buffer; false resets it.
type AcceptHandler func(b *Buffer) (keepText bool)

// Option configures a Buffer.
type Option func(*Buffer)

// WithName names the buffer.
func WithName(name string) Option {
	return func(b *Buffer) { b.name = name }
}

// WithHistory sets the history used for navigation and on accept.
func WithHistory(h History) Option {
	return func(b *Buffer) { b.history = h }
}

// WithAcceptHandler sets the accept handler.
func WithAcceptHandler(fn AcceptHandler) Option {
	return func(b *Buffer) { b.accept = fn }
}

// WithReadOnly sets a predicate deciding whether edits are refused.
func WithReadOnly(fn func() bool) Option {
	return func(b *Buffer) { b.readOnly = fn }
}

// WithMultiline makes Enter insert a newline instead of accepting.
func WithMultiline(fn func() bool) Option {
	return func(b *Buffer) { b.multiline = fn }
}

// WithMaxUndo limits the undo stack.
func WithMaxUndo(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxUndo = n
		}
	}
}

type snapshot struct {
	text   string
	cursor int
}

// Buffer is the editable state behind a prompt.
type Buffer struct {
	mu sync.Mutex

	name      string
	doc       Document
	readOnly  func() bool
	multiline func() bool
	history   History
	accept    AcceptHandler

	undoStack []snapshot
	redoStack []snapshot
	maxUndo   int

	// Working copy of the history with the current input appended.
	working      []string
	workingIndex int

	// Column kept across vertical moves; -1 when unset.
	preferredCol int

	listeners  map[int]func(*Buffer)
	listenerID int
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		maxUndo:      DefaultMaxUndo,
		preferredCol: -1,
		listeners:    make(map[int]func(*Buffer)),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.loadWorkingLines()
	return b
}

// Name returns the buffer name.
func (b *Buffer) Name() string { return b.name }

// History returns the buffer history, or nil.
func (b *Buffer) History() History { return b.history }

// ReadOnly reports whether edits are currently refused.
func (b *Buffer) ReadOnly() bool {
	return b.readOnly != nil && b.readOnly()
}

// Multiline reports whether Enter should insert a newline.
func (b *Buffer) Multiline() bool {
	return b.multiline != nil && b.multiline()
}

// Document returns the current document.
func (b *Buffer) Document() Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc
}

// Text returns the current text.
func (b *Buffer) Text() string { return b.Document().Text() }

// CursorPosition returns the cursor offset.
func (b *Buffer) CursorPosition() int { return b.Document().CursorPosition() }

// OnTextChanged registers fn to run after every text change and returns
// a function removing it.
func (b *Buffer) OnTextChanged(fn func(*Buffer)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listenerID++
	id := b.listenerID
	b.listeners[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *Buffer) notify() {
	b.mu.Lock()
	fns := make([]func(*Buffer), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(b)
	}
}

// set replaces the document. Text changes are refused on read-only
// buffers unless force is set.
func (b *Buffer) set(d Document, force bool) error {
	ro := !force && b.ReadOnly()
	b.mu.Lock()
	changed := d.Text() != b.doc.Text()
	if changed && ro {
		b.mu.Unlock()
		return ErrReadOnly
	}
	b.doc = d
	b.preferredCol = -1
	if changed && b.workingIndex < len(b.working) {
		b.working[b.workingIndex] = d.Text()
	}
	b.mu.Unlock()
	if changed {
		b.notify()
	}
	return nil
}

// SetDocument replaces text and cursor.
func (b *Buffer) SetDocument(d Document) error { return b.set(d, false) }

// SetText replaces the text, keeping the cursor where possible.
func (b *Buffer) SetText(text string) error {
	return b.set(NewDocument(text, b.CursorPosition()), false)
}

// SetCursorPosition moves the cursor, clamped to the text.
func (b *Buffer) SetCursorPosition(pos int) {
	d := b.Document()
	_ = b.set(NewDocument(d.Text(), pos), true)
}

// InsertText inserts text at the cursor. With overwrite, characters on the
// current line are replaced instead of shifted. With moveCursor false the
// cursor stays before the inserted text.
func (b *Buffer) InsertText(text string, overwrite, moveCursor bool) error {
	d := b.Document()
	before := []rune(d.TextBeforeCursor())
	after := []rune(d.TextAfterCursor())
	ins := []rune(text)

	if overwrite {
		n := min(len(ins), len([]rune(d.CurrentLineAfterCursor())))
		after = after[n:]
	}

	out := make([]rune, 0, len(before)+len(ins)+len(after))
	out = append(append(append(out, before...), ins...), after...)
	cursor := len(before)
	if moveCursor {
		cursor += len(ins)
	}
	return b.set(Document{text: out, cursor: cursor}, false)
}

// Delete removes up to count runes after the cursor and returns them.
func (b *Buffer) Delete(count int) (string, error) {
	d := b.Document()
	if count <= 0 || d.IsCursorAtEnd() {
		return "", nil
	}
	end := min(d.cursor+count, len(d.text))
	deleted := string(d.text[d.cursor:end])
	out := append(append([]rune(nil), d.text[:d.cursor]...), d.text[end:]...)
	if err := b.set(Document{text: out, cursor: d.cursor}, false); err != nil {
		return "", err
	}
	return deleted, nil
}

// DeleteBeforeCursor removes up to count runes left of the cursor and
// returns them.
func (b *Buffer) DeleteBeforeCursor(count int) (string, error) {
	d := b.Document()
	if count <= 0 || d.cursor == 0 {
		return "", nil
	}
	start := max(d.cursor-count, 0)
	deleted := string(d.text[start:d.cursor])
	out := append(append([]rune(nil), d.text[:start]...), d.text[d.cursor:]...)
	if err := b.set(Document{text: out, cursor: start}, false); err != nil {
		return "", err
	}
	return deleted, nil
}

// Newline inserts a line break at the cursor.
func (b *Buffer) Newline() error { return b.InsertText("\n", false, true) }

// SwapCharactersBeforeCursor transposes the two runes left of the cursor.
func (b *Buffer) SwapCharactersBeforeCursor() error {
	d := b.Document()
	if d.cursor < 2 {
		return nil
	}
	out := append([]rune(nil), d.text...)
	out[d.cursor-2], out[d.cursor-1] = out[d.cursor-1], out[d.cursor-2]
	return b.set(Document{text: out, cursor: d.cursor}, false)
}

// TransformRegion replaces the runes in [from, to) with fn applied to them.
func (b *Buffer) TransformRegion(from, to int, fn func(string) string) error {
	d := b.Document()
	from = clamp(from, 0, len(d.text))
	to = clamp(to, from, len(d.text))
	mid := []rune(fn(string(d.text[from:to])))
	out := make([]rune, 0, len(d.text)-to+from+len(mid))
	out = append(append(append(out, d.text[:from]...), mid...), d.text[to:]...)
	return b.set(Document{text: out, cursor: clamp(d.cursor, 0, len(out))}, false)
}

// CursorLeft moves count runes left on the current line.
func (b *Buffer) CursorLeft(count int) {
	d := b.Document()
	b.SetCursorPosition(d.cursor + d.CursorLeftPosition(count))
}

// CursorRight moves count runes right on the current line.
func (b *Buffer) CursorRight(count int) {
	d := b.Document()
	b.SetCursorPosition(d.cursor + d.CursorRightPosition(count))
}

// CursorUp moves count lines up keeping the preferred column.
func (b *Buffer) CursorUp(count int) {
	b.verticalMove(func(d Document, col int) int { return d.CursorUpPosition(count, col) })
}

// CursorDown moves count lines down keeping the preferred column.
func (b *Buffer) CursorDown(count int) {
	b.verticalMove(func(d Document, col int) int { return d.CursorDownPosition(count, col) })
}

func (b *Buffer) verticalMove(delta func(Document, int) int) {
	b.mu.Lock()
	col := b.preferredCol
	if col < 0 {
		col = b.doc.CursorCol()
	}
	b.doc = NewDocument(b.doc.Text(), b.doc.cursor+delta(b.doc, col))
	b.preferredCol = col
	b.mu.Unlock()
}

// AutoUp moves up a line, or to an older history entry on the first line.
func (b *Buffer) AutoUp(count int) error {
	if b.Document().OnFirstLine() {
		return b.HistoryBackward(count)
	}
	b.CursorUp(count)
	return nil
}

// AutoDown moves down a line, or to a newer history entry on the last
// line.
func (b *Buffer) AutoDown(count int) error {
	if b.Document().OnLastLine() {
		return b.HistoryForward(count)
	}
	b.CursorDown(count)
	return nil
}

func (b *Buffer) loadWorkingLines() {
	var entries []string
	if b.history != nil {
		entries = b.history.Strings()
	}
	b.working = append(entries, b.doc.Text())
	b.workingIndex = len(b.working) - 1
}

// HistoryBackward loads an older history entry with the cursor at its end.
func (b *Buffer) HistoryBackward(count int) error {
	b.mu.Lock()
	idx := max(b.workingIndex-max(count, 1), 0)
	if idx == b.workingIndex {
		b.mu.Unlock()
		return nil
	}
	text := b.working[idx]
	b.mu.Unlock()
	return b.moveWorking(idx, NewDocumentAtEnd(text))
}

// HistoryForward loads a newer history entry with the cursor at the end of
// its first line.
func (b *Buffer) HistoryForward(count int) error {
	b.mu.Lock()
	idx := min(b.workingIndex+max(count, 1), len(b.working)-1)
	if idx == b.workingIndex {
		b.mu.Unlock()
		return nil
	}
	text := b.working[idx]
	b.mu.Unlock()
	d := NewDocument(text, 0)
	return b.moveWorking(idx, NewDocument(text, d.EndOfLinePosition()))
}

func (b *Buffer) moveWorking(idx int, d Document) error {
	if b.ReadOnly() {
		return ErrReadOnly
	}
	b.mu.Lock()
	b.workingIndex = idx
	b.mu.Unlock()
	return b.set(d, false)
}

// SaveToUndoStack records the current state. A state with the same text
// as the top of the stack only updates its cursor.
func (b *Buffer) SaveToUndoStack(clearRedo bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := snapshot{text: b.doc.Text(), cursor: b.doc.cursor}
	if n := len(b.undoStack); n > 0 && b.undoStack[n-1].text == s.text {
		b.undoStack[n-1] = s
	} else {
		b.undoStack = append(b.undoStack, s)
		if len(b.undoStack) > b.maxUndo {
			b.undoStack = b.undoStack[len(b.undoStack)-b.maxUndo:]
		}
	}
	if clearRedo {
		b.redoStack = nil
	}
}

// Undo restores the most recent saved state whose text differs from the
// current one.
func (b *Buffer) Undo() error {
	b.mu.Lock()
	cur := snapshot{text: b.doc.Text(), cursor: b.doc.cursor}
	for len(b.undoStack) > 0 {
		s := b.undoStack[len(b.undoStack)-1]
		b.undoStack = b.undoStack[:len(b.undoStack)-1]
		if s.text != cur.text {
			b.redoStack = append(b.redoStack, cur)
			b.mu.Unlock()
			return b.set(NewDocument(s.text, s.cursor), true)
		}
	}
	b.mu.Unlock()
	return ErrNothingToUndo
}

// Redo reapplies the most recently undone state.
func (b *Buffer) Redo() error {
	b.mu.Lock()
	if len(b.redoStack) == 0 {
		b.mu.Unlock()
		return ErrNothingToRedo
	}
	b.mu.Unlock()

	b.SaveToUndoStack(false)

	b.mu.Lock()
	s := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.mu.Unlock()
	return b.set(NewDocument(s.text, s.cursor), true)
}

// Reset replaces the document, clears undo state and reloads the history
// working copy.
func (b *Buffer) Reset(d Document) {
	b.mu.Lock()
	changed := d.Text() != b.doc.Text()
	b.doc = d
	b.undoStack = nil
	b.redoStack = nil
	b.preferredCol = -1
	b.loadWorkingLines()
	b.mu.Unlock()
	if changed {
		b.notify()
	}
}

// AppendToHistory stores the current text unless it is empty or repeats
// the latest entry.
func (b *Buffer) AppendToHistory() error {
	if b.history == nil {
		return nil
	}
	text := b.Text()
	if text == "" {
		return nil
	}
	entries := b.history.Strings()
	if n := len(entries); n > 0 && entries[n-1] == text {
		return nil
	}
	return b.history.Append(text)
}

// Accept runs the accept handler and records the text in the history.
// The buffer is reset unless the handler asks to keep the text.
func (b *Buffer) Accept() error {
	keep := false
	if b.accept != nil {
		keep = b.accept(b)
	}
	err := b.AppendToHistory()
	if !keep {
		b.Reset(Document{})
	}
	return err
}
