package bindings

import (
	"errors"
	"strings"
	"unicode"

	"github.com/dshills/pgline/internal/buffer"
	"github.com/dshills/pgline/internal/input/keymap"
)

func moveBy(e *keymap.Event, delta func(buffer.Document) int) error {
	b := e.CurrentBuffer()
	d := b.Document()
	b.SetCursorPosition(d.CursorPosition() + delta(d))
	return nil
}

func beginningOfLine(e *keymap.Event) error {
	return moveBy(e, buffer.Document.StartOfLinePosition)
}

func endOfLine(e *keymap.Event) error {
	return moveBy(e, buffer.Document.EndOfLinePosition)
}

func forwardChar(e *keymap.Event) error {
	return moveBy(e, func(d buffer.Document) int { return d.CursorRightPosition(e.Arg()) })
}

func backwardChar(e *keymap.Event) error {
	return moveBy(e, func(d buffer.Document) int { return d.CursorLeftPosition(e.Arg()) })
}

func forwardWord(e *keymap.Event) error {
	return moveBy(e, func(d buffer.Document) int { return d.FindNextWordEnding(e.Arg()) })
}

func backwardWord(e *keymap.Event) error {
	return moveBy(e, func(d buffer.Document) int { return d.FindPreviousWordBeginning(e.Arg()) })
}

func previousLine(e *keymap.Event) error { return e.CurrentBuffer().AutoUp(e.Arg()) }
func nextLine(e *keymap.Event) error { return e.CurrentBuffer().AutoDown(e.Arg()) }

func previousHistory(e *keymap.Event) error { return e.CurrentBuffer().HistoryBackward(e.Arg()) }
func nextHistory(e *keymap.Event) error { return e.CurrentBuffer().HistoryForward(e.Arg()) }

func acceptLine(e *keymap.Event) error { return e.CurrentBuffer().Accept() }

func newline(e *keymap.Event) error { return e.CurrentBuffer().Newline() }

func clearScreen(e *keymap.Event) error {
	if r := e.App().Renderer(); r != nil {
		r.Clear()
	}
	return nil
}

func deleteChar(e *keymap.Event) error {
	deleted, err := e.CurrentBuffer().Delete(e.Arg())
	if err == nil && deleted == "" {
		e.App().Bell()
	}
	return err
}

func backwardDeleteChar(e *keymap.Event) error {
	b := e.CurrentBuffer()
	var deleted string
	var err error
	if n := e.Arg(); n < 0 {
		deleted, err = b.Delete(-n)
	} else {
		deleted, err = b.DeleteBeforeCursor(n)
	}
	if err == nil && deleted == "" {
		e.App().Bell()
	}
	return err
}

// kill stores deleted text in the kill ring. Repeated kills accumulate
// into one entry.
func kill(e *keymap.Event, deleted string, before bool) {
	clip := e.App().Clipboard()
	if clip == nil || deleted == "" {
		return
	}
	if e.IsRepeat() {
		clip.Extend(deleted, before)
		return
	}
	clip.Set(deleted)
}

func killLine(e *keymap.Event) error {
	b := e.CurrentBuffer()
	d := b.Document()
	var deleted string
	var err error
	switch {
	case e.Arg() < 0:
		deleted, err = b.DeleteBeforeCursor(-d.StartOfLinePosition())
	case d.CurrentChar() == '\n':
		deleted, err = b.Delete(1)
	default:
		deleted, err = b.Delete(d.EndOfLinePosition())
	}
	if err != nil {
		return err
	}
	kill(e, deleted, false)
	return nil
}

func unixLineDiscard(e *keymap.Event) error {
	b := e.CurrentBuffer()
	d := b.Document()
	if d.CursorCol() == 0 {
		_, err := b.DeleteBeforeCursor(1)
		return err
	}
	deleted, err := b.DeleteBeforeCursor(-d.StartOfLinePosition())
	if err != nil {
		return err
	}
	kill(e, deleted, true)
	return nil
}

func rubout(e *keymap.Event, start func(buffer.Document) int) error {
	b := e.CurrentBuffer()
	pos := start(b.Document())
	if pos == 0 {
		e.App().Bell()
		return nil
	}
	deleted, err := b.DeleteBeforeCursor(-pos)
	if err != nil {
		return err
	}
	kill(e, deleted, true)
	return nil
}

func unixWordRubout(e *keymap.Event) error {
	return rubout(e, func(d buffer.Document) int {
		total := 0
		for range max(e.Arg(), 1) {
			n := buffer.NewDocument(d.Text(), d.CursorPosition()+total).FindStartOfPreviousWhitespaceWord()
			if n == 0 {
				break
			}
			total += n
		}
		return total
	})
}

func backwardKillWord(e *keymap.Event) error {
	return rubout(e, func(d buffer.Document) int { return d.FindPreviousWordBeginning(e.Arg()) })
}

func killWord(e *keymap.Event) error {
	b := e.CurrentBuffer()
	pos := b.Document().FindNextWordEnding(e.Arg())
	if pos == 0 {
		return nil
	}
	deleted, err := b.Delete(pos)
	if err != nil {
		return err
	}
	kill(e, deleted, false)
	return nil
}

func yank(e *keymap.Event) error {
	clip := e.App().Clipboard()
	if clip == nil {
		return nil
	}
	text := clip.Get()
	if text == "" {
		return nil
	}
	return e.CurrentBuffer().InsertText(strings.Repeat(text, max(e.Arg(), 1)), false, true)
}

func transposeChars(e *keymap.Event) error {
	b := e.CurrentBuffer()
	d := b.Document()
	switch {
	case d.CursorPosition() == 0:
		return nil
	case d.IsCursorAtEnd() || d.CurrentChar() == '\n':
		return b.SwapCharactersBeforeCursor()
	}
	b.SetCursorPosition(d.CursorPosition() + d.CursorRightPosition(1))
	return b.SwapCharactersBeforeCursor()
}

func caseWord(fn func(string) string) keymap.HandlerFunc {
	return func(e *keymap.Event) error {
		b := e.CurrentBuffer()
		for range max(e.Arg(), 1) {
			d := b.Document()
			pos := d.FindNextWordEnding(1)
			if pos == 0 {
				break
			}
			start := d.CursorPosition()
			if err := b.TransformRegion(start, start+pos, fn); err != nil {
				return err
			}
			b.SetCursorPosition(start + pos)
		}
		return nil
	}
}

func capitalize(s string) string {
	out := []rune(strings.ToLower(s))
	for i, r := range out {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out[i] = unicode.ToTitle(r)
			break
		}
	}
	return string(out)
}

func undo(e *keymap.Event) error {
	if err := e.CurrentBuffer().Undo(); err != nil && !errors.Is(err, buffer.ErrNothingToUndo) {
		return err
	}
	return nil
}

func startKbdMacro(e *keymap.Event) error { return e.Processor().Macros().Start() }

func endKbdMacro(e *keymap.Event) error {
	_, err := e.Processor().Macros().Stop()
	return err
}

func callLastKbdMacro(e *keymap.Event) error {
	if m := e.Processor().Macros().Last(); len(m) > 0 {
		e.Processor().FeedMultiple(m, true)
	}
	return nil
}

func selfInsert(e *keymap.Event) error {
	n := e.Arg()
	if n <= 0 {
		return nil
	}
	return e.CurrentBuffer().InsertText(strings.Repeat(e.Data(), n), false, true)
}

func (c *Commands) quotedInsert(*keymap.Event) error {
	c.mu.Lock()
	c.quoted = true
	c.mu.Unlock()
	return nil
}

// inQuotedInsert is active after quoted-insert until the next key.
func (c *Commands) inQuotedInsert() keymap.Filter {
	return keymap.Condition(func(keymap.App) bool {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.quoted
	})
}

func (c *Commands) insertQuoted(e *keymap.Event) error {
	c.mu.Lock()
	c.quoted = false
	c.mu.Unlock()
	return e.CurrentBuffer().InsertText(e.Data(), false, true)
}

func ignore(*keymap.Event) error { return nil }
