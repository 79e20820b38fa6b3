package bindings

import (
	"strings"

	"github.com/dshills/pgline/internal/input/key"
	"github.com/dshills/pgline/internal/input/keymap"
)

// IsMultiline is active when the current buffer wants Enter to insert a
// newline.
var IsMultiline keymap.Filter = keymap.Condition(func(app keymap.App) bool {
	b := app.CurrentBuffer()
	return b != nil && b.Multiline()
})

// ignored keys are swallowed so that <any> does not insert them.
var ignored = []string{
	"escape",
	"c-@", "c-a", "c-b", "c-c", "c-d", "c-e", "c-f", "c-g", "c-h", "c-i",
	"c-j", "c-k", "c-l", "c-m", "c-n", "c-o", "c-p", "c-q", "c-r", "c-s",
	"c-t", "c-u", "c-v", "c-w", "c-x", "c-y", "c-z",
	"c-\\", "c-]", "c-^", "c-_",
	"left", "right", "up", "down", "home", "end", "insert", "delete",
	"pageup", "pagedown",
	"c-left", "c-right", "c-up", "c-down", "c-home", "c-end", "c-insert",
	"c-delete", "c-pageup", "c-pagedown",
	"s-left", "s-right", "s-up", "s-down", "s-home", "s-end", "s-insert",
	"s-delete", "s-pageup", "s-pagedown",
	"c-s-left", "c-s-right", "c-s-home", "c-s-end",
	"s-tab",
	"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12",
	"f13", "f14", "f15", "f16", "f17", "f18", "f19", "f20", "f21", "f22",
	"f23", "f24",
	"<ignore>",
}

// ifNoRepeat groups a run of the same command into one undo step.
func ifNoRepeat(e *keymap.Event) bool { return !e.IsRepeat() }

// Basic returns the bindings every prompt needs: cursor keys, deletion,
// history, Enter and self-insert.
func Basic(c *Commands) *keymap.Registry {
	r := keymap.NewRegistry()
	ignoreH := c.Must(CmdIgnore)
	for _, spec := range ignored {
		r.MustAdd(spec, ignoreH, keymap.Named(CmdIgnore), keymap.NoSaveBefore())
	}

	bind := func(spec, cmd string, opts ...keymap.BindingOption) {
		r.MustAdd(spec, c.Must(cmd), append([]keymap.BindingOption{keymap.Named(cmd)}, opts...)...)
	}
	bind("home", CmdBeginningOfLine)
	bind("end", CmdEndOfLine)
	bind("left", CmdBackwardChar)
	bind("right", CmdForwardChar)
	bind("c-left", CmdBackwardWord)
	bind("c-right", CmdForwardWord)
	bind("up", CmdPreviousLine)
	bind("down", CmdNextLine)
	bind("c-up", CmdPreviousHistory)
	bind("c-down", CmdNextHistory)
	bind("delete", CmdDeleteChar)
	bind("c-delete", CmdKillWord)
	bind("backspace", CmdBackwardDeleteChar, keymap.WithSaveBefore(ifNoRepeat))
	bind("<any>", CmdSelfInsert, keymap.WithSaveBefore(ifNoRepeat))

	bind("enter", CmdNewline, keymap.WithFilter(IsMultiline))
	bind("enter", CmdAcceptLine, keymap.WithFilter(keymap.Not(IsMultiline)))
	r.MustAdd("c-j", keymap.HandlerFunc(func(e *keymap.Event) error {
		e.Processor().FeedMultiple([]key.KeyPress{key.NewKeyPress(key.KeyEnter, "\r")}, true)
		return nil
	}), keymap.Named("enter"), keymap.NoSaveBefore())

	r.MustAdd("<bracketed-paste>", keymap.HandlerFunc(paste), keymap.Named("paste"))

	r.MustAdd("<any>", keymap.HandlerFunc(c.insertQuoted),
		keymap.Named(CmdQuotedInsert),
		keymap.WithFilter(c.inQuotedInsert()),
		keymap.Eager())
	return r
}

// paste inserts bracketed paste data with line endings normalised.
func paste(e *keymap.Event) error {
	data := strings.ReplaceAll(e.Data(), "\r\n", "\n")
	data = strings.ReplaceAll(data, "\r", "\n")
	return e.CurrentBuffer().InsertText(data, false, true)
}
