package bindings

import (
	"github.com/dshills/pgline/internal/input/keymap"
)

// argIsMinus is active right after "escape -".
var argIsMinus keymap.Filter = keymap.Condition(func(app keymap.App) bool {
	return app.KeyProcessor().Arg() == "-"
})

// Emacs returns the readline/Emacs editing bindings.
func Emacs(c *Commands) *keymap.Registry {
	r := keymap.NewRegistry()
	bind := func(spec, cmd string, opts ...keymap.BindingOption) {
		r.MustAdd(spec, c.Must(cmd), append([]keymap.BindingOption{keymap.Named(cmd)}, opts...)...)
	}

	bind("c-a", CmdBeginningOfLine)
	bind("c-e", CmdEndOfLine)
	bind("c-b", CmdBackwardChar)
	bind("c-f", CmdForwardChar)
	bind("c-p", CmdPreviousLine)
	bind("c-n", CmdNextLine)
	bind("escape b", CmdBackwardWord)
	bind("escape f", CmdForwardWord)
	bind("escape enter", CmdAcceptLine)
	bind("c-l", CmdClearScreen, keymap.NoSaveBefore())

	bind("c-k", CmdKillLine)
	bind("c-u", CmdUnixLineDiscard)
	bind("c-w", CmdUnixWordRubout)
	bind("escape d", CmdKillWord)
	bind("escape backspace", CmdBackwardKillWord)
	bind("c-y", CmdYank)
	bind("c-t", CmdTransposeChars)
	bind("escape u", CmdUppercaseWord)
	bind("escape l", CmdDowncaseWord)
	bind("escape c", CmdCapitalizeWord)

	bind("c-_", CmdUndo, keymap.NoSaveBefore())
	bind("c-x c-u", CmdUndo, keymap.NoSaveBefore())

	bind("c-q", CmdQuotedInsert)
	bind("c-v", CmdQuotedInsert)

	bind("c-x (", CmdStartKbdMacro)
	bind("c-x )", CmdEndKbdMacro)
	bind("c-x e", CmdCallLastKbdMacro, keymap.WithRecordInMacro(keymap.Never))

	digit := keymap.HandlerFunc(func(e *keymap.Event) error {
		e.AppendToArgCount(e.Data())
		return nil
	})
	for _, d := range []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"} {
		r.MustAdd("escape "+d, digit, keymap.Named("digit-argument"), keymap.NoSaveBefore())
		r.MustAdd(d, digit, keymap.Named("digit-argument"), keymap.NoSaveBefore(), keymap.WithFilter(keymap.HasArg))
	}
	r.MustAdd("escape -", keymap.HandlerFunc(func(e *keymap.Event) error {
		if !e.ArgPresent() {
			e.AppendToArgCount("-")
		}
		return nil
	}), keymap.Named("negative-argument"), keymap.NoSaveBefore(), keymap.WithFilter(keymap.Not(keymap.HasArg)))
	r.MustAdd("-", keymap.HandlerFunc(func(e *keymap.Event) error {
		e.AppendToArgCount("-")
		return nil
	}), keymap.Named("negative-argument"), keymap.NoSaveBefore(), keymap.WithFilter(argIsMinus))
	return r
}
