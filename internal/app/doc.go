// Package app runs a layout as an interactive terminal application.
//
// An Application owns one run at a time. RunAsync switches the input to
// raw mode, renders the layout and dispatches key presses until a key
// handler calls Exit or Abort. Everything that touches the layout, the
// renderer or the key processor happens on the event loop goroutine;
// Invalidate is the only method other goroutines may call.
//
//	a, err := app.New(app.Options{Layout: l, Bindings: b, Input: in, Output: out})
//	if err != nil {
//		return err
//	}
//	defer a.Close()
//	text, err := a.Run()
//
// RunInTerminal and RunCoroutineInTerminal lend the terminal to other
// code: the prompt is erased, the input is detached and put back in
// cooked mode, and the prompt is drawn again afterwards. Overlapping
// requests run one after another.
package app
