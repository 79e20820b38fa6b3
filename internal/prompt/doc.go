// Package prompt reads statements from the user with a line editor.
//
// A Session owns the buffer, layout, key bindings and application for a
// prompt and keeps them between calls, so history and typeahead carry
// over:
//
//	s, err := prompt.New(prompt.Options{Message: "pg> ", Config: cfg})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	for {
//		text, err := s.Prompt(ctx)
//		if errors.Is(err, prompt.ErrEOF) {
//			return nil
//		}
//		...
//	}
//
// The user keymap and Lua file named in the configuration are loaded when
// the session is created and again whenever either file changes.
package prompt
