// Package script runs user Lua code for key bindings.
//
// A State is a sandboxed gopher-lua interpreter: only the base, table,
// string and math libraries are available and file loading is removed.
// Scripts reach the editor through the global pgline module:
//
//	pgline.bind("c-o", function(event)
//	    event:insert(string.upper(event:data()))
//	end, "shout")
//
// Keymap files refer to Lua with "lua:" commands. The rest of the command
// is either the name of a global function or an inline chunk that sees the
// key event as the local variable event.
//
// Handlers run on the event loop goroutine; each call is bounded by the
// state's timeout.
package script
