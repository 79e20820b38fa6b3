// Package vt100 parses the decoded character stream of a VT100-compatible
// terminal into key presses.
//
// The parser keeps a prefix buffer. After every character it checks whether
// the buffer is a known sequence and whether it could still grow into a
// longer one. Ambiguous prefixes such as a lone Escape stay buffered until
// more input arrives or Flush is called. Input that matches nothing is
// resolved by emitting the longest matching head and retrying the rest,
// falling back to emitting the first character literally, so no input is
// ever dropped.
//
// Bracketed paste content bypasses the state machine and is delivered as a
// single KeyBracketedPaste key press.
package vt100
