// Package input reads key presses from a terminal.
//
// An Input owns a file descriptor that the event loop polls. When it is
// readable the attached callback calls ReadKeys, which reads whatever bytes
// are available, decodes them as UTF-8 and runs them through the VT100
// parser. FlushKeys resolves a pending escape prefix after the input
// timeout, so a lone Escape is delivered without waiting for another key.
//
// Two implementations are provided: Posix for a real terminal and Pipe for
// tests and non-interactive use.
package input
