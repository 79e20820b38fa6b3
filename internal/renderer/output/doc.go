// Package output writes VT100/ANSI escape sequences to a terminal.
//
// Every Output method queues exactly one escape sequence (or literal text)
// into an internal buffer; nothing reaches the terminal until Flush.
// Capabilities such as color depth and title support are derived from the
// terminal type through the tcell terminfo database.
package output
