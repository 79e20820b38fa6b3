// Package buffer holds the editable text of a prompt.
//
// A Document is an immutable snapshot of text plus a cursor position and
// answers questions about lines, columns and words. A Buffer owns the
// current Document together with an undo stack, a kill ring clipboard and
// navigation through a History of previously accepted inputs.
//
// Cursor positions are rune offsets into the text.
package buffer
