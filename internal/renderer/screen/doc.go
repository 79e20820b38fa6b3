// Package screen provides the character grid that layouts draw into and the
// renderer diffs against the previous frame.
//
// A Screen is sparse: only written cells are stored, and every other cell
// reads as a blank with the default style. Each cell holds one grapheme
// cluster. Double-width clusters occupy two cells; the second holds a
// zero-width sentinel so that overwriting either half blanks the other.
package screen
