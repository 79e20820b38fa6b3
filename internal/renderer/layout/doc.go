// Package layout arranges controls on the screen.
//
// A Layout wraps a tree of containers. HSplit stacks children vertically,
// ConditionalContainer shows its child only while a predicate holds, and
// Window draws a Control: a TextControl for static or computed text, or a
// BufferControl for an editable buffer. Lines are laid out by display
// width, with tabs expanded and soft wrapping when the window asks for it.
// The focused window places the terminal cursor.
package layout
