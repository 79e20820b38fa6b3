// Package renderer draws a layout onto the terminal.
//
// Each frame the layout is written into a fresh screen.Screen, which is then
// compared with the previous frame by OutputScreenDiff. Only cells that
// changed are written, so a frame identical to the previous one produces no
// output at all.
//
// The renderer also tracks the terminal modes it has switched on (alternate
// screen, mouse reporting, bracketed paste) and the cursor position reports
// used to learn how much room is left below the prompt.
package renderer
