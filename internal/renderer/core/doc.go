// Package core provides the value types shared by the screen, the output
// and the renderer: colors, text attributes, color depth and style sheets.
// It has no dependencies on the rest of the renderer so it breaks import
// cycles between them.
package core
