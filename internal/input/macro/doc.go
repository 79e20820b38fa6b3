// Package macro records keyboard macros.
//
// A Recorder captures the key presses handled while recording is active
// (readline's "c-x (" ... "c-x )") and keeps the last completed macro so it
// can be replayed with "c-x e". Replay is performed by the key processor,
// which feeds the recorded presses back at the front of its input queue.
package macro
