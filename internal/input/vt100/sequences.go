package vt100

import "github.com/dshills/pgline/internal/input/key"

// ansiSequences maps raw input sequences to the keys they produce.
// Most entries produce one key; modified arrows that terminals encode as
// Meta produce Escape followed by the arrow.
var ansiSequences = map[string][]key.Key{
	// Control characters.
	"\x00": {key.KeyCtrlAt},
	"\x01": {key.KeyCtrlA},
	"\x02": {key.KeyCtrlB},
	"\x03": {key.KeyCtrlC},
	"\x04": {key.KeyCtrlD},
	"\x05": {key.KeyCtrlE},
	"\x06": {key.KeyCtrlF},
	"\x07": {key.KeyCtrlG},
	"\x08": {key.KeyCtrlH},
	"\x09": {key.KeyCtrlI},
	"\x0a": {key.KeyCtrlJ},
	"\x0b": {key.KeyCtrlK},
	"\x0c": {key.KeyCtrlL},
	"\x0d": {key.KeyCtrlM},
	"\x0e": {key.KeyCtrlN},
	"\x0f": {key.KeyCtrlO},
	"\x10": {key.KeyCtrlP},
	"\x11": {key.KeyCtrlQ},
	"\x12": {key.KeyCtrlR},
	"\x13": {key.KeyCtrlS},
	"\x14": {key.KeyCtrlT},
	"\x15": {key.KeyCtrlU},
	"\x16": {key.KeyCtrlV},
	"\x17": {key.KeyCtrlW},
	"\x18": {key.KeyCtrlX},
	"\x19": {key.KeyCtrlY},
	"\x1a": {key.KeyCtrlZ},
	"\x1b": {key.KeyEscape},
	"\x1c": {key.KeyCtrlBackslash},
	"\x1d": {key.KeyCtrlSquareClose},
	"\x1e": {key.KeyCtrlCircumflex},
	"\x1f": {key.KeyCtrlUnderscore},
	"\x7f": {key.KeyBackspace},

	// Cursor keys, normal and application mode.
	"\x1b[A": {key.KeyUp},
	"\x1b[B": {key.KeyDown},
	"\x1b[C": {key.KeyRight},
	"\x1b[D": {key.KeyLeft},
	"\x1b[H": {key.KeyHome},
	"\x1b[F": {key.KeyEnd},
	"\x1bOA": {key.KeyUp},
	"\x1bOB": {key.KeyDown},
	"\x1bOC": {key.KeyRight},
	"\x1bOD": {key.KeyLeft},
	"\x1bOH": {key.KeyHome},
	"\x1bOF": {key.KeyEnd},

	// Editing keypad.
	"\x1b[1~":   {key.KeyHome},
	"\x1b[2~":   {key.KeyInsert},
	"\x1b[3~":   {key.KeyDelete},
	"\x1b[4~":   {key.KeyEnd},
	"\x1b[5~":   {key.KeyPageUp},
	"\x1b[6~":   {key.KeyPageDown},
	"\x1b[7~":   {key.KeyHome},
	"\x1b[8~":   {key.KeyEnd},
	"\x1b[Z":    {key.KeyBackTab},
	"\x1b[2;2~": {key.KeyShiftInsert},
	"\x1b[3;2~": {key.KeyShiftDelete},
	"\x1b[3;5~": {key.KeyCtrlDelete},
	"\x1b[2;5~": {key.KeyCtrlInsert},
	"\x1b[5;5~": {key.KeyCtrlPageUp},
	"\x1b[6;5~": {key.KeyCtrlPageDown},
	"\x1b[5;2~": {key.KeyShiftPageUp},
	"\x1b[6;2~": {key.KeyShiftPageDown},

	// Function keys.
	"\x1bOP":   {key.KeyF1},
	"\x1bOQ":   {key.KeyF2},
	"\x1bOR":   {key.KeyF3},
	"\x1bOS":   {key.KeyF4},
	"\x1b[[A":  {key.KeyF1}, // Linux console.
	"\x1b[[B":  {key.KeyF2},
	"\x1b[[C":  {key.KeyF3},
	"\x1b[[D":  {key.KeyF4},
	"\x1b[[E":  {key.KeyF5},
	"\x1b[11~": {key.KeyF1}, // rxvt-unicode.
	"\x1b[12~": {key.KeyF2},
	"\x1b[13~": {key.KeyF3},
	"\x1b[14~": {key.KeyF4},
	"\x1b[15~": {key.KeyF5},
	"\x1b[17~": {key.KeyF6},
	"\x1b[18~": {key.KeyF7},
	"\x1b[19~": {key.KeyF8},
	"\x1b[20~": {key.KeyF9},
	"\x1b[21~": {key.KeyF10},
	"\x1b[23~": {key.KeyF11},
	"\x1b[24~": {key.KeyF12},
	"\x1b[25~": {key.KeyF13},
	"\x1b[26~": {key.KeyF14},
	"\x1b[28~": {key.KeyF15},
	"\x1b[29~": {key.KeyF16},
	"\x1b[31~": {key.KeyF17},
	"\x1b[32~": {key.KeyF18},
	"\x1b[33~": {key.KeyF19},
	"\x1b[34~": {key.KeyF20},

	// xterm shifted function keys.
	"\x1b[1;2P":  {key.KeyF13},
	"\x1b[1;2Q":  {key.KeyF14},
	"\x1b[1;2S":  {key.KeyF16},
	"\x1b[15;2~": {key.KeyF17},
	"\x1b[17;2~": {key.KeyF18},
	"\x1b[18;2~": {key.KeyF19},
	"\x1b[19;2~": {key.KeyF20},
	"\x1b[20;2~": {key.KeyF21},
	"\x1b[21;2~": {key.KeyF22},
	"\x1b[23;2~": {key.KeyF23},
	"\x1b[24;2~": {key.KeyF24},

	// xterm modified cursor keys.
	"\x1b[1;2A": {key.KeyShiftUp},
	"\x1b[1;2B": {key.KeyShiftDown},
	"\x1b[1;2C": {key.KeyShiftRight},
	"\x1b[1;2D": {key.KeyShiftLeft},
	"\x1b[1;2H": {key.KeyShiftHome},
	"\x1b[1;2F": {key.KeyShiftEnd},
	"\x1b[1;5A": {key.KeyCtrlUp},
	"\x1b[1;5B": {key.KeyCtrlDown},
	"\x1b[1;5C": {key.KeyCtrlRight},
	"\x1b[1;5D": {key.KeyCtrlLeft},
	"\x1b[1;5H": {key.KeyCtrlHome},
	"\x1b[1;5F": {key.KeyCtrlEnd},
	"\x1b[1;6C": {key.KeyCtrlShiftRight},
	"\x1b[1;6D": {key.KeyCtrlShiftLeft},
	"\x1b[1;6H": {key.KeyCtrlShiftHome},
	"\x1b[1;6F": {key.KeyCtrlShiftEnd},

	// Meta + cursor keys arrive as one sequence but bind as Escape + key.
	"\x1b[1;3A": {key.KeyEscape, key.KeyUp},
	"\x1b[1;3B": {key.KeyEscape, key.KeyDown},
	"\x1b[1;3C": {key.KeyEscape, key.KeyRight},
	"\x1b[1;3D": {key.KeyEscape, key.KeyLeft},
	"\x1b[1;3H": {key.KeyEscape, key.KeyHome},
	"\x1b[1;3F": {key.KeyEscape, key.KeyEnd},
	"\x1b[1;9A": {key.KeyEscape, key.KeyUp}, // iTerm2 with Option as Meta.
	"\x1b[1;9B": {key.KeyEscape, key.KeyDown},
	"\x1b[1;9C": {key.KeyEscape, key.KeyRight},
	"\x1b[1;9D": {key.KeyEscape, key.KeyLeft},

	// rxvt modified cursor keys.
	"\x1b[5A": {key.KeyCtrlUp},
	"\x1b[5B": {key.KeyCtrlDown},
	"\x1b[5C": {key.KeyCtrlRight},
	"\x1b[5D": {key.KeyCtrlLeft},
	"\x1bOa":  {key.KeyCtrlUp},
	"\x1bOb":  {key.KeyCtrlDown},
	"\x1bOc":  {key.KeyCtrlRight},
	"\x1bOd":  {key.KeyCtrlLeft},
	"\x1b[a":  {key.KeyShiftUp},
	"\x1b[b":  {key.KeyShiftDown},
	"\x1b[c":  {key.KeyShiftRight},
	"\x1b[d":  {key.KeyShiftLeft},

	// Keypad 5 and other sequences that carry no meaning here.
	"\x1b[E": {key.KeyIgnore},
	"\x1b[G": {key.KeyIgnore},

	"\x1b[200~": {key.KeyBracketedPaste},
}

// Sequences returns a copy of the input sequence table.
func Sequences() map[string][]key.Key {
	out := make(map[string][]key.Key, len(ansiSequences))
	for s, keys := range ansiSequences {
		out[s] = append([]key.Key(nil), keys...)
	}
	return out
}
