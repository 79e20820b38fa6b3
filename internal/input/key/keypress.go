package key

import "fmt"

// KeyPress is a single decoded terminal event: the logical key plus the raw
// text that produced it. Handlers that insert literal text use Data.
type KeyPress struct {
	Key  Key
	Data string
}

// NewKeyPress creates a key press. When data is empty and k is a character
// key, the character itself is used as data.
func NewKeyPress(k Key, data string) KeyPress {
	if data == "" && k.IsRune() {
		data = string(k.Rune())
	}
	return KeyPress{Key: k, Data: data}
}

// String returns a debug representation, e.g. KeyPress(left, "\x1b[D").
func (kp KeyPress) String() string {
	return fmt.Sprintf("KeyPress(%s, %q)", kp.Key, kp.Data)
}

// Keys extracts the logical keys of a list of key presses.
func Keys(presses []KeyPress) Sequence {
	seq := make(Sequence, len(presses))
	for i, kp := range presses {
		seq[i] = kp.Key
	}
	return seq
}
