package key

import "strings"

// Sequence is an ordered list of keys, as used by key bindings.
// Examples: "c-x c-c", "escape b", "<any>".
type Sequence []Key

// String returns the space separated binding names.
func (s Sequence) String() string {
	if len(s) == 0 {
		return ""
	}
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = k.String()
	}
	return strings.Join(parts, " ")
}

// Equal returns true if both sequences hold the same keys.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if prefix is a prefix of s (or equal to it).
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)].Equal(prefix)
}

// Matches reports whether the binding sequence s matches keys position by
// position. KeyAny in s matches any key. anyCount is the number of wildcard
// positions used, so callers can prefer the most specific binding.
func (s Sequence) Matches(keys Sequence) (ok bool, anyCount int) {
	if len(s) != len(keys) {
		return false, 0
	}
	return s.matchPrefix(keys)
}

// MatchesPrefix reports whether keys is a strict prefix of the binding
// sequence s, honouring wildcards.
func (s Sequence) MatchesPrefix(keys Sequence) bool {
	if len(keys) >= len(s) {
		return false
	}
	ok, _ := s[:len(keys)].matchPrefix(keys)
	return ok
}

func (s Sequence) matchPrefix(keys Sequence) (bool, int) {
	anyCount := 0
	for i, k := range keys {
		switch s[i] {
		case k:
		case KeyAny:
			anyCount++
		default:
			return false, 0
		}
	}
	return true, anyCount
}

// Clone returns a copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}
