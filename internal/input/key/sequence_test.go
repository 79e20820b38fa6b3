package key

import "testing"

func TestSequenceMatches(t *testing.T) {
	tests := []struct {
		name     string
		binding  Sequence
		keys     Sequence
		ok       bool
		anyCount int
	}{
		{"exact", Sequence{KeyCtrlX, KeyCtrlC}, Sequence{KeyCtrlX, KeyCtrlC}, true, 0},
		{"length mismatch", Sequence{KeyCtrlX, KeyCtrlC}, Sequence{KeyCtrlX}, false, 0},
		{"different", Sequence{KeyCtrlX}, Sequence{KeyCtrlD}, false, 0},
		{"wildcard", Sequence{KeyAny}, Sequence{'q'}, true, 1},
		{"trailing wildcard", Sequence{KeyEscape, KeyAny}, Sequence{KeyEscape, 'b'}, true, 1},
		{"wildcard mismatch head", Sequence{KeyEscape, KeyAny}, Sequence{KeyCtrlX, 'b'}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, n := tt.binding.Matches(tt.keys)
			if ok != tt.ok || n != tt.anyCount {
				t.Errorf("Matches = %v, %d; want %v, %d", ok, n, tt.ok, tt.anyCount)
			}
		})
	}
}

func TestSequenceMatchesPrefix(t *testing.T) {
	b := Sequence{KeyCtrlX, KeyCtrlC}
	if !b.MatchesPrefix(Sequence{KeyCtrlX}) {
		t.Error("c-x should be a strict prefix of c-x c-c")
	}
	if b.MatchesPrefix(Sequence{KeyCtrlX, KeyCtrlC}) {
		t.Error("a full match is not a strict prefix")
	}
	if b.MatchesPrefix(Sequence{KeyCtrlD}) {
		t.Error("c-d is not a prefix")
	}
	if !(Sequence{KeyAny, 'x'}).MatchesPrefix(Sequence{'z'}) {
		t.Error("wildcard should match in prefix position")
	}
}

func TestSequenceHelpers(t *testing.T) {
	s := Sequence{KeyEscape, 'b'}
	c := s.Clone()
	c[1] = 'f'
	if s[1] != 'b' {
		t.Error("Clone shares storage")
	}
	if !s.HasPrefix(Sequence{KeyEscape}) || s.HasPrefix(Sequence{KeyEscape, 'b', 'c'}) {
		t.Error("HasPrefix wrong")
	}
	if got := Keys([]KeyPress{NewKeyPress('a', ""), NewKeyPress(KeyLeft, "\x1b[D")}); !got.Equal(Sequence{'a', KeyLeft}) {
		t.Errorf("Keys = %v", got)
	}
	if (Sequence{}).String() != "" {
		t.Error("empty sequence should render empty")
	}
}
