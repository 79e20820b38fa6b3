package fuzzy

import (
	"reflect"
	"testing"
)

var commands = []string{"accept-line", "backward-char", "beginning-of-line", "end-of-line"}

func TestMatch(t *testing.T) {
	m := NewMatcher(DefaultOptions())

	tests := []struct {
		query string
		want  []string
	}{
		{"eol", []string{"end-of-line", "beginning-of-line"}},
		{"EOL", []string{"end-of-line", "beginning-of-line"}},
		{"  eol ", []string{"end-of-line", "beginning-of-line"}},
		{"bwc", []string{"backward-char"}},
		{"xyz", []string{}},
		{"", commands},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := m.Filter(tt.query, commands, 0)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchPositions(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	results := m.Match("eol", commands, 0)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if want := []int{0, 4, 7}; !reflect.DeepEqual(results[0].Matches, want) {
		t.Errorf("Matches = %v, want %v", results[0].Matches, want)
	}
	if results[0].Index != 3 {
		t.Errorf("Index = %d, want 3", results[0].Index)
	}
	if results[0].Score != 169 || results[1].Score != 112 {
		t.Errorf("scores = %d, %d, want 169, 112", results[0].Score, results[1].Score)
	}
}

func TestMatchEmptyQueryScoresZero(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	for i, r := range m.Match("", commands, 0) {
		if r.Score != 0 || r.Index != i {
			t.Errorf("result %d = %+v", i, r)
		}
	}
}

func TestMatchLimit(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	if got := m.Filter("eol", commands, 1); !reflect.DeepEqual(got, []string{"end-of-line"}) {
		t.Errorf("got %v", got)
	}
	if got := m.Filter("", commands, 2); len(got) != 2 {
		t.Errorf("got %v", got)
	}
}

func TestMatchCaseSensitive(t *testing.T) {
	items := []string{"SELECT 1", "select 2"}

	m := NewMatcher(DefaultOptions())
	if got := m.Filter("sel", items, 0); len(got) != 2 {
		t.Errorf("insensitive: got %v", got)
	}

	m = NewMatcher(Options{CaseSensitive: true})
	if got := m.Filter("sel", items, 0); !reflect.DeepEqual(got, []string{"select 2"}) {
		t.Errorf("sensitive: got %v", got)
	}
}

func TestMatchDedupe(t *testing.T) {
	items := []string{"select 1", "select 1", "select 2"}
	m := NewMatcher(Options{Dedupe: true})
	results := m.Match("sel", items, 0)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Index != 0 || results[1].Index != 2 {
		t.Errorf("indices = %d, %d, want 0, 2", results[0].Index, results[1].Index)
	}
}

func TestMatchMinScore(t *testing.T) {
	m := NewMatcher(Options{MinScore: 150})
	if got := m.Filter("eol", commands, 0); !reflect.DeepEqual(got, []string{"end-of-line"}) {
		t.Errorf("got %v", got)
	}
}

func TestMatchRunes(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	results := m.Match("öß", []string{"größe"}, 0)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if want := []int{2, 3}; !reflect.DeepEqual(results[0].Matches, want) {
		t.Errorf("Matches = %v, want %v", results[0].Matches, want)
	}
}

func TestSetScorer(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	m.SetScorer(ScorerFunc(func(_, original, _ []rune, _ []int) int { return len(original) }))
	got := m.Filter("eol", commands, 0)
	if want := []string{"beginning-of-line", "end-of-line"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScoreFloor(t *testing.T) {
	var s WeightedScorer
	q := []rune("z")
	text := []rune("abcz")
	if got := s.Score(q, text, text, []int{3}); got != 1 {
		t.Errorf("Score = %d, want 1", got)
	}
}

func TestIsWordStart(t *testing.T) {
	tests := []struct {
		text string
		idx  int
		want bool
	}{
		{"foobar", 0, true},
		{"fooBar", 3, true},
		{"foo bar", 4, true},
		{"foo_bar", 4, true},
		{"foobar", 3, false},
		{"foo", 5, false},
	}
	for _, tt := range tests {
		if got := isWordStart([]rune(tt.text), tt.idx); got != tt.want {
			t.Errorf("isWordStart(%q, %d) = %v, want %v", tt.text, tt.idx, got, tt.want)
		}
	}
}
