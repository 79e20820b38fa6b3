package fuzzy

import "unicode"

// Scorer rates a match. query and folded are case folded unless the
// matcher is case sensitive; original keeps the candidate's case. matches
// are rune indices into the candidate and never empty.
type Scorer interface {
	Score(query, original, folded []rune, matches []int) int
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(query, original, folded []rune, matches []int) int

// Score calls f.
func (f ScorerFunc) Score(query, original, folded []rune, matches []int) int {
	return f(query, original, folded, matches)
}

// WeightedScorer scores with adjustable bonuses and penalties.
type WeightedScorer struct {
	BaseScore int

	// ConsecutiveBonus is added per matched rune that follows another.
	ConsecutiveBonus int
	// WordBoundaryBonus is added per matched rune that starts a word.
	WordBoundaryBonus int
	// PrefixBonus is added when the first rune matches at position 0.
	PrefixBonus int
	// ExactPrefixBonus is added when the candidate starts with the query.
	ExactPrefixBonus int

	// GapPenalty is taken per unmatched rune between the first and last
	// match.
	GapPenalty int
	// LeadingPenalty is taken per rune before the first match.
	LeadingPenalty int

	// Candidates shorter than LengthBonusThreshold get the difference
	// as a bonus.
	LengthBonusThreshold int
}

// DefaultWeights returns the weights used by NewMatcher.
func DefaultWeights() WeightedScorer {
	return WeightedScorer{
		BaseScore:            100,
		ConsecutiveBonus:     20,
		WordBoundaryBonus:    15,
		PrefixBonus:          25,
		ExactPrefixBonus:     50,
		GapPenalty:           2,
		LeadingPenalty:       1,
		LengthBonusThreshold: 20,
	}
}

// Score implements Scorer. Any match scores at least 1.
func (s WeightedScorer) Score(query, original, folded []rune, matches []int) int {
	score := s.BaseScore
	for i, idx := range matches {
		if i > 0 && idx == matches[i-1]+1 {
			score += s.ConsecutiveBonus
		}
		if isWordStart(original, idx) {
			score += s.WordBoundaryBonus
		}
	}

	first, last := matches[0], matches[len(matches)-1]
	if first == 0 {
		score += s.PrefixBonus
	}
	if gap := last - first - len(matches) + 1; gap > 0 {
		score -= gap * s.GapPenalty
	}
	score -= first * s.LeadingPenalty
	if n := len(folded); n < s.LengthBonusThreshold {
		score += s.LengthBonusThreshold - n
	}
	if hasPrefix(folded, query) {
		score += s.ExactPrefixBonus
	}

	if score < 1 {
		score = 1
	}
	return score
}

// isWordStart reports whether the rune at idx begins a word: it is first,
// follows a space or punctuation, or is an upper case rune after a lower
// case one.
func isWordStart(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}
	prev, cur := runes[idx-1], runes[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}

func hasPrefix(text, prefix []rune) bool {
	if len(text) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if text[i] != r {
			return false
		}
	}
	return true
}
