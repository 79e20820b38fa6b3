package fuzzy

import (
	"sort"
	"strings"
	"sync"
)

// Result is one matching candidate.
type Result struct {
	// Text is the candidate as given.
	Text string

	// Index is the candidate's position in the input slice.
	Index int

	// Score is higher for better matches.
	Score int

	// Matches holds the rune indices of the matched characters.
	Matches []int
}

// Options configures a Matcher.
type Options struct {
	// MinScore drops results that do not score above it.
	MinScore int

	// CaseSensitive disables case folding.
	CaseSensitive bool

	// Dedupe keeps only the first occurrence of equal candidates.
	Dedupe bool
}

// DefaultOptions returns case-insensitive options that keep duplicates.
func DefaultOptions() Options {
	return Options{}
}

// Matcher matches a query against candidates.
type Matcher struct {
	mu      sync.RWMutex
	scorer  Scorer
	options Options
}

// NewMatcher creates a matcher using DefaultWeights.
func NewMatcher(opts Options) *Matcher {
	return &Matcher{scorer: DefaultWeights(), options: opts}
}

// SetScorer replaces the scoring function.
func (m *Matcher) SetScorer(s Scorer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scorer = s
}

// Match returns the candidates containing the query's characters in
// order, best first. Equal scores keep input order. An empty query
// matches everything with score zero. A positive limit caps the result.
func (m *Matcher) Match(query string, candidates []string, limit int) []Result {
	query = strings.TrimSpace(query)
	if !m.options.CaseSensitive {
		query = strings.ToLower(query)
	}
	q := []rune(query)

	m.mu.RLock()
	scorer := m.scorer
	m.mu.RUnlock()

	var seen map[string]bool
	if m.options.Dedupe {
		seen = make(map[string]bool, len(candidates))
	}

	results := make([]Result, 0, len(candidates))
	for i, text := range candidates {
		if seen != nil {
			if seen[text] {
				continue
			}
			seen[text] = true
		}
		if len(q) == 0 {
			results = append(results, Result{Text: text, Index: i})
			continue
		}
		original := []rune(text)
		folded := original
		if !m.options.CaseSensitive {
			folded = []rune(strings.ToLower(text))
		}
		matches := locate(q, folded)
		if matches == nil {
			continue
		}
		score := scorer.Score(q, original, folded, matches)
		if score <= m.options.MinScore {
			continue
		}
		results = append(results, Result{Text: text, Index: i, Score: score, Matches: matches})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

// Filter is Match returning only the texts.
func (m *Matcher) Filter(query string, candidates []string, limit int) []string {
	results := m.Match(query, candidates, limit)
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Text
	}
	return out
}

// locate finds the query runes left to right in text. It returns nil when
// some rune is missing.
func locate(q, text []rune) []int {
	if len(text) < len(q) {
		return nil
	}
	matches := make([]int, 0, len(q))
	qi := 0
	for i := 0; i < len(text) && qi < len(q); i++ {
		if text[i] == q[qi] {
			matches = append(matches, i)
			qi++
		}
	}
	if qi != len(q) {
		return nil
	}
	return matches
}
