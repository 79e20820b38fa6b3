// Package fuzzy ranks strings against a short query whose characters
// must appear in order, though not next to each other.
//
// It backs the REPL's command listing and history search:
//
//	m := fuzzy.NewMatcher(fuzzy.DefaultOptions())
//	for _, r := range m.Match("slfr", history, 10) {
//	    fmt.Println(r.Text)
//	}
//
// Scores favour runs of consecutive characters, matches at word starts
// and short candidates. Matching works on runes, so multi-byte text is
// handled. A Matcher is safe for concurrent use.
package fuzzy
