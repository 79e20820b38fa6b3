package highlight

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule matches a token at the current position.
type Rule struct {
	Pattern   *regexp.Regexp
	TokenType TokenType
}

type multiLineRule struct {
	start     string
	end       string
	tokenType TokenType
	state     LexerState
}

// Highlighter is a rule based tokenizer. At every position it tries the
// multi-line constructs, then the rules in the order they were added, then
// words. Words are looked up case-insensitively in the keyword table; a
// word directly followed by "(" that is not a keyword is a function.
type Highlighter struct {
	name      string
	rules     []Rule
	keywords  map[string]TokenType
	multiLine []multiLineRule
}

// New creates a highlighter with no rules.
func New(name string) *Highlighter {
	return &Highlighter{
		name:     name,
		keywords: make(map[string]TokenType),
	}
}

// Name returns the language name.
func (h *Highlighter) Name() string { return h.name }

// AddRule adds a rule. The pattern is anchored at the current position.
func (h *Highlighter) AddRule(pattern string, tokenType TokenType) *Highlighter {
	h.rules = append(h.rules, Rule{
		Pattern:   regexp.MustCompile(`^(?:` + pattern + `)`),
		TokenType: tokenType,
	})
	return h
}

// AddKeywords adds words of tokenType.
func (h *Highlighter) AddKeywords(tokenType TokenType, words ...string) *Highlighter {
	for _, w := range words {
		h.keywords[strings.ToLower(w)] = tokenType
	}
	return h
}

// AddMultiLine adds a construct that runs from start to end and may span
// lines.
func (h *Highlighter) AddMultiLine(start, end string, tokenType TokenType) *Highlighter {
	h.multiLine = append(h.multiLine, multiLineRule{
		start:     start,
		end:       end,
		tokenType: tokenType,
		state:     LexerState(len(h.multiLine) + 1),
	})
	return h
}

// HighlightLine tokenizes line, which starts in prevState, and returns the
// tokens in order and the state at the end of the line. Text between
// tokens, such as white space, has no token.
func (h *Highlighter) HighlightLine(line string, prevState LexerState) ([]Token, LexerState) {
	var tokens []Token
	i := 0

	if prevState != StateNormal {
		rule, ok := h.ruleForState(prevState)
		if !ok {
			prevState = StateNormal
		} else {
			idx := strings.Index(line, rule.end)
			if idx < 0 {
				if line == "" {
					return nil, prevState
				}
				return []Token{{Type: rule.tokenType, Start: 0, End: len(line)}}, prevState
			}
			i = idx + len(rule.end)
			tokens = append(tokens, Token{Type: rule.tokenType, Start: 0, End: i})
		}
	}

	for i < len(line) {
		rest := line[i:]

		if tok, state, ok := h.matchMultiLine(line, i); ok {
			tokens = append(tokens, tok)
			if state != StateNormal {
				return tokens, state
			}
			i = tok.End
			continue
		}

		if n, tt := h.matchRule(rest); n > 0 {
			tokens = append(tokens, Token{Type: tt, Start: i, End: i + n})
			i += n
			continue
		}

		r, size := utf8.DecodeRuneInString(rest)
		if isWordStart(r) {
			end := i + size
			for end < len(line) {
				r, size := utf8.DecodeRuneInString(line[end:])
				if !isWordPart(r) {
					break
				}
				end += size
			}
			tokens = append(tokens, Token{Type: h.wordType(line, i, end), Start: i, End: end})
			i = end
			continue
		}
		i += size
	}
	return tokens, StateNormal
}

// HighlightLines tokenizes consecutive lines.
func (h *Highlighter) HighlightLines(lines []string) [][]Token {
	out := make([][]Token, len(lines))
	state := StateNormal
	for i, line := range lines {
		out[i], state = h.HighlightLine(line, state)
	}
	return out
}

func (h *Highlighter) matchMultiLine(line string, i int) (Token, LexerState, bool) {
	for _, rule := range h.multiLine {
		if !strings.HasPrefix(line[i:], rule.start) {
			continue
		}
		from := i + len(rule.start)
		if idx := strings.Index(line[from:], rule.end); idx >= 0 {
			return Token{Type: rule.tokenType, Start: i, End: from + idx + len(rule.end)}, StateNormal, true
		}
		return Token{Type: rule.tokenType, Start: i, End: len(line)}, rule.state, true
	}
	return Token{}, StateNormal, false
}

func (h *Highlighter) matchRule(rest string) (int, TokenType) {
	for _, rule := range h.rules {
		if loc := rule.Pattern.FindStringIndex(rest); loc != nil && loc[1] > 0 {
			return loc[1], rule.TokenType
		}
	}
	return 0, TokenNone
}

func (h *Highlighter) wordType(line string, start, end int) TokenType {
	if tt, ok := h.keywords[strings.ToLower(line[start:end])]; ok {
		return tt
	}
	if end < len(line) && line[end] == '(' {
		return TokenFunction
	}
	return TokenIdentifier
}

func (h *Highlighter) ruleForState(state LexerState) (multiLineRule, bool) {
	for _, rule := range h.multiLine {
		if rule.state == state {
			return rule, true
		}
	}
	return multiLineRule{}, false
}

func isWordStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isWordPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
