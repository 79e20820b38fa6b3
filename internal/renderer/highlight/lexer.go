package highlight

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/dshills/pgline/internal/renderer/layout"
)

// DefaultCacheSize is the number of lines Lexer remembers.
const DefaultCacheSize = 512

type lineKey struct {
	state LexerState
	line  string
}

type lexedLine struct {
	tokens []Token
	end    LexerState
}

// Lexer returns a layout.Lexer that styles each token with its class, such
// as "class:sql.keyword". Tokenized lines are cached by their text and the
// state they start in, so a redraw after a keystroke only tokenizes the
// line that changed.
func Lexer(h *Highlighter, cacheSize int) layout.Lexer {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}

	return func(lines []string) []layout.Fragments {
		out := make([]layout.Fragments, len(lines))
		state := StateNormal
		for i, line := range lines {
			k := lineKey{state: state, line: line}
			var lexed lexedLine
			if v, ok := cache.Get(k); ok {
				lexed = v.(lexedLine)
			} else {
				lexed.tokens, lexed.end = h.HighlightLine(line, state)
				cache.Add(k, lexed)
			}
			out[i] = Fragments(line, lexed.tokens)
			state = lexed.end
		}
		return out
	}
}

// Fragments splits line into styled fragments. Text outside tokens keeps
// the default style.
func Fragments(line string, tokens []Token) layout.Fragments {
	var fs layout.Fragments
	pos := 0
	for _, t := range tokens {
		if t.Start > pos {
			fs = append(fs, layout.Fragment{Text: line[pos:t.Start]})
		}
		style := ""
		if class := t.Type.Class(); class != "" {
			style = "class:" + class
		}
		fs = append(fs, layout.Fragment{Style: style, Text: line[t.Start:t.End]})
		pos = t.End
	}
	if pos < len(line) {
		fs = append(fs, layout.Fragment{Text: line[pos:]})
	}
	return fs
}
