package vt100

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/pgline/internal/input/key"
)

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// Parser converts decoded terminal input into key presses.
// A Parser is not safe for concurrent use; it belongs to the event loop.
type Parser struct {
	callback func(key.KeyPress)

	prefix string

	inPaste bool
	paste   strings.Builder
}

// NewParser creates a parser that delivers key presses to callback.
func NewParser(callback func(key.KeyPress)) *Parser {
	return &Parser{callback: callback}
}

// Feed parses text. Key presses are delivered synchronously; an ambiguous
// tail stays buffered until more input arrives or Flush is called.
func (p *Parser) Feed(text string) {
	for i, r := range text {
		if p.inPaste {
			p.feedPaste(text[i:])
			return
		}
		p.prefix += string(r)
		p.process(false)
	}
}

// Flush resolves whatever is buffered as if no more input will follow.
// A lone Escape becomes KeyEscape.
func (p *Parser) Flush() {
	p.process(true)
}

// FeedAndFlush feeds text and flushes.
func (p *Parser) FeedAndFlush(text string) {
	p.Feed(text)
	p.Flush()
}

// Pending returns the buffered, not yet resolved input.
func (p *Parser) Pending() string {
	return p.prefix
}

// InPaste returns true while bracketed paste content is being collected.
func (p *Parser) InPaste() bool {
	return p.inPaste
}

// Reset drops buffered input and leaves paste mode.
func (p *Parser) Reset() {
	p.prefix = ""
	p.inPaste = false
	p.paste.Reset()
}

func (p *Parser) process(flush bool) {
	for p.prefix != "" {
		prefix := p.prefix

		if !flush && isPrefixOfLongerMatch(prefix) {
			return
		}

		if keys := matchSequence(prefix); keys != nil {
			p.prefix = ""
			p.emit(keys, prefix)
		} else {
			p.prefix = p.shift(prefix)
		}

		if p.inPaste {
			rest := p.prefix
			p.prefix = ""
			if rest != "" {
				p.feedPaste(rest)
			}
			return
		}
	}
}

// shift emits the longest matching head of prefix, or its first character
// literally, and returns what is left to retry.
func (p *Parser) shift(prefix string) string {
	for i := len(prefix) - 1; i > 0; i-- {
		if !utf8.RuneStart(prefix[i]) {
			continue
		}
		if keys := matchSequence(prefix[:i]); keys != nil {
			p.emit(keys, prefix[:i])
			return prefix[i:]
		}
	}
	r, size := utf8.DecodeRuneInString(prefix)
	p.emit([]key.Key{key.RuneKey(r)}, prefix[:size])
	return prefix[size:]
}

func (p *Parser) emit(keys []key.Key, data string) {
	if len(keys) == 1 && keys[0] == key.KeyBracketedPaste {
		p.inPaste = true
		p.paste.Reset()
		return
	}
	for i, k := range keys {
		// The raw data belongs to the first key of a tuple.
		d := ""
		if i == 0 {
			d = data
		}
		p.callback(key.KeyPress{Key: k, Data: d})
	}
}

// feedPaste collects paste content. Only the new tail is searched for the
// end marker, plus enough of the old content to catch a split marker.
func (p *Parser) feedPaste(text string) {
	from := max(0, p.paste.Len()-len(pasteEnd)+1)
	p.paste.WriteString(text)
	buf := p.paste.String()
	end := strings.Index(buf[from:], pasteEnd)
	if end < 0 {
		return
	}
	end += from

	content := buf[:end]
	rest := buf[end+len(pasteEnd):]
	p.inPaste = false
	p.paste.Reset()

	p.callback(key.KeyPress{Key: key.KeyBracketedPaste, Data: content})
	p.Feed(rest)
}
