package vt100

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/dshills/pgline/internal/input/key"
)

// prefixCacheSize bounds the memo table. Numeric CPR and mouse reports can
// produce an unbounded number of distinct prefixes.
const prefixCacheSize = 4096

var (
	cprResponseRe       = regexp.MustCompile(`^\x1b\[\d+;\d+R$`)
	mouseEventRe        = regexp.MustCompile(`(?s)^\x1b\[(<?[\d;]+[mM]|M...)$`)
	cprResponsePrefixRe = regexp.MustCompile(`^\x1b\[[\d;]*$`)
	mouseEventPrefixRe  = regexp.MustCompile(`(?s)^\x1b\[(<?[\d;]*|M.{0,2})$`)
)

var prefixCache *lru.Cache

func init() {
	c, err := lru.New(prefixCacheSize)
	if err != nil {
		panic(err)
	}
	prefixCache = c
}

// isPrefixOfLongerMatch reports whether prefix can still grow into a known
// sequence. Results are memoized since this runs for every keystroke.
func isPrefixOfLongerMatch(prefix string) bool {
	if v, ok := prefixCache.Get(prefix); ok {
		return v.(bool)
	}
	result := computeIsPrefix(prefix)
	prefixCache.Add(prefix, result)
	return result
}

func computeIsPrefix(prefix string) bool {
	if cprResponsePrefixRe.MatchString(prefix) || mouseEventPrefixRe.MatchString(prefix) {
		return true
	}
	for seq := range ansiSequences {
		if len(seq) > len(prefix) && strings.HasPrefix(seq, prefix) {
			return true
		}
	}
	return false
}

// matchSequence returns the keys for an exact match of s, or nil.
func matchSequence(s string) []key.Key {
	if keys, ok := ansiSequences[s]; ok {
		return keys
	}
	if cprResponseRe.MatchString(s) {
		return []key.Key{key.KeyCPRResponse}
	}
	if mouseEventRe.MatchString(s) {
		return []key.Key{key.KeyVt100MouseEvent}
	}
	return nil
}
