package highlight

import (
	"sort"

	"github.com/dshills/pgline/internal/renderer/core"
)

// Theme maps token types to style strings.
type Theme struct {
	Name   string
	Styles map[TokenType]string
}

// StyleFor returns the style of tokenType, or "" when the theme leaves it
// unstyled.
func (t *Theme) StyleFor(tokenType TokenType) string {
	return t.Styles[tokenType]
}

// Rules returns the theme as style sheet class rules.
func (t *Theme) Rules() map[string]string {
	rules := make(map[string]string, len(t.Styles))
	for tt, style := range t.Styles {
		if class := tt.Class(); class != "" {
			rules[class] = style
		}
	}
	return rules
}

// Apply sets the theme's class rules on s.
func (t *Theme) Apply(s *core.StyleSheet) {
	for class, style := range t.Rules() {
		s.SetRule(class, style)
	}
}

// DefaultTheme uses the 16 ANSI colors so it looks right at any depth.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "default",
		Styles: map[TokenType]string{
			TokenComment:          "fg:ansibrightblack italic",
			TokenString:           "fg:ansigreen",
			TokenQuotedIdentifier: "fg:ansicyan",
			TokenNumber:           "fg:ansimagenta",
			TokenKeyword:          "fg:ansiblue bold",
			TokenDataType:         "fg:ansicyan",
			TokenFunction:         "fg:ansiyellow",
			TokenConstant:         "fg:ansimagenta",
			TokenOperator:         "fg:ansiwhite",
			TokenParameter:        "fg:ansired",
			TokenMetaCommand:      "fg:ansiyellow bold",
		},
	}
}

// MonokaiTheme is a truecolor Monokai inspired theme.
func MonokaiTheme() *Theme {
	return &Theme{
		Name: "monokai",
		Styles: map[TokenType]string{
			TokenComment:          "fg:#75715e",
			TokenString:           "fg:#e6db74",
			TokenQuotedIdentifier: "fg:#fd971f",
			TokenNumber:           "fg:#ae81ff",
			TokenKeyword:          "fg:#f92672",
			TokenDataType:         "fg:#66d9ef italic",
			TokenFunction:         "fg:#a6e22e",
			TokenConstant:         "fg:#ae81ff",
			TokenOperator:         "fg:#f92672",
			TokenParameter:        "fg:#fd971f",
			TokenMetaCommand:      "fg:#a6e22e bold",
		},
	}
}

// NoneTheme leaves every token unstyled.
func NoneTheme() *Theme {
	return &Theme{Name: "none", Styles: map[TokenType]string{}}
}

var themes = map[string]func() *Theme{
	"default": DefaultTheme,
	"monokai": MonokaiTheme,
	"none":    NoneTheme,
}

// ThemeByName returns the named theme.
func ThemeByName(name string) (*Theme, bool) {
	fn, ok := themes[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// ThemeNames returns the names of the built-in themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
