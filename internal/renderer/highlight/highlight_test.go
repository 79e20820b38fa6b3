package highlight

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/layout"
)

func describe(line string, tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type.String() + ":" + line[t.Start:t.End]
	}
	return out
}

func TestSQLHighlightLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"select 1 from t;", []string{"keyword:select", "number:1", "keyword:from", "identifier:t", "punctuation:;"}},
		{"SELECT count(*)", []string{"keyword:SELECT", "function:count", "punctuation:(", "operator:*", "punctuation:)"}},
		{"where name = 'it''s'", []string{"keyword:where", "identifier:name", "operator:=", "string:'it'", "string:'s'"}},
		{"x::int -- note", []string{"identifier:x", "operator:::", "type:int", "comment:-- note"}},
		{`\d users`, []string{`meta-command:\d`, "identifier:users"}},
		{"$1 + :limit", []string{"parameter:$1", "operator:+", "parameter::limit"}},
		{`"Weird Col" ilike 'a%'`, []string{`quoted-identifier:"Weird Col"`, "keyword:ilike", "string:'a%'"}},
		{"my_fn(2)", []string{"function:my_fn", "punctuation:(", "number:2", "punctuation:)"}},
		{"1.5e3 .5", []string{"number:1.5e3", "number:.5"}},
		{"a->>'k'", []string{"identifier:a", "operator:->>", "string:'k'"}},
		{"null IS NOT true", []string{"constant:null", "keyword:IS", "keyword:NOT", "constant:true"}},
		{"naïve_col", []string{"identifier:naïve_col"}},
		{"", []string{}},
	}

	h := SQL()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			tokens, state := h.HighlightLine(tt.line, StateNormal)
			got := describe(tt.line, tokens)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HighlightLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
			if state != StateNormal {
				t.Errorf("HighlightLine(%q) state = %d, want normal", tt.line, state)
			}
		})
	}
}

func TestSQLHighlightLinesMultiLine(t *testing.T) {
	lines := []string{"select /* one", "", "two */ 1", "'open", "still'", "$$ body", "$$;"}
	want := [][]string{
		{"keyword:select", "comment:/* one"},
		{},
		{"comment:two */", "number:1"},
		{"string:'open"},
		{"string:still'"},
		{"string:$$ body"},
		{"string:$$", "punctuation:;"},
	}

	got := SQL().HighlightLines(lines)
	if len(got) != len(want) {
		t.Fatalf("HighlightLines returned %d lines, want %d", len(got), len(want))
	}
	for i := range lines {
		if d := describe(lines[i], got[i]); !reflect.DeepEqual(d, want[i]) {
			t.Errorf("line %d = %q, want %q", i, d, want[i])
		}
	}
}

func TestHighlightLineUnknownState(t *testing.T) {
	tokens, state := SQL().HighlightLine("x", LexerState(99))
	if got := describe("x", tokens); !reflect.DeepEqual(got, []string{"identifier:x"}) {
		t.Errorf("tokens = %q", got)
	}
	if state != StateNormal {
		t.Errorf("state = %d, want normal", state)
	}
}

func TestFragments(t *testing.T) {
	line := "select  x"
	tokens, _ := SQL().HighlightLine(line, StateNormal)
	got := Fragments(line, tokens)
	want := layout.Fragments{
		{Style: "class:sql.keyword", Text: "select"},
		{Text: "  "},
		{Style: "class:sql.identifier", Text: "x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fragments = %+v, want %+v", got, want)
	}

	if got := Fragments("  ", nil); !reflect.DeepEqual(got, layout.Fragments{{Text: "  "}}) {
		t.Errorf("Fragments of blank line = %+v", got)
	}
}

func TestLexerCarriesState(t *testing.T) {
	lex := Lexer(SQL(), 4)
	lines := []string{"/* a", "b */ select"}

	first := lex(lines)
	second := lex(lines)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
	want := layout.Fragments{
		{Style: "class:sql.comment", Text: "b */"},
		{Text: " "},
		{Style: "class:sql.keyword", Text: "select"},
	}
	if !reflect.DeepEqual(first[1], want) {
		t.Errorf("line 1 = %+v, want %+v", first[1], want)
	}

	// The same text outside a comment is styled differently.
	alone := lex([]string{"b */ select"})
	if reflect.DeepEqual(alone[0], want) {
		t.Errorf("line lexed without the comment kept the comment style")
	}
}

func TestLexerPreservesText(t *testing.T) {
	lex := Lexer(SQL(), 0)
	lines := []string{"select a, 'b' -- c", "\tfrom  \"T\" where x<>1;"}
	for i, fs := range lex(lines) {
		var b strings.Builder
		for _, f := range fs {
			b.WriteString(f.Text)
		}
		if b.String() != lines[i] {
			t.Errorf("line %d text = %q, want %q", i, b.String(), lines[i])
		}
	}
}

func TestTokenType(t *testing.T) {
	tests := []struct {
		tt    TokenType
		name  string
		class string
	}{
		{TokenNone, "none", ""},
		{TokenKeyword, "keyword", "sql.keyword"},
		{TokenMetaCommand, "meta-command", "sql.meta-command"},
		{TokenType(200), "unknown", ""},
	}
	for _, tt := range tests {
		if got := tt.tt.String(); got != tt.name {
			t.Errorf("%d.String() = %q, want %q", tt.tt, got, tt.name)
		}
		if got := tt.tt.Class(); got != tt.class {
			t.Errorf("%d.Class() = %q, want %q", tt.tt, got, tt.class)
		}
	}
	if got := TokenTypeFromString("type"); got != TokenDataType {
		t.Errorf("TokenTypeFromString(type) = %v", got)
	}
	if got := TokenTypeFromString("bogus"); got != TokenNone {
		t.Errorf("TokenTypeFromString(bogus) = %v", got)
	}

	tok := Token{Type: TokenKeyword, Start: 2, End: 5}
	if tok.Len() != 3 || !tok.Contains(2) || tok.Contains(5) {
		t.Errorf("Token bounds wrong: len %d", tok.Len())
	}
}

func TestThemeApply(t *testing.T) {
	sheet := core.NewStyleSheet(nil)
	DefaultTheme().Apply(sheet)

	a := sheet.Resolve("class:sql.keyword")
	if !a.Attributes.Has(core.AttrBold) {
		t.Errorf("keyword style is not bold: %+v", a)
	}
	if a := sheet.Resolve("class:sql.identifier"); a != core.DefaultAttrs {
		t.Errorf("identifier style = %+v, want default", a)
	}

	for _, name := range ThemeNames() {
		theme, ok := ThemeByName(name)
		if !ok {
			t.Fatalf("ThemeByName(%q) not found", name)
		}
		for class, style := range theme.Rules() {
			if err := sheet.Validate(style); err != nil {
				t.Errorf("theme %s class %s: %v", name, class, err)
			}
		}
	}
	if _, ok := ThemeByName("missing"); ok {
		t.Error("ThemeByName(missing) found a theme")
	}
	if got := MonokaiTheme().StyleFor(TokenIdentifier); got != "" {
		t.Errorf("StyleFor(identifier) = %q, want empty", got)
	}
}
