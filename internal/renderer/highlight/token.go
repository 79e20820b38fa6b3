// Package highlight splits SQL input into tokens and styles them for the
// prompt.
package highlight

// TokenType is the kind of a token.
type TokenType uint8

// Token types.
const (
	TokenNone TokenType = iota
	TokenComment
	TokenString
	TokenQuotedIdentifier
	TokenNumber
	TokenKeyword
	TokenDataType
	TokenFunction
	TokenConstant
	TokenOperator
	TokenPunctuation
	TokenIdentifier
	TokenParameter
	TokenMetaCommand
)

var tokenNames = [...]string{
	TokenNone:             "none",
	TokenComment:          "comment",
	TokenString:           "string",
	TokenQuotedIdentifier: "quoted-identifier",
	TokenNumber:           "number",
	TokenKeyword:          "keyword",
	TokenDataType:         "type",
	TokenFunction:         "function",
	TokenConstant:         "constant",
	TokenOperator:         "operator",
	TokenPunctuation:      "punctuation",
	TokenIdentifier:       "identifier",
	TokenParameter:        "parameter",
	TokenMetaCommand:      "meta-command",
}

// String returns the token type name.
func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "unknown"
}

// Class returns the style class of the token type, such as "sql.keyword".
func (t TokenType) Class() string {
	if t == TokenNone || int(t) >= len(tokenNames) {
		return ""
	}
	return "sql." + tokenNames[t]
}

// TokenTypeFromString returns the token type named name, or TokenNone.
func TokenTypeFromString(name string) TokenType {
	for i, n := range tokenNames {
		if n == name {
			return TokenType(i)
		}
	}
	return TokenNone
}

// Token is a run of a line with one type. Start and End are byte offsets.
type Token struct {
	Type  TokenType
	Start int
	End   int
}

// Len returns the token length in bytes.
func (t Token) Len() int { return t.End - t.Start }

// Contains reports whether the byte offset col falls inside the token.
func (t Token) Contains(col int) bool { return col >= t.Start && col < t.End }

// LexerState carries an unterminated construct, such as a block comment,
// from one line to the next. Zero means none.
type LexerState uint8

// StateNormal is the state outside any multi-line construct.
const StateNormal LexerState = 0
