package lexer

import (
	"regexp"
)

// Token regex patterns. Keywords match as ID and are looked up in Keywords.
var tokenRegexes = map[TokenType]*regexp.Regexp{
	NEWLINE: regexp.MustCompile(`^\n`),
	ASSIGN:  regexp.MustCompile(`^=`),
	COLON:   regexp.MustCompile(`^:`),
	COMMA:   regexp.MustCompile(`^,`),
	LPAREN:  regexp.MustCompile(`^\(`),
	RPAREN:  regexp.MustCompile(`^\)`),

	VAR:    regexp.MustCompile(`^\$[A-Za-z_][A-Za-z0-9_]*`),
	INT:    regexp.MustCompile(`^[-+]?\d+\b`),
	STRING: regexp.MustCompile(`^"([^"\\\n]|\\.|\\\n)*"`),
	ID:     regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`),
}

var (
	whitespaceRegex = regexp.MustCompile(`^[ \t\r]+`)
	commentRegex    = regexp.MustCompile(`^(#|//)[^\n]*`)
)

// Token precedence order for matching
var tokenPrecedenceOrder = []TokenType{
	NEWLINE, ASSIGN, COLON, COMMA, LPAREN, RPAREN,
	VAR, INT, STRING, ID,
}

// MatchToken matches the first token at the start of the string.
// Whitespace and comments are reported as EOF with a non-empty lexeme so the caller can skip them.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if match := commentRegex.FindString(s); match != "" {
		return EOF, match, true
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if match := tokenRegexes[tokenType].FindString(s); match != "" {
			if tokenType == ID {
				if kw, ok := IsKeyword(match); ok {
					return kw, match, true
				}
			}
			return tokenType, match, true
		}
	}

	return ILLEGAL, string(s[0]), false
}
