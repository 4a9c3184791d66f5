package lexer

import (
	"regexp"
	"strings"
)

var illegalRunRegex = regexp.MustCompile(`^[^\s,()=:]+`)

type Lexer struct {
	input        string // input string to be tokenized
	length       int    // length of the input string
	position     int    // current position in the input string
	line         int    // current line number for error reporting
	column       int    // current column number for error reporting
	currentToken Token  // last token produced
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:        s,
		length:       len(s),
		position:     0,
		line:         1,
		column:       1,
		currentToken: Token{},
	}
}

// Get the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	// End of input
	if l.position >= l.length {
		tok := NewToken(EOF, "", "", l.currentPosition())
		l.currentToken = tok
		return tok
	}

	remaining := l.input[l.position:]
	pos := l.currentPosition()
	tokenType, lexeme, matched := MatchToken(remaining)

	if !matched || tokenType == EOF {
		if tokenType == EOF && lexeme != "" {
			l.advance(len(lexeme))
			return l.NextToken()
		}

		tok := l.illegal(remaining, pos)
		l.currentToken = tok
		return tok
	}

	var literal string
	switch tokenType {
	case STRING:
		literal = Unescape(lexeme[1 : len(lexeme)-1])
	case INT, VAR, ID:
		literal = lexeme
	}

	tok := NewToken(tokenType, lexeme, literal, pos)
	l.advance(len(lexeme))
	l.currentToken = tok

	return tok
}

// Tokenize drains the lexer, the final token is always EOF
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// SourceLine returns the text of the 1-based line n, without its newline
func (l *Lexer) SourceLine(n int) string {
	if n < 1 {
		return ""
	}

	rest := l.input
	for i := 1; i < n; i++ {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			return ""
		}
		rest = rest[idx+1:]
	}

	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}

	return strings.TrimRight(rest, "\r")
}

// illegal consumes a malformed run of input and describes it in the token literal
func (l *Lexer) illegal(remaining string, pos Position) Token {
	if remaining[0] == '"' {
		end := strings.IndexByte(remaining, '\n')
		if end < 0 {
			end = len(remaining)
		}
		lexeme := remaining[:end]
		l.advance(len(lexeme))
		return NewToken(ILLEGAL, lexeme, "unterminated string", pos)
	}

	lexeme := illegalRunRegex.FindString(remaining)
	if lexeme == "" {
		lexeme = remaining[:1]
	}
	l.advance(len(lexeme))

	return NewToken(ILLEGAL, lexeme, "malformed operand", pos)
}

// Skip blanks and comments, newlines are tokens
func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		ch := l.input[l.position]

		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.column++
			l.position++
		} else if ch == '#' || (ch == '/' && l.position+1 < l.length && l.input[l.position+1] == '/') {
			for l.position < l.length && l.input[l.position] != '\n' {
				l.column++
				l.position++
			}
		} else {
			break
		}
	}
}

// Advance the lexer position by n characters
func (l *Lexer) advance(n int) {
	for range n {
		if l.position >= l.length {
			break
		}

		next := l.currentPosition().Next(l.input[l.position])
		l.line, l.column = next.Line, next.Column

		l.position++
	}
}

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}

// Unescape interprets the backslash escapes of a string literal body.
// Unknown escapes are kept verbatim and a backslash-newline joins lines.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			b.WriteByte(ch)
			continue
		}

		i++
		switch s[i] {
		case '\n':
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// Escape is the inverse of Unescape for the characters it decodes.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)

	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			b.WriteByte(ch)
		}
	}

	return b.String()
}
