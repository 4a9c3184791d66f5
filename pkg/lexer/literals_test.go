package lexer_test

import (
	"machina/pkg/lexer"
	"testing"
)

func TestNumbers(t *testing.T) {
	tests := []struct {
		input       string
		expected    lexer.TokenType
		description string
	}{
		{"42", lexer.INT, "integer"},
		{"0", lexer.INT, "zero"},
		{"-15", lexer.INT, "negative integer"},
		{"+3", lexer.INT, "explicitly positive integer"},
		{"1000000", lexer.INT, "large integer"},
	}

	for _, test := range tests {
		tokenType, lexeme, matched := lexer.MatchToken(test.input)
		if !matched {
			t.Errorf("Failed to match %s (%s)", test.input, test.description)
		}
		if tokenType != test.expected {
			t.Errorf("Input %s (%s): expected %s, got %s", test.input, test.description, test.expected, tokenType)
		}
		if lexeme != test.input {
			t.Errorf("Input %s (%s): expected lexeme %s, got %s", test.input, test.description, test.input, lexeme)
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"Fizz"`, "Fizz"},
		{`"FizzBuzz\n"`, "FizzBuzz\n"},
		{`"tab\there"`, "tab\there"},
		{`"quote \"x\""`, `quote "x"`},
		{`"back\\slash"`, `back\slash`},
		{`"keep \q"`, `keep \q`},
		{"\"joined \\\nline\"", "joined line"},
	}

	for _, test := range tests {
		tok := lexer.NewLexer(test.input).NextToken()
		if tok.Type != lexer.STRING {
			t.Errorf("Input %s: expected string, got %s", test.input, tok.Type)
			continue
		}
		if tok.Literal != test.expected {
			t.Errorf("Input %s: expected literal %q, got %q", test.input, test.expected, tok.Literal)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{"plain", "a\nb", "tab\t\"q\"", `back\slash`, "\a\b\f\v\r"} {
		if got := lexer.Unescape(lexer.Escape(s)); got != s {
			t.Errorf("expected %q after round trip, got %q", s, got)
		}
	}
}

func TestIllegal(t *testing.T) {
	tests := []struct {
		input  string
		lexeme string
		reason string
	}{
		{`"never closed`, `"never closed`, "unterminated string"},
		{"\"stops at newline\nout 1", "\"stops at newline", "unterminated string"},
		{"12abc", "12abc", "malformed operand"},
		{"$ x", "$", "malformed operand"},
		{"@label", "@label", "malformed operand"},
	}

	for _, test := range tests {
		tok := lexer.NewLexer(test.input).NextToken()
		if tok.Type != lexer.ILLEGAL {
			t.Errorf("Input %q: expected illegal token, got %s", test.input, tok.Type)
			continue
		}
		if tok.Lexeme != test.lexeme || tok.Literal != test.reason {
			t.Errorf("Input %q: expected (%q, %q), got (%q, %q)", test.input, test.lexeme, test.reason, tok.Lexeme, tok.Literal)
		}
	}
}
