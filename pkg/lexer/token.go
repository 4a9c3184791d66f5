package lexer

import (
	"fmt"
)

type TokenType int
type TokenCategory int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Decoded value for literals, reason for ILLEGAL tokens
	Pos     Position  // Position in source code
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, Pos Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Pos:     Pos,
	}
}

const (
	NONE TokenCategory = iota
	KEYWORD
	IDENTIFIER
	LITERAL
	DELIMITER
)

const (
	EOF     TokenType = iota // End of file
	NEWLINE                  // end of line

	DEFINE // define
	PROC   // proc
	END    // end
	JMP    // jmp
	JMPT   // jmpt
	JMPF   // jmpf
	CALL   // call
	RET    // ret
	OUT    // out
	OUTPUT // output
	EXEC   // exec

	ID     // id (identifier)
	VAR    // $variable
	INT    // integer literal
	STRING // string literal

	ASSIGN // =
	COLON  // :
	COMMA  // ,
	LPAREN // (
	RPAREN // )

	ILLEGAL // illegal token
)

var Keywords = map[string]TokenType{
	"define": DEFINE,
	"proc":   PROC,
	"end":    END,
	"jmp":    JMP,
	"jmpt":   JMPT,
	"jmpf":   JMPF,
	"call":   CALL,
	"ret":    RET,
	"out":    OUT,
	"output": OUTPUT,
	"exec":   EXEC,
}

var tokenNames = map[TokenType]string{
	EOF:     "$",
	NEWLINE: "newline",
	DEFINE:  "define",
	PROC:    "proc",
	END:     "end",
	JMP:     "jmp",
	JMPT:    "jmpt",
	JMPF:    "jmpf",
	CALL:    "call",
	RET:     "ret",
	OUT:     "out",
	OUTPUT:  "output",
	EXEC:    "exec",
	ID:      "id",
	VAR:     "var",
	INT:     "int",
	STRING:  "string",
	ASSIGN:  "=",
	COLON:   ":",
	COMMA:   ",",
	LPAREN:  "(",
	RPAREN:  ")",
	ILLEGAL: "illegal",
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("T_{%s, %v, nil, %s}",
			t.Type, t.Lexeme, t.Pos.String())
	}

	return fmt.Sprintf("T_{%s, %v, %q, %s}",
		t.Type, t.Lexeme, t.Literal, t.Pos.String())
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// GetCategory returns the category of the token
func (t TokenType) GetCategory() TokenCategory {
	switch t {
	case DEFINE, PROC, END, JMP, JMPT, JMPF, CALL, RET, OUT, OUTPUT, EXEC:
		return KEYWORD
	case ID, VAR:
		return IDENTIFIER
	case INT, STRING:
		return LITERAL
	case ASSIGN, COLON, COMMA, LPAREN, RPAREN, NEWLINE:
		return DELIMITER
	default:
		return NONE
	}
}

// IsKeyword checks if the given identifier is a keyword and returns its TokenType if it is
func IsKeyword(identifier string) (TokenType, bool) {
	tokenType, ok := Keywords[identifier]
	return tokenType, ok
}
