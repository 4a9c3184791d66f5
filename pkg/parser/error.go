package parser

import (
	"fmt"
	"strings"

	"machina/pkg/color"
	"machina/pkg/lexer"
)

// ParseError describes a malformed source line.
type ParseError struct {
	File   string
	Pos    lexer.Position
	Reason string
	Source string // text of the offending line
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.Reason)
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Reason)
}

// Pretty renders the error with the offending line for terminal output
func (e *ParseError) Pretty() string {
	return color.ErrorWithPosition(e.Pos.Line, e.Pos.Column, color.RedText(e.Reason), e.Source)
}

// ErrorList is every ParseError found in a file, in source order.
type ErrorList []*ParseError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d parse errors:\n%s", len(l), strings.Join(msgs, "\n"))
}

// Err returns nil for an empty list, the list otherwise
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// addError records a parsing error at the given token
func (p *Parser) addError(tok lexer.Token, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		File:   p.file,
		Pos:    tok.Pos,
		Reason: fmt.Sprintf(format, args...),
		Source: p.lexer.SourceLine(tok.Pos.Line),
	})
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() ErrorList {
	return p.errors
}
