package lexer

import "fmt"

// Position locates a token in the source, Line and Column are 1-based.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String renders the position as line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Next returns the position after consuming ch
func (p Position) Next(ch byte) Position {
	p.Offset++
	if ch == '\n' {
		p.Line++
		p.Column = 1
		return p
	}
	p.Column++
	return p
}
