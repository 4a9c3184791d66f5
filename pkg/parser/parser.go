package parser

import (
	"slices"
	"strconv"

	"machina/pkg/builtin"
	"machina/pkg/lexer"
	"machina/pkg/program"
)

type Parser struct {
	lexer        *lexer.Lexer      // lexer instance
	table        builtin.Table     // builtins allowed on the right of '='
	file         string            // file name for diagnostics
	currentToken lexer.Token       // current token
	prog         *program.Program  // program being built
	current      *program.Function // function receiving instructions
	skipping     bool              // ignore lines until the next header
	errors       ErrorList         // list of errors
}

type Option func(*Parser)

// WithFile names the source file in diagnostics
func WithFile(name string) Option {
	return func(p *Parser) { p.file = name }
}

// WithBuiltins validates assignments against a custom operation table
func WithBuiltins(t builtin.Table) Option {
	return func(p *Parser) { p.table = t }
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{
		lexer:  l,
		errors: ErrorList{},
	}

	for _, o := range opts {
		o(p)
	}

	if p.table == nil {
		p.table = builtin.Default()
	}
	p.prog = program.New(p.file)

	// Initialize current token
	p.nextToken()

	return p
}

// Parse reads a source string into an unresolved program
func Parse(file, src string) (*program.Program, error) {
	p := NewParser(lexer.NewLexer(src), WithFile(file))
	prog := p.Parse()

	return prog, p.Errors().Err()
}

// Parse consumes the whole input, one line at a time
func (p *Parser) Parse() *program.Program {
	for p.currentToken.Type != lexer.EOF {
		line := p.readLine()
		if len(line) == 0 {
			continue
		}
		p.parseLine(line)
	}

	p.closeFunction(p.currentToken, true)

	return p.prog
}

// nextToken advances to the next token from the lexer
func (p *Parser) nextToken() {
	p.currentToken = p.lexer.NextToken()
}

// readLine collects the tokens up to the next newline
func (p *Parser) readLine() []lexer.Token {
	var line []lexer.Token
	for p.currentToken.Type != lexer.EOF && p.currentToken.Type != lexer.NEWLINE {
		line = append(line, p.currentToken)
		p.nextToken()
	}

	if p.currentToken.Type == lexer.NEWLINE {
		p.nextToken()
	}

	return line
}

func (p *Parser) parseLine(line []lexer.Token) {
	if i := slices.IndexFunc(line, func(t lexer.Token) bool { return t.Type == lexer.ILLEGAL }); i >= 0 {
		p.addError(line[i], "%s '%s'", line[i].Literal, line[i].Lexeme)
		return
	}

	first := line[0]
	switch {
	case first.Type == lexer.DEFINE || first.Type == lexer.PROC:
		p.parseHeader(line)

	case len(line) == 2 && line[1].Type == lexer.COLON && first.Type.GetCategory() == lexer.KEYWORD:
		if p.requireFunction(first) {
			p.addError(first, "keyword '%s' cannot be used as a label", first.Lexeme)
		}

	case first.Type == lexer.ID && len(line) == 2 && line[1].Type == lexer.COLON:
		if p.requireFunction(first) {
			p.current.Instructions = append(p.current.Instructions, program.Instruction{
				Op:    program.OpLabel,
				Label: first.Lexeme,
				Line:  first.Pos.Line,
			})
		}

	default:
		if !p.requireFunction(first) {
			return
		}
		if ins, ok := p.parseInstruction(line); ok {
			p.current.Instructions = append(p.current.Instructions, ins)
		}
	}
}

func (p *Parser) requireFunction(tok lexer.Token) bool {
	if p.skipping {
		return false
	}
	if p.current == nil {
		p.addError(tok, "instruction outside of function")
		return false
	}
	return true
}

// parseHeader handles `define name($a, $b):` and `proc name`
func (p *Parser) parseHeader(line []lexer.Token) {
	p.closeFunction(line[0], false)
	p.skipping = true

	style := program.StyleDefine
	if line[0].Type == lexer.PROC {
		style = program.StyleProc
	}

	if len(line) >= 2 && line[1].Type.GetCategory() == lexer.KEYWORD {
		p.addError(line[1], "keyword '%s' cannot name a function", line[1].Lexeme)
		return
	}
	if len(line) < 2 || line[1].Type != lexer.ID {
		p.addError(line[0], "expected function name after '%s'", line[0].Lexeme)
		return
	}
	name := line[1]

	rest := line[2:]
	if n := len(rest); n > 0 && rest[n-1].Type == lexer.COLON {
		rest = rest[:n-1]
	}
	if len(rest) > 0 && rest[0].Type == lexer.LPAREN {
		if rest[len(rest)-1].Type != lexer.RPAREN {
			p.addError(rest[0], "missing closing parenthesis in header of %q", name.Lexeme)
			return
		}
		rest = rest[1 : len(rest)-1]
	}

	var params []string
	for _, tok := range rest {
		switch tok.Type {
		case lexer.COMMA:
		case lexer.VAR:
			if slices.Contains(params, tok.Lexeme) {
				p.addError(tok, "duplicate parameter %s in %q", tok.Lexeme, name.Lexeme)
				continue
			}
			params = append(params, tok.Lexeme)
		default:
			p.addError(tok, "malformed parameter '%s' in header of %q", tok.Lexeme, name.Lexeme)
		}
	}

	fn := program.NewFunction(name.Lexeme, style, params, name.Pos.Line)
	if err := p.prog.Add(fn); err != nil {
		p.addError(name, "%s", err)
	}
	p.current = fn
	p.skipping = false
}

// closeFunction ends the open function, a proc must have been closed with `end`
func (p *Parser) closeFunction(at lexer.Token, eof bool) {
	fn := p.current
	p.current = nil
	if fn == nil || fn.Style != program.StyleProc {
		return
	}

	for i := len(fn.Instructions) - 1; i >= 0; i-- {
		switch fn.Instructions[i].Op {
		case program.OpLabel:
			continue
		case program.OpEnd:
			return
		}
		break
	}

	if eof {
		p.addError(at, "proc %q not closed with end before end of input", fn.Name)
		return
	}
	p.addError(at, "function header before previous proc %q was closed", fn.Name)
}

func (p *Parser) parseInstruction(line []lexer.Token) (program.Instruction, bool) {
	first := line[0]
	ins := program.Instruction{Line: first.Pos.Line}
	args := line[1:]

	switch first.Type {
	case lexer.VAR:
		if len(line) < 2 || line[1].Type != lexer.ASSIGN {
			p.addError(first, "expected '=' after %s", first.Lexeme)
			return ins, false
		}
		if len(line) == 2 {
			p.addError(line[1], "missing right-hand side for %s", first.Lexeme)
			return ins, false
		}
		return p.parseAssign(first, line[2:])

	case lexer.CALL:
		return p.parseCall(ins, first, args)

	case lexer.JMP:
		ins.Op = program.OpJmp
		if len(args) != 1 || args[0].Type != lexer.ID {
			p.addError(first, "jmp expects a single label")
			return ins, false
		}
		ins.Label = args[0].Lexeme
		return ins, true

	case lexer.JMPT, lexer.JMPF:
		ins.Op = program.OpJmpt
		if first.Type == lexer.JMPF {
			ins.Op = program.OpJmpf
		}
		if len(args) != 2 || args[1].Type != lexer.ID {
			p.addError(first, "%s expects a condition and a label", first.Lexeme)
			return ins, false
		}
		cond, ok := p.valueOperands(args[:1])
		if !ok {
			return ins, false
		}
		ins.Args = cond
		ins.Label = args[1].Lexeme
		return ins, true

	case lexer.RET:
		ins.Op = program.OpRet
		if len(args) > 1 {
			p.addError(first, "ret takes at most one operand")
			return ins, false
		}
		ops, ok := p.valueOperands(args)
		ins.Args = ops
		return ins, ok

	case lexer.OUT, lexer.OUTPUT:
		ins.Op = program.OpOut
		return p.single(ins, first, args)

	case lexer.EXEC:
		ins.Op = program.OpExec
		return p.single(ins, first, args)

	case lexer.END:
		ins.Op = program.OpEnd
		if len(args) > 0 {
			p.addError(args[0], "end takes no operands")
			return ins, false
		}
		return ins, true

	case lexer.ID:
		p.addError(first, "unknown instruction '%s'", first.Lexeme)
		return ins, false

	default:
		p.addError(first, "unexpected '%s' at start of instruction", first.Lexeme)
		return ins, false
	}
}

// parseAssign handles the right-hand side of `$dest = ...`
func (p *Parser) parseAssign(dest lexer.Token, rhs []lexer.Token) (program.Instruction, bool) {
	ins := program.Instruction{Op: program.OpAssign, Dest: dest.Lexeme, Line: dest.Pos.Line}
	head := rhs[0]

	switch head.Type {
	case lexer.CALL:
		return p.parseCall(ins, head, rhs[1:])

	case lexer.VAR, lexer.INT, lexer.STRING:
		if len(rhs) != 1 {
			p.addError(rhs[1], "unexpected '%s' after operand", rhs[1].Lexeme)
			return ins, false
		}
		ops, ok := p.valueOperands(rhs)
		ins.Builtin = "mov"
		ins.Args = ops
		return ins, ok

	case lexer.ID:
		op, found := p.table.Lookup(head.Lexeme)
		if !found {
			p.addError(head, "unknown instruction '%s'", head.Lexeme)
			return ins, false
		}
		ins.Builtin = op.Name

		ops, _, ok := p.operands(rhs[1:])
		if !ok {
			return ins, false
		}
		if err := op.CheckArity(len(ops)); err != nil {
			p.addError(head, "%s", err)
			return ins, false
		}
		if !p.checkKinds(head, op, ops) {
			return ins, false
		}
		ins.Args = ops
		return ins, true

	default:
		p.addError(head, "unexpected '%s' after '='", head.Lexeme)
		return ins, false
	}
}

// checkKinds enforces label identifiers exactly where the builtin takes them
func (p *Parser) checkKinds(at lexer.Token, op builtin.Op, ops []program.Operand) bool {
	for i, o := range ops {
		wantLabel := op.Branches() && i%2 == 1
		if wantLabel && o.Kind != program.OperandIdent {
			p.addError(at, "malformed operand '%s': %s expects a label", o, op.Name)
			return false
		}
		if !wantLabel && o.Kind == program.OperandIdent {
			p.addError(at, "malformed operand '%s': expected a variable or literal", o)
			return false
		}
	}
	return true
}

// parseCall keeps ins.Dest, empty for a bare `call`
func (p *Parser) parseCall(ins program.Instruction, kw lexer.Token, args []lexer.Token) (program.Instruction, bool) {
	ins.Op = program.OpCall
	ins.Builtin = ""
	if len(args) == 0 || args[0].Type != lexer.ID {
		p.addError(kw, "call expects a function name")
		return ins, false
	}
	ins.Callee = args[0].Lexeme

	ops, ok := p.valueOperands(args[1:])
	ins.Args = ops
	return ins, ok
}

func (p *Parser) single(ins program.Instruction, kw lexer.Token, args []lexer.Token) (program.Instruction, bool) {
	if len(args) != 1 {
		p.addError(kw, "%s expects exactly one operand", kw.Lexeme)
		return ins, false
	}

	ops, ok := p.valueOperands(args)
	ins.Args = ops
	return ins, ok
}

// valueOperands parses operands that must evaluate to values
func (p *Parser) valueOperands(toks []lexer.Token) ([]program.Operand, bool) {
	ops, src, ok := p.operands(toks)
	if !ok {
		return nil, false
	}

	for i, o := range ops {
		if o.Kind == program.OperandIdent {
			p.addError(src[i], "malformed operand '%s': expected a variable or literal", o.Name)
			return nil, false
		}
	}
	return ops, true
}

// operands converts tokens to operands, commas are optional separators.
// The second result holds the token each operand came from.
func (p *Parser) operands(toks []lexer.Token) ([]program.Operand, []lexer.Token, bool) {
	ops := make([]program.Operand, 0, len(toks))
	src := make([]lexer.Token, 0, len(toks))

	for _, tok := range toks {
		switch tok.Type {
		case lexer.COMMA:
			continue
		case lexer.VAR:
			ops = append(ops, program.Var(tok.Lexeme))
		case lexer.INT:
			n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
			if err != nil {
				p.addError(tok, "malformed operand '%s': integer out of range", tok.Lexeme)
				return nil, nil, false
			}
			ops = append(ops, program.Int(n))
		case lexer.STRING:
			ops = append(ops, program.Str(tok.Literal))
		case lexer.ID:
			ops = append(ops, program.Ident(tok.Lexeme))
		default:
			p.addError(tok, "malformed operand '%s'", tok.Lexeme)
			return nil, nil, false
		}
		src = append(src, tok)
	}

	return ops, src, true
}
