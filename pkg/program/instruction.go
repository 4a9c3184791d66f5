package program

import (
	"fmt"
	"strconv"
	"strings"

	"machina/pkg/lexer"
)

type Operation string

// List of instruction kinds
const (
	OpAssign Operation = "assign"
	OpJmp    Operation = "jmp"
	OpJmpt   Operation = "jmpt"
	OpJmpf   Operation = "jmpf"
	OpCall   Operation = "call"
	OpRet    Operation = "ret"
	OpOut    Operation = "out"
	OpExec   Operation = "exec"
	OpEnd    Operation = "end"
	OpLabel  Operation = "label" // marker, removed by the resolver
)

type OperandKind int

const (
	OperandVar OperandKind = iota
	OperandInt
	OperandString
	OperandIdent
)

// Operand is one argument of an instruction.
type Operand struct {
	Kind   OperandKind
	Name   string // variable name (with '$') or identifier
	Int    int64
	Str    string
	Target int // resolved instruction index for label identifiers
}

func Var(name string) Operand {
	return Operand{Kind: OperandVar, Name: name}
}

func Int(i int64) Operand {
	return Operand{Kind: OperandInt, Int: i}
}

func Str(s string) Operand {
	return Operand{Kind: OperandString, Str: s}
}

func Ident(name string) Operand {
	return Operand{Kind: OperandIdent, Name: name}
}

// String renders the operand as source text
func (o Operand) String() string {
	switch o.Kind {
	case OperandInt:
		return strconv.FormatInt(o.Int, 10)
	case OperandString:
		return `"` + lexer.Escape(o.Str) + `"`
	default:
		return o.Name
	}
}

// Instruction is a single executable line of a function.
//
//	OpAssign: Dest = Builtin Args...
//	OpJmp:    Label
//	OpJmpt:   Args[0] is the condition, Label the target (OpJmpf likewise)
//	OpCall:   Dest (optional) = Callee Args...
//	OpRet:    Args holds zero or one operand
//	OpOut:    Args[0]
//	OpExec:   Args[0] must evaluate to a block reference
//	OpLabel:  Label
type Instruction struct {
	Op      Operation
	Dest    string
	Builtin string
	Callee  string
	Args    []Operand
	Label   string
	Target  int // resolved index of Label
	Line    int // source line
}

// String renders the instruction as source text, without indentation
func (i Instruction) String() string {
	var b strings.Builder

	switch i.Op {
	case OpLabel:
		return i.Label + ":"
	case OpAssign:
		b.WriteString(i.Dest + " = " + i.Builtin)
	case OpCall:
		if i.Dest != "" {
			b.WriteString(i.Dest + " = ")
		}
		b.WriteString("call " + i.Callee)
	case OpJmp:
		return "jmp " + i.Label
	case OpJmpt, OpJmpf:
		return fmt.Sprintf("%s %s %s", i.Op, i.Args[0], i.Label)
	default:
		b.WriteString(string(i.Op))
	}

	for _, a := range i.Args {
		b.WriteString(" " + a.String())
	}

	return b.String()
}

// IsJump reports whether the instruction carries a label target
func (i Instruction) IsJump() bool {
	return i.Op == OpJmp || i.Op == OpJmpt || i.Op == OpJmpf
}
