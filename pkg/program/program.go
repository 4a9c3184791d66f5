// Package program holds the loaded form of a Machina source file: functions,
// their instruction arenas and the label tables the resolver fills in.
package program

import (
	"fmt"
	"slices"
	"strings"
)

type Style string

const (
	StyleDefine Style = "define"
	StyleProc   Style = "proc"
)

// Function is one named instruction arena.
type Function struct {
	Name         string
	Params       []string
	Style        Style
	Instructions []Instruction
	Labels       map[string]int // label -> instruction index, filled by the resolver
	Line         int
	Resolved     bool
}

// NewFunction creates an empty function
func NewFunction(name string, style Style, params []string, line int) *Function {
	return &Function{
		Name:   name,
		Params: params,
		Style:  style,
		Labels: make(map[string]int),
		Line:   line,
	}
}

// Program maps function names to functions, keeping declaration order.
type Program struct {
	File      string
	Functions map[string]*Function
	Order     []string
}

// New creates an empty program for the named file
func New(file string) *Program {
	return &Program{
		File:      file,
		Functions: make(map[string]*Function),
	}
}

// Add registers a function, failing when the name is taken
func (p *Program) Add(fn *Function) error {
	if prev, ok := p.Functions[fn.Name]; ok {
		return fmt.Errorf("function %q already defined at line %d", fn.Name, prev.Line)
	}

	p.Functions[fn.Name] = fn
	p.Order = append(p.Order, fn.Name)

	return nil
}

// Lookup returns the named function
func (p *Program) Lookup(name string) (*Function, bool) {
	fn, ok := p.Functions[name]
	return fn, ok
}

// Format serializes the program back to source text. Parsing the result
// yields the same functions, instructions and operands.
func Format(p *Program) string {
	var b strings.Builder

	for n, name := range p.Order {
		if n > 0 {
			b.WriteString("\n")
		}
		formatFunction(&b, p.Functions[name])
	}

	return b.String()
}

func formatFunction(b *strings.Builder, fn *Function) {
	b.WriteString(string(fn.Style) + " " + fn.Name)
	if len(fn.Params) > 0 {
		b.WriteString("(" + strings.Join(fn.Params, ", ") + ")")
	}
	b.WriteString(":\n")

	// resolved functions keep labels in the table only
	byIndex := make(map[int][]string)
	for label, idx := range fn.Labels {
		byIndex[idx] = append(byIndex[idx], label)
	}
	for _, labels := range byIndex {
		slices.Sort(labels)
	}

	for idx, ins := range fn.Instructions {
		for _, label := range byIndex[idx] {
			b.WriteString(label + ":\n")
		}
		if ins.Op == OpLabel {
			b.WriteString(ins.String() + "\n")
			continue
		}
		b.WriteString("    " + ins.String() + "\n")
	}
	for _, label := range byIndex[len(fn.Instructions)] {
		b.WriteString(label + ":\n")
	}
}
