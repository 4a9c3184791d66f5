// Package resolver turns label names into instruction indices. It runs once
// per program, after parsing and before execution.
package resolver

import (
	"fmt"
	"strings"

	"machina/pkg/builtin"
	"machina/pkg/program"
)

// ResolutionError is a jump or case target that cannot be bound, or a label declared twice.
type ResolutionError struct {
	File     string
	Function string
	Label    string
	Line     int
	Reason   string
}

func (e *ResolutionError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	return fmt.Sprintf("%s: %s %q in function %q", loc, e.Reason, e.Label, e.Function)
}

type ErrorList []*ResolutionError

func (l ErrorList) Error() string {
	if len(l) == 1 {
		return l[0].Error()
	}

	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d resolution errors:\n%s", len(l), strings.Join(msgs, "\n"))
}

func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

type Resolver struct {
	table  builtin.Table
	file   string
	errors ErrorList
}

// NewResolver creates a resolver, table tells which builtins take labels (nil = default table)
func NewResolver(table builtin.Table) *Resolver {
	if table == nil {
		table = builtin.Default()
	}
	return &Resolver{table: table}
}

// Resolve binds every function of the program in place
func Resolve(p *program.Program) error {
	return NewResolver(nil).Resolve(p)
}

// Resolve strips label markers and fixes up jump and case targets.
// Functions already resolved are left untouched.
func (r *Resolver) Resolve(p *program.Program) error {
	r.file = p.File
	r.errors = nil

	for _, name := range p.Order {
		fn := p.Functions[name]
		if fn.Resolved {
			continue
		}
		r.resolveFunction(fn)
	}

	return r.errors.Err()
}

func (r *Resolver) addError(fn *program.Function, label string, line int, reason string) {
	r.errors = append(r.errors, &ResolutionError{
		File:     r.file,
		Function: fn.Name,
		Label:    label,
		Line:     line,
		Reason:   reason,
	})
}

func (r *Resolver) resolveFunction(fn *program.Function) {
	// pass 1: record label positions and drop the markers
	labels := make(map[string]int)
	code := make([]program.Instruction, 0, len(fn.Instructions))

	for _, ins := range fn.Instructions {
		if ins.Op != program.OpLabel {
			code = append(code, ins)
			continue
		}
		if _, exists := labels[ins.Label]; exists {
			r.addError(fn, ins.Label, ins.Line, "duplicate label")
			continue
		}
		labels[ins.Label] = len(code)
	}

	// pass 2: bind targets
	for i := range code {
		ins := &code[i]

		if ins.IsJump() {
			target, ok := labels[ins.Label]
			if !ok {
				r.addError(fn, ins.Label, ins.Line, "undeclared label")
				continue
			}
			ins.Target = target
		}

		if ins.Op != program.OpAssign {
			continue
		}
		op, ok := r.table.Lookup(ins.Builtin)
		if !ok || !op.Branches() {
			continue
		}

		args := make([]program.Operand, len(ins.Args))
		copy(args, ins.Args)
		for j := 1; j < len(args); j += 2 {
			target, ok := labels[args[j].Name]
			if !ok {
				r.addError(fn, args[j].Name, ins.Line, "undeclared label")
				continue
			}
			args[j].Target = target
		}
		ins.Args = args
	}

	fn.Instructions = code
	fn.Labels = labels
	fn.Resolved = true
}
