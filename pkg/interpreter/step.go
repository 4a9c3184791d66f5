package interpreter

import (
	"fmt"
	"io"

	"machina/pkg/builtin"
	"machina/pkg/program"
	"machina/pkg/value"

	"github.com/charmbracelet/log"
)

// Exec runs the main function of a resolved program, writing output to w
func Exec(prog *program.Program, w io.Writer) error {
	return NewInterpreter(prog, WithWriter(w)).Run()
}

// coreStep is the main single-step execution function
// it returns (halted, error).
func coreStep(i *Interpreter) (bool, error) {
	f := i.currentFrame()
	if f == nil {
		return true, nil
	}

	in, ok := f.current()
	if !ok {
		// ran off the end: implicit return of no value
		f.State = Halted
		f.Result = value.Unit
		return i.popFrame(), nil
	}

	switch in.Op {
	case program.OpAssign:
		op, found := i.table.Lookup(in.Builtin)
		if !found {
			return false, fmt.Errorf("builtin %q not available", in.Builtin)
		}
		args, err := i.loadArgs(f, op, in.Args)
		if err != nil {
			return false, err
		}
		res, err := op.Apply(args)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op.Name, err)
		}
		f.Locals[in.Dest] = res
		f.IP++
		return false, nil

	case program.OpJmp:
		f.IP = in.Target
		return false, nil

	case program.OpJmpt, program.OpJmpf:
		cond, err := i.loadOperand(f, in.Args[0])
		if err != nil {
			return false, err
		}
		b, err := cond.Truthy()
		if err != nil {
			return false, fmt.Errorf("%w: %s condition: %v", builtin.ErrTypeMismatch, in.Op, err)
		}
		if b == (in.Op == program.OpJmpt) {
			f.IP = in.Target
		} else {
			f.IP++
		}
		return false, nil

	case program.OpCall:
		args := make([]value.Value, len(in.Args))
		for n, a := range in.Args {
			v, err := i.loadOperand(f, a)
			if err != nil {
				return false, err
			}
			args[n] = v
		}
		callee, found := i.prog.Lookup(in.Callee)
		if !found {
			return false, fmt.Errorf("%w: %q", ErrUnknownFunction, in.Callee)
		}
		if err := i.pushFrame(callee, args, in.Dest); err != nil {
			return false, err
		}
		f.State = Calling
		return false, nil

	case program.OpRet:
		f.Result = value.Unit
		if len(in.Args) > 0 {
			v, err := i.loadOperand(f, in.Args[0])
			if err != nil {
				return false, err
			}
			f.Result = v
		}
		f.State = Returning
		return i.popFrame(), nil

	case program.OpEnd:
		f.Result = value.Unit
		f.State = Returning
		return i.popFrame(), nil

	case program.OpOut:
		v, err := i.loadOperand(f, in.Args[0])
		if err != nil {
			return false, err
		}
		if _, err := fmt.Fprintln(i.out, v.String()); err != nil {
			return false, fmt.Errorf("writing output: %w", err)
		}
		f.IP++
		return false, nil

	case program.OpExec:
		v, err := i.loadOperand(f, in.Args[0])
		if err != nil {
			return false, err
		}
		if v.Kind != value.KindBlock {
			return false, fmt.Errorf("%w: exec expects a block reference, got %s", builtin.ErrTypeMismatch, v.Kind)
		}
		ref := v.Block
		if ref.Frame != f.ID || ref.Function != f.Function.Name {
			return false, fmt.Errorf("%w: %s was produced by another frame", ErrInvalidBlock, ref.Label)
		}
		log.Debug("exec", "function", f.Function.Name, "label", ref.Label, "target", ref.Target)
		f.IP = ref.Target
		return false, nil

	case program.OpLabel:
		f.IP++
		return false, nil

	default:
		return false, fmt.Errorf("unhandled instruction %q at %s:%d", in.Op, f.Function.Name, f.IP)
	}
}

// loadOperand resolves a variable or literal in the given frame
func (i *Interpreter) loadOperand(f *Frame, op program.Operand) (value.Value, error) {
	switch op.Kind {
	case program.OperandVar:
		v, ok := f.Locals[op.Name]
		if !ok {
			return value.Value{}, fmt.Errorf("%w: %s in %q", ErrUnknownVariable, op.Name, f.Function.Name)
		}
		return v, nil
	case program.OperandInt:
		return value.Int(op.Int), nil
	case program.OperandString:
		return value.String(op.Str), nil
	default:
		return value.Value{}, fmt.Errorf("%w: label %s used as a value", builtin.ErrTypeMismatch, op.Name)
	}
}

// loadArgs resolves builtin operands, label operands become block references bound to f
func (i *Interpreter) loadArgs(f *Frame, op builtin.Op, ops []program.Operand) ([]value.Value, error) {
	args := make([]value.Value, len(ops))

	for n, o := range ops {
		if op.Branches() && n%2 == 1 {
			args[n] = value.Block(value.BlockRef{
				Function: f.Function.Name,
				Label:    o.Name,
				Target:   o.Target,
				Frame:    f.ID,
			})
			continue
		}

		v, err := i.loadOperand(f, o)
		if err != nil {
			return nil, err
		}
		args[n] = v
	}

	return args, nil
}
