package interpreter

import (
	"machina/pkg/program"
	"machina/pkg/value"
)

type FrameState int

const (
	Running   FrameState = iota // executing the instruction at IP
	Calling                     // suspended until the callee returns
	Returning                   // ret executed, Result holds the value
	Halted                      // ran past the last instruction
)

func (s FrameState) String() string {
	switch s {
	case Running:
		return "running"
	case Calling:
		return "calling"
	case Returning:
		return "returning"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// Frame represents a function call frame.
type Frame struct {
	ID       uint64                 // unique per interpreter, binds block references
	Function *program.Function      // function being executed
	IP       int                    // instruction pointer (index into Function.Instructions)
	Locals   map[string]value.Value // variable bindings, private to the frame
	RetDest  string                 // caller variable receiving the result, empty if discarded
	State    FrameState
	Result   value.Value // value handed back to the caller
}

func (f *Frame) current() (program.Instruction, bool) {
	if f.IP < 0 || f.IP >= len(f.Function.Instructions) {
		return program.Instruction{}, false
	}
	return f.Function.Instructions[f.IP], true
}

// Lookup returns a variable bound in the frame
func (f *Frame) Lookup(name string) (value.Value, bool) {
	v, ok := f.Locals[name]
	return v, ok
}
