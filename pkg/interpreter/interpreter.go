package interpreter

import (
	"fmt"
	"io"
	"os"

	"machina/pkg/builtin"
	"machina/pkg/program"
	"machina/pkg/stack"
	"machina/pkg/value"

	"github.com/charmbracelet/log"
)

// DefaultMaxDepth bounds the call stack when WithMaxDepth is not given.
const DefaultMaxDepth = 1024

// Interpreter executes a resolved program
type Interpreter struct {
	prog  *program.Program // resolved program, read-only during execution
	table builtin.Table    // operations available to assignments

	stack *stack.Stack[*Frame] // call stack (frames)

	out io.Writer // output writer for out/output

	entry    string // function started by Run
	maxDepth int    // maximum frames on the call stack
	maxSteps int    // maximum steps (0 = unlimited)
	steps    int    // steps executed

	nextID uint64      // id of the next frame
	result value.Value // value returned by the outermost frame
	err    error       // failure that stopped the current run
}

type Option func(*Interpreter)

// WithWriter sets the output writer for out instructions
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithMaxSteps sets a maximum number of interpreter steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithMaxDepth bounds the call stack, deeper calls fail with StackOverflow
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) { i.maxDepth = n }
}

// WithEntry names the function Run starts from (default "main")
func WithEntry(name string) Option {
	return func(i *Interpreter) { i.entry = name }
}

// WithBuiltins replaces the builtin operation table
func WithBuiltins(t builtin.Table) Option {
	return func(i *Interpreter) { i.table = t }
}

// NewInterpreter creates a new Interpreter instance over a resolved program
func NewInterpreter(prog *program.Program, opts ...Option) *Interpreter {
	it := &Interpreter{
		prog:     prog,
		entry:    "main",
		maxDepth: DefaultMaxDepth,
		maxSteps: 0, // 0 => unlimited
	}

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}
	if it.table == nil {
		it.table = builtin.Default()
	}
	if it.maxDepth <= 0 {
		it.maxDepth = DefaultMaxDepth
	}
	it.stack = stack.NewStack[*Frame](it.maxDepth)

	return it
}

// Program returns the program being executed
func (i *Interpreter) Program() *program.Program {
	return i.prog
}

// Output returns the output writer used for out
func (i *Interpreter) Output() io.Writer {
	return i.out
}

// Reset clears runtime state (call stack, counters, result)
func (i *Interpreter) Reset() {
	i.stack.Clear()
	i.steps = 0
	i.result = value.Unit
	i.err = nil
}

// Start prepares a run of the named function without executing anything
func (i *Interpreter) Start(name string, args ...value.Value) error {
	i.Reset()

	fn, ok := i.prog.Lookup(name)
	if !ok {
		i.err = i.fail(fmt.Errorf("%w: %q", ErrUnknownFunction, name))
		return i.err
	}
	if err := i.pushFrame(fn, args, ""); err != nil {
		i.err = i.fail(err)
		return i.err
	}

	return nil
}

// Step executes a single instruction, returning (halted, error).
// Stepping an interpreter with no active frame fails with ErrHalted.
func (i *Interpreter) Step() (bool, error) {
	if i.err != nil {
		return true, i.err
	}
	if i.stack.Size() == 0 {
		return true, ErrHalted
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		i.err = i.fail(ErrMaxStepsExceeded)
		return true, i.err
	}

	halted, err := coreStep(i)
	i.steps++

	if err != nil {
		i.err = i.fail(err)
		return true, i.err
	}

	return halted, nil
}

// Run executes the entry function until it returns or fails
func (i *Interpreter) Run() error {
	if err := i.Start(i.entry); err != nil {
		return err
	}

	return i.loop()
}

// Call runs the named function to completion and returns its result
func (i *Interpreter) Call(name string, args ...value.Value) (value.Value, error) {
	if err := i.Start(name, args...); err != nil {
		return value.Unit, err
	}
	if err := i.loop(); err != nil {
		return value.Unit, err
	}

	return i.result, nil
}

func (i *Interpreter) loop() error {
	for {
		halted, err := i.Step()
		if err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}

// Result returns the value returned by the last completed run
func (i *Interpreter) Result() value.Value {
	return i.result
}

// Steps returns the number of instructions executed by the current run
func (i *Interpreter) Steps() int {
	return i.steps
}

// Depth returns the number of active frames
func (i *Interpreter) Depth() int {
	return i.stack.Size()
}

// Frames returns the active frames, outermost first
func (i *Interpreter) Frames() []*Frame {
	return i.stack.Array()
}

// PC returns the instruction pointer of the current frame, -1 when idle
func (i *Interpreter) PC() int {
	if f := i.currentFrame(); f != nil {
		return f.IP
	}

	return -1
}

// currentFrame returns the current call frame, or nil if none
func (i *Interpreter) currentFrame() *Frame {
	f, ok := i.stack.Peek()
	if !ok {
		return nil
	}

	return f
}

// pushFrame binds args to the parameters of fn in a fresh frame
func (i *Interpreter) pushFrame(fn *program.Function, args []value.Value, retDest string) error {
	if !fn.Resolved {
		return fmt.Errorf("function %q has not been resolved", fn.Name)
	}
	if len(args) != len(fn.Params) {
		return fmt.Errorf("%w: %q expects %d arguments, got %d", ErrArityMismatch, fn.Name, len(fn.Params), len(args))
	}

	i.nextID++
	frame := &Frame{
		ID:       i.nextID,
		Function: fn,
		IP:       0,
		Locals:   make(map[string]value.Value, len(fn.Params)),
		RetDest:  retDest,
		State:    Running,
	}
	for n, p := range fn.Params {
		frame.Locals[p] = args[n]
	}

	if err := i.stack.Push(frame); err != nil {
		return fmt.Errorf("%w: calling %q at depth %d exceeds maximum %d", ErrStackOverflow, fn.Name, i.stack.Size()+1, i.maxDepth)
	}

	log.Debug("call", "function", fn.Name, "depth", i.stack.Size())
	return nil
}

// popFrame removes the finished frame and hands its result to the caller.
// It reports true when the outermost frame returned.
func (i *Interpreter) popFrame() bool {
	done, ok := i.stack.Pop()
	if !ok {
		return true
	}
	log.Debug("return", "function", done.Function.Name, "value", done.Result, "state", done.State)

	caller := i.currentFrame()
	if caller == nil {
		i.result = done.Result
		return true
	}

	if done.RetDest != "" {
		caller.Locals[done.RetDest] = done.Result
	}
	caller.IP++
	caller.State = Running

	return false
}
