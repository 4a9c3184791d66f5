package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"machina/pkg/color"
	"machina/pkg/interpreter"
	"machina/pkg/parser"
	"machina/pkg/program"
	"machina/pkg/resolver"
	"machina/pkg/source"

	"github.com/charmbracelet/log"
)

type Runner struct {
	Help       bool   // Show help message
	Verbose    bool   // Debug logging and program listing
	NoColor    bool   // Disable colored output
	List       bool   // Print the resolved program and exit
	Entry      string // Function to start from
	MaxDepth   int    // Maximum call depth (0 = default)
	MaxSteps   int    // Maximum executed instructions (0 = unlimited)
	Encoding   string // Source encoding
	SourceFile string // Path to the source file

	Stdout io.Writer // program output, os.Stdout when nil
	Stderr io.Writer // diagnostics, os.Stderr when nil
}

// Run loads the source file, optionally lists it, and executes the entry function.
func (opts *Runner) Run() error {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	log.Debug("Processing file", "file", opts.SourceFile, "encoding", opts.Encoding)

	prog, err := source.Load(opts.SourceFile, source.WithEncoding(opts.Encoding))
	if err != nil {
		return report(stderr, err)
	}

	if opts.Verbose || opts.List {
		fmt.Fprintln(stdout, color.GreenText("=== Resolved Program ==="))
		fmt.Fprint(stdout, Listing(prog))
		if opts.List {
			return nil
		}
		fmt.Fprintln(stdout, color.GreenText("\n=== Program Output ==="))
	}

	entry := opts.Entry
	if entry == "" {
		entry = "main"
	}

	intr := interpreter.NewInterpreter(prog,
		interpreter.WithWriter(stdout),
		interpreter.WithEntry(entry),
		interpreter.WithMaxDepth(opts.MaxDepth),
		interpreter.WithMaxSteps(opts.MaxSteps),
	)
	if err := intr.Run(); err != nil {
		return report(stderr, err)
	}

	log.Debug("Program finished", "steps", intr.Steps(), "result", intr.Result())
	return nil
}

// report prints a diagnostic block for err and returns a summary error
func report(w io.Writer, err error) error {
	var (
		syntax  parser.ErrorList
		labels  resolver.ErrorList
		runtime *interpreter.RuntimeError
	)

	switch {
	case errors.As(err, &syntax):
		fmt.Fprintln(w, color.BrightRedText("=== Syntax Errors ==="))
		for _, e := range syntax {
			fmt.Fprintln(w, e.Pretty())
		}
		return fmt.Errorf("parsing failed with %d errors", len(syntax))

	case errors.As(err, &labels):
		fmt.Fprintln(w, color.BrightRedText("=== Resolution Errors ==="))
		for _, e := range labels {
			fmt.Fprintln(w, color.Error(e.Error()))
		}
		return fmt.Errorf("label resolution failed with %d errors", len(labels))

	case errors.As(err, &runtime):
		fmt.Fprintln(w, color.BrightRedText("=== Runtime Error ==="))
		fmt.Fprintln(w, color.Error(fmt.Sprintf("%s: %v", color.YellowText(string(runtime.Kind)), runtime.Err)))
		for _, t := range runtime.Trace {
			fmt.Fprintf(w, "  at %s %s\n", color.CyanText(t.Function), color.GrayText(fmt.Sprintf("#%d line %d", t.IP, t.Line)))
		}
		return fmt.Errorf("execution failed: %w", err)
	}

	return err
}

// Listing renders a resolved program with instruction indices, one function after another.
func Listing(prog *program.Program) string {
	var out []byte

	for _, name := range prog.Order {
		fn := prog.Functions[name]
		out = fmt.Appendf(out, "%s(%s)\n",
			color.MagentaText(fmt.Sprintf("%s %s", fn.Style, fn.Name)),
			color.BlueText(strings.Join(fn.Params, ", ")))

		labels := make(map[int][]string)
		for label, idx := range fn.Labels {
			labels[idx] = append(labels[idx], label)
		}

		for i, ins := range fn.Instructions {
			names := labels[i]
			slices.Sort(names)
			for _, l := range names {
				out = fmt.Appendf(out, "%s\n", color.GreenText(l+":"))
			}

			target := ""
			if ins.IsJump() {
				target = color.GrayText(fmt.Sprintf(" -> %d", ins.Target))
			}
			out = fmt.Appendf(out, "%s: %s%s\n",
				color.CyanText(fmt.Sprintf("%4d", i)),
				color.YellowText(ins.String()),
				target)
		}

		trailing := labels[len(fn.Instructions)]
		slices.Sort(trailing)
		for _, l := range trailing {
			out = fmt.Appendf(out, "%s\n", color.GreenText(l+":"))
		}

		if len(fn.Instructions) == 0 {
			out = fmt.Appendf(out, "%s\n", color.GrayText("    (empty)"))
		}
	}

	return string(out)
}
