package runner_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"machina/internal/runner"
	"machina/pkg/color"
	"machina/pkg/interpreter"
)

func run(t *testing.T, r runner.Runner) (string, string, error) {
	t.Helper()

	enabled := color.IsColorEnabled()
	color.EnableColor(false)
	t.Cleanup(func() { color.EnableColor(enabled) })

	var stdout, stderr bytes.Buffer
	r.Stdout = &stdout
	r.Stderr = &stderr
	err := r.Run()

	return stdout.String(), stderr.String(), err
}

func TestRunPrograms(t *testing.T) {
	tests := []struct {
		file  string
		first string
		last  string
		lines int
	}{
		{"testdata/fizzbuzz.mc", "1", "Buzz", 100},
		{"testdata/fibonacci.mc", "6765", "6765", 1},
	}

	for _, test := range tests {
		stdout, stderr, err := run(t, runner.Runner{SourceFile: test.file})
		if err != nil {
			t.Errorf("%s: unexpected error %v\n%s", test.file, err, stderr)
			continue
		}

		lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
		if len(lines) != test.lines || lines[0] != test.first || lines[len(lines)-1] != test.last {
			t.Errorf("%s: unexpected output %q", test.file, stdout)
		}
	}
}

func TestListOnly(t *testing.T) {
	stdout, _, err := run(t, runner.Runner{SourceFile: "testdata/fizzbuzz.mc", List: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"=== Resolved Program ===",
		"define fizzbuzz($n)",
		"LOOP:",
		"jmpt $done DONE -> 6",
		"$blk = case $fb FIZZBUZZ $f FIZZ $b BUZZ 1 NUMBER",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("listing misses %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "FizzBuzz\n") {
		t.Errorf("list mode must not run the program")
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		description string
		runner      runner.Runner
		summary     string
		diagnostics []string
	}{
		{
			"syntax errors",
			runner.Runner{SourceFile: "testdata/broken.mc"},
			"parsing failed with 2 errors",
			[]string{"=== Syntax Errors ===", "add expects 2, got 1", "unknown instruction 'frob'", "    frob $x"},
		},
		{
			"unresolved label",
			runner.Runner{SourceFile: "testdata/labels.mc"},
			"label resolution failed with 1 errors",
			[]string{"=== Resolution Errors ===", "MISSING"},
		},
		{
			"unknown entry",
			runner.Runner{SourceFile: "testdata/fizzbuzz.mc", Entry: "start"},
			"execution failed",
			[]string{"=== Runtime Error ===", "UnknownFunction"},
		},
		{
			"stack overflow",
			runner.Runner{SourceFile: "testdata/runaway.mc", MaxDepth: 32},
			"execution failed",
			[]string{"StackOverflow", "at down #1 line 4", "at main #0 line 7"},
		},
	}

	for _, test := range tests {
		_, stderr, err := run(t, test.runner)
		if err == nil || !strings.Contains(err.Error(), test.summary) {
			t.Errorf("%s: expected %q, got %v", test.description, test.summary, err)
			continue
		}
		for _, want := range test.diagnostics {
			if !strings.Contains(stderr, want) {
				t.Errorf("%s: diagnostics miss %q:\n%s", test.description, want, stderr)
			}
		}
	}
}

func TestStepLimit(t *testing.T) {
	_, _, err := run(t, runner.Runner{SourceFile: "testdata/fizzbuzz.mc", MaxSteps: 100})
	if !errors.Is(err, interpreter.ErrMaxStepsExceeded) {
		t.Fatalf("expected step limit error, got %v", err)
	}
}

func TestMissingFile(t *testing.T) {
	_, _, err := run(t, runner.Runner{SourceFile: "testdata/nope.mc"})
	if err == nil || !strings.Contains(err.Error(), "reading source") {
		t.Fatalf("expected read error, got %v", err)
	}
}
