package color_test

import (
	"strings"
	"testing"

	"machina/pkg/color"
)

func TestColorDisabled(t *testing.T) {
	color.EnableColor(false)
	defer color.EnableColor(false)

	if color.IsColorEnabled() {
		t.Fatalf("expected color to be disabled")
	}
	if got := color.RedText("boom"); got != "boom" {
		t.Errorf("expected plain text, got %q", got)
	}
	if got := color.Position(3, 7); got != "3:7" {
		t.Errorf("expected 3:7, got %q", got)
	}
}

func TestColorEnabled(t *testing.T) {
	color.EnableColor(true)
	defer color.EnableColor(false)

	got := color.YellowText("warn")
	if !strings.Contains(got, "warn") || !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI styled text, got %q", got)
	}
}

func TestErrorWithPosition(t *testing.T) {
	color.EnableColor(false)

	got := color.ErrorWithPosition(2, 5, "unknown instruction", "    frob $x")
	want := "Error at 2:5: unknown instruction\n    frob $x"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
