package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Scored", statusOK, "2 recordings", false)
	if !strings.Contains(line, "Scored:") || !strings.HasSuffix(line, "[OK] 2 recordings") {
		t.Fatalf("unexpected line %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("uncolorized line contains escape codes: %q", line)
	}

	colored := renderStatusLine("Failed", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
	if !strings.Contains(colored, "[ERROR]") {
		t.Fatalf("missing status label: %q", colored)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("  rec1 ", false)
	if len(lines) != 2 || lines[0] != "== rec1 ==" || lines[1] != strings.Repeat("-", len("== rec1 ==")) {
		t.Fatalf("unexpected header %q", lines)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestCountKindAndPlural(t *testing.T) {
	if countKind(0, statusWarn) != statusOK || countKind(2, statusWarn) != statusWarn {
		t.Fatal("countKind mismatch")
	}
	if plural(1, "recording") != "1 recording" || plural(3, "recording") != "3 recordings" {
		t.Fatal("plural mismatch")
	}
}
