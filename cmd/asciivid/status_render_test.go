package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"asciivid/internal/ascii"
	"asciivid/internal/deps"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFmpeg", Available: false},
		{Name: "FFprobe", Available: true, Command: "/usr/bin/ffprobe"},
		{Name: "Extra", Available: false, Optional: true, Detail: "not configured"},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[ERROR] not available") {
		t.Fatalf("expected error detail first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[OK] Ready (command: /usr/bin/ffprobe)") {
		t.Fatalf("expected ready detail second, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN] not configured") {
		t.Fatalf("expected warn detail third, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "Missing dependencies:") || !strings.Contains(lines[3], "FFmpeg, Extra") {
		t.Fatalf("expected missing dependencies summary, got %q", lines[3])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderFrameColor(t *testing.T) {
	frame := ascii.Frame{
		{{Char: ascii.RoundGlyph, Color: "#ff8000"}, {Char: " "}},
	}
	if got := renderFrame(frame, false); got != ascii.RoundGlyph+" " {
		t.Fatalf("plain render = %q", got)
	}
	got := renderFrame(frame, true)
	want := "\x1b[38;2;255;128;0m" + ascii.RoundGlyph + ansiReset + " "
	if got != want {
		t.Fatalf("colour render mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestShouldColorizeHonoursNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if shouldColorize(os.Stdout) {
		t.Fatal("expected NO_COLOR to disable colour")
	}
}
