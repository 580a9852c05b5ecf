package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-turtle/internal/config"
	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/registry"
	"github.com/vovakirdan/tui-turtle/internal/storage"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

func testConfig(speed float64) config.Config {
	cfg := config.Default()
	cfg.Screen.Width = 80
	cfg.Screen.Height = 24
	cfg.Turtle.Speed = speed
	return cfg
}

func mustProgram(t *testing.T, id string) registry.Program {
	t.Helper()
	p, err := registry.Create(id)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestResolveProgram(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "line.yaml")
	src := "id: zz-cli-line\nname: CLI line\nturtles:\n  - steps:\n      - forward: [10]\n"
	if err := os.WriteFile(file, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	noExt := filepath.Join(dir, "line")
	if err := os.WriteFile(noExt, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		arg     string
		wantID  string
		wantErr bool
	}{
		{"square", "square", false},
		{file, "zz-cli-line", false},
		{noExt, "zz-cli-line", false},
		{filepath.Join(dir, "missing.yaml"), "", true},
		{"no-such-program", "", true},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.arg), func(t *testing.T) {
			p, err := resolveProgram(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("resolveProgram(%q) succeeded", tt.arg)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveProgram(%q): %v", tt.arg, err)
			}
			if p.ID() != tt.wantID {
				t.Errorf("id = %q, want %q", p.ID(), tt.wantID)
			}
		})
	}
}

func TestRunHeadlessUntilIdle(t *testing.T) {
	var out bytes.Buffer
	screen, err := runHeadless(&out, mustProgram(t, "square"), testConfig(1e6), 0, false, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if !screen.Idle() {
		t.Error("headless run stopped before idle")
	}
	if n := len(screen.Segments()); n != 4 {
		t.Errorf("segments = %d, want 4", n)
	}
	text := out.String()
	if !strings.Contains(text, "─") || !strings.Contains(text, "│") {
		t.Errorf("square missing from output:\n%s", text)
	}
	if lines := strings.Count(text, "\n"); lines != 24 {
		t.Errorf("output has %d lines, want 24", lines)
	}
}

func TestRunHeadlessFrameLimit(t *testing.T) {
	var out bytes.Buffer
	screen, err := runHeadless(&out, mustProgram(t, "square"), testConfig(10), 3, false, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if screen.FrameNumber() != 3 {
		t.Errorf("frames = %d, want 3", screen.FrameNumber())
	}
	if screen.Idle() {
		t.Error("slow square finished in 3 frames")
	}
}

func TestSaveAndShow(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	var out bytes.Buffer
	program := mustProgram(t, "square")
	screen, err := runHeadless(&out, program, testConfig(1e6), 0, false, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	id, err := saveScreen(store, program, screen)
	if err != nil {
		t.Fatal(err)
	}

	d, err := findDrawing(store, id[:8])
	if err != nil {
		t.Fatalf("findDrawing by prefix: %v", err)
	}
	if d.ID != id || len(d.Segments) != 4 {
		t.Fatalf("found %s with %d segments", d.ID, len(d.Segments))
	}

	out.Reset()
	if err := printDrawing(&out, d, testConfig(1), false); err != nil {
		t.Fatal(err)
	}
	header, body, _ := strings.Cut(out.String(), "\n")
	if !strings.Contains(header, "square") || !strings.Contains(header, "4 segments") {
		t.Errorf("header = %q", header)
	}
	if !strings.Contains(body, "─") || !strings.Contains(body, "│") {
		t.Errorf("drawing missing:\n%s", body)
	}

	if _, err := findDrawing(store, "zzzz"); err == nil {
		t.Error("unknown id found")
	}
}

func TestFindDrawingAmbiguous(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	seg := []turtle.Segment{{End: core.V(10, 0), Color: core.ColorWhite, Width: 1, Visible: true}}
	for _, id := range []string{"abc-1", "abc-2"} {
		if _, err := store.SaveDrawing(storage.Drawing{ID: id, ProgramID: "p", Segments: seg}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := findDrawing(store, "abc"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("err = %v, want ambiguous", err)
	}
	if d, err := findDrawing(store, "abc-2"); err != nil || d == nil || d.ID != "abc-2" {
		t.Errorf("exact id: %v, %v", d, err)
	}
}
