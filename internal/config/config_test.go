package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded): %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded = %+v\nhardcoded = %+v", cfg, Default())
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "turtle.yaml")
	data := "turtle:\n  speed: 42\n  pen:\n    color: bright-cyan\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Turtle.Speed != 42 {
		t.Errorf("speed = %v, want 42", cfg.Turtle.Speed)
	}
	if cfg.Screen.FPS != 60 || cfg.Turtle.UndoDepth != 200 {
		t.Errorf("missing fields lost their defaults: %+v", cfg)
	}

	cc, err := cfg.Canvas()
	if err != nil {
		t.Fatal(err)
	}
	if cc.Turtle.Pen.Color != core.ColorBrightCyan || cc.Turtle.Speed != 42 {
		t.Errorf("canvas config = %+v", cc.Turtle)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file accepted")
	}

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"syntax", "screen: [", "failed to parse"},
		{"fps", "screen:\n  fps: 0\n", "screen.fps"},
		{"speed", "turtle:\n  speed: -1\n", "turtle.speed"},
		{"bucket", "turtle:\n  rotation_bucket_degrees: 0\n", "rotation_bucket_degrees"},
		{"color", "turtle:\n  pen:\n    color: plaid\n", "plaid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestSpeedPresets(t *testing.T) {
	tests := []struct {
		preset SpeedPreset
		want   float64
	}{
		{SpeedSlow, 40},
		{SpeedNormal, 120},
		{SpeedFast, 400},
		{SpeedInstant, instantSpeed},
	}
	for _, tt := range tests {
		cfg := Default()
		if err := ApplySpeedPreset(&cfg, tt.preset); err != nil {
			t.Fatalf("%s: %v", tt.preset, err)
		}
		if cfg.Turtle.Speed != tt.want {
			t.Errorf("%s: speed = %v, want %v", tt.preset, cfg.Turtle.Speed, tt.want)
		}
	}

	cfg := Default()
	if err := ApplySpeedPreset(&cfg, "warp"); err == nil {
		t.Error("unknown preset accepted")
	}
	if err := ApplySpeedPreset(&cfg, ""); err != nil || cfg.Turtle.Speed != 120 {
		t.Errorf("empty preset changed config: %v", err)
	}
}

func TestRuntime(t *testing.T) {
	cfg := Default()
	rc := cfg.Runtime()
	if rc.ScreenW != 80 || rc.ScreenH != 24 || rc.TickRate != 60 {
		t.Errorf("runtime = %+v", rc)
	}
	cfg.Screen.Width, cfg.Screen.FPS = 100, 30
	if rc := cfg.Runtime(); rc.ScreenW != 100 || rc.TickRate != 30 {
		t.Errorf("runtime = %+v", rc)
	}
}
