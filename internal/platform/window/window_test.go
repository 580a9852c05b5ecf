package window

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

func TestToPixel(t *testing.T) {
	tests := []struct {
		p     core.Vec2
		scale float64
		x, y  float32
	}{
		{core.V(0, 0), 1, 400, 300},
		{core.V(100, 0), 1, 500, 300},
		{core.V(0, 100), 1, 400, 200},
		{core.V(-50, -25), 2, 300, 350},
	}
	for _, tt := range tests {
		x, y := toPixel(tt.p, 800, 600, tt.scale)
		if x != tt.x || y != tt.y {
			t.Errorf("toPixel(%v, scale %v) = %v,%v; want %v,%v", tt.p, tt.scale, x, y, tt.x, tt.y)
		}
	}
}

func TestStrokeWidth(t *testing.T) {
	if got := strokeWidth(0, 1); got != 1 {
		t.Errorf("zero width = %v, want 1", got)
	}
	if got := strokeWidth(3, 2); got != 6 {
		t.Errorf("scaled width = %v, want 6", got)
	}
}

func TestBackground(t *testing.T) {
	if got := background(core.ColorDefault); got != color.Black {
		t.Errorf("default background = %v, want black", got)
	}
	if got := background(core.ColorBlue); got != core.ColorBlue.RGBA() {
		t.Errorf("blue background = %v", got)
	}
}

func TestArrowPixels(t *testing.T) {
	red := core.ColorRed.RGBA()
	img := arrowPixels(16, red)
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("size = %v", b)
	}
	tests := []struct {
		name   string
		x, y   int
		filled bool
	}{
		{"near tip", 14, 8, true},
		{"body", 6, 7, true},
		{"notch", 1, 8, false},
		{"top right corner", 15, 0, false},
		{"bottom right corner", 15, 15, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := img.RGBAAt(tt.x, tt.y) == red
			if got != tt.filled {
				t.Errorf("pixel %d,%d filled = %v, want %v", tt.x, tt.y, got, tt.filled)
			}
		})
	}
}

func TestRotatedSide(t *testing.T) {
	if got := rotatedSide(14, 14); got != 20 {
		t.Errorf("rotatedSide(14,14) = %d, want 20", got)
	}
	if got := rotatedSide(3, 4); got != 5 {
		t.Errorf("rotatedSide(3,4) = %d, want 5", got)
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		ctrl bool
		want core.Action
	}{
		{ebiten.KeySpace, false, core.ActionPause},
		{ebiten.KeyPeriod, false, core.ActionStep},
		{ebiten.KeyU, false, core.ActionUndo},
		{ebiten.KeyR, false, core.ActionRedo},
		{ebiten.KeyR, true, core.ActionRestart},
		{ebiten.KeyEqual, false, core.ActionFaster},
		{ebiten.KeyMinus, false, core.ActionSlower},
		{ebiten.KeyS, false, core.ActionSave},
		{ebiten.KeyS, true, core.ActionScreenshot},
		{ebiten.KeyEscape, false, core.ActionQuit},
		{ebiten.KeyC, true, core.ActionQuit},
		{ebiten.KeyC, false, core.ActionNone},
		{ebiten.KeyZ, false, core.ActionNone},
	}
	for _, tt := range tests {
		if got := actionFor(tt.key, tt.ctrl); got != tt.want {
			t.Errorf("actionFor(%v, ctrl=%v) = %v, want %v", tt.key, tt.ctrl, got, tt.want)
		}
	}
}
