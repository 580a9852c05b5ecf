package raster

import (
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/core"
)

func TestToCell(t *testing.T) {
	s := NewCellSurface(20, 10, 2, 2)
	tests := []struct {
		p        core.Vec2
		col, row int
	}{
		{core.V(0, 0), 10, 5},
		{core.V(4, 0), 12, 5},
		{core.V(0, 8), 10, 3},
		{core.V(-20, -19), 0, 9},
		{core.V(1e300, -1e300), 20, 10},
		{core.V(math.Inf(-1), math.NaN()), -1, -1},
	}
	for _, tt := range tests {
		col, row := s.ToCell(tt.p)
		if col != tt.col || row != tt.row {
			t.Errorf("ToCell(%v) = %d,%d; want %d,%d", tt.p, col, row, tt.col, tt.row)
		}
	}
}

func TestDrawLinesGlyphs(t *testing.T) {
	tests := []struct {
		name  string
		to    core.Vec2
		width float64
		want  rune
	}{
		{"horizontal", core.V(6, 0), 1, '─'},
		{"heavy horizontal", core.V(-6, 0), 2, '━'},
		{"vertical", core.V(0, 6), 1, '│'},
		{"rising", core.V(6, 6), 1, '╱'},
		{"falling", core.V(6, -6), 1, '╲'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCellSurface(20, 20, 1, 1)
			s.Fill(core.ColorDefault)
			s.DrawLines([]core.Vec2{{}, tt.to}, core.ColorRed, tt.width)

			col, row := s.ToCell(tt.to)
			cell := s.Screen().GetCell(col, row)
			if cell.Rune != tt.want || cell.Color != core.ColorRed {
				t.Errorf("end cell = %q/%v, want %q/red", cell.Rune, cell.Color, tt.want)
			}
			col, row = s.ToCell(core.Vec2{})
			if got := s.Screen().GetCell(col, row).Rune; got != tt.want {
				t.Errorf("start cell = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLineIsContinuous(t *testing.T) {
	s := NewCellSurface(40, 40, 1, 1)
	s.Fill(core.ColorDefault)
	s.DrawLines([]core.Vec2{core.V(-10, 0), core.V(10, 0)}, core.ColorWhite, 1)

	_, row := s.ToCell(core.Vec2{})
	if got := strings.Count(s.Screen().Row(row), "─"); got != 21 {
		t.Errorf("row has %d line cells, want 21", got)
	}
}

func TestDot(t *testing.T) {
	s := NewCellSurface(5, 5, 1, 1)
	s.DrawLines([]core.Vec2{{}}, core.ColorGreen, 1)
	if got := s.Screen().GetCell(2, 2).Rune; got != '•' {
		t.Errorf("dot = %q", got)
	}
}

func TestRotateArrow(t *testing.T) {
	arrow, ok := SpriteByName("arrow", core.ColorYellow)
	if !ok {
		t.Fatal("arrow sprite missing")
	}
	tests := []struct {
		deg  float64
		want rune
	}{
		{0, '→'},
		{90, '↑'},
		{180, '←'},
		{225, '↙'},
		{359, '→'},
	}
	for _, tt := range tests {
		r := Rotate(arrow, tt.deg).(*Sprite)
		if r.Cells[0].Rune != tt.want {
			t.Errorf("Rotate(%v) = %q, want %q", tt.deg, r.Cells[0].Rune, tt.want)
		}
	}
}

func TestRotateOffsets(t *testing.T) {
	sp, _ := SpriteByName("turtle", core.ColorGreen)
	r := Rotate(sp, 90).(*Sprite)
	var head SpriteCell
	for _, c := range r.Cells {
		if c.Rune == 'o' {
			head = c
		}
	}
	if head.DX != 0 || head.DY != 1 {
		t.Errorf("head at %d,%d; want 0,1", head.DX, head.DY)
	}
	if w, h := r.Size(); w != 1 || h != 2 {
		t.Errorf("size = %dx%d, want 1x2", w, h)
	}
}

func TestFingerprint(t *testing.T) {
	a, _ := SpriteByName("arrow", core.ColorWhite)
	b, _ := SpriteByName("arrow", core.ColorWhite)
	c, _ := SpriteByName("arrow", core.ColorRed)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal sprites differ")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("color change kept the fingerprint")
	}
	if a.Fingerprint() == Rotate(a, 90).(*Sprite).Fingerprint() {
		t.Error("rotation kept the fingerprint")
	}
}

func TestCanvasOnCells(t *testing.T) {
	surf := NewCellSurface(30, 15, 1, 2)
	arrow, _ := SpriteByName("arrow", core.ColorWhite)
	cfg := canvas.DefaultConfig()
	cfg.Turtle.Speed = 0
	s := canvas.New(surf, cfg, canvas.WithSprite(arrow, Rotate))

	tu := s.NewTurtle()
	tu.Teleport(10, 0)
	tu.Left(90)
	if err := s.Update(0.1); err != nil {
		t.Fatal(err)
	}

	view := NewCellSurface(30, 15, 1, 2)
	s.Compose(view)
	col, row := view.ToCell(core.V(10, 0))
	if got := view.Screen().GetCell(col, row).Rune; got != '↑' {
		t.Errorf("sprite cell = %q, want ↑", got)
	}
	col, row = view.ToCell(core.V(5, 0))
	if got := view.Screen().GetCell(col, row).Rune; got != '─' {
		t.Errorf("line cell = %q, want ─", got)
	}
	if len(tu.History()) != 1 || tu.Cache().Len() != 2 {
		t.Errorf("history=%d cache=%d", len(tu.History()), tu.Cache().Len())
	}
}

func TestLongSegmentsAreClipped(t *testing.T) {
	s := NewCellSurface(80, 24, 1, 2)
	s.DrawLines([]core.Vec2{core.V(-1e10, 0), core.V(1e10, 0)}, core.ColorWhite, 1)
	s.DrawLines([]core.Vec2{core.V(0, 1e10), core.V(0, -1e10)}, core.ColorWhite, 1)
	s.DrawLines([]core.Vec2{core.V(-1e12, -1e12), core.V(1e12, 1e12)}, core.ColorWhite, 1)

	for x := range 80 {
		if r := s.Screen().GetCell(x, 12).Rune; r != '─' && r != '│' && r != '╱' {
			t.Errorf("row 12 col %d = %q, want a stroke", x, r)
		}
	}
	for y := range 24 {
		if r := s.Screen().GetCell(40, y).Rune; r != '│' && r != '─' && r != '╱' {
			t.Errorf("col 40 row %d = %q, want a stroke", y, r)
		}
	}
	if !strings.ContainsRune(s.String(), '╱') {
		t.Error("diagonal missing")
	}
}

func TestOffscreenAndNonFiniteSegments(t *testing.T) {
	s := NewCellSurface(20, 10, 1, 2)
	s.DrawLines([]core.Vec2{core.V(100, 100), core.V(1e10, 100)}, core.ColorWhite, 1)
	s.DrawLines([]core.Vec2{core.V(0, 0), core.V(math.NaN(), 5)}, core.ColorWhite, 1)
	s.DrawLines([]core.Vec2{core.V(math.Inf(1), 0)}, core.ColorWhite, 1)
	if got := strings.TrimSpace(strings.ReplaceAll(s.String(), "\n", "")); got != "" {
		t.Errorf("expected a blank surface, got:\n%s", s.String())
	}
}

func TestClipLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           [4]float64
		ok             bool
	}{
		{"inside", 1, 1, 5, 5, [4]float64{1, 1, 5, 5}, true},
		{"crossing", -10, 5, 30, 5, [4]float64{0, 5, 20, 5}, true},
		{"outside", -10, -5, 30, -5, [4]float64{}, false},
		{"nan", 0, 0, math.NaN(), 1, [4]float64{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ax, ay, bx, by, ok := clipLine(tt.x0, tt.y0, tt.x1, tt.y1, 20, 10)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && [4]float64{ax, ay, bx, by} != tt.want {
				t.Errorf("clipped = %v, want %v", [4]float64{ax, ay, bx, by}, tt.want)
			}
		})
	}
}
