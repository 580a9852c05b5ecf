// Package raster draws turtle output onto a colored cell buffer so it can be
// shown in a terminal.
package raster

import (
	"math"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// CellSurface implements core.Surface on a core.Screen. World coordinates
// have their origin at the buffer center with +y up; one column covers
// Scale world units and one row covers Scale*Aspect units.
type CellSurface struct {
	screen *core.Screen
	scale  float64
	aspect float64
}

// NewCellSurface creates a w x h cell surface.
// scale <= 0 and aspect <= 0 fall back to 1 and 2.
func NewCellSurface(w, h int, scale, aspect float64) *CellSurface {
	if scale <= 0 {
		scale = 1
	}
	if aspect <= 0 {
		aspect = 2
	}
	return &CellSurface{
		screen: core.NewScreen(w, h),
		scale:  scale,
		aspect: aspect,
	}
}

// Screen exposes the underlying cell buffer.
func (s *CellSurface) Screen() *core.Screen { return s.screen }

// Resize changes the buffer size, keeping existing cells.
func (s *CellSurface) Resize(w, h int) { s.screen.Resize(w, h) }

// ToCell maps a world position to a cell. The cell may be out of bounds;
// far-off or non-finite positions map to a cell just outside the buffer.
func (s *CellSurface) ToCell(p core.Vec2) (col, row int) {
	return s.cellOf(s.cellSpace(p))
}

// cellSpace maps a world position to fractional cell coordinates.
func (s *CellSurface) cellSpace(p core.Vec2) (x, y float64) {
	cx := float64(s.screen.Width()) / 2
	cy := float64(s.screen.Height()) / 2
	return cx + p.X/s.scale, cy - p.Y/(s.scale*s.aspect)
}

func (s *CellSurface) cellOf(x, y float64) (col, row int) {
	return toCell(x, s.screen.Width()), toCell(y, s.screen.Height())
}

// toCell floors v into [-1, n], so conversion to int is always defined.
func toCell(v float64, n int) int {
	switch {
	case math.IsNaN(v), v < 0:
		return -1
	case v >= float64(n):
		return n
	}
	return int(math.Floor(v))
}

// Fill clears every cell to a blank of the background color.
func (s *CellSurface) Fill(bg core.Color) {
	s.screen.FillCell(core.Cell{Rune: ' ', Color: bg})
}

// DrawLines strokes a polyline. A single point draws a dot.
func (s *CellSurface) DrawLines(points []core.Vec2, c core.Color, width float64) {
	switch len(points) {
	case 0:
		return
	case 1:
		x, y := s.ToCell(points[0])
		s.screen.SetCell(x, y, core.Cell{Rune: dotGlyph(width), Color: c})
		return
	}
	for i := 1; i < len(points); i++ {
		s.line(points[i-1], points[i], c, width)
	}
}

// line rasterizes one segment with Bresenham's algorithm in cell space,
// after clipping it to the buffer so off-screen parts cost nothing.
func (s *CellSurface) line(a, b core.Vec2, c core.Color, width float64) {
	glyph := lineGlyph(b.Sub(a), width)
	ax, ay := s.cellSpace(a)
	bx, by := s.cellSpace(b)
	ax, ay, bx, by, ok := clipLine(ax, ay, bx, by, float64(s.screen.Width()), float64(s.screen.Height()))
	if !ok {
		return
	}
	x0, y0 := s.cellOf(ax, ay)
	x1, y1 := s.cellOf(bx, by)

	dx := core.Abs(x1 - x0)
	dy := -core.Abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		s.screen.SetCell(x0, y0, core.Cell{Rune: glyph, Color: c})
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// clipLine clips the segment (x0,y0)-(x1,y1) to the rectangle [0,w]x[0,h]
// with the Liang-Barsky algorithm. It reports false when nothing of the
// segment is inside or an endpoint is not finite.
func clipLine(x0, y0, x1, y1, w, h float64) (ax, ay, bx, by float64, ok bool) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}
	dx, dy := x1-x0, y1-y0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0, w - x0, y0, h - y0}
	t0, t1 := 0.0, 1.0
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// Blit draws a *Sprite centered at pos. Other images are ignored.
func (s *CellSurface) Blit(img core.Image, pos core.Vec2) {
	sp, ok := img.(*Sprite)
	if !ok {
		return
	}
	x, y := s.ToCell(pos)
	for _, cell := range sp.Cells {
		s.screen.SetCell(x+cell.DX, y-cell.DY, core.Cell{Rune: cell.Rune, Color: sp.Color})
	}
}

// Overlay copies the non-blank cells of another CellSurface on top.
func (s *CellSurface) Overlay(src core.Surface) {
	if cs, ok := src.(*CellSurface); ok {
		s.screen.Overlay(cs.screen)
	}
}

// String returns the buffer as plain text.
func (s *CellSurface) String() string { return s.screen.String() }

func dotGlyph(width float64) rune {
	if width >= 2 {
		return '●'
	}
	return '•'
}

// lineGlyph picks a box-drawing rune by the direction of the stroke.
func lineGlyph(d core.Vec2, width float64) rune {
	heavy := width >= 2
	deg := math.Mod(core.Degrees(math.Atan2(d.Y, d.X))+180, 180)
	switch {
	case deg < 22.5 || deg >= 157.5:
		if heavy {
			return '━'
		}
		return '─'
	case deg < 67.5:
		return '╱'
	case deg < 112.5:
		if heavy {
			return '┃'
		}
		return '│'
	default:
		return '╲'
	}
}
