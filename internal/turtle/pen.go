package turtle

import (
	"math"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// Segment is one straight stroke between two render positions.
// A segment with Start == End is a dot. Immutable once committed.
type Segment struct {
	Start   core.Vec2
	End     core.Vec2
	Color   core.Color
	Width   float64
	Visible bool
	Seq     uint64 // commit order across all turtles of a screen
}

// Dot reports whether the segment has zero length.
func (s Segment) Dot() bool {
	return s.Start == s.End
}

// Points returns the polyline drawn for the segment.
func (s Segment) Points() []core.Vec2 {
	if s.Dot() {
		return []core.Vec2{s.Start}
	}
	return []core.Vec2{s.Start, s.End}
}

// Pen holds drawing state. It has two states, up and down; initially down.
// Style changes apply only to segments started after the change.
type Pen struct {
	down    bool
	visible bool
	color   core.Color
	width   float64
	live    *Segment
}

// NewPen creates a pen with the given defaults, visible.
func NewPen(c core.Color, width float64, down bool) Pen {
	return Pen{
		down:    down,
		visible: true,
		color:   c,
		width:   math.Max(width, 0),
	}
}

// Up lifts the pen. Movement no longer produces segments.
func (p *Pen) Up() { p.down = false }

// Down lowers the pen.
func (p *Pen) Down() { p.down = true }

// IsDown reports whether the pen is down.
func (p *Pen) IsDown() bool { return p.down }

// Hide marks subsequent segments (and the sprite) invisible.
func (p *Pen) Hide() { p.visible = false }

// Show marks subsequent segments (and the sprite) visible.
func (p *Pen) Show() { p.visible = true }

// Visible reports the visibility flag.
func (p *Pen) Visible() bool { return p.visible }

// Color returns the pen color.
func (p *Pen) Color() core.Color { return p.color }

// SetColor changes the color for segments started afterwards.
func (p *Pen) SetColor(c core.Color) { p.color = c }

// Width returns the stroke width.
func (p *Pen) Width() float64 { return p.width }

// SetWidth changes the width for segments started afterwards.
func (p *Pen) SetWidth(w float64) { p.width = math.Max(w, 0) }

// Stamp returns a segment from a to b in the current style.
func (p *Pen) Stamp(a, b core.Vec2) Segment {
	return Segment{
		Start:   a,
		End:     b,
		Color:   p.color,
		Width:   p.width,
		Visible: p.visible,
	}
}

// Track records a render-position change from a to b. While the pen is
// down the live segment starts at the first a and extends to every b.
func (p *Pen) Track(a, b core.Vec2) {
	if !p.down || a == b {
		return
	}
	if p.live == nil {
		s := p.Stamp(a, b)
		p.live = &s
		return
	}
	p.live.End = b
}

// Live returns the segment being drawn by the current motion, if any.
func (p *Pen) Live() (Segment, bool) {
	if p.live == nil {
		return Segment{}, false
	}
	return *p.live, true
}

// Finalize ends the live segment and returns it for commit.
func (p *Pen) Finalize() (Segment, bool) {
	s, ok := p.Live()
	p.live = nil
	return s, ok
}
