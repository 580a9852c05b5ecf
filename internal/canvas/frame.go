package canvas

import (
	"time"

	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

// SpriteAt is a rotated turtle sprite placed at a render position.
type SpriteAt struct {
	Image   core.Image
	Pos     core.Vec2
	Heading float64
}

// Frame is what a presenter needs besides the persistent surface: the live
// segments still being drawn and one sprite per visible turtle.
type Frame struct {
	Number  uint64
	Live    []turtle.Segment
	Sprites []SpriteAt
}

// Frame collects the live elements of the current frame.
func (s *Screen) Frame() Frame {
	f := Frame{Number: s.frame}
	for _, t := range s.turtles {
		if seg, ok := t.Live(); ok && seg.Visible {
			f.Live = append(f.Live, seg)
		}
		if img := t.Sprite(); img != nil {
			f.Sprites = append(f.Sprites, SpriteAt{
				Image:   img,
				Pos:     t.Position(),
				Heading: t.Heading(),
			})
		}
	}
	return f
}

// Compose draws the persistent surface plus the live elements onto dst.
func (s *Screen) Compose(dst core.Surface) {
	dst.Fill(s.cfg.Background)
	dst.Overlay(s.surface)
	f := s.Frame()
	for _, seg := range f.Live {
		drawSegment(dst, seg)
	}
	for _, sp := range f.Sprites {
		dst.Blit(sp.Image, sp.Pos)
	}
}

// WallClock is a Clock backed by the system time. The first call returns 0.
type WallClock struct {
	now  func() time.Time
	last time.Time
}

// NewWallClock creates a clock reading time.Now.
func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

// Elapsed returns the seconds since the previous call.
func (c *WallClock) Elapsed() float64 {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	return max(dt, 0)
}

// FixedClock reports the same step on every call, for headless runs.
type FixedClock float64

// Elapsed returns the fixed step.
func (c FixedClock) Elapsed() float64 { return float64(c) }
