package programs

import (
	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/storage"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

// Replay redraws a saved drawing with one turtle, segment by segment.
type Replay struct {
	Drawing *storage.Drawing
}

// ID implements registry.Program.
func (r Replay) ID() string { return r.Drawing.ProgramID }

// Title implements registry.Program.
func (r Replay) Title() string {
	title := r.Drawing.Title
	if title == "" {
		title = r.Drawing.ProgramID
	}
	return title + " (saved)"
}

// Setup implements registry.Program.
func (r Replay) Setup(s *canvas.Screen) error {
	t := s.NewTurtle()
	replay(t, r.Drawing.Segments)
	t.Hide()
	return nil
}

// replay queues the commands that commit segs again in order. Gaps between
// segments are crossed with the pen up.
func replay(t *turtle.Turtle, segs []turtle.Segment) {
	t.PenDown()
	pos := t.Position()
	color, width, visible := t.PenColor(), t.PenWidth(), t.Visible()
	for _, seg := range segs {
		if seg.Color != color {
			t.SetColor(seg.Color)
			color = seg.Color
		}
		if seg.Width != width && !seg.Dot() {
			t.SetWidth(seg.Width)
			width = seg.Width
		}
		if seg.Visible != visible {
			if seg.Visible {
				t.Show()
			} else {
				t.Hide()
			}
			visible = seg.Visible
		}
		if seg.Start != pos {
			t.PenUp()
			t.Teleport(seg.Start.X, seg.Start.Y)
			t.PenDown()
		}
		if seg.Dot() {
			t.Command(turtle.OpDot, seg.Width)
		} else {
			t.Goto(seg.End.X, seg.End.Y)
		}
		pos = seg.End
	}
}

// DrawSegments paints segs straight onto dst without animation.
func DrawSegments(dst core.Surface, bg core.Color, segs []turtle.Segment) {
	dst.Fill(bg)
	for _, seg := range segs {
		if seg.Visible {
			dst.DrawLines(seg.Points(), seg.Color, seg.Width)
		}
	}
}
