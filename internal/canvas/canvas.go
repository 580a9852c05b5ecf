// Package canvas drives a set of turtles over one persistent drawing surface.
//
// Each frame the screen updates its turtles in registration order, appends
// their newly committed segments to the surface in commit order, and
// rebuilds the surface from the remaining history whenever a turtle lost
// segments (undo, clear, reset).
package canvas

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

// ErrCorruptHistory is returned when a rebuild finds two segments with the
// same commit sequence number.
var ErrCorruptHistory = errors.New("canvas: corrupt segment history")

// Config holds screen-wide settings.
type Config struct {
	Background core.Color
	Turtle     turtle.Config // defaults for NewTurtle
}

// DefaultConfig returns the default screen settings.
func DefaultConfig() Config {
	return Config{
		Background: core.ColorDefault,
		Turtle:     turtle.DefaultConfig(),
	}
}

// Screen owns the shared clock, the persistent surface and the turtles
// drawing on it.
type Screen struct {
	cfg     Config
	reg     *turtle.Registry
	log     *log.Logger
	clock   core.Clock
	surface core.Surface

	sprite core.Image
	rotate core.RotateFunc

	turtles []*turtle.Turtle
	undone  []*turtle.Turtle // turtles in the order Undo touched them
	seq     uint64
	frame   uint64

	rebuilds int
}

// Option customizes a Screen.
type Option func(*Screen)

// WithLogger sets the screen logger. Turtles created by the screen log
// through it with a "turtle" key.
func WithLogger(l *log.Logger) Option {
	return func(s *Screen) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the clock used by Tick.
func WithClock(c core.Clock) Option {
	return func(s *Screen) { s.clock = c }
}

// WithRegistry shares an opcode registry with the screen's turtles.
func WithRegistry(r *turtle.Registry) Option {
	return func(s *Screen) {
		if r != nil {
			s.reg = r
		}
	}
}

// WithSprite sets the default sprite and rotate primitive of new turtles.
func WithSprite(img core.Image, rotate core.RotateFunc) Option {
	return func(s *Screen) {
		s.sprite = img
		s.rotate = rotate
	}
}

// New creates a screen drawing onto surface.
func New(surface core.Surface, cfg Config, opts ...Option) *Screen {
	s := &Screen{
		cfg:     cfg,
		reg:     turtle.NewRegistry(),
		log:     log.New(io.Discard),
		clock:   NewWallClock(),
		surface: surface,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.surface.Fill(cfg.Background)
	return s
}

// NewTurtle creates a turtle from the screen's turtle defaults and
// registers it. Later options override the screen's.
func (s *Screen) NewTurtle(opts ...turtle.Option) *turtle.Turtle {
	return s.NewTurtleWith(s.cfg.Turtle, opts...)
}

// NewTurtleWith creates and registers a turtle with its own config.
func (s *Screen) NewTurtleWith(cfg turtle.Config, opts ...turtle.Option) *turtle.Turtle {
	name := fmt.Sprintf("t%d", len(s.turtles)+1)
	base := []turtle.Option{
		turtle.WithName(name),
		turtle.WithRegistry(s.reg),
		turtle.WithSequence(s.nextSeq),
		turtle.WithLogger(s.log),
		turtle.WithSprite(s.sprite, s.rotate),
	}
	t := turtle.New(cfg, append(base, opts...)...)
	s.turtles = append(s.turtles, t)
	s.log.Debug("turtle registered", "turtle", t.Name(), "speed", t.Speed())
	return t
}

// nextSeq hands out commit sequence numbers. A new commit by any turtle
// ends the screen-wide redo chain.
func (s *Screen) nextSeq() uint64 {
	s.undone = nil
	s.seq++
	return s.seq
}

// Registry returns the opcode registry shared by the screen's turtles.
func (s *Screen) Registry() *turtle.Registry { return s.reg }

// Surface returns the persistent surface.
func (s *Screen) Surface() core.Surface { return s.surface }

// TurtleDefaults returns the config NewTurtle uses.
func (s *Screen) TurtleDefaults() turtle.Config { return s.cfg.Turtle }

// Background returns the background color.
func (s *Screen) Background() core.Color { return s.cfg.Background }

// SetBackground changes the background color and repaints the surface
// from history.
func (s *Screen) SetBackground(c core.Color) error {
	if c == s.cfg.Background {
		return nil
	}
	s.cfg.Background = c
	s.log.Debug("background changed", "color", c)
	return s.rebuild()
}

// Turtles returns the registered turtles in update order.
func (s *Screen) Turtles() []*turtle.Turtle {
	return slices.Clone(s.turtles)
}

// FrameNumber returns the number of completed frames.
func (s *Screen) FrameNumber() uint64 { return s.frame }

// Rebuilds returns how many times the surface was rebuilt from history.
func (s *Screen) Rebuilds() int { return s.rebuilds }

// Remove unregisters t. Its segments leave the drawing on the next frame.
func (s *Screen) Remove(t *turtle.Turtle) bool {
	i := slices.Index(s.turtles, t)
	if i < 0 {
		return false
	}
	s.turtles = slices.Delete(s.turtles, i, i+1)
	s.undone = slices.DeleteFunc(s.undone, func(u *turtle.Turtle) bool { return u == t })
	if err := s.rebuild(); err != nil {
		s.log.Error("rebuild after remove failed", "error", err)
	}
	return true
}

// Teardown drops every turtle and clears the surface.
func (s *Screen) Teardown() {
	s.turtles = nil
	s.undone = nil
	s.surface.Fill(s.cfg.Background)
}

// Tick advances one frame using the screen clock.
func (s *Screen) Tick() error {
	return s.Update(s.clock.Elapsed())
}

// Update advances every turtle by dt seconds in registration order and
// brings the persistent surface up to date. Turtle failures are joined;
// only a corrupt history aborts the frame.
func (s *Screen) Update(dt float64) error {
	var errs []error
	for _, t := range s.turtles {
		if err := t.Update(dt); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.sync(); err != nil {
		return errors.Join(append(errs, err)...)
	}
	s.frame++
	return errors.Join(errs...)
}

// Refresh brings the surface up to date without advancing any turtle, so
// undo and redo show while the loop is paused.
func (s *Screen) Refresh() error { return s.sync() }

// Redraw repaints the surface from history, e.g. after the surface was
// resized.
func (s *Screen) Redraw() error { return s.rebuild() }

// sync appends fresh segments to the surface, or rebuilds it when any
// turtle lost segments.
func (s *Screen) sync() error {
	dirty := false
	for _, t := range s.turtles {
		if t.TakeDirty() {
			dirty = true
		}
	}
	if dirty {
		return s.rebuild()
	}

	var fresh []turtle.Segment
	for _, t := range s.turtles {
		fresh = append(fresh, t.TakeCommitted()...)
	}
	sortBySeq(fresh)
	for _, seg := range fresh {
		drawSegment(s.surface, seg)
	}
	return nil
}

// rebuild repaints the surface from the full history of every turtle.
func (s *Screen) rebuild() error {
	segs := s.Segments()
	for i := 1; i < len(segs); i++ {
		if segs[i].Seq == segs[i-1].Seq {
			return fmt.Errorf("%w: sequence %d committed twice", ErrCorruptHistory, segs[i].Seq)
		}
	}
	for _, t := range s.turtles {
		t.TakeCommitted()
		t.TakeDirty()
	}

	s.surface.Fill(s.cfg.Background)
	for _, seg := range segs {
		drawSegment(s.surface, seg)
	}
	s.rebuilds++
	s.log.Debug("surface rebuilt", "segments", len(segs), "frame", s.frame)
	return nil
}

// Segments returns every segment of every turtle in commit order.
func (s *Screen) Segments() []turtle.Segment {
	var all []turtle.Segment
	for _, t := range s.turtles {
		all = append(all, t.History()...)
	}
	sortBySeq(all)
	return all
}

// Undo removes the most recently committed segment across all turtles.
func (s *Screen) Undo() error {
	var (
		last *turtle.Turtle
		seq  uint64
	)
	for _, t := range s.turtles {
		c := t.Committed()
		if len(c) == 0 {
			continue
		}
		if top := c[len(c)-1].Seq; last == nil || top > seq {
			last, seq = t, top
		}
	}
	if last == nil {
		return turtle.ErrNothingToUndo
	}
	if err := last.Undo(); err != nil {
		return err
	}
	s.undone = append(s.undone, last)
	return nil
}

// Redo reapplies the most recently undone segment across all turtles. It
// fails once any turtle committed a segment after the undo.
func (s *Screen) Redo() error {
	for len(s.undone) > 0 {
		t := s.undone[len(s.undone)-1]
		s.undone = s.undone[:len(s.undone)-1]
		if err := t.Redo(); err == nil {
			return nil
		}
	}
	return turtle.ErrNothingToRedo
}

// Idle reports whether every turtle has finished its queue.
func (s *Screen) Idle() bool {
	for _, t := range s.turtles {
		if !t.Idle() {
			return false
		}
	}
	return true
}

// Pending returns the number of queued instructions across all turtles.
func (s *Screen) Pending() int {
	n := 0
	for _, t := range s.turtles {
		n += t.Pending()
	}
	return n
}

// ScaleSpeed multiplies every turtle's speed by k.
func (s *Screen) ScaleSpeed(k float64) {
	for _, t := range s.turtles {
		t.ScaleSpeed(k)
	}
}

func drawSegment(dst core.Surface, seg turtle.Segment) {
	if !seg.Visible {
		return
	}
	dst.DrawLines(seg.Points(), seg.Color, seg.Width)
}

func sortBySeq(segs []turtle.Segment) {
	slices.SortStableFunc(segs, func(a, b turtle.Segment) int {
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
}
