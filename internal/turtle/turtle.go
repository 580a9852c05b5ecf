// Package turtle implements the frame-driven turtle execution core.
//
// Public motion and drawing methods never act inline: they append an
// Instruction to the turtle's queue. Update drains the queue once per frame,
// dispatching each instruction through a numeric opcode table, then moves the
// render position towards the logical position and commits finished
// segments to the turtle's PathLog.
//
// A Turtle is not safe for concurrent use. A single loop drives it.
package turtle

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// Turtle is the addressable actor: a Navigator, a Pen, a Queue, a PathLog
// and a RotationCache composed together.
type Turtle struct {
	name string
	cfg  Config
	reg  *Registry
	log  *log.Logger
	seq  func() uint64

	nav     Navigator
	pen     Pen
	queue   Queue
	history PathLog

	rotate     core.RotateFunc
	baseSprite core.Image
	sprites    *RotationCache
	sprite     core.Image

	fresh []Segment // committed since the last TakeCommitted
	dirty bool      // history shrank since the last TakeDirty
}

// New creates a turtle at cfg.Origin, heading cfg.Heading.
func New(cfg Config, opts ...Option) *Turtle {
	t := &Turtle{
		name: "turtle",
		cfg:  cfg,
		log:  discardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.reg == nil {
		t.reg = NewRegistry()
	}
	if t.seq == nil {
		var n atomic.Uint64
		t.seq = func() uint64 { return n.Add(1) }
	}
	t.sprites = NewRotationCache(t.rotate, cfg.RotationBucket, cfg.RotationCacheCapacity)
	t.sprites.SetBase(t.baseSprite)
	t.restore()
	return t
}

func (t *Turtle) restore() {
	t.nav = NewNavigator(t.cfg.Origin, t.cfg.Heading, t.cfg.Speed)
	t.pen = NewPen(t.cfg.Pen.Color, t.cfg.Pen.Width, t.cfg.Pen.Down)
	t.history = NewPathLog(t.cfg.UndoDepth)
	t.refreshSprite()
}

// --- queued API ---

// Command enqueues a built-in or registered opcode. Unknown opcodes are
// reported when drained.
func (t *Turtle) Command(op Opcode, args ...any) {
	t.queue.Push(Instruction{Op: op, Args: args})
}

// Do enqueues an ad-hoc handler, invoked by identity at drain time.
func (t *Turtle) Do(fn Handler, args ...any) {
	t.queue.Push(Instruction{Fn: fn, Args: args})
}

// CustomCommand enqueues either an opcode (Opcode or int) or a callable
// (Handler or func(*Turtle, Args) error).
func (t *Turtle) CustomCommand(target any, args ...any) error {
	switch v := target.(type) {
	case Opcode:
		t.Command(v, args...)
	case int:
		t.Command(Opcode(v), args...)
	case Handler:
		t.Do(v, args...)
	case func(*Turtle, Args) error:
		t.Do(v, args...)
	case nil:
		return fmt.Errorf("turtle: custom command: nil target")
	default:
		return fmt.Errorf("turtle: custom command: unsupported target %T", target)
	}
	return nil
}

// Forward queues a move of d units along the heading.
func (t *Turtle) Forward(d float64) { t.Command(OpForward, d) }

// Backward queues a move of d units against the heading.
func (t *Turtle) Backward(d float64) { t.Command(OpBackward, d) }

// Goto queues a move to (x, y), drawing when the pen is down.
func (t *Turtle) Goto(x, y float64) { t.Command(OpGoto, x, y) }

// Teleport queues an instant jump to (x, y) that never draws.
func (t *Turtle) Teleport(x, y float64) { t.Command(OpTeleport, x, y) }

// Left queues a counterclockwise turn of a degrees.
func (t *Turtle) Left(a float64) { t.Command(OpLeft, a) }

// Right queues a clockwise turn of a degrees.
func (t *Turtle) Right(a float64) { t.Command(OpRight, a) }

// Home queues a move back to the origin. The heading is kept.
func (t *Turtle) Home() { t.Command(OpHome) }

// SetX queues a move to x, keeping y.
func (t *Turtle) SetX(x float64) { t.Command(OpSetX, x) }

// SetY queues a move to y, keeping x.
func (t *Turtle) SetY(y float64) { t.Command(OpSetY, y) }

// SetHeading queues an absolute heading in degrees.
func (t *Turtle) SetHeading(a float64) { t.Command(OpSetHeading, a) }

// HeadTowards queues a turn to face (x, y).
func (t *Turtle) HeadTowards(x, y float64) { t.Command(OpHeadTowards, x, y) }

// PenUp queues lifting the pen.
func (t *Turtle) PenUp() { t.Command(OpPenUp) }

// PenDown queues lowering the pen.
func (t *Turtle) PenDown() { t.Command(OpPenDown) }

func (t *Turtle) Hide() { t.Command(OpHide) }
func (t *Turtle) Show() { t.Command(OpShow) }

// SetColor queues a pen color change.
func (t *Turtle) SetColor(c core.Color) { t.Command(OpSetColor, c) }

// SetRGB queues a truecolor pen change. Channels are 0..255, or 0..1 when
// all three are at most 1.
func (t *Turtle) SetRGB(r, g, b float64) { t.Command(OpSetColor, r, g, b) }

// SetWidth queues a pen width change.
func (t *Turtle) SetWidth(w float64) { t.Command(OpSetWidth, w) }

// SetSpeed queues a speed change in units per second. Zero is instant.
func (t *Turtle) SetSpeed(s float64) { t.Command(OpSetSpeed, s) }

// Dot queues a dot at the current position.
func (t *Turtle) Dot() { t.Command(OpDot) }

// Clear queues dropping this turtle's drawing.
func (t *Turtle) Clear() { t.Command(OpClear) }

// Circle enqueues a polygon approximating a circle of the given radius:
// steps chords, each followed by a turn of 360/steps degrees.
func (t *Turtle) Circle(radius float64, steps int, dir CircleDirection) {
	if !finite(radius) {
		// Fails on drain like any other bad argument.
		t.Command(OpForward, radius)
		return
	}
	chord, turn, n := circlePlan(radius, steps, dir)
	for range n {
		t.Command(OpForward, chord)
		t.Command(OpLeft, turn)
	}
}

// --- immediate API ---

// Apply runs op at once, bypassing the queue. It is meant for handlers
// that build on other operations while they are being drained.
func (t *Turtle) Apply(op Opcode, args ...any) error {
	h, ok := t.reg.Lookup(op)
	if !ok {
		return &InstructionError{Op: op, Err: ErrUnknownOpcode}
	}
	if err := h(t, Args(args).resolve()); err != nil {
		return &InstructionError{Op: op, Err: err}
	}
	return nil
}

// Update advances the turtle by dt seconds: drain, interpolate, commit,
// refresh the sprite. Every instruction failure is logged and returned
// joined; none of them stops the drain.
func (t *Turtle) Update(dt float64) error {
	var errs []error
	remaining := max(dt, 0)
	dispatched := 0

	for {
		errs = t.drain(&dispatched, errs)
		if !t.inFlight() || remaining <= 0 {
			break
		}
		before := t.nav.Position()
		remaining = t.nav.Advance(remaining)
		t.pen.Track(before, t.nav.Position())
		if t.nav.Moving() {
			break
		}
		t.commitLive()
	}

	t.refreshSprite()
	return errors.Join(errs...)
}

// drain dispatches queued instructions until a motion is in flight, the
// queue is empty or the per-frame budget is spent.
func (t *Turtle) drain(dispatched *int, errs []error) []error {
	for !t.inFlight() {
		if limit := t.cfg.InstructionsPerFrame; limit > 0 && *dispatched >= limit {
			return errs
		}
		in, ok := t.queue.Pop()
		if !ok {
			return errs
		}
		*dispatched++
		if err := t.exec(in); err != nil {
			t.log.Warn("instruction failed", "turtle", t.name, "op", in.Op, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// inFlight reports whether a motion still has to be animated.
func (t *Turtle) inFlight() bool {
	return t.nav.Speed() > 0 && t.nav.Moving()
}

func (t *Turtle) exec(in Instruction) (err error) {
	t.commitLive()

	wrap := func(e error) error {
		return &InstructionError{Op: in.Op, Custom: in.Adhoc(), Err: e}
	}
	defer func() {
		if r := recover(); r != nil {
			err = wrap(fmt.Errorf("panic: %v", r))
		}
	}()

	args := in.Args.resolve()
	if in.Adhoc() {
		if e := in.Fn(t, args); e != nil {
			return wrap(e)
		}
		return nil
	}
	h, ok := t.reg.Lookup(in.Op)
	if !ok {
		return wrap(ErrUnknownOpcode)
	}
	if e := h(t, args); e != nil {
		return wrap(e)
	}
	return nil
}

// commitLive finalizes the live segment, if any.
func (t *Turtle) commitLive() {
	if s, ok := t.pen.Finalize(); ok {
		t.commit(s)
	}
}

func (t *Turtle) commit(s Segment) {
	s.Seq = t.seq()
	t.history.Commit(s)
	t.fresh = append(t.fresh, s)
}

func (t *Turtle) refreshSprite() {
	t.sprite = t.sprites.GetOrCreate(t.nav.Heading())
}

// Undo removes the newest committed segment. The owning canvas rebuilds its
// surface on the next frame.
func (t *Turtle) Undo() error {
	s, err := t.history.Undo()
	if err != nil {
		return err
	}
	t.dirty = true
	t.log.Debug("undo", "turtle", t.name, "seq", s.Seq)
	return nil
}

// Redo reapplies the most recently undone segment.
func (t *Turtle) Redo() error {
	s, err := t.history.Redo()
	if err != nil {
		return err
	}
	t.fresh = append(t.fresh, s)
	t.log.Debug("redo", "turtle", t.name, "seq", s.Seq)
	return nil
}

// Unqueue withdraws the most recently queued instruction that has not been
// drained yet.
func (t *Turtle) Unqueue() (Instruction, bool) {
	return t.queue.PopBack()
}

// ClearQueue discards every instruction not yet drained. A motion already
// in flight keeps animating.
func (t *Turtle) ClearQueue() {
	t.queue.Clear()
}

// Reset clears the queue and the drawing and puts the turtle back at its
// origin with its initial pen.
func (t *Turtle) Reset() {
	t.queue.Clear()
	t.fresh = nil
	t.dirty = true
	t.restore()
}

// ScaleSpeed multiplies the current speed by k.
func (t *Turtle) ScaleSpeed(k float64) {
	t.nav.SetSpeed(t.nav.Speed() * k)
}

// SetSprite replaces the base sprite. A different sprite empties the
// rotation cache.
func (t *Turtle) SetSprite(img core.Image) {
	t.baseSprite = img
	t.sprites.SetBase(img)
	t.refreshSprite()
}

// TakeCommitted returns the segments committed since the previous call.
func (t *Turtle) TakeCommitted() []Segment {
	out := t.fresh
	t.fresh = nil
	return out
}

// TakeDirty reports, and resets, whether segments were removed since the
// previous call.
func (t *Turtle) TakeDirty() bool {
	d := t.dirty
	t.dirty = false
	return d
}

// --- queries ---

// Name returns the turtle's name.
func (t *Turtle) Name() string { return t.name }

// Registry returns the dispatch table the turtle resolves opcodes with.
func (t *Turtle) Registry() *Registry { return t.reg }

// Position returns the render position, which trails Target while a
// motion is in flight.
func (t *Turtle) Position() core.Vec2 { return t.nav.Position() }

// Target returns where the current motion ends.
func (t *Turtle) Target() core.Vec2 { return t.nav.Target() }

// Heading returns the heading in degrees, 0 along +x.
func (t *Turtle) Heading() float64 { return t.nav.Heading() }

func (t *Turtle) Speed() float64       { return t.nav.Speed() }
func (t *Turtle) PenIsDown() bool      { return t.pen.IsDown() }
func (t *Turtle) Visible() bool        { return t.pen.Visible() }
func (t *Turtle) PenColor() core.Color { return t.pen.Color() }
func (t *Turtle) PenWidth() float64    { return t.pen.Width() }

// Pending returns the number of queued instructions.
func (t *Turtle) Pending() int { return t.queue.Len() }

// Cache returns the sprite rotation cache.
func (t *Turtle) Cache() *RotationCache { return t.sprites }

// History returns baked and committed segments in commit order.
func (t *Turtle) History() []Segment { return t.history.All() }

// Committed returns the segments that are currently drawn.
func (t *Turtle) Committed() []Segment { return t.history.Committed() }

func (t *Turtle) CanUndo() bool { return t.history.CanUndo() }
func (t *Turtle) CanRedo() bool { return t.history.CanRedo() }

// Live returns the segment being drawn by the motion in flight.
func (t *Turtle) Live() (Segment, bool) { return t.pen.Live() }

// Towards returns the heading from the target position to (x, y).
func (t *Turtle) Towards(x, y float64) float64 { return t.nav.Towards(core.V(x, y)) }

// Distance returns the distance from the target position to (x, y).
func (t *Turtle) Distance(x, y float64) float64 { return t.nav.Distance(core.V(x, y)) }

// Idle reports whether nothing is queued and no motion is in flight.
func (t *Turtle) Idle() bool {
	return t.queue.Len() == 0 && !t.inFlight()
}

// Sprite returns the rotated sprite for the current heading, or nil when
// hidden or without a base sprite.
func (t *Turtle) Sprite() core.Image {
	if !t.pen.Visible() {
		return nil
	}
	return t.sprite
}
