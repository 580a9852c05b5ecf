package turtle

import "github.com/vovakirdan/tui-turtle/internal/core"

// builtinTable returns the dispatch table for opcodes [0, BuiltinCount).
// Every handler validates its arguments before touching turtle state.
func builtinTable() [BuiltinCount]Handler {
	return [BuiltinCount]Handler{
		OpForward:     scalar((*Navigator).Forward),
		OpBackward:    scalar((*Navigator).Backward),
		OpGoto:        opGoto,
		OpTeleport:    opTeleport,
		OpLeft:        scalar((*Navigator).Left),
		OpRight:       scalar((*Navigator).Right),
		OpHome:        nullary(func(t *Turtle) { t.nav.Home() }),
		OpSetX:        scalar((*Navigator).SetX),
		OpSetY:        scalar((*Navigator).SetY),
		OpSetHeading:  scalar((*Navigator).SetHeading),
		OpHeadTowards: opHeadTowards,
		OpPenUp:       nullary(func(t *Turtle) { t.pen.Up() }),
		OpPenDown:     nullary(func(t *Turtle) { t.pen.Down() }),
		OpHide:        nullary(func(t *Turtle) { t.pen.Hide() }),
		OpShow:        nullary(func(t *Turtle) { t.pen.Show() }),
		OpSetColor:    opSetColor,
		OpSetWidth:    opSetWidth,
		OpSetSpeed:    scalar((*Navigator).SetSpeed),
		OpDot:         opDot,
		OpClear:       nullary(opClear),
	}
}

// scalar adapts a one-number navigator method.
func scalar(fn func(*Navigator, float64)) Handler {
	return func(t *Turtle, a Args) error {
		if err := a.Want(1, 1); err != nil {
			return err
		}
		v, err := a.Float(0)
		if err != nil {
			return err
		}
		fn(&t.nav, v)
		return nil
	}
}

// nullary adapts an operation that takes no arguments.
func nullary(fn func(*Turtle)) Handler {
	return func(t *Turtle, a Args) error {
		if err := a.Want(0, 0); err != nil {
			return err
		}
		fn(t)
		return nil
	}
}

func opGoto(t *Turtle, a Args) error {
	p, err := a.pointOnly()
	if err != nil {
		return err
	}
	t.nav.Goto(p)
	return nil
}

// opTeleport jumps without interpolation. With the pen down the jump is
// committed as one segment.
func opTeleport(t *Turtle, a Args) error {
	p, err := a.pointOnly()
	if err != nil {
		return err
	}
	from := t.nav.Position()
	if t.pen.IsDown() && from != p {
		t.commit(t.pen.Stamp(from, p))
	}
	t.nav.Teleport(p)
	return nil
}

func opHeadTowards(t *Turtle, a Args) error {
	p, err := a.pointOnly()
	if err != nil {
		return err
	}
	t.nav.HeadTowards(p)
	return nil
}

// opSetColor takes a color value or name, or three RGB channels.
func opSetColor(t *Turtle, a Args) error {
	if err := a.Want(1, 3); err != nil {
		return err
	}
	var (
		c   core.Color
		err error
	)
	switch a.Len() {
	case 1:
		c, err = a.Color(0)
	case 3:
		c, err = a.RGB(0)
	default:
		err = arityError("want a color or 3 channels, got %d arguments", a.Len())
	}
	if err != nil {
		return err
	}
	t.pen.SetColor(c)
	return nil
}

func opSetWidth(t *Turtle, a Args) error {
	if err := a.Want(1, 1); err != nil {
		return err
	}
	w, err := a.Float(0)
	if err != nil {
		return err
	}
	if w < 0 {
		return arityError("width must be >= 0, got %v", w)
	}
	t.pen.SetWidth(w)
	return nil
}

// opDot commits a zero-length segment at the render position, pen up or
// down. An optional argument overrides the width for this dot only.
func opDot(t *Turtle, a Args) error {
	if err := a.Want(0, 1); err != nil {
		return err
	}
	s := t.pen.Stamp(t.nav.Position(), t.nav.Position())
	if a.Len() == 1 {
		w, err := a.Float(0)
		if err != nil {
			return err
		}
		s.Width = max(w, 0)
	}
	t.commit(s)
	return nil
}

// opClear drops the turtle's drawing. Position, heading and pen are kept.
func opClear(t *Turtle) {
	t.history.Clear()
	t.fresh = nil
	t.dirty = true
}
