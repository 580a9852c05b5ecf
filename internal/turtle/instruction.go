package turtle

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// Handler executes one instruction against a turtle.
// Handlers must validate all arguments before mutating state.
type Handler func(t *Turtle, args Args) error

// Deferred is an argument evaluated at drain time instead of enqueue time.
// It lets a queued command read state that only exists once earlier
// commands have run, e.g. HeadTowards(x, Deferred(func() any { return other.Position().Y })).
type Deferred func() any

// Instruction is one queued command. It is either a built-in or registered
// opcode resolved through the dispatch table, or an ad-hoc handler invoked by
// identity. Instructions are immutable once enqueued.
type Instruction struct {
	Op   Opcode
	Fn   Handler // non-nil for ad-hoc instructions
	Args Args
}

// Adhoc reports whether the instruction bypasses the opcode table.
func (in Instruction) Adhoc() bool {
	return in.Fn != nil
}

func (in Instruction) String() string {
	if in.Adhoc() {
		return fmt.Sprintf("custom%v", []any(in.Args))
	}
	return fmt.Sprintf("%s%v", in.Op, []any(in.Args))
}

// Args is the ordered argument list of an instruction.
type Args []any

// resolve returns a copy with every Deferred argument evaluated.
func (a Args) resolve() Args {
	out := a
	copied := false
	for i, v := range a {
		d, ok := v.(Deferred)
		if !ok {
			continue
		}
		if !copied {
			out = append(Args(nil), a...)
			copied = true
		}
		out[i] = d()
	}
	return out
}

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a)
}

// Want fails unless there are between min and max arguments.
func (a Args) Want(min, max int) error {
	if len(a) < min || len(a) > max {
		if min == max {
			return arityError("want %d argument(s), got %d", min, len(a))
		}
		return arityError("want %d..%d arguments, got %d", min, max, len(a))
	}
	return nil
}

// Float returns argument i as a float64. Integer types are converted.
// NaN and infinities are rejected.
func (a Args) Float(i int) (float64, error) {
	f, err := a.number(i)
	if err != nil {
		return 0, err
	}
	if !finite(f) {
		return 0, arityError("argument %d: want finite number, got %v", i, f)
	}
	return f, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (a Args) number(i int) (float64, error) {
	if i >= len(a) {
		return 0, arityError("missing argument %d", i)
	}
	switch v := a[i].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, arityError("argument %d: want number, got %T", i, a[i])
	}
}

// Int returns argument i as an int. Floats are truncated; values outside
// the int32 range are rejected.
func (a Args) Int(i int) (int, error) {
	f, err := a.Float(i)
	if err != nil {
		return 0, err
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, arityError("argument %d: %v out of range", i, f)
	}
	return int(f), nil
}

// String returns argument i as a string.
func (a Args) String(i int) (string, error) {
	if i >= len(a) {
		return "", arityError("missing argument %d", i)
	}
	s, ok := a[i].(string)
	if !ok {
		return "", arityError("argument %d: want string, got %T", i, a[i])
	}
	return s, nil
}

// Color returns argument i as a color. Palette names and #rrggbb strings
// are parsed.
func (a Args) Color(i int) (core.Color, error) {
	if i >= len(a) {
		return 0, arityError("missing argument %d", i)
	}
	switch v := a[i].(type) {
	case core.Color:
		return v, nil
	case string:
		c, ok := core.ParseColor(v)
		if !ok {
			return 0, arityError("argument %d: unknown color %q", i, v)
		}
		return c, nil
	default:
		return 0, arityError("argument %d: want color, got %T", i, a[i])
	}
}

// RGB reads three channel values starting at argument i. Each channel is
// 0..255, or 0..1 when all three are at most 1.
func (a Args) RGB(i int) (core.Color, error) {
	var ch [3]float64
	unit := true
	for k := range ch {
		f, err := a.Float(i + k)
		if err != nil {
			return 0, err
		}
		if f < 0 || f > 255 {
			return 0, arityError("argument %d: channel %v out of range 0..255", i+k, f)
		}
		ch[k] = f
		unit = unit && f <= 1
	}
	if unit {
		for k := range ch {
			ch[k] *= 255
		}
	}
	return core.RGB(uint8(math.Round(ch[0])), uint8(math.Round(ch[1])), uint8(math.Round(ch[2]))), nil
}

// Point reads a position starting at argument i, either as one core.Vec2
// or as two numbers. It returns the number of arguments consumed.
func (a Args) Point(i int) (core.Vec2, int, error) {
	if i >= len(a) {
		return core.Vec2{}, 0, arityError("missing position at argument %d", i)
	}
	if v, ok := a[i].(core.Vec2); ok {
		if !finite(v.X) || !finite(v.Y) {
			return core.Vec2{}, 0, arityError("argument %d: want finite position, got %v", i, v)
		}
		return v, 1, nil
	}
	x, err := a.Float(i)
	if err != nil {
		return core.Vec2{}, 0, err
	}
	y, err := a.Float(i + 1)
	if err != nil {
		return core.Vec2{}, 0, err
	}
	return core.V(x, y), 2, nil
}

// pointOnly reads a position that must be the only argument(s).
func (a Args) pointOnly() (core.Vec2, error) {
	p, n, err := a.Point(0)
	if err != nil {
		return p, err
	}
	if n != len(a) {
		return p, arityError("want a position, got %d arguments", len(a))
	}
	return p, nil
}
