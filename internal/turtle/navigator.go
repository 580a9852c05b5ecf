package turtle

import (
	"math"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// Navigator separates where the turtle logically is (target) from where it
// is drawn this frame (render). Commands move the target synchronously;
// Advance moves the render position towards it over time.
type Navigator struct {
	origin  core.Vec2
	target  core.Vec2
	render  core.Vec2
	heading float64 // degrees, [0, 360)
	speed   float64 // units per second, >= 0
}

// NewNavigator creates a navigator resting at origin.
func NewNavigator(origin core.Vec2, heading, speed float64) Navigator {
	return Navigator{
		origin:  origin,
		target:  origin,
		render:  origin,
		heading: core.NormalizeDegrees(heading),
		speed:   math.Max(speed, 0),
	}
}

// Position returns the render position.
func (n *Navigator) Position() core.Vec2 { return n.render }

// Target returns the logical position.
func (n *Navigator) Target() core.Vec2 { return n.target }

// Origin returns the home position.
func (n *Navigator) Origin() core.Vec2 { return n.origin }

// Heading returns the heading in degrees.
func (n *Navigator) Heading() float64 { return n.heading }

// Speed returns the interpolation speed in units per second.
func (n *Navigator) Speed() float64 { return n.speed }

// SetSpeed sets the interpolation speed. Negative values clamp to 0.
func (n *Navigator) SetSpeed(s float64) {
	n.speed = math.Max(s, 0)
}

// Moving reports whether the render position still lags the target.
func (n *Navigator) Moving() bool {
	return n.render != n.target
}

// Forward moves the target d units along the heading, relative to the
// previous target rather than the render position.
func (n *Navigator) Forward(d float64) {
	n.target = n.target.Add(core.HeadingVector(n.heading).Scale(d))
}

// Backward moves the target d units against the heading.
func (n *Navigator) Backward(d float64) {
	n.Forward(-d)
}

// Goto sets the target absolutely. Heading is unchanged.
func (n *Navigator) Goto(p core.Vec2) {
	n.target = p
}

// Teleport moves both target and render position at once.
func (n *Navigator) Teleport(p core.Vec2) {
	n.target = p
	n.render = p
}

// Home sends the target back to the origin.
func (n *Navigator) Home() {
	n.Goto(n.origin)
}

// SetX moves the target horizontally to x.
func (n *Navigator) SetX(x float64) {
	n.Goto(core.V(x, n.target.Y))
}

// SetY moves the target vertically to y.
func (n *Navigator) SetY(y float64) {
	n.Goto(core.V(n.target.X, y))
}

// Left turns counter-clockwise by a degrees.
func (n *Navigator) Left(a float64) {
	n.heading = core.NormalizeDegrees(n.heading + a)
}

// Right turns clockwise by a degrees.
func (n *Navigator) Right(a float64) {
	n.heading = core.NormalizeDegrees(n.heading - a)
}

// SetHeading sets the heading absolutely.
func (n *Navigator) SetHeading(a float64) {
	n.heading = core.NormalizeDegrees(a)
}

// Towards returns the heading from the logical position to p.
func (n *Navigator) Towards(p core.Vec2) float64 {
	return core.HeadingTo(n.target, p)
}

// HeadTowards turns to face p.
func (n *Navigator) HeadTowards(p core.Vec2) {
	n.heading = n.Towards(p)
}

// Distance returns the distance from the logical position to p.
func (n *Navigator) Distance(p core.Vec2) float64 {
	return n.target.Dist(p)
}

// Advance moves the render position towards the target for dt seconds and
// returns the part of dt left over after reaching the target. The render
// position never overshoots and lands exactly on the target when
// speed*dt covers the remaining distance. At speed 0 nothing moves and
// no time is left over.
func (n *Navigator) Advance(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	delta := n.target.Sub(n.render)
	dist := delta.Len()
	if dist == 0 {
		return dt
	}
	if n.speed <= 0 {
		return 0
	}
	if n.speed*dt >= dist {
		n.render = n.target
		return dt - dist/n.speed
	}
	n.render = n.render.Add(delta.Normalize().Scale(n.speed * dt))
	return 0
}

// CircleDirection selects the turning sense of Circle.
type CircleDirection int

const (
	CircleLeft  CircleDirection = 1  // counter-clockwise
	CircleRight CircleDirection = -1 // clockwise
)

// maxCircleSteps bounds the chords of a default-step circle.
const maxCircleSteps = 360

// circlePlan decomposes a circle into steps chords of equal length, each
// followed by a signed turn. A negative radius flips the turn. steps <= 0
// picks a count from the radius. Fewer than 3 steps yields a degenerate
// polygon, which is accepted.
func circlePlan(radius float64, steps int, dir CircleDirection) (chord, turn float64, n int) {
	r := math.Abs(radius)
	n = steps
	if n <= 0 {
		n = min(max(12, int(r*math.Pi/4)), maxCircleSteps)
	}
	chord = 2 * r * math.Sin(math.Pi/float64(n))
	turn = 360 / float64(n)
	if dir < 0 {
		turn = -turn
	}
	if radius < 0 {
		turn = -turn
	}
	return chord, turn, n
}
