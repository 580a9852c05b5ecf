// Package programs contains the built-in turtle drawings and the loader for
// YAML program files. Every program registers itself with the registry.
package programs

import (
	"fmt"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/registry"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

// builtin is a program defined by a Go function.
type builtin struct {
	id    string
	title string
	setup func(s *canvas.Screen) error
}

func (b builtin) ID() string                   { return b.id }
func (b builtin) Title() string                { return b.title }
func (b builtin) Setup(s *canvas.Screen) error { return b.setup(s) }

func register(id, title string, setup func(s *canvas.Screen) error) {
	registry.Register(id, func() registry.Program {
		return builtin{id: id, title: title, setup: setup}
	})
}

func init() {
	register("square", "Square", square)
	register("star", "Five-pointed star", star)
	register("spiral", "Color spiral", spiral)
	register("circle", "Circles left and right", circles)
	register("flower", "Flower of circles", flower)
	register("tree", "Fractal tree", tree)
	register("race", "Turtle race", race)
	register("chase", "Chase", chase)
	register("undo", "Undo and redraw", undoDemo)
}

func square(s *canvas.Screen) error {
	t := s.NewTurtle()
	t.PenUp()
	t.Goto(-50, -50)
	t.PenDown()
	for range 4 {
		t.Forward(100)
		t.Left(90)
	}
	return nil
}

func star(s *canvas.Screen) error {
	t := s.NewTurtle()
	t.SetColor(core.ColorYellow)
	t.PenUp()
	t.Teleport(-75, 25)
	t.PenDown()
	for range 5 {
		t.Forward(150)
		t.Right(144)
	}
	return nil
}

var spiralColors = []core.Color{
	core.ColorRed, core.ColorOrange, core.ColorYellow,
	core.ColorGreen, core.ColorCyan, core.ColorBlue, core.ColorMagenta,
}

func spiral(s *canvas.Screen) error {
	t := s.NewTurtle()
	for i := 1; i <= 60; i++ {
		t.SetColor(spiralColors[i%len(spiralColors)])
		t.Forward(float64(i) * 2)
		t.Left(91)
	}
	return nil
}

func circles(s *canvas.Screen) error {
	t := s.NewTurtle()
	t.SetColor(core.ColorCyan)
	t.Circle(40, 0, turtle.CircleLeft)
	t.SetColor(core.ColorMagenta)
	t.Circle(40, 0, turtle.CircleRight)
	t.Hide()
	return nil
}

func flower(s *canvas.Screen) error {
	t := s.NewTurtle()
	for i := range 12 {
		t.SetColor(spiralColors[i%len(spiralColors)])
		t.Circle(30, 24, turtle.CircleLeft)
		t.Left(30)
	}
	return nil
}

// treeStyleOp colors a branch by its remaining depth.
const treeStyleOp = turtle.BuiltinCount + 1

func treeStyle(t *turtle.Turtle, a turtle.Args) error {
	depth, err := a.Int(0)
	if err != nil {
		return err
	}
	c, w := core.ColorOrange, 2.0
	if depth <= 2 {
		c, w = core.ColorBrightGreen, 1
	}
	if err := t.Apply(turtle.OpSetColor, c); err != nil {
		return err
	}
	return t.Apply(turtle.OpSetWidth, w)
}

func tree(s *canvas.Screen) error {
	reg := s.Registry()
	if !reg.Registered(treeStyleOp) {
		if err := reg.Register(treeStyleOp, treeStyle); err != nil {
			return fmt.Errorf("tree: %w", err)
		}
	}
	t := s.NewTurtle()
	t.PenUp()
	t.Goto(0, -60)
	t.SetHeading(90)
	t.PenDown()
	branch(t, 40, 6)
	return nil
}

func branch(t *turtle.Turtle, length float64, depth int) {
	if depth == 0 {
		return
	}
	t.Command(treeStyleOp, depth)
	t.Forward(length)
	t.Left(25)
	branch(t, length*0.72, depth-1)
	t.Right(50)
	branch(t, length*0.72, depth-1)
	t.Left(25)
	t.PenUp()
	t.Backward(length)
	t.PenDown()
}

func race(s *canvas.Screen) error {
	lanes := []struct {
		y     float64
		speed float64
		color core.Color
	}{
		{40, 60, core.ColorRed},
		{0, 90, core.ColorGreen},
		{-40, 140, core.ColorBlue},
	}
	for _, lane := range lanes {
		cfg := s.TurtleDefaults()
		cfg.Origin = core.V(-120, lane.y)
		cfg.Speed = lane.speed
		cfg.Pen.Color = lane.color
		t := s.NewTurtleWith(cfg)
		t.Forward(240)
		t.Dot()
	}
	return nil
}

// chase lets a second turtle follow the first, reading the leader's
// position only when each step is drained.
func chase(s *canvas.Screen) error {
	leader := s.NewTurtle()
	leader.SetColor(core.ColorYellow)
	leader.PenUp()
	leader.Teleport(60, 0)
	leader.PenDown()
	leader.SetHeading(90)
	leader.Circle(60, 36, turtle.CircleLeft)

	cfg := s.TurtleDefaults()
	cfg.Pen.Color = core.ColorRed
	cfg.Speed *= 0.8
	chaser := s.NewTurtleWith(cfg)
	chaser.PenUp()
	chaser.Goto(-60, -40)
	chaser.PenDown()
	for range 40 {
		chaser.Command(turtle.OpHeadTowards,
			turtle.Deferred(func() any { return leader.Position() }),
		)
		chaser.Forward(8)
	}
	return nil
}

// undoDemo draws a square, takes back two sides and finishes with a
// triangle instead.
func undoDemo(s *canvas.Screen) error {
	t := s.NewTurtle()
	for range 4 {
		t.Forward(80)
		t.Left(90)
	}
	for range 2 {
		t.Do(func(t *turtle.Turtle, _ turtle.Args) error { return t.Undo() })
	}
	t.SetColor(core.ColorGreen)
	for range 3 {
		t.Forward(80)
		t.Left(120)
	}
	return nil
}
