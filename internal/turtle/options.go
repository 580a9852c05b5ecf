package turtle

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// PenConfig holds the pen defaults of a new turtle.
type PenConfig struct {
	Color core.Color
	Width float64
	Down  bool
}

// Config holds construction-time settings of a turtle.
type Config struct {
	Speed                 float64 // units per second; 0 freezes the render position
	Heading               float64 // initial heading in degrees
	Origin                core.Vec2
	UndoDepth             int // 0 = unlimited
	RotationBucket        int // degrees per rotation cache bucket
	RotationCacheCapacity int // 0 = unbounded
	InstructionsPerFrame  int // 0 = unlimited
	Pen                   PenConfig
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Speed:          120,
		UndoDepth:      200,
		RotationBucket: 1,
		Pen: PenConfig{
			Color: core.ColorWhite,
			Width: 1,
			Down:  true,
		},
	}
}

// Option customizes a turtle at construction.
type Option func(*Turtle)

// WithName labels the turtle in logs and errors.
func WithName(name string) Option {
	return func(t *Turtle) { t.name = name }
}

// WithRegistry shares a dispatch registry, typically the screen's.
func WithRegistry(r *Registry) Option {
	return func(t *Turtle) {
		if r != nil {
			t.reg = r
		}
	}
}

// WithLogger sets the logger for drain-time failures.
func WithLogger(l *log.Logger) Option {
	return func(t *Turtle) {
		if l != nil {
			t.log = l
		}
	}
}

// WithSprite sets the base sprite and the rotate primitive used by the
// rotation cache.
func WithSprite(img core.Image, rotate core.RotateFunc) Option {
	return func(t *Turtle) {
		t.rotate = rotate
		t.baseSprite = img
	}
}

// WithSequence sets the source of commit sequence numbers. Turtles that
// share a surface must share one sequence.
func WithSequence(next func() uint64) Option {
	return func(t *Turtle) {
		if next != nil {
			t.seq = next
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
