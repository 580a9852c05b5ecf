// Package config provides YAML-based configuration loading and speed
// presets for the turtle screen.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

// Config contains all settings of a turtle screen.
type Config struct {
	Screen ScreenConfig `yaml:"screen"`
	Turtle TurtleConfig `yaml:"turtle"`
}

// ScreenConfig defines the drawing surface.
type ScreenConfig struct {
	Width        int     `yaml:"width"`  // 0 = terminal width
	Height       int     `yaml:"height"` // 0 = terminal height
	FPS          int     `yaml:"fps"`
	Background   string  `yaml:"background"`
	CellAspect   float64 `yaml:"cell_aspect"`    // cell height / cell width
	UnitsPerCell float64 `yaml:"units_per_cell"` // world units per column
}

// TurtleConfig defines the defaults of every turtle on the screen.
type TurtleConfig struct {
	Speed                 float64   `yaml:"speed"` // units per second
	UndoDepth             int       `yaml:"undo_depth"`
	RotationBucketDegrees int       `yaml:"rotation_bucket_degrees"`
	RotationCacheCapacity int       `yaml:"rotation_cache_capacity"`
	InstructionsPerFrame  int       `yaml:"instructions_per_frame"`
	Sprite                string    `yaml:"sprite"`
	Pen                   PenConfig `yaml:"pen"`
}

// PenConfig defines the initial pen of a turtle.
type PenConfig struct {
	Color string  `yaml:"color"`
	Width float64 `yaml:"width"`
	Down  bool    `yaml:"down"`
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Screen.FPS <= 0:
		return fmt.Errorf("screen.fps must be > 0, got %d", c.Screen.FPS)
	case c.Screen.Width < 0 || c.Screen.Height < 0:
		return fmt.Errorf("screen size must be >= 0, got %dx%d", c.Screen.Width, c.Screen.Height)
	case c.Turtle.Speed < 0:
		return fmt.Errorf("turtle.speed must be >= 0, got %v", c.Turtle.Speed)
	case c.Turtle.UndoDepth < 0:
		return fmt.Errorf("turtle.undo_depth must be >= 0, got %d", c.Turtle.UndoDepth)
	case c.Turtle.RotationBucketDegrees < 1 || c.Turtle.RotationBucketDegrees > 360:
		return fmt.Errorf("turtle.rotation_bucket_degrees must be in [1,360], got %d", c.Turtle.RotationBucketDegrees)
	case c.Turtle.Pen.Width < 0:
		return fmt.Errorf("turtle.pen.width must be >= 0, got %v", c.Turtle.Pen.Width)
	}
	if _, ok := core.ParseColor(c.Screen.Background); !ok {
		return fmt.Errorf("screen.background: unknown color %q", c.Screen.Background)
	}
	if _, ok := core.ParseColor(c.Turtle.Pen.Color); !ok {
		return fmt.Errorf("turtle.pen.color: unknown color %q", c.Turtle.Pen.Color)
	}
	return nil
}

// Canvas converts the configuration into screen and turtle settings.
func (c Config) Canvas() (canvas.Config, error) {
	if err := c.Validate(); err != nil {
		return canvas.Config{}, err
	}
	bg, _ := core.ParseColor(c.Screen.Background)
	pen, _ := core.ParseColor(c.Turtle.Pen.Color)
	return canvas.Config{
		Background: bg,
		Turtle: turtle.Config{
			Speed:                 c.Turtle.Speed,
			UndoDepth:             c.Turtle.UndoDepth,
			RotationBucket:        c.Turtle.RotationBucketDegrees,
			RotationCacheCapacity: c.Turtle.RotationCacheCapacity,
			InstructionsPerFrame:  c.Turtle.InstructionsPerFrame,
			Pen: turtle.PenConfig{
				Color: pen,
				Width: c.Turtle.Pen.Width,
				Down:  c.Turtle.Pen.Down,
			},
		},
	}, nil
}

// Runtime returns the frame loop settings.
func (c Config) Runtime() core.RuntimeConfig {
	rc := core.DefaultConfig()
	if c.Screen.Width > 0 {
		rc.ScreenW = c.Screen.Width
	}
	if c.Screen.Height > 0 {
		rc.ScreenH = c.Screen.Height
	}
	if c.Screen.FPS > 0 {
		rc.TickRate = c.Screen.FPS
	}
	return rc
}
