package config

import (
	_ "embed"
)

//go:embed defaults/turtle.yaml
var defaultTurtleYAML []byte

// Default returns the hardcoded configuration, used when no file and no
// embedded default can be read.
func Default() Config {
	return Config{
		Screen: ScreenConfig{
			FPS:          60,
			Background:   "default",
			CellAspect:   2.0,
			UnitsPerCell: 3.0,
		},
		Turtle: TurtleConfig{
			Speed:                 120,
			UndoDepth:             200,
			RotationBucketDegrees: 1,
			Sprite:                "arrow",
			Pen: PenConfig{
				Color: "white",
				Width: 1,
				Down:  true,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultTurtleYAML
}
