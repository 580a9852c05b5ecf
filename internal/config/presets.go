package config

import "fmt"

// SpeedPreset represents a named animation speed.
type SpeedPreset string

const (
	SpeedSlow    SpeedPreset = "slow"
	SpeedNormal  SpeedPreset = "normal"
	SpeedFast    SpeedPreset = "fast"
	SpeedInstant SpeedPreset = "instant"
)

// instantSpeed finishes any motion on screen within one frame while keeping
// the render position moving.
const instantSpeed = 1e9

// SpeedForPreset returns the turtle speed in units per second for a preset.
func SpeedForPreset(preset SpeedPreset) (float64, bool) {
	switch preset {
	case SpeedSlow:
		return 40, true
	case SpeedNormal:
		return 120, true
	case SpeedFast:
		return 400, true
	case SpeedInstant:
		return instantSpeed, true
	default:
		return 0, false
	}
}

// ApplySpeedPreset modifies the config based on a speed preset.
// An empty preset leaves the config unchanged.
func ApplySpeedPreset(cfg *Config, preset SpeedPreset) error {
	if preset == "" {
		return nil
	}
	speed, ok := SpeedForPreset(preset)
	if !ok {
		return fmt.Errorf("unknown speed preset %q (want slow, normal, fast or instant)", preset)
	}
	cfg.Turtle.Speed = speed
	if preset == SpeedInstant {
		cfg.Turtle.InstructionsPerFrame = 0
	}
	return nil
}
