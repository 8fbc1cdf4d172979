package config

import "fmt"

// Preset names a ship handling profile taken from the classic variants.
type Preset string

const (
	PresetClassic Preset = "classic" // Undamped drift
	PresetDamped  Preset = "damped"  // Gentle slowdown
	PresetHeavy   Preset = "heavy"   // Strong slowdown
)

// DragForPreset returns the ship drag coefficient for a preset.
func DragForPreset(preset Preset) (float64, bool) {
	switch preset {
	case PresetClassic:
		return 1.0, true
	case PresetDamped:
		return 0.97, true
	case PresetHeavy:
		return 0.9, true
	default:
		return 0, false
	}
}

// ParsePreset converts a CLI string to a Preset. An empty string means no preset.
func ParsePreset(s string) (Preset, error) {
	if s == "" {
		return "", nil
	}
	p := Preset(s)
	if _, ok := DragForPreset(p); !ok {
		return "", fmt.Errorf("%w: unknown preset %q (want classic, damped or heavy)", ErrInvalidConfig, s)
	}
	return p, nil
}

// ApplyPreset modifies the physics config based on a handling preset.
func ApplyPreset(cfg *PhysicsConfig, preset Preset) error {
	if preset == "" {
		return nil
	}
	drag, ok := DragForPreset(preset)
	if !ok {
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, preset)
	}

	if cfg.Kinds == nil {
		cfg.Kinds = make(map[string]KindConfig)
	}
	ship := cfg.Kinds[KindShip]
	ship.Drag = drag
	if preset == PresetHeavy {
		ship.ThrustAccel *= 2
	}
	cfg.Kinds[KindShip] = ship
	return nil
}
