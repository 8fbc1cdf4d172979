package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// userDirName is the per-user directory holding config overrides.
const userDirName = ".arcade-motion"

// LoadPhysics loads and validates the engine tuning.
// Search order: customPath -> ~/.arcade-motion/configs/physics.yaml -> ./configs/physics.yaml -> embedded default
func LoadPhysics(customPath string) (PhysicsConfig, error) {
	cfg := DefaultPhysicsConfig()
	if err := load("physics", customPath, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadTuned loads the physics config and applies a handling preset on top.
func LoadTuned(customPath, preset string) (PhysicsConfig, error) {
	cfg, err := LoadPhysics(customPath)
	if err != nil {
		return cfg, err
	}
	p, err := ParsePreset(preset)
	if err != nil {
		return cfg, err
	}
	if err := ApplyPreset(&cfg, p); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadBreakout loads Breakout configuration.
// Search order: customPath -> ~/.arcade-motion/configs/breakout.yaml -> ./configs/breakout.yaml -> embedded default
func LoadBreakout(customPath string) (BreakoutConfig, error) {
	cfg := DefaultBreakoutConfig()
	err := load("breakout", customPath, &cfg)
	return cfg, err
}

// LoadPong loads Pong configuration.
// Search order: customPath -> ~/.arcade-motion/configs/pong.yaml -> ./configs/pong.yaml -> embedded default
func LoadPong(customPath string) (PongConfig, error) {
	cfg := DefaultPongConfig()
	err := load("pong", customPath, &cfg)
	return cfg, err
}

// LoadAsteroids loads Asteroids configuration.
// Search order: customPath -> ~/.arcade-motion/configs/asteroids.yaml -> ./configs/asteroids.yaml -> embedded default
func LoadAsteroids(customPath string) (AsteroidsConfig, error) {
	cfg := DefaultAsteroidsConfig()
	err := load("asteroids", customPath, &cfg)
	return cfg, err
}

// LoadLander loads Lunar Lander configuration.
// Search order: customPath -> ~/.arcade-motion/configs/lander.yaml -> ./configs/lander.yaml -> embedded default
func LoadLander(customPath string) (LanderConfig, error) {
	cfg := DefaultLanderConfig()
	err := load("lander", customPath, &cfg)
	return cfg, err
}

// load decodes the first config found for name into out. out must already
// hold the hardcoded defaults so that partial files only override what they set.
func load(name, customPath string, out any) error {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return nil
	}

	filename := name + ".yaml"

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, out); err == nil {
				return nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if err := yaml.Unmarshal(data, out); err == nil {
			return nil
		}
	}

	// Use embedded default YAML; the hardcoded defaults already in out
	// remain if the embed is missing or broken.
	if data := GetDefaultYAML(name); data != nil {
		//nolint:errcheck // Fallback to hardcoded defaults on parse failure
		yaml.Unmarshal(data, out)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, userDirName, "configs", filename)
}
