package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Load loads the lander configuration.
// Search order: customPath -> ~/.lander/configs/lander.yaml -> ./configs/lander.yaml -> embedded default
func Load(customPath string) (LanderConfig, error) {
	// Unset keys keep their default values.
	cfg := DefaultLanderConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	var candidates []string
	if userCfgPath := UserConfigPath("lander.yaml"); userCfgPath != "" {
		candidates = append(candidates, userCfgPath)
	}
	candidates = append(candidates, filepath.Join("configs", "lander.yaml"))

	// A missing file falls through; a broken one is reported.
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultLanderConfig(), fmt.Errorf("config: parse %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return DefaultLanderConfig(), fmt.Errorf("config: %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(defaultLanderYAML, &cfg); err != nil {
		return DefaultLanderConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// UserConfigPath returns the path to a user config file, or empty if home is unavailable.
func UserConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lander", "configs", filename)
}

// Validate reports the first out-of-range setting.
func (c LanderConfig) Validate() error {
	switch {
	case c.Physics.MaxDeltaTime <= 0:
		return fmt.Errorf("%w: physics.max_delta_time must be positive", ErrInvalidConfig)
	case c.Physics.VelocityIterations <= 0 || c.Physics.PositionIterations <= 0:
		return fmt.Errorf("%w: solver iterations must be positive", ErrInvalidConfig)
	case c.Physics.Bounds.MinX >= c.Physics.Bounds.MaxX || c.Physics.Bounds.MinY >= c.Physics.Bounds.MaxY:
		return fmt.Errorf("%w: physics.bounds is empty", ErrInvalidConfig)
	case c.Rocket.Width <= 0 || c.Rocket.Height <= 0 || c.Rocket.Density <= 0:
		return fmt.Errorf("%w: rocket dimensions and density must be positive", ErrInvalidConfig)
	case c.Control.DampingFactor < 0 || c.Control.DampingFactor >= 1:
		return fmt.Errorf("%w: control.damping_factor must be in [0, 1)", ErrInvalidConfig)
	case c.Control.RotationSpeed < 0 || c.Control.ThrustForce < 0 || c.Control.FuelPerFrame < 0:
		return fmt.Errorf("%w: control values must not be negative", ErrInvalidConfig)
	case c.Landing.SafeVerticalSpeed <= 0 || c.Landing.SafeTiltDegrees <= 0:
		return fmt.Errorf("%w: landing thresholds must be positive", ErrInvalidConfig)
	}
	return nil
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *LanderConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Landing.SafeVerticalSpeed *= 1.2
		cfg.Landing.SafeTiltDegrees *= 1.3
	case DifficultyHard:
		cfg.Control.FuelPerFrame *= 1.25
	}
}
