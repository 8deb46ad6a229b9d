package config

import (
	_ "embed"
)

//go:embed defaults/lander.yaml
var defaultLanderYAML []byte

// DefaultLanderConfig returns the hard-coded lander configuration.
// It mirrors defaults/lander.yaml and is used when the embedded file cannot be parsed.
func DefaultLanderConfig() LanderConfig {
	return LanderConfig{
		Physics: PhysicsConfig{
			MaxDeltaTime:       0.1,
			VelocityIterations: 8,
			PositionIterations: 3,
			Bounds: BoundsConfig{
				MinX: -60,
				MaxX: 60,
				MinY: -5,
				MaxY: 80,
			},
		},
		Rocket: RocketConfig{
			Width:    1.0,
			Height:   4.0,
			Density:  1.0,
			Friction: 0.6,
			LaunchX:  0,
			LaunchY:  30,
		},
		Control: ControlConfig{
			RotationSpeed:  1.5,
			DampingFactor:  0.9,
			DampingEpsilon: 0.01,
			ThrustForce:    90,
			FuelPerFrame:   0.25,
		},
		Landing: LandingConfig{
			SafeVerticalSpeed: 5.0,
			SafeTiltDegrees:   15,
		},
		Score: ScoreConfig{
			PrecisionFactor: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Scaling: ScalingConfig{
				WindMultiplier:     1.0,
				ThresholdReduction: 0.3,
			},
		},
	}
}

// DefaultYAML returns the embedded default lander YAML.
func DefaultYAML() []byte {
	return defaultLanderYAML
}
