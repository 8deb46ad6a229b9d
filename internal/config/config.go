// Package config provides YAML-based lander configuration loading and
// difficulty management.
package config

// LanderConfig contains all tuning for the rocket lander.
type LanderConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Rocket     RocketConfig     `yaml:"rocket"`
	Control    ControlConfig    `yaml:"control"`
	Landing    LandingConfig    `yaml:"landing"`
	Score      ScoreConfig      `yaml:"score"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines stepping and world-extent parameters.
type PhysicsConfig struct {
	MaxDeltaTime       float64      `yaml:"max_delta_time"` // seconds; larger frame deltas are clamped
	VelocityIterations int          `yaml:"velocity_iterations"`
	PositionIterations int          `yaml:"position_iterations"`
	Bounds             BoundsConfig `yaml:"bounds"`
}

// BoundsConfig is the playable rectangle in metres. Leaving it while flying crashes.
type BoundsConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// RocketConfig defines the rocket body and its launch pose.
type RocketConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Density  float64 `yaml:"density"`
	Friction float64 `yaml:"friction"`
	LaunchX  float64 `yaml:"launch_x"`
	LaunchY  float64 `yaml:"launch_y"`
}

// ControlConfig defines how inputs map to torque, thrust and fuel.
type ControlConfig struct {
	RotationSpeed  float64 `yaml:"rotation_speed"` // rad/s while a tilt key is held
	DampingFactor  float64 `yaml:"damping_factor"`
	DampingEpsilon float64 `yaml:"damping_epsilon"`
	ThrustForce    float64 `yaml:"thrust_force"` // newtons along the rocket's up axis
	FuelPerFrame   float64 `yaml:"fuel_per_frame"`
}

// LandingConfig defines the safe-touchdown thresholds.
type LandingConfig struct {
	SafeVerticalSpeed float64 `yaml:"safe_vertical_speed"` // m/s, inclusive
	SafeTiltDegrees   float64 `yaml:"safe_tilt_degrees"`   // inclusive
}

// ScoreConfig defines scoring weights.
type ScoreConfig struct {
	PrecisionFactor float64 `yaml:"precision_factor"` // points lost per metre of lateral offset
}

// DifficultyConfig defines how the campaign tightens as levels advance.
type DifficultyConfig struct {
	Enabled      bool          `yaml:"enabled"`
	InitialLevel float64       `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Scaling      ScalingConfig `yaml:"scaling"`
}

// ScalingConfig defines the magnitude of difficulty changes at level 1.0.
type ScalingConfig struct {
	WindMultiplier     float64 `yaml:"wind_multiplier"`     // added to the wind scale
	ThresholdReduction float64 `yaml:"threshold_reduction"` // fraction removed from safe thresholds
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset returns the preset named by s, or false if s is unknown.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	}
	return "", false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
