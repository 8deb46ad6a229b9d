// Package levels provides the environment parameter table: immutable
// per-(world, level) gravity, wind, platform and obstacle settings.
package levels

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrLevelNotFound is returned when no entry exists for a (world, level) key.
	ErrLevelNotFound = errors.New("level not found")
	// ErrInvalidLevel is returned when an entry violates the table invariants.
	ErrInvalidLevel = errors.New("invalid level")
)

// WorldKind names a family of levels sharing a setting.
type WorldKind string

const (
	WorldEarth     WorldKind = "earth"
	WorldMoon      WorldKind = "moon"
	WorldMars      WorldKind = "mars"
	WorldAsteroids WorldKind = "asteroids"
)

// Key identifies one entry of the table.
type Key struct {
	World WorldKind
	Level int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.World, k.Level)
}

// MotionKind is the movement pattern of a platform.
type MotionKind string

const (
	MotionOscillate MotionKind = "oscillate"
	MotionDrift     MotionKind = "drift"
	MotionTilt      MotionKind = "tilt"
)

// Axis selects the direction of a translating motion.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Motion describes how a platform moves.
// Amplitude is metres for oscillate/drift and degrees for tilt.
type Motion struct {
	Kind      MotionKind
	Axis      Axis
	Amplitude float64
	Frequency float64 // Hz
}

// ObstacleType is the tag of an obstacle entry.
type ObstacleType string

const (
	ObstaclePlatform ObstacleType = "platform"
	ObstacleAsteroid ObstacleType = "asteroid"
	ObstacleTerrain  ObstacleType = "terrain"
)

// Obstacle is one entry of a level's obstacle layout.
// Only platform entries may be marked IsTarget.
type Obstacle struct {
	Type     ObstacleType
	Count    int
	Size     float64
	IsTarget bool
}

// Params is the immutable environment of one level.
type Params struct {
	World        WorldKind
	LevelNumber  int
	Name         string
	Gravity      float64 // m/s², negative is down
	WindStrength float64 // newtons, >= 0

	PlatformWidth float64
	PlatformDepth float64
	// TargetOffset is the X position of the target centre.
	TargetOffset   float64
	PlatformMotion *Motion

	StartingFuel float64 // 0-100
	WaveHeight   float64 // cosmetic, 0 when absent
	Obstacles    []Obstacle
	Visibility   float64 // 0-1, 1 is clear
}

// Key returns the table key of p.
func (p Params) Key() Key {
	return Key{World: p.World, Level: p.LevelNumber}
}

// Hazards returns the obstacle entries that are not the target.
func (p Params) Hazards() []Obstacle {
	out := make([]Obstacle, 0, len(p.Obstacles))
	for _, o := range p.Obstacles {
		if !o.IsTarget {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks p against the table invariants.
func (p Params) Validate() error {
	key := p.Key()
	if p.World == "" {
		return fmt.Errorf("%w: %s: missing world", ErrInvalidLevel, key)
	}
	if p.LevelNumber < 1 {
		return fmt.Errorf("%w: %s: level numbers start at 1", ErrInvalidLevel, key)
	}
	if !finite(p.Gravity, p.WindStrength, p.PlatformWidth, p.PlatformDepth, p.TargetOffset, p.StartingFuel) {
		return fmt.Errorf("%w: %s: non-finite parameter", ErrInvalidLevel, key)
	}
	if p.WindStrength < 0 {
		return fmt.Errorf("%w: %s: wind strength must not be negative", ErrInvalidLevel, key)
	}
	if p.StartingFuel < 0 || p.StartingFuel > 100 {
		return fmt.Errorf("%w: %s: starting fuel %v outside [0, 100]", ErrInvalidLevel, key, p.StartingFuel)
	}
	if p.PlatformWidth <= 0 {
		return fmt.Errorf("%w: %s: platform width must be positive", ErrInvalidLevel, key)
	}
	if p.Visibility < 0 || p.Visibility > 1 {
		return fmt.Errorf("%w: %s: visibility %v outside [0, 1]", ErrInvalidLevel, key, p.Visibility)
	}

	if m := p.PlatformMotion; m != nil {
		switch m.Kind {
		case MotionOscillate, MotionDrift:
			if m.Axis != AxisX && m.Axis != AxisY {
				return fmt.Errorf("%w: %s: motion axis %q", ErrInvalidLevel, key, m.Axis)
			}
		case MotionTilt:
		default:
			return fmt.Errorf("%w: %s: unknown motion %q", ErrInvalidLevel, key, m.Kind)
		}
		if m.Amplitude < 0 || m.Frequency < 0 || !finite(m.Amplitude, m.Frequency) {
			return fmt.Errorf("%w: %s: motion amplitude and frequency must be non-negative", ErrInvalidLevel, key)
		}
	}

	targets := 0
	for _, o := range p.Obstacles {
		switch o.Type {
		case ObstaclePlatform, ObstacleAsteroid, ObstacleTerrain:
		default:
			return fmt.Errorf("%w: %s: unknown obstacle type %q", ErrInvalidLevel, key, o.Type)
		}
		if o.Count < 0 || o.Size < 0 {
			return fmt.Errorf("%w: %s: obstacle count and size must be non-negative", ErrInvalidLevel, key)
		}
		if o.IsTarget {
			if o.Type != ObstaclePlatform {
				return fmt.Errorf("%w: %s: only platforms can be the target", ErrInvalidLevel, key)
			}
			targets += o.Count
		}
	}
	if targets != 1 {
		return fmt.Errorf("%w: %s: expected exactly one target platform, found %d", ErrInvalidLevel, key, targets)
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
