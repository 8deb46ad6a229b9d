package config

import "math"

// DifficultyManager scales level parameters as a campaign progresses.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// Tuning holds multipliers applied to a level before it is loaded. The
// level's starting fuel is never scaled.
type Tuning struct {
	WindScale      float64
	ThresholdScale float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// Level returns the difficulty level (0.0 to 1.0) for the index-th level
// (zero-based) of a world holding count levels.
func (d *DifficultyManager) Level(index, count int) float64 {
	if !d.cfg.Enabled {
		return d.initialLevel
	}
	if count <= 1 {
		return d.initialLevel
	}

	progress := clampF(float64(index)/float64(count-1), 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Tuning returns the multipliers for the index-th level of a world.
func (d *DifficultyManager) Tuning(index, count int) Tuning {
	level := d.Level(index, count)
	s := d.cfg.Scaling
	return Tuning{
		WindScale:      1.0 + level*s.WindMultiplier,
		ThresholdScale: clampF(1.0-level*s.ThresholdReduction, 0.1, 1.0),
	}
}

// Neutral returns multipliers that leave a level unchanged.
func Neutral() Tuning {
	return Tuning{WindScale: 1, ThresholdScale: 1}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
