// Package formats provides level table file parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLTable represents the YAML structure of a level table file.
type YAMLTable struct {
	Worlds []YAMLWorld `yaml:"worlds"`
}

// YAMLWorld groups the levels of one world kind.
type YAMLWorld struct {
	Kind    string      `yaml:"kind"`
	Gravity *float64    `yaml:"gravity,omitempty"` // default for levels that omit it
	Levels  []YAMLLevel `yaml:"levels"`
}

// YAMLLevel represents one level entry.
type YAMLLevel struct {
	Number       int            `yaml:"number"`
	Name         string         `yaml:"name,omitempty"`
	Gravity      *float64       `yaml:"gravity,omitempty"`
	Wind         float64        `yaml:"wind,omitempty"`
	Platform     YAMLPlatform   `yaml:"platform"`
	StartingFuel float64        `yaml:"starting_fuel"`
	WaveHeight   float64        `yaml:"wave_height,omitempty"`
	Visibility   *float64       `yaml:"visibility,omitempty"`
	Obstacles    []YAMLObstacle `yaml:"obstacles,omitempty"`
}

// YAMLPlatform describes the target platform geometry and motion.
type YAMLPlatform struct {
	Width  float64     `yaml:"width"`
	Depth  float64     `yaml:"depth,omitempty"`
	Offset float64     `yaml:"offset,omitempty"`
	Motion *YAMLMotion `yaml:"motion,omitempty"`
}

// YAMLMotion describes a platform movement pattern.
type YAMLMotion struct {
	Kind      string  `yaml:"kind"`
	Axis      string  `yaml:"axis,omitempty"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
}

// YAMLObstacle represents one obstacle entry.
type YAMLObstacle struct {
	Type   string  `yaml:"type"`
	Count  int     `yaml:"count"`
	Size   float64 `yaml:"size,omitempty"`
	Target bool    `yaml:"target,omitempty"`
}

// Level is a parsed level entry with defaults applied.
type Level struct {
	World        string
	Number       int
	Name         string
	Gravity      float64
	Wind         float64
	Width        float64
	Depth        float64
	Offset       float64
	Motion       *YAMLMotion
	StartingFuel float64
	WaveHeight   float64
	Visibility   float64
	Obstacles    []YAMLObstacle
}

// ParseYAML parses a level table file.
func ParseYAML(data []byte) ([]Level, error) {
	var yt YAMLTable
	if err := yaml.Unmarshal(data, &yt); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	var out []Level
	for _, w := range yt.Worlds {
		for _, yl := range w.Levels {
			lvl := Level{
				World:        w.Kind,
				Number:       yl.Number,
				Name:         yl.Name,
				Wind:         yl.Wind,
				Width:        yl.Platform.Width,
				Depth:        yl.Platform.Depth,
				Offset:       yl.Platform.Offset,
				Motion:       yl.Platform.Motion,
				StartingFuel: yl.StartingFuel,
				WaveHeight:   yl.WaveHeight,
				Visibility:   1.0,
				Obstacles:    yl.Obstacles,
			}
			switch {
			case yl.Gravity != nil:
				lvl.Gravity = *yl.Gravity
			case w.Gravity != nil:
				lvl.Gravity = *w.Gravity
			default:
				return nil, fmt.Errorf("%s level %d: no gravity", w.Kind, yl.Number)
			}
			if yl.Visibility != nil {
				lvl.Visibility = *yl.Visibility
			}
			if lvl.Depth == 0 {
				lvl.Depth = lvl.Width
			}
			if lvl.Name == "" {
				lvl.Name = fmt.Sprintf("%s %d", w.Kind, yl.Number)
			}
			out = append(out, lvl)
		}
	}
	return out, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
