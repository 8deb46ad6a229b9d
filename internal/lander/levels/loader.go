package levels

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vovakirdan/rocket-lander/internal/lander/levels/formats"
)

//go:embed defaults/levels.yaml
var defaultLevelsYAML []byte

// Loader locates and parses level table files.
type Loader struct {
	// Path is an explicit table file. When empty the search order is
	// ~/.lander/levels.yaml -> ./configs/levels.yaml -> embedded table.
	Path string
}

// NewLoader creates a new level loader.
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// Load returns the validated table. A missing file in the search order is
// skipped; a file that exists but does not parse or validate is an error.
func (l *Loader) Load() (*Table, error) {
	if l.Path != "" {
		return LoadFile(l.Path)
	}

	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".lander", "levels.yaml"))
	}
	candidates = append(candidates, filepath.Join("configs", "levels.yaml"))

	for _, path := range candidates {
		t, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return t, err
	}

	return Default()
}

// Default returns the embedded built-in table.
func Default() (*Table, error) {
	t, err := Parse(defaultLevelsYAML)
	if err != nil {
		return nil, fmt.Errorf("levels: embedded table: %w", err)
	}
	return t, nil
}

// LoadFile loads a single table file.
func LoadFile(path string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !isSupportedExtension(ext) {
		return nil, fmt.Errorf("levels: unsupported file %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: reading file %s: %w", path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", path, err)
	}
	return t, nil
}

// Parse converts YAML table data into a validated table.
func Parse(data []byte) (*Table, error) {
	parsed, err := formats.ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	params := make([]Params, 0, len(parsed))
	for _, lvl := range parsed {
		params = append(params, fromFormat(lvl))
	}
	return NewTable(params)
}

func fromFormat(lvl formats.Level) Params {
	p := Params{
		World:         WorldKind(lvl.World),
		LevelNumber:   lvl.Number,
		Name:          lvl.Name,
		Gravity:       lvl.Gravity,
		WindStrength:  lvl.Wind,
		PlatformWidth: lvl.Width,
		PlatformDepth: lvl.Depth,
		TargetOffset:  lvl.Offset,
		StartingFuel:  lvl.StartingFuel,
		WaveHeight:    lvl.WaveHeight,
		Visibility:    lvl.Visibility,
	}
	if m := lvl.Motion; m != nil {
		p.PlatformMotion = &Motion{
			Kind:      MotionKind(m.Kind),
			Axis:      Axis(m.Axis),
			Amplitude: m.Amplitude,
			Frequency: m.Frequency,
		}
	}
	for _, o := range lvl.Obstacles {
		p.Obstacles = append(p.Obstacles, Obstacle{
			Type:     ObstacleType(o.Type),
			Count:    o.Count,
			Size:     o.Size,
			IsTarget: o.Target,
		})
	}
	return p
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
