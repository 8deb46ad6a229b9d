package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultLanderConfig()
	var embedded LanderConfig
	if err := yaml.Unmarshal(DefaultYAML(), &embedded); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	if embedded != cfg {
		t.Errorf("embedded defaults = %+v, expected %+v", embedded, cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPathOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lander.yaml")
	data := []byte("landing:\n  safe_vertical_speed: 3.5\ncontrol:\n  thrust_force: 120\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Landing.SafeVerticalSpeed != 3.5 {
		t.Errorf("SafeVerticalSpeed = %v, expected 3.5", cfg.Landing.SafeVerticalSpeed)
	}
	if cfg.Control.ThrustForce != 120 {
		t.Errorf("ThrustForce = %v, expected 120", cfg.Control.ThrustForce)
	}
	if cfg.Landing.SafeTiltDegrees != DefaultLanderConfig().Landing.SafeTiltDegrees {
		t.Errorf("SafeTiltDegrees should keep its default, got %v", cfg.Landing.SafeTiltDegrees)
	}
}

func TestLoadRejectsInvalidCustomConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lander.yaml")
	if err := os.WriteFile(path, []byte("control:\n  damping_factor: 1.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, expected ErrInvalidConfig", err)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestParsePreset(t *testing.T) {
	for _, name := range []string{"easy", "normal", "hard", "fixed"} {
		if _, ok := ParsePreset(name); !ok {
			t.Errorf("ParsePreset(%q) should succeed", name)
		}
	}
	if _, ok := ParsePreset("insane"); ok {
		t.Error("ParsePreset(insane) should fail")
	}
}

func TestApplyPresetFixedDisablesProgression(t *testing.T) {
	cfg := DefaultLanderConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultLanderConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset: enabled=%v initial=%v", cfg.Difficulty.Enabled, cfg.Difficulty.InitialLevel)
	}
}

func TestDifficultyLevelInterpolates(t *testing.T) {
	d := NewDifficultyManager(DefaultLanderConfig().Difficulty)

	tests := []struct {
		index, count int
		expected     float64
	}{
		{0, 5, 0.0},
		{2, 5, 0.5},
		{4, 5, 1.0},
		{9, 5, 1.0},
		{0, 1, 0.0},
	}
	for _, tc := range tests {
		if got := d.Level(tc.index, tc.count); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Level(%d, %d) = %v, expected %v", tc.index, tc.count, got, tc.expected)
		}
	}

	d.SetEnabled(false)
	d.SetInitialLevel(0.3)
	if got := d.Level(4, 5); got != 0.3 {
		t.Errorf("disabled manager Level = %v, expected initial 0.3", got)
	}
}

func TestDifficultyTuning(t *testing.T) {
	d := NewDifficultyManager(DefaultLanderConfig().Difficulty)

	first := d.Tuning(0, 3)
	if first != Neutral() {
		t.Errorf("first level tuning = %+v, expected neutral", first)
	}

	last := d.Tuning(2, 3)
	if last.WindScale != 2.0 {
		t.Errorf("WindScale = %v, expected 2.0", last.WindScale)
	}
	if math.Abs(last.ThresholdScale-0.7) > 1e-9 {
		t.Errorf("ThresholdScale = %v, expected 0.7", last.ThresholdScale)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() without files error: %v", err)
	}
	if cfg != DefaultLanderConfig() {
		t.Errorf("Load() without files = %+v, expected defaults", cfg)
	}

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	local := filepath.Join("configs", "lander.yaml")
	if err := os.WriteFile(local, []byte("control:\n  thrust_force: 120\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if cfg, err = Load(""); err != nil || cfg.Control.ThrustForce != 120 {
		t.Errorf("Load() with ./configs = thrust %v, %v, expected 120", cfg.Control.ThrustForce, err)
	}

	user := UserConfigPath("lander.yaml")
	if err := os.MkdirAll(filepath.Dir(user), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(user, []byte("control:\n  damping_factor: 1.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() with an invalid user config = %v, expected ErrInvalidConfig", err)
	}
}
